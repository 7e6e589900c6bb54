package mesh

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// MaterialFloats is the number of float32 values in a serialized Material.
const MaterialFloats = 13

// Material is a per-vertex lighting descriptor.
type Material struct {
	Ambient   mgl32.Vec4 // RGBA
	Diffuse   mgl32.Vec4 // RGBA
	Specular  mgl32.Vec4 // RGBA
	Shininess float32
}

// Floats returns the material in serialized field order.
func (m Material) Floats() [MaterialFloats]float32 {
	var f [MaterialFloats]float32
	copy(f[0:4], m.Ambient[:])
	copy(f[4:8], m.Diffuse[:])
	copy(f[8:12], m.Specular[:])
	f[12] = m.Shininess
	return f
}

// MaterialFromFloats is the inverse of Material.Floats.
func MaterialFromFloats(f [MaterialFloats]float32) Material {
	return Material{
		Ambient:   mgl32.Vec4{f[0], f[1], f[2], f[3]},
		Diffuse:   mgl32.Vec4{f[4], f[5], f[6], f[7]},
		Specular:  mgl32.Vec4{f[8], f[9], f[10], f[11]},
		Shininess: f[12],
	}
}

// Preset materials.
var (
	Gold = Material{
		Ambient:   mgl32.Vec4{0.2473, 0.1995, 0.0745, 1.0},
		Diffuse:   mgl32.Vec4{0.7516, 0.6065, 0.2265, 1.0},
		Specular:  mgl32.Vec4{0.6283, 0.5558, 0.3661, 1.0},
		Shininess: 51.2,
	}
	Jade = Material{
		Ambient:   mgl32.Vec4{0.135, 0.2225, 0.1575, 0.95},
		Diffuse:   mgl32.Vec4{0.54, 0.89, 0.63, 0.95},
		Specular:  mgl32.Vec4{0.3162, 0.3162, 0.3162, 0.95},
		Shininess: 12.8,
	}
	Pearl = Material{
		Ambient:   mgl32.Vec4{0.25, 0.2073, 0.2073, 0.922},
		Diffuse:   mgl32.Vec4{1.0, 0.829, 0.829, 0.922},
		Specular:  mgl32.Vec4{0.2966, 0.2966, 0.2966, 0.922},
		Shininess: 51.2,
	}
	Silver = Material{
		Ambient:   mgl32.Vec4{0.1923, 0.1923, 0.1923, 1.0},
		Diffuse:   mgl32.Vec4{0.5075, 0.5075, 0.5075, 1.0},
		Specular:  mgl32.Vec4{0.5083, 0.5083, 0.5083, 1.0},
		Shininess: 51.2,
	}
)

// Landscape constants. Only the diffuse colour varies with height.
var (
	LandscapeAmbient  = mgl32.Vec4{0.1, 0.1, 0.1, 1.0}
	LandscapeSpecular = mgl32.Vec4{0.1, 0.1, 0.1, 1.0}
)

// LandscapeShininess is the shininess of every landscape sample.
const LandscapeShininess float32 = 0.01

// landscapeBands maps an exclusive height ceiling to a diffuse colour.
// Heights at or above the last ceiling are snow.
var landscapeBands = []struct {
	below  float32
	colour mgl32.Vec4
}{
	{0.32, mgl32.Vec4{0.0, 0.3922, 0.0, 1.0}},       // deep green
	{0.35, mgl32.Vec4{0.0, 0.5, 0.0, 1.0}},          // mid green
	{0.40, mgl32.Vec4{0.4196, 0.5569, 0.1373, 1.0}}, // olive
	{0.45, mgl32.Vec4{0.8672, 0.7216, 0.5294, 1.0}}, // tan
	{0.50, mgl32.Vec4{0.5, 0.5, 0.5, 1.0}},          // rock
}

var landscapeTop = mgl32.Vec4{1.0, 1.0, 1.0, 1.0}

// LandscapeDiffuse returns the diffuse colour for a vertex height (its y
// coordinate).
func LandscapeDiffuse(height float32) mgl32.Vec4 {
	for _, b := range landscapeBands {
		if height < b.below {
			return b.colour
		}
	}
	return landscapeTop
}

// Choice selects how per-vertex materials are generated.
type Choice int

// Material choices.
const (
	ChoiceGold Choice = iota
	ChoiceJade
	ChoicePearl
	ChoiceSilver
	ChoiceLandscape
)

var choiceNames = [...]string{"gold", "jade", "pearl", "silver", "landscape"}

// String returns the lower-case choice name.
func (c Choice) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
	return choiceNames[c]
}

// Valid returns true for the five known choices.
func (c Choice) Valid() bool {
	return c >= ChoiceGold && c <= ChoiceLandscape
}

// ParseChoice parses a material name, ignoring case.
func ParseChoice(name string) (Choice, error) {
	for i, n := range choiceNames {
		if strings.EqualFold(name, n) {
			return Choice(i), nil
		}
	}
	return 0, fmt.Errorf("unknown material %q: choose one of %s", name, strings.Join(choiceNames[:], ", "))
}

// Sample returns the material for a vertex at position p.
func Sample(c Choice, p mgl32.Vec3) Material {
	switch c {
	case ChoiceGold:
		return Gold
	case ChoiceJade:
		return Jade
	case ChoicePearl:
		return Pearl
	case ChoiceSilver:
		return Silver
	case ChoiceLandscape:
		return Material{
			Ambient:   LandscapeAmbient,
			Diffuse:   LandscapeDiffuse(p.Y()),
			Specular:  LandscapeSpecular,
			Shininess: LandscapeShininess,
		}
	default:
		return Material{}
	}
}
