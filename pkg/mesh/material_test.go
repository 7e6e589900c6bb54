package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestLandscapeDiffuse(t *testing.T) {
	tests := []struct {
		height   float32
		expected mgl32.Vec3
	}{
		{-1.0, mgl32.Vec3{0, 0.3922, 0}},
		{0.30, mgl32.Vec3{0, 0.3922, 0}},
		{0.32, mgl32.Vec3{0, 0.5, 0}},
		{0.34, mgl32.Vec3{0, 0.5, 0}},
		{0.35, mgl32.Vec3{0.4196, 0.5569, 0.1373}},
		{0.42, mgl32.Vec3{0.8672, 0.7216, 0.5294}},
		{0.47, mgl32.Vec3{0.5, 0.5, 0.5}},
		{0.50, mgl32.Vec3{1, 1, 1}},
		{0.9, mgl32.Vec3{1, 1, 1}},
	}

	for _, tc := range tests {
		got := LandscapeDiffuse(tc.height)
		if got.Vec3() != tc.expected {
			t.Errorf("LandscapeDiffuse(%v) = %v, expected %v", tc.height, got.Vec3(), tc.expected)
		}
		if got.W() != 1 {
			t.Errorf("LandscapeDiffuse(%v) alpha = %v, expected 1", tc.height, got.W())
		}
	}
}

func TestSample_Landscape(t *testing.T) {
	m := Sample(ChoiceLandscape, mgl32.Vec3{5, 0.47, -5})

	if m.Ambient != LandscapeAmbient {
		t.Errorf("unexpected ambient %v", m.Ambient)
	}
	if m.Specular != LandscapeSpecular {
		t.Errorf("unexpected specular %v", m.Specular)
	}
	if m.Shininess != LandscapeShininess {
		t.Errorf("unexpected shininess %v", m.Shininess)
	}
	if m.Diffuse != (mgl32.Vec4{0.5, 0.5, 0.5, 1}) {
		t.Errorf("unexpected diffuse %v", m.Diffuse)
	}
}

func TestSample_Presets(t *testing.T) {
	tests := []struct {
		choice   Choice
		expected Material
	}{
		{ChoiceGold, Gold},
		{ChoiceJade, Jade},
		{ChoicePearl, Pearl},
		{ChoiceSilver, Silver},
	}

	for _, tc := range tests {
		// Presets ignore the vertex position.
		for _, y := range []float32{0, 0.4, 10} {
			if got := Sample(tc.choice, mgl32.Vec3{0, y, 0}); got != tc.expected {
				t.Errorf("Sample(%s, y=%v) = %+v, expected %+v", tc.choice, y, got, tc.expected)
			}
		}
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name     string
		expected Choice
		wantErr  bool
	}{
		{"gold", ChoiceGold, false},
		{"GOLD", ChoiceGold, false},
		{"Jade", ChoiceJade, false},
		{"pearl", ChoicePearl, false},
		{"Silver", ChoiceSilver, false},
		{"LandScape", ChoiceLandscape, false},
		{"bronze", 0, true},
		{"", 0, true},
	}

	for _, tc := range tests {
		got, err := ParseChoice(tc.name)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseChoice(%q) error = %v, wantErr %v", tc.name, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.expected {
			t.Errorf("ParseChoice(%q) = %s, expected %s", tc.name, got, tc.expected)
		}
	}
}

func TestChoice_String(t *testing.T) {
	if ChoiceLandscape.String() != "landscape" {
		t.Errorf("expected landscape, got %s", ChoiceLandscape)
	}
	if Choice(42).String() != "Unknown(42)" {
		t.Errorf("expected Unknown(42), got %s", Choice(42))
	}
}

func TestMaterial_Floats(t *testing.T) {
	f := Gold.Floats()

	expected := [MaterialFloats]float32{
		0.2473, 0.1995, 0.0745, 1.0,
		0.7516, 0.6065, 0.2265, 1.0,
		0.6283, 0.5558, 0.3661, 1.0,
		51.2,
	}
	if f != expected {
		t.Errorf("Gold.Floats() = %v, expected %v", f, expected)
	}

	if MaterialFromFloats(f) != Gold {
		t.Error("MaterialFromFloats did not invert Floats")
	}
}
