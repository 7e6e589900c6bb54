// Package formats provides decoders and encoders for binary mesh formats.
package formats

// Note: B3D (compact binary mesh) is implemented in b3d.go
// Note: MT (renderer-ready mesh, headerless) is implemented in mt.go
// Note: Wavefront OBJ (text scene source) is parsed in obj.go
