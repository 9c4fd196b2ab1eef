package core

import "github.com/lumen-render/lumen/pkg/color"

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a ray, normalizing the direction
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point along the ray at parametric distance t
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Clip bounds the parametric interval of a ray query.
type Clip struct {
	Min float64
	Max float64
}

// Face classifies which side of a surface (or where inside a volume) a
// ray interaction happened.
type Face uint8

const (
	// FaceFront is a hit on the outward-facing side of a surface
	FaceFront Face = iota
	// FaceBack is a hit on the inward-facing side of a surface
	FaceBack
	// FaceVolume is a scattering event inside a participating medium
	FaceVolume
	// FaceVolumeFront is a hit entering a volume boundary
	FaceVolumeFront
	// FaceVolumeBack is a hit leaving a volume boundary
	FaceVolumeBack
)

// IsFront reports whether the interaction faces the incoming ray
func (f Face) IsFront() bool {
	return f == FaceFront || f == FaceVolumeFront
}

// IsBack reports whether the interaction faces away from the incoming ray
func (f Face) IsBack() bool {
	return f == FaceBack || f == FaceVolumeBack
}

// IsSurface reports whether the interaction is on a plain surface
func (f Face) IsSurface() bool {
	return f == FaceFront || f == FaceBack
}

// IsVolume reports whether the interaction involves a participating medium
func (f Face) IsVolume() bool {
	return f == FaceVolume || f == FaceVolumeFront || f == FaceVolumeBack
}

// MaterialRef is a handle into the material arena. The zero value refers
// to the root (environment) material.
type MaterialRef int

// Root is the handle of the environment material.
const Root MaterialRef = 0

// Index converts a non-root handle into an arena index.
func (m MaterialRef) Index() int {
	return int(m) - 1
}

// ObjectFlags carries renderer-facing object attributes.
type ObjectFlags uint32

// FlagLight marks a primitive as an emissive light source that the
// direct-light sampling lobe may target.
const FlagLight ObjectFlags = 1 << 0

// Has reports whether all the given flags are set
func (f ObjectFlags) Has(flags ObjectFlags) bool {
	return f&flags == flags
}

// Manifold records where and how a ray intersected scene geometry.
// It is produced by a hit query and consumed immediately by the shading
// step; it is never stored.
type Manifold struct {
	Position Vec3
	Normal   Vec3
	Aabb     AABB
	Face     Face
	T        float64
	Ray      Ray
	Material MaterialRef
}

// ColorData carries the per-channel results of one shading interaction.
type ColorData struct {
	Color   color.LinearRgb
	Albedo  color.LinearRgb
	Emitted color.LinearRgb
	Normal  Vec3
	Depth   float64
}
