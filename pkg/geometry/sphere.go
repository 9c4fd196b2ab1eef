// Package geometry provides the world-space primitives that populate the
// spatial index: spheres, oriented rectangles and cuboids. Every shape
// reports hits as a Manifold and supports the direct-light sampling
// queries (Pdf, RandomPoint).
package geometry

import (
	"math"
	"math/rand"

	"github.com/lumen-render/lumen/pkg/core"
)

// Sphere is a world-space sphere.
type Sphere struct {
	Center   core.Vec3        `json:"center"`
	Radius   float64          `json:"radius"`
	Material core.MaterialRef `json:"material"`

	// ObjectFlags carries renderer attributes such as core.FlagLight
	ObjectFlags core.ObjectFlags `json:"flags,omitempty"`

	// Volumetric marks the sphere as a participating-medium boundary;
	// hits then report volume faces instead of surface faces.
	Volumetric bool `json:"volumetric,omitempty"`
}

// NewSphere creates a sphere with the given center, radius and material
func NewSphere(center core.Vec3, radius float64, material core.MaterialRef) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: material}
}

// Flags returns the renderer attributes of the sphere
func (s *Sphere) Flags() core.ObjectFlags {
	return s.ObjectFlags
}

// BoundingBox returns the axis-aligned bounds of the sphere
func (s *Sphere) BoundingBox() core.AABB {
	extent := core.Splat(s.Radius)
	return core.NewAABB(s.Center.Subtract(extent), s.Center.Add(extent))
}

// Hit returns the nearest ray-sphere intersection within clip
func (s *Sphere) Hit(ray core.Ray, clip core.Clip) (core.Manifold, bool) {
	oc := ray.Origin.Subtract(s.Center)
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - c
	if discriminant < 0 {
		return core.Manifold{}, false
	}

	sqrtD := math.Sqrt(discriminant)
	t := -halfB - sqrtD
	if t < clip.Min || t > clip.Max {
		t = -halfB + sqrtD
		if t < clip.Min || t > clip.Max {
			return core.Manifold{}, false
		}
	}

	position := ray.At(t)
	normal := position.Subtract(s.Center).Multiply(1.0 / s.Radius)

	face := core.FaceFront
	if s.Volumetric {
		face = core.FaceVolumeFront
	}
	if ray.Direction.Dot(normal) > 0 {
		normal = normal.Negate()
		if s.Volumetric {
			face = core.FaceVolumeBack
		} else {
			face = core.FaceBack
		}
	}

	return core.Manifold{
		Position: position,
		Normal:   normal,
		Aabb:     s.BoundingBox(),
		Face:     face,
		T:        t,
		Ray:      ray,
		Material: s.Material,
	}, true
}

// Pdf returns the density over directions of hitting the sphere with the
// given ray
func (s *Sphere) Pdf(ray core.Ray, clip core.Clip) (float64, bool) {
	manifold, ok := s.Hit(ray, clip)
	if !ok {
		return 0, false
	}
	area := math.Pi * s.Radius * s.Radius
	return manifold.T * manifold.T / area, true
}

// RandomPoint returns a uniformly sampled point on the sphere surface
func (s *Sphere) RandomPoint(rng *rand.Rand) core.Vec3 {
	return s.Center.Add(core.SampleUnitSphere(rng).Multiply(s.Radius))
}
