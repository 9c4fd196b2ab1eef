package core

import "math/rand"

// Primitive is the contract between the spatial index and scene
// geometry. Implementations must be safe for concurrent reads: a render
// pass queries the index from many workers at once.
type Primitive interface {
	// Flags returns renderer-facing attributes such as FlagLight
	Flags() ObjectFlags

	// BoundingBox returns the world-space bounds of the primitive
	BoundingBox() AABB

	// Hit returns the nearest intersection within clip, if any
	Hit(ray Ray, clip Clip) (Manifold, bool)

	// Pdf returns the density of hitting this primitive with the given
	// ray, converted to a density over directions. ok is false when the
	// ray misses or the density underflows.
	Pdf(ray Ray, clip Clip) (pdf float64, ok bool)

	// RandomPoint returns a uniformly sampled point on the primitive,
	// used to aim the direct-light sampling lobe.
	RandomPoint(rng *rand.Rand) Vec3
}
