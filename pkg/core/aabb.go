package core

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max corners
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Size returns the extent of the box along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// Area returns the product of the box extents. An inverted (empty
// intersection) box degenerates to a non-positive value, which Overlap
// callers treat as zero coverage.
func (aabb AABB) Area() float64 {
	size := aabb.Size()
	return size.X * size.Y * size.Z
}

// Union returns the smallest box containing both boxes
func (aabb AABB) Union(other AABB) AABB {
	return AABB{Min: aabb.Min.Min(other.Min), Max: aabb.Max.Max(other.Max)}
}

// Intersection returns the overlapping region of both boxes. The result
// may be inverted when the boxes are disjoint.
func (aabb AABB) Intersection(other AABB) AABB {
	return AABB{Min: aabb.Min.Max(other.Min), Max: aabb.Max.Min(other.Max)}
}

// Overlap returns the signed volume of the intersection of both boxes
func (aabb AABB) Overlap(other AABB) float64 {
	return aabb.Intersection(other).Area()
}

// MapInto normalizes a point into the box's [0,1]³ coordinate space
func (aabb AABB) MapInto(point Vec3) Vec3 {
	size := aabb.Size()
	offset := point.Subtract(aabb.Min)
	return Vec3{X: offset.X / size.X, Y: offset.Y / size.Y, Z: offset.Z / size.Z}
}

// Contains reports whether the point lies inside the box, inclusive of
// its faces
func (aabb AABB) Contains(point Vec3) bool {
	return point.X >= aabb.Min.X && point.X <= aabb.Max.X &&
		point.Y >= aabb.Min.Y && point.Y <= aabb.Max.Y &&
		point.Z >= aabb.Min.Z && point.Z <= aabb.Max.Z
}

// IsValid reports whether min <= max on all axes
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// Hit tests the ray against the box with the slab method, using the
// reciprocal of the direction so that a zero component yields a signed
// infinity which flows through the min/max sequence without special
// casing. Fails fast as soon as the [tMin, tMax] window inverts.
func (aabb AABB) Hit(ray Ray, clip Clip) bool {
	tMin := clip.Min
	tMax := clip.Max

	for axis := 0; axis < 3; axis++ {
		min := aabb.Min.Component(axis)
		max := aabb.Max.Component(axis)
		origin := ray.Origin.Component(axis)
		direction := ray.Direction.Component(axis)

		dRecip := 1.0 / direction
		t0 := (min - origin) * dRecip
		t1 := (max - origin) * dRecip
		if dRecip < 0 {
			t0, t1 = t1, t0
		}

		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax <= tMin {
			return false
		}
	}

	return true
}
