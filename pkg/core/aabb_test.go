package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func randomBox(rng *rand.Rand) AABB {
	center := NewVec3(rng.Float64()*10-5, rng.Float64()*10-5, rng.Float64()*10-5)
	extent := NewVec3(rng.Float64()*3, rng.Float64()*3, rng.Float64()*3)
	return NewAABB(center.Subtract(extent), center.Add(extent))
}

func TestAABBSizeArea(t *testing.T) {
	box := NewAABB(NewVec3(-1, -2, -3), NewVec3(1, 2, 3))

	assert.Equal(t, NewVec3(2, 4, 6), box.Size())
	assert.Equal(t, 48.0, box.Area())
}

func TestAABBUnionContainsBoth(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 100; i++ {
		a := randomBox(rng)
		b := randomBox(rng)
		union := a.Union(b)

		assert.True(t, union.Contains(a.Min))
		assert.True(t, union.Contains(a.Max))
		assert.True(t, union.Contains(b.Min))
		assert.True(t, union.Contains(b.Max))
	}
}

func TestAABBUnionCommutes(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 100; i++ {
		a := randomBox(rng)
		b := randomBox(rng)
		assert.Equal(t, a.Union(b), b.Union(a))
	}
}

func TestAABBIntersectionWithinUnion(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 100; i++ {
		a := randomBox(rng)
		b := randomBox(rng)

		intersection := a.Intersection(b)
		if !intersection.IsValid() {
			continue
		}
		union := a.Union(b)
		assert.True(t, union.Contains(intersection.Min))
		assert.True(t, union.Contains(intersection.Max))
	}
}

func TestAABBOverlap(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(2, 2, 2))
	b := NewAABB(NewVec3(1, 1, 1), NewVec3(3, 3, 3))

	assert.Equal(t, 1.0, a.Overlap(b))
	assert.Equal(t, a.Overlap(b), b.Overlap(a))

	// Disjoint boxes degenerate to non-positive overlap.
	c := NewAABB(NewVec3(5, 5, 5), NewVec3(6, 6, 6))
	assert.LessOrEqual(t, a.Overlap(c), 0.0)

	// Self-overlap is the full volume.
	assert.Equal(t, a.Area(), a.Overlap(a))
}

func TestAABBMapInto(t *testing.T) {
	box := NewAABB(NewVec3(-2, 0, 4), NewVec3(2, 2, 8))

	assert.Equal(t, NewVec3(0.5, 0.5, 0.5), box.MapInto(NewVec3(0, 1, 6)))
	assert.Equal(t, NewVec3(0, 0, 0), box.MapInto(box.Min))
	assert.Equal(t, NewVec3(1, 1, 1), box.MapInto(box.Max))
}

func TestAABBHitStraightOn(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	clip := Clip{Min: 0.001, Max: 1000}

	ray := NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1))
	assert.True(t, box.Hit(ray, clip))

	miss := NewRay(NewVec3(0, 5, 5), NewVec3(0, 0, -1))
	assert.False(t, box.Hit(miss, clip))
}

func TestAABBHitAxisParallelRay(t *testing.T) {
	// A ray with zero direction components produces infinities in the
	// slab test; they must flow through without special casing.
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	clip := Clip{Min: 0.001, Max: 1000}

	inside := NewRay(NewVec3(0.5, 0.5, 5), NewVec3(0, 0, -1))
	assert.True(t, box.Hit(inside, clip))

	outside := NewRay(NewVec3(1.5, 0.5, 5), NewVec3(0, 0, -1))
	assert.False(t, box.Hit(outside, clip))
}

func TestAABBHitRespectsClip(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	ray := NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1))

	assert.True(t, box.Hit(ray, Clip{Min: 0.001, Max: 1000}))
	assert.False(t, box.Hit(ray, Clip{Min: 0.001, Max: 3.0}), "box starts at t=4")
	assert.False(t, box.Hit(ray, Clip{Min: 7.0, Max: 1000}), "box ends at t=6")
}

func TestAABBHitFromInside(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	ray := NewRay(NewVec3(0, 0, 0), NewVec3(1, 1, 1))

	assert.True(t, box.Hit(ray, Clip{Min: 0.001, Max: 1000}))
}

func TestAABBContains(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))

	assert.True(t, box.Contains(NewVec3(0.5, 0.5, 0.5)))
	assert.True(t, box.Contains(box.Min))
	assert.True(t, box.Contains(box.Max))
	assert.False(t, box.Contains(NewVec3(1.5, 0.5, 0.5)))
	assert.False(t, box.Contains(NewVec3(0.5, -math.SmallestNonzeroFloat64, 0.5)))
}
