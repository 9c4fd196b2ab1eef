package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSphere is a minimal primitive for index tests: a sphere with an
// identity so traversal results can be compared as sets.
type mockSphere struct {
	id     int
	center Vec3
	radius float64
	flags  ObjectFlags
}

func (m *mockSphere) Flags() ObjectFlags {
	return m.flags
}

func (m *mockSphere) BoundingBox() AABB {
	extent := Splat(m.radius)
	return NewAABB(m.center.Subtract(extent), m.center.Add(extent))
}

func (m *mockSphere) Hit(ray Ray, clip Clip) (Manifold, bool) {
	oc := ray.Origin.Subtract(m.center)
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - m.radius*m.radius

	discriminant := halfB*halfB - c
	if discriminant < 0 {
		return Manifold{}, false
	}

	sqrtD := math.Sqrt(discriminant)
	t := -halfB - sqrtD
	if t < clip.Min || t > clip.Max {
		t = -halfB + sqrtD
		if t < clip.Min || t > clip.Max {
			return Manifold{}, false
		}
	}

	position := ray.At(t)
	return Manifold{
		Position: position,
		Normal:   position.Subtract(m.center).Normalize(),
		Aabb:     m.BoundingBox(),
		T:        t,
		Ray:      ray,
	}, true
}

func (m *mockSphere) Pdf(ray Ray, clip Clip) (float64, bool) {
	manifold, ok := m.Hit(ray, clip)
	if !ok {
		return 0, false
	}
	return manifold.T * manifold.T / (math.Pi * m.radius * m.radius), true
}

func (m *mockSphere) RandomPoint(rng *rand.Rand) Vec3 {
	return m.center.Add(SampleUnitSphere(rng).Multiply(m.radius))
}

func randomSpheres(rng *rand.Rand, n int) []*mockSphere {
	spheres := make([]*mockSphere, n)
	for i := range spheres {
		spheres[i] = &mockSphere{
			id: i,
			center: NewVec3(
				rng.Float64()*20-10,
				rng.Float64()*20-10,
				rng.Float64()*20-10,
			),
			radius: rng.Float64()*0.9 + 0.1,
		}
	}
	return spheres
}

func TestBVHEmpty(t *testing.T) {
	bvh := NewBVH()

	assert.True(t, bvh.IsEmpty())
	assert.Equal(t, 0, bvh.Len())
	assert.Equal(t, 0, bvh.Height())

	_, ok := bvh.Hit(NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, -1)), Clip{Min: 0.001, Max: 1000})
	assert.False(t, ok)

	_, ok = bvh.Iter().Next()
	assert.False(t, ok)
}

func TestBVHInsertTracksLen(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	bvh := NewBVH()

	for i, sphere := range randomSpheres(rng, 64) {
		bvh.Insert(sphere)
		assert.Equal(t, i+1, bvh.Len())
	}
}

// checkBalanced walks the tree verifying the AVL property at every
// parent and that cached heights and boxes are consistent.
func checkBalanced(t *testing.T, n *bvhNode) (height int) {
	t.Helper()

	switch n.kind {
	case nodeLeaf:
		assert.Equal(t, 0, n.height)
		return 0
	case nodeParent:
		left := checkBalanced(t, n.left)
		right := checkBalanced(t, n.right)

		balance := right - left
		assert.GreaterOrEqual(t, balance, -1)
		assert.LessOrEqual(t, balance, 1)

		expected := left
		if right > expected {
			expected = right
		}
		expected++
		assert.Equal(t, expected, n.height)

		union := n.left.aabb.Union(n.right.aabb)
		assert.Equal(t, union, n.aabb)
		return expected
	default:
		t.Fatal("observed transient empty node")
		return 0
	}
}

func TestBVHStaysBalanced(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	bvh := NewBVH()

	for _, sphere := range randomSpheres(rng, 256) {
		bvh.Insert(sphere)
		checkBalanced(t, bvh.root)
	}

	// Height of a balanced tree over n leaves stays logarithmic.
	assert.LessOrEqual(t, bvh.Height(), 2*int(math.Ceil(math.Log2(256)))+1)
}

func TestBVHIterVisitsEveryPrimitiveOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	spheres := randomSpheres(rng, 100)

	bvh := NewBVH()
	for _, sphere := range spheres {
		bvh.Insert(sphere)
	}

	seen := make(map[int]int)
	for iter := bvh.Iter(); ; {
		object, ok := iter.Next()
		if !ok {
			break
		}
		seen[object.(*mockSphere).id]++
	}

	require.Len(t, seen, len(spheres))
	for id, count := range seen {
		assert.Equal(t, 1, count, "sphere %d visited %d times", id, count)
	}
}

func TestBVHHitMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	spheres := randomSpheres(rng, 80)

	bvh := NewBVH()
	for _, sphere := range spheres {
		bvh.Insert(sphere)
	}

	clip := Clip{Min: 0.001, Max: 1000}
	for i := 0; i < 500; i++ {
		ray := NewRay(
			NewVec3(rng.Float64()*30-15, rng.Float64()*30-15, rng.Float64()*30-15),
			SampleUnitSphere(rng),
		)

		var best Manifold
		found := false
		for _, sphere := range spheres {
			if manifold, ok := sphere.Hit(ray, clip); ok && (!found || manifold.T < best.T) {
				best = manifold
				found = true
			}
		}

		manifold, ok := bvh.Hit(ray, clip)
		require.Equal(t, found, ok)
		if found {
			assert.InDelta(t, best.T, manifold.T, 1e-9)
		}
	}
}

func TestBVHHitRespectsClip(t *testing.T) {
	near := &mockSphere{id: 0, center: NewVec3(0, 0, -5), radius: 1}
	far := &mockSphere{id: 1, center: NewVec3(0, 0, -20), radius: 1}

	bvh := NewBVH()
	bvh.Insert(near)
	bvh.Insert(far)

	ray := NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, -1))

	manifold, ok := bvh.Hit(ray, Clip{Min: 0.001, Max: 1000})
	require.True(t, ok)
	assert.InDelta(t, 4.0, manifold.T, 1e-9)

	// Clipping out the near sphere exposes the far one.
	manifold, ok = bvh.Hit(ray, Clip{Min: 10, Max: 1000})
	require.True(t, ok)
	assert.InDelta(t, 19.0, manifold.T, 1e-9)

	_, ok = bvh.Hit(ray, Clip{Min: 0.001, Max: 2.0})
	assert.False(t, ok)
}

func TestBuildBVH(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	spheres := randomSpheres(rng, 32)

	objects := make([]Primitive, len(spheres))
	for i, sphere := range spheres {
		objects[i] = sphere
	}

	bvh := BuildBVH(objects)
	assert.Equal(t, len(spheres), bvh.Len())
	checkBalanced(t, bvh.root)
}
