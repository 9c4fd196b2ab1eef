package geometry

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-render/lumen/pkg/core"
)

func TestCuboidHitNearestFace(t *testing.T) {
	cuboid := NewCuboid(core.NewVec3(0, 0, -5), core.NewVec3(1, 1, 1), core.MaterialRef(1))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	manifold, ok := cuboid.Hit(ray, testClip)
	require.True(t, ok)

	assert.InDelta(t, 4.0, manifold.T, 1e-9)
	assert.InDelta(t, 1.0, manifold.Normal.Z, 1e-9)
	assert.Equal(t, core.FaceFront, manifold.Face)
}

func TestCuboidHitReportsWholeBoxBounds(t *testing.T) {
	cuboid := NewCuboid(core.NewVec3(0, 0, -5), core.NewVec3(1, 2, 1), core.MaterialRef(1))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	manifold, ok := cuboid.Hit(ray, testClip)
	require.True(t, ok)

	// Volume walks need the extent of the whole medium, not the face.
	assert.Equal(t, cuboid.BoundingBox(), manifold.Aabb)
}

func TestCuboidHitFromInside(t *testing.T) {
	cuboid := NewCuboid(core.NewVec3(0, 0, 0), core.NewVec3(2, 2, 2), core.MaterialRef(1))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))

	manifold, ok := cuboid.Hit(ray, testClip)
	require.True(t, ok)
	assert.InDelta(t, 2.0, manifold.T, 1e-9)
	assert.Equal(t, core.FaceBack, manifold.Face)
}

func TestCuboidMiss(t *testing.T) {
	cuboid := NewCuboid(core.NewVec3(0, 10, -5), core.NewVec3(1, 1, 1), core.MaterialRef(1))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	_, ok := cuboid.Hit(ray, testClip)
	assert.False(t, ok)

	_, ok = cuboid.Pdf(ray, testClip)
	assert.False(t, ok)
}

func TestCuboidVolumetricFaces(t *testing.T) {
	cuboid := NewCuboid(core.NewVec3(0, 0, -5), core.NewVec3(1, 1, 1), core.MaterialRef(1))
	cuboid.Volumetric = true

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	manifold, ok := cuboid.Hit(ray, testClip)
	require.True(t, ok)
	assert.Equal(t, core.FaceVolumeFront, manifold.Face)
}

func TestCuboidPdfMatchesHitFace(t *testing.T) {
	cuboid := NewCuboid(core.NewVec3(0, 0, -5), core.NewVec3(1, 1, 1), core.MaterialRef(1))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	pdf, ok := cuboid.Pdf(ray, testClip)
	require.True(t, ok)
	// The +Z face is a 2x2 rect hit head-on at distance 4: 16/4.
	assert.InDelta(t, 4.0, pdf, 1e-9)
}

func TestCuboidRandomPointOnSurface(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	cuboid := NewCuboid(core.NewVec3(1, 2, 3), core.NewVec3(1, 2, 0.5), core.MaterialRef(1))
	box := cuboid.BoundingBox()

	for i := 0; i < 600; i++ {
		point := cuboid.RandomPoint(rng)
		require.True(t, box.Contains(point))

		// The point must lie on one of the six boundary planes.
		onFace := point.X == box.Min.X || point.X == box.Max.X ||
			point.Y == box.Min.Y || point.Y == box.Max.Y ||
			point.Z == box.Min.Z || point.Z == box.Max.Z
		assert.True(t, onFace)
	}
}

func TestCuboidBoundingBox(t *testing.T) {
	cuboid := NewCuboid(core.NewVec3(1, -1, 2), core.NewVec3(0.5, 1, 2), core.MaterialRef(1))
	box := cuboid.BoundingBox()

	assert.Equal(t, core.NewVec3(0.5, -2, 0), box.Min)
	assert.Equal(t, core.NewVec3(1.5, 0, 4), box.Max)
}
