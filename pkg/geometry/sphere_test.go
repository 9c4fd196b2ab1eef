package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-render/lumen/pkg/core"
)

var testClip = core.Clip{Min: 0.001, Max: 1000}

func TestSphereHitFrontFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -5), 1, core.MaterialRef(1))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	manifold, ok := sphere.Hit(ray, testClip)
	require.True(t, ok)

	assert.InDelta(t, 4.0, manifold.T, 1e-9)
	assert.InDelta(t, 1.0, manifold.Normal.Z, 1e-9)
	assert.Equal(t, core.FaceFront, manifold.Face)
	assert.Equal(t, core.MaterialRef(1), manifold.Material)
}

func TestSphereHitBackFaceFromInside(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 2, core.MaterialRef(1))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	manifold, ok := sphere.Hit(ray, testClip)
	require.True(t, ok)

	assert.InDelta(t, 2.0, manifold.T, 1e-9)
	assert.Equal(t, core.FaceBack, manifold.Face)
	// The normal is flipped to face the ray origin.
	assert.InDelta(t, 1.0, manifold.Normal.Z, 1e-9)
}

func TestSphereHitVolumetricFaces(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -5), 1, core.MaterialRef(1))
	sphere.Volumetric = true

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	manifold, ok := sphere.Hit(ray, testClip)
	require.True(t, ok)
	assert.Equal(t, core.FaceVolumeFront, manifold.Face)

	inside := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, -1))
	manifold, ok = sphere.Hit(inside, testClip)
	require.True(t, ok)
	assert.Equal(t, core.FaceVolumeBack, manifold.Face)
}

func TestSphereMiss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 5, -5), 1, core.MaterialRef(1))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	_, ok := sphere.Hit(ray, testClip)
	assert.False(t, ok)

	_, ok = sphere.Pdf(ray, testClip)
	assert.False(t, ok)
}

func TestSphereHitRespectsClip(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -5), 1, core.MaterialRef(1))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	_, ok := sphere.Hit(ray, core.Clip{Min: 0.001, Max: 3})
	assert.False(t, ok)

	// Near root clipped out, far root still within range.
	manifold, ok := sphere.Hit(ray, core.Clip{Min: 4.5, Max: 1000})
	require.True(t, ok)
	assert.InDelta(t, 6.0, manifold.T, 1e-9)
}

func TestSpherePdfGrowsWithDistance(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -10), 1, core.MaterialRef(1))

	near := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, -1))
	far := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	nearPdf, ok := sphere.Pdf(near, testClip)
	require.True(t, ok)
	farPdf, ok := sphere.Pdf(far, testClip)
	require.True(t, ok)

	assert.Greater(t, farPdf, nearPdf)
	assert.InDelta(t, 81.0/math.Pi, farPdf, 1e-9)
}

func TestSphereRandomPointOnSurface(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sphere := NewSphere(core.NewVec3(1, 2, 3), 2.5, core.MaterialRef(1))

	for i := 0; i < 500; i++ {
		point := sphere.RandomPoint(rng)
		assert.InDelta(t, 2.5, point.Subtract(sphere.Center).Length(), 1e-9)
	}
}

func TestSphereBoundingBox(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, -2, 3), 2, core.MaterialRef(1))
	box := sphere.BoundingBox()

	assert.Equal(t, core.NewVec3(-1, -4, 1), box.Min)
	assert.Equal(t, core.NewVec3(3, 0, 5), box.Max)
}
