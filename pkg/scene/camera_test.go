package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumen-render/lumen/pkg/core"
)

func TestCameraFieldOfView(t *testing.T) {
	camera := NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	// Full-frame 50mm: ~39.6 degrees vertical.
	assert.InDelta(t, 2.0*math.Atan2(0.036, 0.1), camera.Yfov(), 1e-12)
	assert.InDelta(t, camera.Yfov()*1.5, camera.Xfov(), 1e-12)
}

func TestCameraCenterRayAimsAtLookAt(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	camera := NewCamera(core.NewVec3(1, 2, 3), core.NewVec3(-2, 0, -4))
	camera.Dof = false

	ray := camera.Ray(rng, 0, 0)

	expected := camera.LookAt.Subtract(camera.Position).Normalize()
	assert.InDelta(t, expected.X, ray.Direction.X, 1e-9)
	assert.InDelta(t, expected.Y, ray.Direction.Y, 1e-9)
	assert.InDelta(t, expected.Z, ray.Direction.Z, 1e-9)
	assert.Equal(t, camera.Position, ray.Origin)
}

func TestCameraRaysAreNormalized(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	camera := NewCamera(core.NewVec3(0, 1, 5), core.NewVec3(0, 0, 0))

	for i := 0; i < 100; i++ {
		u := rng.Float64()*2 - 1
		v := rng.Float64()*2 - 1
		ray := camera.Ray(rng, u, v)
		assert.InDelta(t, 1.0, ray.Direction.Length(), 1e-9)
	}
}

func TestCameraFrustumSpansFieldOfView(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	camera := NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	camera.Dof = false

	center := camera.Ray(rng, 0, 0)
	left := camera.Ray(rng, -1, 0)
	top := camera.Ray(rng, 0, 1)

	halfX := math.Acos(center.Direction.Dot(left.Direction))
	assert.InDelta(t, camera.Xfov()*0.5, halfX, 1e-9)

	halfY := math.Acos(center.Direction.Dot(top.Direction))
	assert.InDelta(t, camera.Yfov()*0.5, halfY, 1e-9)
}

func TestCameraDofConvergesAtFocusPlane(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	camera := NewCamera(core.NewVec3(0, 0, 4), core.NewVec3(0, 0, 0))
	camera.Focus = 4

	focusPoint := core.NewVec3(0, 0, 0)
	jittered := 0
	for i := 0; i < 100; i++ {
		ray := camera.Ray(rng, 0, 0)
		if ray.Origin != camera.Position {
			jittered++
		}

		// Lens rays are jittered across the aperture but all pass
		// through the same point on the focus plane.
		t1 := focusPoint.Subtract(ray.Origin).Dot(ray.Direction)
		miss := ray.At(t1).Subtract(focusPoint).Length()
		assert.InDelta(t, 0.0, miss, 1e-9)
	}
	assert.Greater(t, jittered, 90)
}
