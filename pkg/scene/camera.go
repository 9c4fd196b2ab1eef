package scene

import (
	"math"
	"math/rand"

	"github.com/lumen-render/lumen/pkg/core"
)

// Camera is a physical pinhole/thin-lens camera. Field of view follows
// from the sensor size and focal length; depth of field from the f-stop
// and focus distance when Dof is enabled.
type Camera struct {
	Position core.Vec3 `json:"position"`
	LookAt   core.Vec3 `json:"look_at"`

	SensorSize  float64 `json:"sensor_size"`
	FocalLength float64 `json:"focal_length"`
	AspectRatio float64 `json:"aspect_ratio"`

	Dof   bool    `json:"dof"`
	Fstop float64 `json:"fstop"`
	Focus float64 `json:"focus"`
}

// NewCamera creates a camera with a full-frame sensor and a 50mm lens
func NewCamera(position, lookAt core.Vec3) Camera {
	return Camera{
		Position:    position,
		LookAt:      lookAt,
		SensorSize:  0.036,
		FocalLength: 0.05,
		AspectRatio: 1.5,
		Dof:         true,
		Fstop:       2.0,
		Focus:       1.0,
	}
}

// Yfov returns the vertical field of view in radians
func (c Camera) Yfov() float64 {
	return 2.0 * math.Atan2(c.SensorSize, 2.0*c.FocalLength)
}

// Xfov returns the horizontal field of view in radians
func (c Camera) Xfov() float64 {
	return c.Yfov() * c.AspectRatio
}

// basis returns the right/up/forward frame of the camera. The world up
// axis is +Y; a camera looking straight up or down degenerates and is
// not supported.
func (c Camera) basis() (right, up, forward core.Vec3) {
	forward = c.LookAt.Subtract(c.Position).Normalize()
	right = forward.Cross(core.NewVec3(0, 1, 0)).Normalize()
	up = right.Cross(forward)
	return right, up, forward
}

// Ray returns the world-space primary ray through the viewport point
// (u, v) with both coordinates in [-1, 1). With Dof enabled the ray
// origin is jittered across the lens aperture and re-aimed through the
// focus plane.
func (c Camera) Ray(rng *rand.Rand, u, v float64) core.Ray {
	right, up, forward := c.basis()

	yrot := c.Xfov() * 0.5 * -u
	xrot := c.Yfov() * 0.5 * -v

	// Direction of the frustum ray in camera space, camera looking
	// down -Z, rotated yaw-then-pitch.
	dx := -math.Cos(xrot) * math.Sin(yrot)
	dy := math.Sin(xrot)
	dz := math.Cos(xrot) * math.Cos(yrot)

	direction := right.Multiply(dx).Add(up.Multiply(dy)).Add(forward.Multiply(dz))
	ray := core.NewRay(c.Position, direction)

	if !c.Dof {
		return ray
	}

	aperture := c.FocalLength / (2.0 * c.Fstop)
	offset := core.SampleUnitDisk(rng, forward).Multiply(aperture)

	focusPoint := ray.At(c.Focus / forward.Dot(ray.Direction))
	origin := c.Position.Add(offset)
	return core.NewRay(origin, focusPoint.Subtract(origin))
}
