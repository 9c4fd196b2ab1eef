package geometry

import (
	"math/rand"

	"github.com/lumen-render/lumen/pkg/core"
)

// Cuboid is an axis-aligned box rendered as six rectangles. It is the
// usual carrier for voxel volumes, whose density fields are sampled in
// the box's normalized coordinate space.
type Cuboid struct {
	Center   core.Vec3        `json:"center"`
	HalfSize core.Vec3        `json:"half_size"`
	Material core.MaterialRef `json:"material"`

	ObjectFlags core.ObjectFlags `json:"flags,omitempty"`
	Volumetric  bool             `json:"volumetric,omitempty"`
}

// NewCuboid creates an axis-aligned box from its center and half extents
func NewCuboid(center, halfSize core.Vec3, material core.MaterialRef) *Cuboid {
	return &Cuboid{Center: center, HalfSize: halfSize, Material: material}
}

// Flags returns the renderer attributes of the cuboid
func (c *Cuboid) Flags() core.ObjectFlags {
	return c.ObjectFlags
}

// BoundingBox returns the exact bounds of the cuboid
func (c *Cuboid) BoundingBox() core.AABB {
	return core.NewAABB(c.Center.Subtract(c.HalfSize), c.Center.Add(c.HalfSize))
}

// face returns one of the six boundary rectangles, with outward-facing
// axis ordering. Index pairs are +X/-X, +Y/-Y, +Z/-Z.
func (c *Cuboid) face(index int) Rect {
	x := core.Vec3{X: c.HalfSize.X}
	y := core.Vec3{Y: c.HalfSize.Y}
	z := core.Vec3{Z: c.HalfSize.Z}

	var center core.Vec3
	var axisU, axisV core.Vec3
	switch index {
	case 0:
		center, axisU, axisV = c.Center.Add(x), y, z
	case 1:
		center, axisU, axisV = c.Center.Subtract(x), z, y
	case 2:
		center, axisU, axisV = c.Center.Add(y), z, x
	case 3:
		center, axisU, axisV = c.Center.Subtract(y), x, z
	case 4:
		center, axisU, axisV = c.Center.Add(z), x, y
	default:
		center, axisU, axisV = c.Center.Subtract(z), y, x
	}

	return Rect{
		Center:      center,
		AxisU:       axisU,
		AxisV:       axisV,
		Material:    c.Material,
		ObjectFlags: c.ObjectFlags,
		Volumetric:  c.Volumetric,
	}
}

// Hit returns the nearest intersection with any of the six faces. The
// manifold reports the bounds of the whole box, not the hit face, so
// that volume walks know the full extent of the medium.
func (c *Cuboid) Hit(ray core.Ray, clip core.Clip) (core.Manifold, bool) {
	var best core.Manifold
	found := false

	for i := 0; i < 6; i++ {
		face := c.face(i)
		if manifold, ok := face.Hit(ray, clip); ok {
			best = manifold
			found = true
			clip.Max = manifold.T
		}
	}

	if !found {
		return core.Manifold{}, false
	}
	best.Aabb = c.BoundingBox()
	return best, true
}

// Pdf returns the density over directions of hitting the cuboid,
// evaluated on the face the ray actually strikes
func (c *Cuboid) Pdf(ray core.Ray, clip core.Clip) (float64, bool) {
	var bestFace Rect
	found := false

	for i := 0; i < 6; i++ {
		face := c.face(i)
		if manifold, ok := face.Hit(ray, clip); ok {
			bestFace = face
			found = true
			clip.Max = manifold.T
		}
	}

	if !found {
		return 0, false
	}
	return bestFace.Pdf(ray, clip)
}

// RandomPoint returns a point sampled from a uniformly chosen face
func (c *Cuboid) RandomPoint(rng *rand.Rand) core.Vec3 {
	face := c.face(rng.Intn(6))
	return face.RandomPoint(rng)
}
