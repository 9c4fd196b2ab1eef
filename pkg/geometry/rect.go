package geometry

import (
	"math"
	"math/rand"

	"github.com/lumen-render/lumen/pkg/core"
)

// parallelEpsilon rejects rays that graze the rectangle plane; the plane
// intersection is numerically meaningless below it.
const parallelEpsilon = 1e-5

// Rect is a world-space rectangle spanned by two half-axis vectors
// around its center. The axes need not be axis-aligned but must not be
// parallel to each other.
type Rect struct {
	Center core.Vec3 `json:"center"`
	// AxisU and AxisV are half-extents: the rectangle corners are
	// Center ± AxisU ± AxisV.
	AxisU    core.Vec3        `json:"axis_u"`
	AxisV    core.Vec3        `json:"axis_v"`
	Material core.MaterialRef `json:"material"`

	ObjectFlags core.ObjectFlags `json:"flags,omitempty"`
	Volumetric  bool             `json:"volumetric,omitempty"`
}

// NewRect creates a rectangle from its center and two half-axis vectors
func NewRect(center, axisU, axisV core.Vec3, material core.MaterialRef) *Rect {
	return &Rect{Center: center, AxisU: axisU, AxisV: axisV, Material: material}
}

// Flags returns the renderer attributes of the rectangle
func (r *Rect) Flags() core.ObjectFlags {
	return r.ObjectFlags
}

// Normal returns the unit plane normal of the rectangle
func (r *Rect) Normal() core.Vec3 {
	return r.AxisU.Cross(r.AxisV).Normalize()
}

// Area returns the surface area of the rectangle
func (r *Rect) Area() float64 {
	return 4.0 * r.AxisU.Cross(r.AxisV).Length()
}

// BoundingBox returns the bounds of the four corners, padded slightly so
// an axis-aligned rectangle does not degenerate to a zero-thickness box.
func (r *Rect) BoundingBox() core.AABB {
	extent := core.Vec3{
		X: math.Abs(r.AxisU.X) + math.Abs(r.AxisV.X),
		Y: math.Abs(r.AxisU.Y) + math.Abs(r.AxisV.Y),
		Z: math.Abs(r.AxisU.Z) + math.Abs(r.AxisV.Z),
	}
	pad := core.Splat(extent.Length() * parallelEpsilon)
	extent = extent.Add(pad)
	return core.NewAABB(r.Center.Subtract(extent), r.Center.Add(extent))
}

// Hit returns the ray-rectangle intersection within clip
func (r *Rect) Hit(ray core.Ray, clip core.Clip) (core.Manifold, bool) {
	normal := r.Normal()
	denom := ray.Direction.Dot(normal)
	if math.Abs(denom) < parallelEpsilon {
		return core.Manifold{}, false
	}

	t := r.Center.Subtract(ray.Origin).Dot(normal) / denom
	if t < clip.Min || t > clip.Max {
		return core.Manifold{}, false
	}

	position := ray.At(t)
	offset := position.Subtract(r.Center)
	u := offset.Dot(r.AxisU) / r.AxisU.LengthSquared()
	v := offset.Dot(r.AxisV) / r.AxisV.LengthSquared()
	if u < -1 || u > 1 || v < -1 || v > 1 {
		return core.Manifold{}, false
	}

	face := core.FaceFront
	if r.Volumetric {
		face = core.FaceVolumeFront
	}
	if denom > 0 {
		normal = normal.Negate()
		if r.Volumetric {
			face = core.FaceVolumeBack
		} else {
			face = core.FaceBack
		}
	}

	return core.Manifold{
		Position: position,
		Normal:   normal,
		Aabb:     r.BoundingBox(),
		Face:     face,
		T:        t,
		Ray:      ray,
		Material: r.Material,
	}, true
}

// Pdf returns the density over directions of hitting the rectangle with
// the given ray
func (r *Rect) Pdf(ray core.Ray, clip core.Clip) (float64, bool) {
	manifold, ok := r.Hit(ray, clip)
	if !ok {
		return 0, false
	}
	cosine := math.Abs(ray.Direction.Dot(r.Normal()))
	return manifold.T * manifold.T / (r.Area() * cosine), true
}

// RandomPoint returns a uniformly sampled point on the rectangle
func (r *Rect) RandomPoint(rng *rand.Rand) core.Vec3 {
	u := 2.0*rng.Float64() - 1.0
	v := 2.0*rng.Float64() - 1.0
	return r.Center.Add(r.AxisU.Multiply(u)).Add(r.AxisV.Multiply(v))
}
