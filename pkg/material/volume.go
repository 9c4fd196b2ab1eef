package material

import (
	"math"
	"math/rand"

	"github.com/lumen-render/lumen/pkg/color"
	"github.com/lumen-render/lumen/pkg/core"
)

// SamplingMode selects how a voxel map is read between grid points.
type SamplingMode uint8

const (
	// SamplingNearest reads the closest grid point
	SamplingNearest SamplingMode = iota
	// SamplingTrilinear interpolates the eight surrounding grid points
	SamplingTrilinear
)

// Voxel is one cell of a participating medium.
type Voxel struct {
	Density  float64        `json:"density"`
	Albedo   color.LinearRgb `json:"albedo"`
	Emissive color.LinearRgb `json:"emissive"`
}

// NewVoxel creates a non-emitting voxel
func NewVoxel(density float64, albedo color.LinearRgb) Voxel {
	return Voxel{Density: density, Albedo: albedo}
}

// Lerp linearly interpolates toward other by factor
func (v Voxel) Lerp(other Voxel, factor float64) Voxel {
	return Voxel{
		Density:  v.Density + (other.Density-v.Density)*factor,
		Albedo:   v.Albedo.Lerp(other.Albedo, factor),
		Emissive: v.Emissive.Lerp(other.Emissive, factor),
	}
}

// VoxelMap is a dense 3D grid of voxels addressed in the [0,1]³
// coordinate space of its carrier's bounding box.
type VoxelMap struct {
	width  int
	height int
	depth  int
	size   core.Vec3
	buffer []Voxel
}

// NewVoxelMap creates a voxel map from a row-major buffer (x fastest,
// then y, then z)
func NewVoxelMap(width, height, depth int, buffer []Voxel) *VoxelMap {
	return &VoxelMap{
		width:  width,
		height: height,
		depth:  depth,
		size:   core.NewVec3(float64(width)-1.0, float64(height)-1.0, float64(depth)-1.0),
		buffer: buffer,
	}
}

// UniformVoxelMap creates a map filled with a single voxel value
func UniformVoxelMap(width, height, depth int, voxel Voxel) *VoxelMap {
	buffer := make([]Voxel, width*height*depth)
	for i := range buffer {
		buffer[i] = voxel
	}
	return NewVoxelMap(width, height, depth, buffer)
}

// VoxelMapFunc creates a map by evaluating f at every grid point
func VoxelMapFunc(width, height, depth int, f func(x, y, z int) Voxel) *VoxelMap {
	buffer := make([]Voxel, 0, width*height*depth)
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				buffer = append(buffer, f(x, y, z))
			}
		}
	}
	return NewVoxelMap(width, height, depth, buffer)
}

// Dimensions returns the grid extents of the map
func (m *VoxelMap) Dimensions() (width, height, depth int) {
	return m.width, m.height, m.depth
}

// Buffer returns the backing voxel slice in row-major order
func (m *VoxelMap) Buffer() []Voxel {
	return m.buffer
}

func (m *VoxelMap) index(x, y, z int) Voxel {
	if m.width == 0 || m.height == 0 || m.depth == 0 {
		return Voxel{}
	}
	if x < 0 || x >= m.width || y < 0 || y >= m.height || z < 0 || z >= m.depth {
		panic("material: volume index out of bounds")
	}
	return m.buffer[z*m.height*m.width+y*m.width+x]
}

func (m *VoxelMap) at(x, y, z float64) Voxel {
	return m.index(int(x), int(y), int(z))
}

// Sample reads the map at a normalized coordinate, clamped to [0,1]³.
func (m *VoxelMap) Sample(coord core.Vec3, mode SamplingMode) Voxel {
	coord = coord.Clamp(0, 1)
	scaled := coord.MultiplyVec(m.size)

	if mode == SamplingNearest {
		return m.at(math.Round(scaled.X), math.Round(scaled.Y), math.Round(scaled.Z))
	}

	xFract := scaled.X - math.Floor(scaled.X)
	yFract := scaled.Y - math.Floor(scaled.Y)
	zFract := scaled.Z - math.Floor(scaled.Z)

	x0 := m.at(math.Floor(scaled.X), math.Floor(scaled.Y), math.Floor(scaled.Z))
	x1 := m.at(math.Ceil(scaled.X), math.Floor(scaled.Y), math.Floor(scaled.Z))
	y0 := x0.Lerp(x1, xFract)
	x0 = m.at(math.Floor(scaled.X), math.Ceil(scaled.Y), math.Floor(scaled.Z))
	x1 = m.at(math.Ceil(scaled.X), math.Ceil(scaled.Y), math.Floor(scaled.Z))
	y1 := x0.Lerp(x1, xFract)
	z0 := y0.Lerp(y1, yFract)

	x0 = m.at(math.Floor(scaled.X), math.Floor(scaled.Y), math.Ceil(scaled.Z))
	x1 = m.at(math.Ceil(scaled.X), math.Floor(scaled.Y), math.Ceil(scaled.Z))
	y0 = x0.Lerp(x1, xFract)
	x0 = m.at(math.Floor(scaled.X), math.Ceil(scaled.Y), math.Ceil(scaled.Z))
	x1 = m.at(math.Ceil(scaled.X), math.Ceil(scaled.Y), math.Ceil(scaled.Z))
	y1 = x0.Lerp(x1, xFract)
	z1 := y0.Lerp(y1, yFract)

	return z0.Lerp(z1, zFract)
}

// Volume is a participating medium backed by a voxel map. The integrator
// walks rays through it in fixed steps; at each step the medium scatters
// with probability density × step.
type Volume struct {
	Map *VoxelMap `json:"map"`
}

// NewVolume creates a volume material over the given voxel map
func NewVolume(voxelMap *VoxelMap) *Volume {
	return &Volume{Map: voxelMap}
}

// Shade advances the walk one step: with probability density × step the
// ray scatters isotropically (jittered back along the step so scatter
// positions do not alias to the step grid), otherwise it passes through.
func (v *Volume) Shade(rng *rand.Rand, manifold *core.Manifold, clip core.Clip, step float64, bvh *core.BVH) ShaderData {
	coord := manifold.Aabb.MapInto(manifold.Position)
	voxel := v.Map.Sample(coord, SamplingTrilinear)
	density := voxel.Density * step

	if density >= 1.0 || rng.Float64() < density {
		origin := manifold.Position
		if manifold.Face == core.FaceVolume {
			origin = origin.Subtract(manifold.Ray.Direction.Multiply(step * rng.Float64()))
		}
		ray := core.NewRay(origin, core.SampleUnitSphere(rng))

		return ShaderData{
			IsVolume: true,
			Scatter:  &ray,
			Color: &core.ColorData{
				Color:   voxel.Albedo,
				Albedo:  voxel.Albedo,
				Emitted: voxel.Emissive,
				Normal:  manifold.Normal,
				Depth:   manifold.T,
			},
			Pdf: 1.0,
		}
	}

	ray := core.NewRay(manifold.Position, manifold.Ray.Direction)
	return ShaderData{IsVolume: true, Scatter: &ray, Pdf: 1.0}
}

// Pdf returns a neutral density; volume scattering is isotropic
func (v *Volume) Pdf(manifold *core.Manifold, ray core.Ray) float64 {
	return 1.0
}
