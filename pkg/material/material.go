// Package material implements the shading models of the renderer:
// surface scattering (diffuse, metallic, glass, emissive), voxel-map
// volumes, and the mixture sampler that blends surface lobes with
// direct light sampling.
package material

import (
	"math/rand"

	"github.com/lumen-render/lumen/pkg/color"
	"github.com/lumen-render/lumen/pkg/core"
)

// ShaderData is the result of one shading interaction.
type ShaderData struct {
	// IsVolume reports whether the interaction happened inside a
	// participating medium.
	IsVolume bool

	// Scatter is the continuation ray, or nil when the path terminates
	// at this interaction.
	Scatter *core.Ray

	// Color carries the radiance contribution of the interaction. A nil
	// Color is a pass-through event (a volume step that did not scatter).
	Color *core.ColorData

	// Pdf is the sampling density of the Scatter ray.
	Pdf float64
}

// Material is a shading model attached to scene objects through
// core.MaterialRef handles.
type Material interface {
	// Shade samples one interaction at the manifold: the scattered
	// continuation ray, its sampling density and the color contribution.
	// Volume materials use step as their walk length; surface materials
	// use bvh to aim the direct-light lobe.
	Shade(rng *rand.Rand, manifold *core.Manifold, clip core.Clip, step float64, bvh *core.BVH) ShaderData

	// Pdf returns the density with which this material itself would have
	// scattered the given ray at the manifold.
	Pdf(manifold *core.Manifold, ray core.Ray) float64
}

// Materials is the arena owning every material of a scene. Handle 0 is
// the root (environment) material, shading rays that escape the scene.
type Materials struct {
	root      Material
	materials []Material
}

// NewMaterials creates an arena whose root is a black, non-emitting
// environment
func NewMaterials() *Materials {
	return WithRoot(&Emissive{Albedo: color.Black, Intensity: 0})
}

// WithRoot creates an arena with the given environment material
func WithRoot(root Material) *Materials {
	return &Materials{root: root}
}

// Add stores a material and returns its handle
func (m *Materials) Add(material Material) core.MaterialRef {
	m.materials = append(m.materials, material)
	return core.MaterialRef(len(m.materials))
}

// Get resolves a handle. Passing a handle that was never returned by Add
// is a programming error and panics.
func (m *Materials) Get(ref core.MaterialRef) Material {
	if ref == core.Root {
		return m.root
	}
	return m.materials[ref.Index()]
}

// Root returns the environment material
func (m *Materials) Root() Material {
	return m.root
}

// Len returns the number of materials excluding the root
func (m *Materials) Len() int {
	return len(m.materials)
}
