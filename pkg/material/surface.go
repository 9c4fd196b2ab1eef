package material

import (
	"math"
	"math/rand"

	"github.com/lumen-render/lumen/pkg/color"
	"github.com/lumen-render/lumen/pkg/core"
)

// Diffuse is a Lambertian surface. Its scatter direction is drawn from a
// fifty-fifty mixture of a cosine lobe and direct light sampling.
type Diffuse struct {
	Albedo color.LinearRgb `json:"albedo"`
}

// Shade samples a scattered ray from the mixture and evaluates its density
func (d *Diffuse) Shade(rng *rand.Rand, manifold *core.Manifold, clip core.Clip, step float64, bvh *core.BVH) ShaderData {
	colorData := &core.ColorData{
		Color:   d.Albedo,
		Albedo:  d.Albedo,
		Emitted: color.Black,
		Normal:  manifold.Normal,
		Depth:   manifold.T,
	}

	sampler := pickLight(rng, bvh)
	ray := sampler.Scatter(rng, manifold)

	pdf, usable := samplePdf(sampler, ray, manifold, clip)
	if !usable {
		return ShaderData{Color: colorData, Pdf: 1.0}
	}
	return ShaderData{Scatter: &ray, Color: colorData, Pdf: pdf}
}

// Pdf returns the cosine-lobe density of the given scattered ray
func (d *Diffuse) Pdf(manifold *core.Manifold, ray core.Ray) float64 {
	return diffusePdfValue(ray, manifold)
}

// pickLight selects one light source uniformly and returns the mixture
// of the cosine lobe and that light's solid-angle lobe. With no lights
// in the scene the cosine lobe is used alone.
func pickLight(rng *rand.Rand, bvh *core.BVH) scatterPdf {
	count := 0
	for iter := bvh.Iter(); ; {
		object, ok := iter.Next()
		if !ok {
			break
		}
		if object.Flags().Has(core.FlagLight) {
			count++
		}
	}
	if count == 0 {
		return diffusePdf{}
	}

	index := rng.Intn(count)
	for iter := bvh.Iter(); ; {
		object, ok := iter.Next()
		if !ok {
			break
		}
		if !object.Flags().Has(core.FlagLight) {
			continue
		}
		if index == 0 {
			return mixPdf{a: diffusePdf{}, b: lightPdf{object: object}, factor: 0.5}
		}
		index--
	}
	panic("material: light enumeration changed during shading")
}

// Metallic is a reflective surface with hemisphere fuzz proportional to
// its roughness.
type Metallic struct {
	Albedo    color.LinearRgb `json:"albedo"`
	Roughness float64        `json:"roughness"`
}

// Shade reflects the incoming ray, perturbed by roughness
func (m *Metallic) Shade(rng *rand.Rand, manifold *core.Manifold, clip core.Clip, step float64, bvh *core.BVH) ShaderData {
	colorData := &core.ColorData{
		Color:   m.Albedo,
		Albedo:  m.Albedo,
		Emitted: color.Black,
		Normal:  manifold.Normal,
		Depth:   manifold.T,
	}

	sampler := metallicPdf{roughness: m.Roughness}
	ray := sampler.Scatter(rng, manifold)

	pdf, usable := samplePdf(sampler, ray, manifold, clip)
	if !usable {
		return ShaderData{Color: colorData, Pdf: 1.0}
	}
	return ShaderData{Scatter: &ray, Color: colorData, Pdf: pdf}
}

// Pdf returns the density of the specular lobe
func (m *Metallic) Pdf(manifold *core.Manifold, ray core.Ray) float64 {
	return 1.0
}

// Glass is a dielectric surface that reflects or refracts by Fresnel
// probability, with hemisphere fuzz proportional to its roughness.
type Glass struct {
	Albedo    color.LinearRgb `json:"albedo"`
	Roughness float64        `json:"roughness"`
	Ior       float64        `json:"ior"`
}

// Shade refracts or reflects the incoming ray depending on the Fresnel
// term and total internal reflection
func (g *Glass) Shade(rng *rand.Rand, manifold *core.Manifold, clip core.Clip, step float64, bvh *core.BVH) ShaderData {
	colorData := &core.ColorData{
		Color:   g.Albedo,
		Albedo:  g.Albedo,
		Emitted: color.Black,
		Normal:  manifold.Normal,
		Depth:   manifold.T,
	}

	sampler := glassPdf{roughness: g.Roughness, ior: g.Ior}
	ray := sampler.Scatter(rng, manifold)

	pdf, usable := samplePdf(sampler, ray, manifold, clip)
	if !usable {
		return ShaderData{Color: colorData, Pdf: 1.0}
	}
	return ShaderData{Scatter: &ray, Color: colorData, Pdf: pdf}
}

// Pdf returns the density of the dielectric lobe
func (g *Glass) Pdf(manifold *core.Manifold, ray core.Ray) float64 {
	return 1.0
}

// Emissive is a light-emitting surface that terminates paths.
type Emissive struct {
	Albedo    color.LinearRgb `json:"albedo"`
	Intensity float64        `json:"intensity"`
}

// Shade emits radiance and ends the path
func (e *Emissive) Shade(rng *rand.Rand, manifold *core.Manifold, clip core.Clip, step float64, bvh *core.BVH) ShaderData {
	return ShaderData{
		Color: &core.ColorData{
			Color:   color.Black,
			Albedo:  color.Black,
			Emitted: e.Albedo.Scale(e.Intensity),
			Normal:  manifold.Normal,
			Depth:   manifold.T,
		},
		Pdf: 1.0,
	}
}

// Pdf returns a neutral density; emissive surfaces never scatter
func (e *Emissive) Pdf(manifold *core.Manifold, ray core.Ray) float64 {
	return 1.0
}

func diffusePdfValue(ray core.Ray, manifold *core.Manifold) float64 {
	return manifold.Normal.Dot(ray.Direction) / math.Pi
}
