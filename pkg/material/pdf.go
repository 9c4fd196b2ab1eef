package material

import (
	"math"
	"math/rand"

	"github.com/lumen-render/lumen/pkg/core"
)

// pdfEpsilon is the density below which a sampled direction is
// considered unusable: dividing by it would produce fireflies, so the
// scatter is dropped instead.
const pdfEpsilon = 1e-5

// scatterPdf couples a scatter direction distribution with its density.
// Scatter and Value must describe the same distribution or the
// importance-sampling estimator loses its correctness.
type scatterPdf interface {
	Scatter(rng *rand.Rand, manifold *core.Manifold) core.Ray
	Value(ray core.Ray, manifold *core.Manifold, clip core.Clip) float64
}

// samplePdf evaluates the density of a sampled ray and applies the
// underflow rule: near-zero densities report ok=false and the caller
// terminates the path.
func samplePdf(p scatterPdf, ray core.Ray, manifold *core.Manifold, clip core.Clip) (float64, bool) {
	value := p.Value(ray, manifold, clip)
	if math.Abs(value) < pdfEpsilon {
		return 0, false
	}
	return value, true
}

// diffusePdf is the cosine-weighted hemisphere lobe.
type diffusePdf struct{}

func (diffusePdf) Scatter(rng *rand.Rand, manifold *core.Manifold) core.Ray {
	direction := core.SampleCosineHemisphere(rng, manifold.Normal)
	return core.NewRay(manifold.Position, direction)
}

func (diffusePdf) Value(ray core.Ray, manifold *core.Manifold, clip core.Clip) float64 {
	return diffusePdfValue(ray, manifold)
}

// metallicPdf is the mirror lobe with roughness fuzz. Its density is
// treated as a delta: the estimator divides by 1.
type metallicPdf struct {
	roughness float64
}

func (p metallicPdf) Scatter(rng *rand.Rand, manifold *core.Manifold) core.Ray {
	direction := manifold.Ray.Direction.Reflect(manifold.Normal)
	fuzz := core.SampleUnitHemisphere(rng, manifold.Normal).Multiply(p.roughness)
	return core.NewRay(manifold.Position, direction.Add(fuzz))
}

func (metallicPdf) Value(ray core.Ray, manifold *core.Manifold, clip core.Clip) float64 {
	return 1.0
}

// glassPdf is the dielectric lobe: reflect on total internal reflection
// or by Fresnel probability, refract otherwise. Density is a delta.
type glassPdf struct {
	roughness float64
	ior       float64
}

func (p glassPdf) Scatter(rng *rand.Rand, manifold *core.Manifold) core.Ray {
	ior := p.ior
	if manifold.Face.IsFront() {
		ior = 1.0 / ior
	}

	cosTheta := math.Min(manifold.Ray.Direction.Negate().Dot(manifold.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	fresnel := manifold.Ray.Direction.Fresnel(manifold.Normal, ior)

	var direction core.Vec3
	if ior*sinTheta > 1.0 || rng.Float64() < fresnel {
		direction = manifold.Ray.Direction.Reflect(manifold.Normal)
	} else {
		direction = manifold.Ray.Direction.Refract(manifold.Normal, ior)
	}

	fuzz := core.SampleUnitHemisphere(rng, manifold.Normal).Multiply(p.roughness)
	return core.NewRay(manifold.Position, direction.Add(fuzz))
}

func (glassPdf) Value(ray core.Ray, manifold *core.Manifold, clip core.Clip) float64 {
	return 1.0
}

// lightPdf aims at a point sampled on a light source; its density is the
// light's own solid-angle density for the sampled direction.
type lightPdf struct {
	object core.Primitive
}

func (p lightPdf) Scatter(rng *rand.Rand, manifold *core.Manifold) core.Ray {
	direction := p.object.RandomPoint(rng).Subtract(manifold.Position)
	return core.NewRay(manifold.Position, direction)
}

func (p lightPdf) Value(ray core.Ray, manifold *core.Manifold, clip core.Clip) float64 {
	pdf, ok := p.object.Pdf(ray, clip)
	if !ok {
		return 0
	}
	return pdf
}

// mixPdf blends two lobes: scatter picks b with probability factor, and
// the density is the matching linear interpolation of both densities.
type mixPdf struct {
	a, b   scatterPdf
	factor float64
}

func (p mixPdf) Scatter(rng *rand.Rand, manifold *core.Manifold) core.Ray {
	if rng.Float64() < p.factor {
		return p.b.Scatter(rng, manifold)
	}
	return p.a.Scatter(rng, manifold)
}

func (p mixPdf) Value(ray core.Ray, manifold *core.Manifold, clip core.Clip) float64 {
	a := p.a.Value(ray, manifold, clip)
	b := p.b.Value(ray, manifold, clip)
	return a + (b-a)*p.factor
}
