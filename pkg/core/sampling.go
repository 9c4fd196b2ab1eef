package core

import (
	"math"
	"math/rand"
)

// Direction distributions used by the mixture sampler. Each takes an
// explicit *rand.Rand so callers control seeding (one generator per
// render worker, deterministic under test).

// SampleUnitSphere returns a uniformly distributed direction on the unit sphere
func SampleUnitSphere(rng *rand.Rand) Vec3 {
	r1 := rng.Float64() * 2.0 * math.Pi
	r2 := rng.Float64()

	s := 2.0 * math.Sqrt(r2*(1.0-r2))
	x := math.Cos(r1) * s
	y := math.Sin(r1) * s
	z := 1.0 - 2.0*r2

	return Vec3{X: x, Y: y, Z: z}
}

// OrthonormalBasis builds two unit vectors orthogonal to the given unit
// normal (branchless Duff et al. construction, stable for all normals).
func OrthonormalBasis(normal Vec3) (tangent, bitangent Vec3) {
	sign := math.Copysign(1.0, normal.Z)
	a := -1.0 / (sign + normal.Z)
	b := normal.X * normal.Y * a

	tangent = Vec3{X: 1.0 + sign*normal.X*normal.X*a, Y: sign * b, Z: -sign * normal.X}
	bitangent = Vec3{X: b, Y: sign + normal.Y*normal.Y*a, Z: -normal.Y}
	return tangent, bitangent
}

// SampleUnitHemisphere returns a uniformly distributed direction on the
// hemisphere around the given normal
func SampleUnitHemisphere(rng *rand.Rand, normal Vec3) Vec3 {
	zAxis := normal.Normalize()
	xAxis, yAxis := OrthonormalBasis(zAxis)

	r1 := rng.Float64() * 2.0 * math.Pi
	r2 := rng.Float64()

	s := 2.0 * math.Sqrt(r2*(1.0-r2))
	x := math.Cos(r1) * s
	y := math.Sin(r1) * s
	z := 1.0 - r2

	return xAxis.Multiply(x).Add(yAxis.Multiply(y)).Add(zAxis.Multiply(z))
}

// SampleCosineHemisphere returns a cosine-weighted direction around the
// given normal. The matching density is cos(θ)/π.
func SampleCosineHemisphere(rng *rand.Rand, normal Vec3) Vec3 {
	zAxis := normal.Normalize()
	xAxis, yAxis := OrthonormalBasis(zAxis)

	r1 := rng.Float64() * 2.0 * math.Pi
	r2 := rng.Float64()

	x := math.Cos(r1) * math.Sqrt(r2)
	y := math.Sin(r1) * math.Sqrt(r2)
	z := math.Sqrt(1.0 - r2)

	return xAxis.Multiply(x).Add(yAxis.Multiply(y)).Add(zAxis.Multiply(z))
}

// SampleUnitDisk returns a point on the unit disk perpendicular to the
// given normal, used for thin-lens defocus offsets.
func SampleUnitDisk(rng *rand.Rand, normal Vec3) Vec3 {
	xAxis, yAxis := OrthonormalBasis(normal.Normalize())

	angle := rng.Float64() * 2.0 * math.Pi
	r := rng.Float64()

	x := math.Cos(angle)
	y := math.Sin(angle)

	return xAxis.Multiply(x).Add(yAxis.Multiply(y)).Multiply(r)
}
