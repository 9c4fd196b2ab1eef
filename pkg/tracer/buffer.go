package tracer

import (
	"fmt"
	"image"
	imgcolor "image/color"

	"github.com/lumen-render/lumen/pkg/color"
	"github.com/lumen-render/lumen/pkg/core"
)

// ColorSpace selects how accumulated values are converted for display.
type ColorSpace uint8

const (
	// ColorSpaceNone emits raw accumulated values
	ColorSpaceNone ColorSpace = iota
	// ColorSpaceNormal remaps unit vectors from [-1,1] to [0,1]
	ColorSpaceNormal
	// ColorSpaceLinear emits linear light without gamma encoding
	ColorSpaceLinear
	// ColorSpaceSRgb gamma-encodes linear light for display
	ColorSpaceSRgb
)

// Convert maps an averaged linear value into display bytes
func (c ColorSpace) Convert(linear color.LinearRgb) (r, g, b uint8) {
	switch c {
	case ColorSpaceNormal:
		normal := core.NewVec3(linear.R, linear.G, linear.B).Normalize()
		remapped := normal.Add(core.Splat(1.0)).Multiply(0.5)
		return color.LinearRgb{R: remapped.X, G: remapped.Y, B: remapped.Z}.ToSrgb().Bytes()
	case ColorSpaceSRgb:
		return linear.ToSrgb().Bytes()
	default:
		srgb := color.SRgb{R: linear.R, G: linear.G, B: linear.B}
		return srgb.Bytes()
	}
}

// Buffer accumulates render passes as running per-pixel sums plus a
// sample counter. Pixels are averaged only at preview time, so passes
// of one sample each converge without rescaling history.
type Buffer struct {
	width      int
	height     int
	samples    int
	pixels     []color.LinearRgb
	colorSpace ColorSpace
}

// NewBuffer creates a zeroed buffer
func NewBuffer(width, height int, colorSpace ColorSpace) *Buffer {
	return &Buffer{
		width:      width,
		height:     height,
		pixels:     make([]color.LinearRgb, width*height),
		colorSpace: colorSpace,
	}
}

// Width returns the buffer width in pixels
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height in pixels
func (b *Buffer) Height() int {
	return b.height
}

// Samples returns the number of accumulated samples per pixel
func (b *Buffer) Samples() int {
	return b.samples
}

// PixelWidth returns the width of one pixel in the [-1,1) viewport
func (b *Buffer) PixelWidth() float64 {
	return 2.0 / float64(b.width)
}

// PixelHeight returns the height of one pixel in the [-1,1) viewport
func (b *Buffer) PixelHeight() float64 {
	return 2.0 / float64(b.height)
}

// Clear resets all accumulation
func (b *Buffer) Clear() {
	for i := range b.pixels {
		b.pixels[i] = color.LinearRgb{}
	}
	b.samples = 0
}

// Resize reallocates the buffer and clears it
func (b *Buffer) Resize(width, height int) {
	b.width = width
	b.height = height
	b.pixels = make([]color.LinearRgb, width*height)
	b.samples = 0
}

// IncSamples records that every pixel received n more samples. Called
// once per render pass, after all chunk workers have joined.
func (b *Buffer) IncSamples(n int) {
	b.samples += n
}

// At returns the raw accumulated value of a pixel
func (b *Buffer) At(x, y int) color.LinearRgb {
	return b.pixels[y*b.width+x]
}

func (b *Buffer) writeColor(x, y int, pixel color.LinearRgb) {
	b.pixels[y*b.width+x] = b.pixels[y*b.width+x].Add(pixel)
}

// Chunks partitions the buffer into a grid of disjoint chunks covering
// every pixel exactly once. Chunk extents are rounded up, so the
// right/bottom chunks may be clipped.
func (b *Buffer) Chunks(chunksX, chunksY int) []Chunk {
	chunkWidth := b.width / chunksX
	if b.width%chunksX != 0 {
		chunkWidth++
	}
	chunkHeight := b.height / chunksY
	if b.height%chunksY != 0 {
		chunkHeight++
	}

	var chunks []Chunk
	for minY := 0; minY < b.height; minY += chunkHeight {
		maxY := minY + chunkHeight
		if maxY > b.height {
			maxY = b.height
		}
		for minX := 0; minX < b.width; minX += chunkWidth {
			maxX := minX + chunkWidth
			if maxX > b.width {
				maxX = b.width
			}
			chunks = append(chunks, Chunk{
				minX:   minX,
				minY:   minY,
				maxX:   maxX,
				maxY:   maxY,
				buffer: b,
			})
		}
	}
	return chunks
}

// Preview averages the accumulated sums and converts them into an image
func (b *Buffer) Preview() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))

	samplesRecip := 0.0
	if b.samples > 0 {
		samplesRecip = 1.0 / float64(b.samples)
	}

	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			avg := b.pixels[y*b.width+x].Scale(samplesRecip)
			r, g, bb := b.colorSpace.Convert(avg)
			img.SetRGBA(x, y, imgcolor.RGBA{R: r, G: g, B: bb, A: 255})
		}
	}
	return img
}

// Chunk is a writable window into a buffer. Chunks from one Chunks call
// never overlap, so workers may write to distinct chunks concurrently
// without locks.
type Chunk struct {
	minX, minY int
	maxX, maxY int
	buffer     *Buffer
}

// Width returns the chunk width in pixels
func (c *Chunk) Width() int {
	return c.maxX - c.minX
}

// Height returns the chunk height in pixels
func (c *Chunk) Height() int {
	return c.maxY - c.minY
}

// Bounds returns the pixel rectangle of the chunk, inclusive min and
// exclusive max
func (c *Chunk) Bounds() (minX, minY, maxX, maxY int) {
	return c.minX, c.minY, c.maxX, c.maxY
}

// Buffer returns the backing buffer for read-only queries
func (c *Chunk) Buffer() *Buffer {
	return c.buffer
}

func (c *Chunk) assertBounds(x, y int) {
	if x < c.minX || x >= c.maxX || y < c.minY || y >= c.maxY {
		panic(fmt.Sprintf(
			"tracer: index (%d, %d) out of bounds (%d, %d; %d, %d)",
			x, y, c.minX, c.minY, c.maxX, c.maxY,
		))
	}
}

// WriteColor accumulates a color sample. Writing outside the chunk
// bounds is a programming error and panics.
func (c *Chunk) WriteColor(x, y int, pixel color.LinearRgb) {
	c.assertBounds(x, y)
	c.buffer.writeColor(x, y, pixel)
}

// WriteNormal accumulates a surface normal sample
func (c *Chunk) WriteNormal(x, y int, normal core.Vec3) {
	c.assertBounds(x, y)
	c.buffer.writeColor(x, y, color.LinearRgb{R: normal.X, G: normal.Y, B: normal.Z})
}

// WriteDepth accumulates a depth sample
func (c *Chunk) WriteDepth(x, y int, depth float64) {
	c.assertBounds(x, y)
	c.buffer.writeColor(x, y, color.Splat(depth))
}
