// Package tracer implements the progressive Monte-Carlo renderer: a
// recursive path integrator with volumetric transport, driven by a
// bulk-synchronous worker pool writing into disjoint buffer chunks.
package tracer

import (
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/log"
	"github.com/lumen-render/lumen/pkg/material"
	"github.com/lumen-render/lumen/pkg/scene"
)

// Output selects which channel of the shading result is accumulated.
// The zero value means "whatever the tracer config selects".
type Output uint8

const (
	// OutputFull accumulates the composited radiance
	OutputFull Output = iota + 1
	// OutputAlbedo accumulates the first-hit surface color
	OutputAlbedo
	// OutputNormal accumulates the first-hit surface normal
	OutputNormal
	// OutputDepth accumulates the first-hit distance
	OutputDepth
)

// ColorSpace returns the display conversion matching the channel
func (o Output) ColorSpace() ColorSpace {
	switch o {
	case OutputNormal:
		return ColorSpaceNormal
	case OutputDepth:
		return ColorSpaceLinear
	default:
		return ColorSpaceSRgb
	}
}

// Subsample splits each pixel into an n×n stratified grid, tracing one
// ray per stratum per sample. Values below 2 disable stratification.
type Subsample int

// SubsampleNone traces a single jittered ray per pixel sample.
const SubsampleNone Subsample = 0

// Subpixel creates an n×n stratification
func Subpixel(n int) Subsample {
	return Subsample(n)
}

func (s Subsample) grid() int {
	if s < 2 {
		return 1
	}
	return int(s)
}

// Status reports whether a render pass produced new samples.
type Status uint8

const (
	// StatusDone means the pass was empty and the image is complete
	StatusDone Status = iota
	// StatusInProgress means samples were accumulated and more passes
	// may follow
	StatusInProgress
)

// Config is the static setup of a tracer.
type Config struct {
	Width  int
	Height int

	// MaxBounces bounds surface path depth; VolumeBounces is the
	// separate, typically larger budget for scatter events inside
	// participating media.
	MaxBounces    int
	VolumeBounces int

	ClipMin float64
	ClipMax float64

	// VolumeStep is the world-space step length of volume walks.
	VolumeStep float64

	ChunksX int
	ChunksY int
	Threads int

	Output Output
}

// DefaultConfig returns the renderer defaults
func DefaultConfig() Config {
	return Config{
		Width:         768,
		Height:        512,
		MaxBounces:    8,
		VolumeBounces: 32,
		ClipMin:       0.1,
		ClipMax:       1000.0,
		VolumeStep:    0.1,
		ChunksX:       8,
		ChunksY:       4,
		Threads:       8,
		Output:        OutputFull,
	}
}

// RenderConfig is the per-pass setup: how many samples to add to the
// buffer in this pass and how to distribute them across each pixel. The
// override fields replace their Config counterparts for this pass only;
// zero values fall back to the static config.
type RenderConfig struct {
	Samples   int
	Subsample Subsample

	// Seed makes the pass deterministic when non-zero.
	Seed int64

	MaxBounces int
	VolumeStep float64
	ClipMin    float64
	ClipMax    float64
	ChunksX    int
	ChunksY    int
	Output     Output
}

// Tracer renders scenes progressively: each Render call adds samples to
// the buffer, and previews converge as passes accumulate.
type Tracer struct {
	config Config
	logger log.Logger
}

// New creates a tracer with default configuration
func New() *Tracer {
	return WithConfig(DefaultConfig())
}

// WithConfig creates a tracer with the given configuration
func WithConfig(config Config) *Tracer {
	return &Tracer{
		config: config,
		logger: log.New("tracer"),
	}
}

// Config returns the tracer configuration
func (t *Tracer) Config() Config {
	return t.config
}

// passConfig resolves the per-pass overrides against the static config
func (t *Tracer) passConfig(cfg *RenderConfig) Config {
	config := t.config
	if cfg.MaxBounces > 0 {
		config.MaxBounces = cfg.MaxBounces
	}
	if cfg.VolumeStep > 0 {
		config.VolumeStep = cfg.VolumeStep
	}
	if cfg.ClipMin > 0 {
		config.ClipMin = cfg.ClipMin
	}
	if cfg.ClipMax > 0 {
		config.ClipMax = cfg.ClipMax
	}
	if cfg.ChunksX > 0 {
		config.ChunksX = cfg.ChunksX
	}
	if cfg.ChunksY > 0 {
		config.ChunksY = cfg.ChunksY
	}
	if cfg.Output != 0 {
		config.Output = cfg.Output
	}
	return config
}

type chunkTask struct {
	index int
	chunk Chunk
}

// renderPass bundles the resolved state of one pass so the integrator
// does not thread five arguments through every recursion level.
type renderPass struct {
	config Config
	cfg    *RenderConfig
	scn    *scene.Scene
	bvh    *core.BVH
}

// Render traces one pass of cfg.Samples samples per pixel into the
// buffer. Chunks are distributed over a worker pool; the call returns
// after every worker has joined and the sample counter was bumped, so
// the buffer is never observed mid-pass.
func (t *Tracer) Render(scn *scene.Scene, bvh *core.BVH, cfg *RenderConfig, buffer *Buffer) Status {
	if cfg.Samples == 0 {
		return StatusDone
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	threads := t.config.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	pass := &renderPass{
		config: t.passConfig(cfg),
		cfg:    cfg,
		scn:    scn,
		bvh:    bvh,
	}

	chunks := buffer.Chunks(pass.config.ChunksX, pass.config.ChunksY)
	tasks := make(chan chunkTask, len(chunks))

	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(len(chunks))
	for i := 0; i < threads; i++ {
		go func() {
			for task := range tasks {
				rng := rand.New(rand.NewSource(seed + int64(task.index)))
				pass.renderChunk(task.chunk, rng)
				wg.Done()
			}
		}()
	}

	for i, chunk := range chunks {
		tasks <- chunkTask{index: i, chunk: chunk}
	}
	close(tasks)
	wg.Wait()

	buffer.IncSamples(cfg.Samples)

	t.logger.Debugf(
		"pass finished: %d samples over %d chunks in %s (total %d)",
		cfg.Samples, len(chunks), time.Since(start), buffer.Samples(),
	)
	return StatusInProgress
}

func (p *renderPass) renderChunk(chunk Chunk, rng *rand.Rand) {
	pixelWidth := chunk.Buffer().PixelWidth()
	pixelHeight := chunk.Buffer().PixelHeight()

	grid := p.cfg.Subsample.grid()
	weight := 1.0 / float64(grid*grid)

	minX, minY, maxX, maxY := chunk.Bounds()
	for y := minY; y < maxY; y++ {
		v := float64(y)*pixelHeight - 1.0

		for x := minX; x < maxX; x++ {
			u := float64(x)*pixelWidth - 1.0

			for s := 0; s < p.cfg.Samples; s++ {
				for gy := 0; gy < grid; gy++ {
					for gx := 0; gx < grid; gx++ {
						du := ((float64(gx)+rng.Float64())/float64(grid) - 0.5) * pixelWidth
						dv := ((float64(gy)+rng.Float64())/float64(grid) - 0.5) * pixelHeight

						ray := p.scn.Camera.Ray(rng, u+du, v+dv)
						data := p.samplePath(rng, ray, 0, 0)

						switch p.config.Output {
						case OutputAlbedo:
							chunk.WriteColor(x, y, data.Albedo.Scale(weight))
						case OutputNormal:
							chunk.WriteNormal(x, y, data.Normal.Multiply(weight))
						case OutputDepth:
							chunk.WriteDepth(x, y, data.Depth*weight)
						default:
							chunk.WriteColor(x, y, data.Color.Scale(weight))
						}
					}
				}
			}
		}
	}
}

// samplePath traces one path segment: find the nearest hit, or
// synthesize a hit on the environment at the far clip plane, and shade
// it. bounce counts surface scatters, volumeBounce volume scatters.
func (p *renderPass) samplePath(rng *rand.Rand, ray core.Ray, bounce, volumeBounce int) core.ColorData {
	if bounce > p.config.MaxBounces {
		return core.ColorData{}
	}

	clip := core.Clip{Min: p.config.ClipMin, Max: p.config.ClipMax}

	manifold, ok := p.bvh.Hit(ray, clip)
	if !ok {
		manifold = core.Manifold{
			Position: ray.At(clip.Max),
			Normal:   ray.Direction.Negate(),
			Face:     core.FaceFront,
			T:        clip.Max,
			Ray:      ray,
			Material: core.Root,
		}
	}

	return p.shade(rng, manifold, bounce, volumeBounce)
}

func (p *renderPass) shade(rng *rand.Rand, manifold core.Manifold, bounce, volumeBounce int) core.ColorData {
	clip := core.Clip{Min: p.config.ClipMin, Max: p.config.ClipMax}

	mat := p.scn.Materials.Get(manifold.Material)
	data := mat.Shade(rng, &manifold, clip, p.config.VolumeStep, p.bvh)

	if data.IsVolume {
		return p.shadeVolume(rng, mat, manifold, data, bounce, volumeBounce)
	}

	if data.Scatter == nil {
		out := *data.Color
		out.Color = out.Emitted
		return out
	}

	reflected := p.samplePath(rng, *data.Scatter, bounce+1, volumeBounce)
	materialPdf := mat.Pdf(&manifold, *data.Scatter)

	out := *data.Color
	out.Color = out.Emitted.Add(out.Albedo.Mul(reflected.Color).Scale(materialPdf / data.Pdf))
	return out
}

// shadeVolume walks a ray through a participating medium in fixed
// steps. Steps that do not scatter advance in place; a scatter event
// recurses with an isotropic direction; leaving the bounding box of the
// medium resumes surface transport from the exit point.
func (p *renderPass) shadeVolume(rng *rand.Rand, mat material.Material, manifold core.Manifold, data material.ShaderData, bounce, volumeBounce int) core.ColorData {
	step := p.config.VolumeStep
	clip := core.Clip{Min: p.config.ClipMin, Max: p.config.ClipMax}

	for {
		if data.Color != nil {
			if volumeBounce >= p.config.VolumeBounces {
				return core.ColorData{Normal: manifold.Normal, Depth: manifold.T}
			}

			reflected := p.samplePath(rng, *data.Scatter, bounce, volumeBounce+1)

			out := *data.Color
			out.Color = out.Emitted.Add(out.Albedo.Mul(reflected.Color))
			return out
		}

		ray := *data.Scatter
		position := ray.At(step)
		if !manifold.Aabb.Contains(position) {
			exit := core.Ray{Origin: position, Direction: ray.Direction}
			return p.samplePath(rng, exit, bounce, volumeBounce)
		}

		manifold.Position = position
		manifold.Face = core.FaceVolume
		manifold.T += step
		manifold.Ray = ray
		data = mat.Shade(rng, &manifold, clip, step, p.bvh)
	}
}
