package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/image/bmp"

	"github.com/lumen-render/lumen/pkg/scene"
	"github.com/lumen-render/lumen/pkg/tracer"
)

// RenderScene renders a scene file progressively and writes the result
// to an image file.
func RenderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	output, err := parseOutput(ctx.String("output"))
	if err != nil {
		return err
	}

	config := tracer.DefaultConfig()
	config.Width = ctx.Int("width")
	config.Height = ctx.Int("height")
	config.MaxBounces = ctx.Int("bounces")
	config.VolumeBounces = ctx.Int("volume-bounces")
	config.VolumeStep = ctx.Float64("step")
	config.ChunksX = ctx.Int("tiles-x")
	config.ChunksY = ctx.Int("tiles-y")
	config.Threads = ctx.Int("threads")
	config.Output = output

	scn, err := scene.LoadFile(ctx.Args().First())
	if err != nil {
		return err
	}
	scn.Camera.AspectRatio = float64(config.Width) / float64(config.Height)

	bvh := scn.BuildBVH()
	logger.Infof("spatial index: %d objects, height %d", bvh.Len(), bvh.Height())

	subsample := tracer.SubsampleNone
	if n := ctx.Int("subsample"); n > 1 {
		subsample = tracer.Subpixel(n)
	}

	maxSamples := ctx.Int("samples")
	seed := ctx.Int64("seed")

	buffer := tracer.NewBuffer(config.Width, config.Height, output.ColorSpace())
	tr := tracer.WithConfig(config)

	var passes []passStats
	start := time.Now()

	for pass := 0; buffer.Samples() < maxSamples; pass++ {
		renderConfig := tracer.RenderConfig{
			Samples:   1,
			Subsample: subsample,
		}
		if seed != 0 {
			renderConfig.Seed = seed + int64(pass)
		}

		passStart := time.Now()
		if tr.Render(scn, bvh, &renderConfig, buffer) == tracer.StatusDone {
			break
		}
		passes = append(passes, passStats{
			samples:  buffer.Samples(),
			duration: time.Since(passStart),
		})
	}

	displayRenderStats(passes, time.Since(start))

	out := ctx.String("out")
	if err := exportImage(out, buffer.Preview()); err != nil {
		return err
	}
	logger.Infof("wrote %s after %d samples", out, buffer.Samples())
	return nil
}

type passStats struct {
	samples  int
	duration time.Duration
}

func displayRenderStats(passes []passStats, total time.Duration) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Pass", "Samples", "Render time"})
	for i, pass := range passes {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", pass.samples),
			pass.duration.String(),
		})
	}
	table.SetFooter([]string{"", "TOTAL", total.String()})
	table.Render()

	logger.Infof("render statistics\n%s", buf.String())
}

func parseOutput(name string) (tracer.Output, error) {
	switch name {
	case "", "full":
		return tracer.OutputFull, nil
	case "albedo":
		return tracer.OutputAlbedo, nil
	case "normal":
		return tracer.OutputNormal, nil
	case "depth":
		return tracer.OutputDepth, nil
	default:
		return 0, fmt.Errorf("unknown output channel %q", name)
	}
}

func exportImage(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return err
	}
	return f.Close()
}
