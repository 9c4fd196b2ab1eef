package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/lumen-render/lumen/cmd"
)

func main() {
	app := cli.NewApp()
	app.Name = "lumen"
	app.Usage = "progressive path tracer for sphere, rect and voxel-volume scenes"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "render",
			Usage:     "render a scene file to an image",
			ArgsUsage: "scene.json[.gz]",
			Description: `
Render a scene progressively: every pass adds one sample per pixel to the
accumulation buffer until the sample target is reached. The output format
follows the file extension (.png or .bmp).`,
			Action: cmd.RenderScene,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 768,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "samples",
					Value: 32,
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "bounces",
					Value: 8,
					Usage: "maximum surface bounces per path",
				},
				cli.IntFlag{
					Name:  "volume-bounces",
					Value: 32,
					Usage: "maximum scatter events inside volumes",
				},
				cli.Float64Flag{
					Name:  "step",
					Value: 0.1,
					Usage: "volume walk step length",
				},
				cli.IntFlag{
					Name:  "tiles-x",
					Value: 8,
					Usage: "horizontal tile count",
				},
				cli.IntFlag{
					Name:  "tiles-y",
					Value: 4,
					Usage: "vertical tile count",
				},
				cli.IntFlag{
					Name:  "threads",
					Value: 8,
					Usage: "worker goroutines (0 = one per cpu)",
				},
				cli.IntFlag{
					Name:  "subsample",
					Value: 0,
					Usage: "subpixel grid size (0 or 1 disables)",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 0,
					Usage: "deterministic base seed (0 = random)",
				},
				cli.StringFlag{
					Name:  "output",
					Value: "full",
					Usage: "output channel: full, albedo, normal or depth",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "render.png",
					Usage: "image filename for the rendered frame",
				},
			},
		},
		{
			Name:  "scene",
			Usage: "inspect and generate scene files",
			Subcommands: []cli.Command{
				{
					Name:      "info",
					Usage:     "print a summary of a scene file",
					ArgsUsage: "scene.json[.gz]",
					Action:    cmd.SceneInfo,
				},
				{
					Name:   "example",
					Usage:  "write an example scene",
					Action: cmd.SceneExample,
					Flags: []cli.Flag{
						cli.StringFlag{
							Name:  "out, o",
							Value: "example.json",
							Usage: "scene filename",
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
