package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/lumen-render/lumen/pkg/color"
	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/geometry"
	"github.com/lumen-render/lumen/pkg/material"
	"github.com/lumen-render/lumen/pkg/scene"
)

// SceneInfo prints a summary of a scene file.
func SceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	scn, err := scene.LoadFile(ctx.Args().First())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Tag", "Shape", "Material", "Light", "Volumetric"})
	for _, object := range scn.Objects() {
		table.Append(describeObject(object))
	}
	table.Render()

	fmt.Printf("objects: %d, materials: %d\n%s", scn.Len(), scn.Materials.Len(), buf.String())
	return nil
}

func describeObject(object *scene.Object) []string {
	var kind string
	var mat core.MaterialRef
	var flags core.ObjectFlags
	var volumetric bool

	switch shape := object.Shape.(type) {
	case *geometry.Sphere:
		kind, mat, flags, volumetric = "sphere", shape.Material, shape.ObjectFlags, shape.Volumetric
	case *geometry.Rect:
		kind, mat, flags, volumetric = "rect", shape.Material, shape.ObjectFlags, shape.Volumetric
	case *geometry.Cuboid:
		kind, mat, flags, volumetric = "cuboid", shape.Material, shape.ObjectFlags, shape.Volumetric
	default:
		kind = fmt.Sprintf("%T", object.Shape)
	}

	return []string{
		object.Tag,
		kind,
		fmt.Sprintf("%d", mat),
		fmt.Sprintf("%t", flags.Has(core.FlagLight)),
		fmt.Sprintf("%t", volumetric),
	}
}

// SceneExample writes a demo scene exercising every shape and material
// kind: a walled room, three spheres, an area light and a fog volume.
func SceneExample(ctx *cli.Context) error {
	setupLogging(ctx)

	scn := scene.New()
	scn.Camera = scene.NewCamera(core.NewVec3(0, 1.0, 4.5), core.NewVec3(0, 1.0, 0))
	scn.Camera.Fstop = 4.0
	scn.Camera.Focus = 4.5

	white := scn.Materials.Add(&material.Diffuse{Albedo: color.Splat(0.73)})
	red := scn.Materials.Add(&material.Diffuse{Albedo: color.FromSrgb(0.75, 0.15, 0.15)})
	green := scn.Materials.Add(&material.Diffuse{Albedo: color.FromSrgb(0.15, 0.75, 0.15)})
	mirror := scn.Materials.Add(&material.Metallic{Albedo: color.Splat(0.9), Roughness: 0.05})
	glass := scn.Materials.Add(&material.Glass{Albedo: color.White, Roughness: 0, Ior: 1.5})
	light := scn.Materials.Add(&material.Emissive{Albedo: color.White, Intensity: 12})

	fogMap := material.UniformVoxelMap(2, 2, 2, material.NewVoxel(0.4, color.Splat(0.8)))
	fog := scn.Materials.Add(material.NewVolume(fogMap))

	x := core.NewVec3(2, 0, 0)
	y := core.NewVec3(0, 2, 0)
	z := core.NewVec3(0, 0, 2)

	scn.Add(scene.NewObject(geometry.NewRect(core.NewVec3(0, 0, 0), x, z, white)).WithTag("floor"))
	scn.Add(scene.NewObject(geometry.NewRect(core.NewVec3(0, 4, 0), x, z, white)).WithTag("ceiling"))
	scn.Add(scene.NewObject(geometry.NewRect(core.NewVec3(0, 2, -2), x, y, white)).WithTag("back"))
	scn.Add(scene.NewObject(geometry.NewRect(core.NewVec3(-2, 2, 0), z, y, red)).WithTag("left"))
	scn.Add(scene.NewObject(geometry.NewRect(core.NewVec3(2, 2, 0), y, z, green)).WithTag("right"))

	lamp := geometry.NewRect(
		core.NewVec3(0, 3.99, 0),
		core.NewVec3(0.6, 0, 0),
		core.NewVec3(0, 0, 0.6),
		light,
	)
	lamp.ObjectFlags = core.FlagLight
	scn.Add(scene.NewObject(lamp).WithTag("lamp"))

	scn.Add(scene.NewObject(geometry.NewSphere(core.NewVec3(-0.9, 0.5, -0.6), 0.5, mirror)).WithTag("mirror-ball"))
	scn.Add(scene.NewObject(geometry.NewSphere(core.NewVec3(0.9, 0.5, 0.2), 0.5, glass)).WithTag("glass-ball"))
	scn.Add(scene.NewObject(geometry.NewSphere(core.NewVec3(0, 0.35, 0.9), 0.35, white)).WithTag("matte-ball"))

	fogBox := geometry.NewCuboid(core.NewVec3(0, 0.75, -1.0), core.NewVec3(0.75, 0.75, 0.5), fog)
	fogBox.Volumetric = true
	scn.Add(scene.NewObject(fogBox).WithTag("fog"))

	out := ctx.String("out")
	if err := scn.SaveFile(out); err != nil {
		return err
	}
	logger.Infof("wrote example scene to %s", out)
	return nil
}
