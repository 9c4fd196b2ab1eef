// Package scene holds the renderable description of a world: a camera,
// tagged objects wrapping geometric shapes, and the material arena they
// reference. Scenes build the spatial index consumed by the tracer and
// round-trip through JSON, optionally gzip-compressed.
package scene

import (
	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/material"
)

// Object is a tagged scene entry wrapping a geometric shape. Tags are
// the handle interactive tooling uses to address objects in updates.
type Object struct {
	Tag   string
	Shape core.Primitive
}

// NewObject creates an object around a shape
func NewObject(shape core.Primitive) *Object {
	return &Object{Shape: shape}
}

// WithTag sets the object's tag and returns it for chaining
func (o *Object) WithTag(tag string) *Object {
	o.Tag = tag
	return o
}

// Scene is a complete renderable world.
type Scene struct {
	Camera    Camera
	Materials *material.Materials

	objects []*Object
}

// New creates an empty scene with a default camera and a black
// environment
func New() *Scene {
	return &Scene{
		Camera:    NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
		Materials: material.NewMaterials(),
	}
}

// Add appends an object to the scene
func (s *Scene) Add(object *Object) {
	s.objects = append(s.objects, object)
}

// Len returns the number of objects in the scene
func (s *Scene) Len() int {
	return len(s.objects)
}

// Objects returns the scene's objects in insertion order
func (s *Scene) Objects() []*Object {
	return s.objects
}

// FindByTag returns the first object with the given tag, or nil
func (s *Scene) FindByTag(tag string) *Object {
	for _, object := range s.objects {
		if object.Tag == tag {
			return object
		}
	}
	return nil
}

// BuildBVH builds the spatial index over all shapes in the scene
func (s *Scene) BuildBVH() *core.BVH {
	bvh := core.NewBVH()
	for _, object := range s.objects {
		bvh.Insert(object.Shape)
	}
	return bvh
}
