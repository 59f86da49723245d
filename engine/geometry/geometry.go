// Package geometry holds the fixed set of indexed meshes the demo can draw.
package geometry

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-instanced/common"
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer/bind_group_provider"
)

// Shape selects one of the built-in meshes.
type Shape int

const (
	// Square is a two-triangle quad. It is the shape drawn at startup.
	Square Shape = iota
	// Hexagon is a six-triangle fan around a center vertex.
	Hexagon
)

func (s Shape) String() string {
	switch s {
	case Square:
		return "square"
	case Hexagon:
		return "hexagon"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Next returns the other shape. Square and Hexagon alternate.
func (s Shape) Next() Shape {
	if s == Hexagon {
		return Square
	}
	return Hexagon
}

type geometryImpl struct {
	shape    Shape
	vertices []GPUVertex
	indices  []uint32

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Geometry is an immutable indexed triangle-list mesh.
type Geometry interface {
	// Shape returns which built-in mesh this is.
	Shape() Shape

	// Vertices returns the mesh vertices. Callers must not modify the slice.
	Vertices() []GPUVertex

	// Indices returns the triangle-list indices. Callers must not modify the slice.
	Indices() []uint32

	// IndexCount returns len(Indices()).
	IndexCount() int

	// MarshalVertices serializes every vertex for upload to the vertex buffer.
	//
	// Returns:
	//   - []byte: tightly packed vertex data
	MarshalVertices() []byte

	// MarshalIndices serializes the indices as little-endian uint32 values.
	//
	// Returns:
	//   - []byte: index buffer contents
	MarshalIndices() []byte

	// BindGroupProvider returns the provider that owns the mesh's vertex and index buffers.
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ Geometry = &geometryImpl{}

func newGeometry(shape Shape, vertices []GPUVertex, indices []uint32) Geometry {
	return &geometryImpl{
		shape:    shape,
		vertices: vertices,
		indices:  indices,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"geometry_"+shape.String(),
			bind_group_provider.WithIndexCount(len(indices)),
		),
	}
}

func (g *geometryImpl) Shape() Shape {
	return g.shape
}

func (g *geometryImpl) Vertices() []GPUVertex {
	return g.vertices
}

func (g *geometryImpl) Indices() []uint32 {
	return g.indices
}

func (g *geometryImpl) IndexCount() int {
	return len(g.indices)
}

func (g *geometryImpl) MarshalVertices() []byte {
	buf := make([]byte, 0, len(g.vertices)*20)
	for i := range g.vertices {
		buf = append(buf, g.vertices[i].Marshal()...)
	}
	return buf
}

func (g *geometryImpl) MarshalIndices() []byte {
	return append([]byte(nil), common.SliceToBytes(g.indices)...)
}

func (g *geometryImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return g.bindGroupProvider
}

type geometryLibraryImpl struct {
	shapes     []Shape
	geometries map[Shape]Geometry
}

// GeometryLibrary holds every built-in mesh, created once at startup.
type GeometryLibrary interface {
	// Geometry returns the mesh for a shape. Unknown shapes return nil.
	//
	// Parameters:
	//   - shape: the shape to look up
	//
	// Returns:
	//   - Geometry: the mesh, or nil
	Geometry(shape Shape) Geometry

	// Shapes lists the available shapes in a fixed order.
	Shapes() []Shape

	// Release frees the GPU buffers of every mesh.
	Release()
}

var _ GeometryLibrary = &geometryLibraryImpl{}

// NewGeometryLibrary creates the library with the square and the hexagon.
//
// Returns:
//   - GeometryLibrary: the library
func NewGeometryLibrary() GeometryLibrary {
	return &geometryLibraryImpl{
		shapes: []Shape{Square, Hexagon},
		geometries: map[Shape]Geometry{
			Square:  newGeometry(Square, squareVertices, squareIndices),
			Hexagon: newGeometry(Hexagon, hexagonVertices, hexagonIndices),
		},
	}
}

func (l *geometryLibraryImpl) Geometry(shape Shape) Geometry {
	return l.geometries[shape]
}

func (l *geometryLibraryImpl) Shapes() []Shape {
	return l.shapes
}

func (l *geometryLibraryImpl) Release() {
	for _, shape := range l.shapes {
		l.geometries[shape].BindGroupProvider().Release()
	}
}
