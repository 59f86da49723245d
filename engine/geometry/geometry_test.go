package geometry

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryShapes(t *testing.T) {
	lib := NewGeometryLibrary()
	assert.Equal(t, []Shape{Square, Hexagon}, lib.Shapes())
	assert.Nil(t, lib.Geometry(Shape(7)))
}

func TestShapeCounts(t *testing.T) {
	lib := NewGeometryLibrary()

	hex := lib.Geometry(Hexagon)
	require.NotNil(t, hex)
	assert.Len(t, hex.Vertices(), 7)
	assert.Equal(t, 18, hex.IndexCount())
	assert.Equal(t, 18, hex.BindGroupProvider().IndexCount())

	sq := lib.Geometry(Square)
	require.NotNil(t, sq)
	assert.Len(t, sq.Vertices(), 4)
	assert.Equal(t, 6, sq.IndexCount())
	assert.Equal(t, 6, sq.BindGroupProvider().IndexCount())
}

func TestIndicesInRange(t *testing.T) {
	lib := NewGeometryLibrary()
	for _, shape := range lib.Shapes() {
		g := lib.Geometry(shape)
		assert.Zero(t, g.IndexCount()%3, "%s must be a triangle list", shape)
		for _, idx := range g.Indices() {
			assert.Less(t, int(idx), len(g.Vertices()), "%s index out of range", shape)
		}
	}
}

func TestHexagonIsFanAroundCenter(t *testing.T) {
	hex := NewGeometryLibrary().Geometry(Hexagon)
	idx := hex.Indices()
	for tri := 0; tri < 6; tri++ {
		assert.Equal(t, uint32(0), idx[tri*3])
	}
	assert.Equal(t, [3]float32{0, 0, 0}, hex.Vertices()[0].Position)
}

func TestMarshalVertices(t *testing.T) {
	sq := NewGeometryLibrary().Geometry(Square)
	b := sq.MarshalVertices()
	require.Len(t, b, 4*20)

	// second vertex: position (1, 1, 0), uv (1, 1)
	v := b[20:40]
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(v[0:4])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(v[4:8])))
	assert.Equal(t, float32(0), math.Float32frombits(binary.LittleEndian.Uint32(v[8:12])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(v[12:16])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(v[16:20])))
}

func TestMarshalIndices(t *testing.T) {
	sq := NewGeometryLibrary().Geometry(Square)
	b := sq.MarshalIndices()
	require.Len(t, b, 6*4)
	got := make([]uint32, 6)
	for i := range got {
		got[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	assert.Equal(t, []uint32{0, 2, 3, 0, 3, 1}, got)
}

func TestShapeNextAlternates(t *testing.T) {
	assert.Equal(t, Hexagon, Square.Next())
	assert.Equal(t, Square, Hexagon.Next())
	assert.Equal(t, "hexagon", Hexagon.String())
}

func TestVertexSourceEmbedded(t *testing.T) {
	assert.Contains(t, GPUVertexSource, "struct VertexInput")
	assert.Contains(t, GPUVertexSource, "@location(1) tex_coords: vec2<f32>")
}
