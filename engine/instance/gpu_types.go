package instance

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUInstanceInputSource is the canonical WGSL definition of the InstanceInput struct.
// The model matrix is split into four column vectors at locations 5 through 8.
//
//go:embed assets/instance_input.wgsl
var GPUInstanceInputSource string

// GPUInstanceRaw is one instance's model matrix as laid out in the per-instance vertex buffer.
type GPUInstanceRaw struct {
	Model [16]float32 // offset 0: translation * rotation, column-major (4 x vec4<f32>)
}

// Size returns the size of the GPUInstanceRaw struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUInstanceRaw) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the model matrix into little-endian bytes suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUInstanceRaw) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
	}
	return buf
}
