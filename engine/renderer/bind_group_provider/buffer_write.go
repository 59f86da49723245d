package bind_group_provider

// BufferTarget selects which buffer of a provider a BufferWrite lands in.
type BufferTarget int

const (
	// TargetBinding writes into the buffer at BufferWrite.Binding (uniform or storage buffers).
	TargetBinding BufferTarget = iota
	// TargetVertex writes into the provider's vertex buffer. Binding is ignored.
	TargetVertex
)

// BufferWrite describes a single GPU buffer write operation targeting one buffer
// of a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Target   BufferTarget
	Binding  int
	Offset   uint64
	Data     []byte
}
