package bind_group_provider

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	// Provider holds the buffer being written.
	Provider BindGroupProvider

	// Binding selects which of the provider's buffers receives the write.
	Binding int

	// Offset is the byte offset into the buffer.
	Offset uint64

	// Data is the payload, already serialized for GPU layout.
	Data []byte
}
