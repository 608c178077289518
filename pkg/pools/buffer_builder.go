package pools

import (
	"encoding/binary"
	"math"
)

// BufferBuilder appends big-endian fields to a pooled buffer.
type BufferBuilder struct {
	buf  []byte
	pool *BytePool
}

// NewBufferBuilder creates a new buffer builder with the given initial capacity.
func NewBufferBuilder(initialCap int) *BufferBuilder {
	return &BufferBuilder{
		buf:  defaultBytePool.Get(initialCap),
		pool: defaultBytePool,
	}
}

// Write appends bytes to the buffer.
func (b *BufferBuilder) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// WriteByte appends a single byte.
func (b *BufferBuilder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// WriteUint32BE appends a uint32 in big-endian order.
func (b *BufferBuilder) WriteUint32BE(v uint32) {
	b.buf = binary.BigEndian.AppendUint32(b.buf, v)
}

// WriteUint64BE appends a uint64 in big-endian order.
func (b *BufferBuilder) WriteUint64BE(v uint64) {
	b.buf = binary.BigEndian.AppendUint64(b.buf, v)
}

// WriteInt64BE appends an int64 in two's complement big-endian order.
func (b *BufferBuilder) WriteInt64BE(v int64) {
	b.WriteUint64BE(uint64(v))
}

// WriteFloat32BE appends the IEEE-754 bits of v in big-endian order.
func (b *BufferBuilder) WriteFloat32BE(v float32) {
	b.WriteUint32BE(math.Float32bits(v))
}

// Bytes returns the built buffer. The slice is only valid until Release.
func (b *BufferBuilder) Bytes() []byte {
	return b.buf
}

// Len returns the current length of the buffer.
func (b *BufferBuilder) Len() int {
	return len(b.buf)
}

// Reset resets the buffer for reuse.
func (b *BufferBuilder) Reset() {
	b.buf = b.buf[:0]
}

// Release returns the buffer to the pool. After Release, the builder should not be used.
func (b *BufferBuilder) Release() {
	if b.pool != nil && b.buf != nil {
		b.pool.Put(b.buf)
	}
	b.buf = nil
}
