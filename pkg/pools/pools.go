// Package pools provides object pooling for the codec hot paths.
//
// Node and list records are encoded and decoded once per vertex per pass,
// so the encoders borrow their scratch buffers from here:
//
//   - BytePool: size-class based byte slice pooling for encoded records
//   - Int64Pool: pooling for int64 scratch slices (adjacency, mass buckets)
//   - BufferBuilder: big-endian record construction on a pooled buffer
package pools
