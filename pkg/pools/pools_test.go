package pools

import (
	"math"
	"sync"
	"testing"
)

func TestBytePool_Get(t *testing.T) {
	pool := NewBytePool()

	tests := []struct {
		name   string
		size   int
		minCap int
	}{
		{"mass_record", 13, 13},
		{"tiny_exact", TinySize, TinySize},
		{"small", 32, 32},
		{"medium", 128, 128},
		{"large", 512, 512},
		{"huge", 2048, 2048},
		{"oversized", 10000, 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := pool.Get(tt.size)
			if len(b) != 0 {
				t.Errorf("Get(%d) length = %d, want 0", tt.size, len(b))
			}
			if cap(b) < tt.minCap {
				t.Errorf("Get(%d) capacity = %d, want >= %d", tt.size, cap(b), tt.minCap)
			}
		})
	}
}

func TestBytePool_GetSized(t *testing.T) {
	pool := NewBytePool()

	b := pool.GetSized(100)
	if len(b) != 100 {
		t.Errorf("GetSized(100) length = %d, want 100", len(b))
	}
}

func TestBytePool_PutOddCapacity(t *testing.T) {
	pool := NewBytePool()

	// A 100-byte buffer may only serve the 64-byte class.
	pool.Put(make([]byte, 0, 100))
	for i := 0; i < 4; i++ {
		b := pool.Get(SmallSize)
		if cap(b) < SmallSize {
			t.Fatalf("Get(%d) capacity = %d after odd Put", SmallSize, cap(b))
		}
	}

	// Too small and too large are dropped silently.
	pool.Put(make([]byte, 0, 4))
	pool.Put(make([]byte, 0, MaxPool+1))
}

func TestInt64Pool_Get(t *testing.T) {
	pool := NewInt64Pool()

	for _, size := range []int{1, 16, 100, 1000, 5000} {
		s := pool.Get(size)
		if len(s) != 0 {
			t.Errorf("Get(%d) length = %d, want 0", size, len(s))
		}
		if cap(s) < size {
			t.Errorf("Get(%d) capacity = %d, want >= %d", size, cap(s), size)
		}
		pool.Put(s)
	}
}

func TestDefaultInt64Pool(t *testing.T) {
	s := GetInt64s(10)
	s = append(s, 1, 2, 3)
	PutInt64s(s)

	again := GetInt64s(10)
	if len(again) != 0 {
		t.Errorf("reused slice length = %d, want 0", len(again))
	}
}

func TestBufferBuilder(t *testing.T) {
	b := NewBufferBuilder(64)
	defer b.Release()

	b.WriteByte(0x03)
	b.WriteInt64BE(-2)
	b.WriteFloat32BE(1.5)
	b.WriteUint32BE(0x12345678)
	b.Write([]byte{0xFF})

	result := b.Bytes()
	if len(result) != 1+8+4+4+1 {
		t.Fatalf("Buffer length = %d, want 18", len(result))
	}
	if result[0] != 0x03 {
		t.Errorf("result[0] = %02x, want 0x03", result[0])
	}
	for i := 1; i < 8; i++ {
		if result[i] != 0xFF {
			t.Errorf("int64 byte %d = %02x, want ff", i-1, result[i])
		}
	}
	if result[8] != 0xFE {
		t.Errorf("int64 low byte = %02x, want fe", result[8])
	}

	bits := uint32(result[9])<<24 | uint32(result[10])<<16 | uint32(result[11])<<8 | uint32(result[12])
	if math.Float32frombits(bits) != 1.5 {
		t.Errorf("float32 = %v, want 1.5", math.Float32frombits(bits))
	}
	if result[13] != 0x12 || result[16] != 0x78 {
		t.Error("uint32 encoding incorrect")
	}
	if result[17] != 0xFF {
		t.Error("trailing byte incorrect")
	}
}

func TestBufferBuilder_Reset(t *testing.T) {
	b := NewBufferBuilder(32)
	defer b.Release()

	b.WriteUint64BE(7)
	b.Reset()

	if b.Len() != 0 {
		t.Errorf("After Reset() Len() = %d, want 0", b.Len())
	}

	b.WriteByte(1)
	if b.Len() != 1 {
		t.Errorf("After reuse Len() = %d, want 1", b.Len())
	}
}

func TestBytePool_Concurrent(t *testing.T) {
	pool := NewBytePool()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b := pool.Get(64)
				b = append(b, byte(j))
				pool.Put(b)
			}
		}()
	}

	wg.Wait()
}

func BenchmarkBufferBuilder(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		bb := NewBufferBuilder(64)
		bb.WriteByte(2)
		bb.WriteInt64BE(int64(i))
		bb.WriteFloat32BE(0.15)
		bb.Release()
	}
}
