package passfile

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-pagerank/pkg/graphnode"
	"github.com/dd0wney/cluso-pagerank/pkg/longlist"
)

func sampleRecords() []*graphnode.Node {
	return []*graphnode.Node{
		graphnode.NewStructure(1, longlist.FromSlice([]int64{2, 3})),
		graphnode.NewMass(2, 0.125),
		graphnode.NewMass(3, 0.125),
		graphnode.NewComplete(4, 0.5, longlist.Range(0, 50)),
		graphnode.NewStructure(5, nil),
	}
}

func writeAll(t *testing.T, c Compression, records []*graphnode.Node) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, c)
	require.NoError(t, err)
	for _, n := range records {
		require.NoError(t, w.Write(n))
	}
	require.NoError(t, w.Close())
	assert.Equal(t, len(records), w.Count())
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []Compression{None, Snappy} {
		t.Run(c.String(), func(t *testing.T) {
			records := sampleRecords()
			data := writeAll(t, c, records)

			r, err := NewReader(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, c, r.Compression())

			got, err := r.ReadAll()
			require.NoError(t, err)
			require.Len(t, got, len(records))
			for i := range records {
				assert.True(t, graphnode.Equal(got[i], records[i]), "record %d: got %v, want %v", i, got[i], records[i])
			}
			assert.Equal(t, len(records), r.Count())
		})
	}
}

func TestEmptyStream(t *testing.T) {
	for _, c := range []Compression{None, Snappy} {
		data := writeAll(t, c, nil)
		assert.Len(t, data, headerSize, c.String())

		r, err := NewReader(bytes.NewReader(data))
		require.NoError(t, err)
		_, err = r.Next()
		assert.Equal(t, io.EOF, err)
	}
}

func TestUncompressedBodyIsPlainRecords(t *testing.T) {
	n := graphnode.NewMass(7, 1)
	data := writeAll(t, None, []*graphnode.Node{n})

	want, err := n.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte("PRNF"), data[:4])
	assert.Equal(t, want, data[headerSize:])
}

func TestSnappyCompresses(t *testing.T) {
	var records []*graphnode.Node
	for i := 0; i < 200; i++ {
		records = append(records, graphnode.NewStructure(int64(i), longlist.Range(0, 32)))
	}

	plain := writeAll(t, None, records)
	packed := writeAll(t, Snappy, records)
	assert.Less(t, len(packed), len(plain))
}

func TestTruncatedRecord(t *testing.T) {
	data := writeAll(t, None, sampleRecords())

	r, err := NewReader(bytes.NewReader(data[:len(data)-3]))
	require.NoError(t, err)

	_, err = r.ReadAll()
	require.Error(t, err)
	assert.True(t, graphnode.IsDecodeError(err))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestBadHeader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"magic", []byte("XXXX\x01\x00"), ErrBadMagic},
		{"version", []byte("PRNF\x09\x00"), ErrUnsupportedVersion},
		{"compression", []byte("PRNF\x01\x07"), ErrUnknownCompression},
		{"short", []byte("PR"), io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWriteAfterClose(t *testing.T) {
	w, err := NewWriter(io.Discard, None)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.True(t, errors.Is(w.Write(graphnode.NewMass(1, 1)), ErrClosed))
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pass-0001.prn")
	records := sampleRecords()

	fw, err := CreateFile(path, Snappy)
	require.NoError(t, err)
	for _, n := range records {
		require.NoError(t, fw.Write(n))
	}
	require.NoError(t, fw.Close())

	fr, err := OpenFile(path)
	require.NoError(t, err)
	defer fr.Close()

	got, err := fr.ReadAll()
	require.NoError(t, err)
	require.Len(t, got, len(records))
	for i := range records {
		assert.True(t, graphnode.Equal(got[i], records[i]))
	}
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": None, "none": None, "snappy": Snappy} {
		got, err := ParseCompression(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCompression("zstd")
	assert.ErrorIs(t, err, ErrUnknownCompression)
}
