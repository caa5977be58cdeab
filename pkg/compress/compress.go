// Package compress provides the compression pass applied by the payload
// size trial.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Default is the compressor used when none is configured: gzip at its
// default level, no dictionary.
const Default = "gzip"

// ErrUnknownCompressor is returned by Get for unregistered names.
var ErrUnknownCompressor = errors.New("compress: unknown compressor")

// Compressor compresses whole payloads.
type Compressor interface {
	Name() string
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// EffectiveSize returns the number of bytes data occupies once compressed by
// c. When compression does not shrink the payload it would be sent with
// identity encoding instead, so the result never exceeds len(data).
func EffectiveSize(c Compressor, data []byte) (int, error) {
	out, err := c.Compress(data)
	if err != nil {
		return 0, err
	}
	return min(len(out), len(data)), nil
}

var registry = map[string]Compressor{
	"gzip":   gzipCompressor{},
	"zlib":   zlibCompressor{},
	"zstd":   &zstdCompressor{},
	"snappy": snappyCompressor{},
}

// Get returns the compressor registered under name.
func Get(name string) (Compressor, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownCompressor, name, Names())
	}
	return c, nil
}

// Names returns the registered compressor names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type gzipCompressor struct{}

func (gzipCompressor) Name() string { return "gzip" }

func (gzipCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.DefaultCompression)
	if err != nil {
		return nil, err
	}
	return finish(&buf, w, data, "gzip")
}

func (gzipCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("compress: gzip: %w", err)
	}
	defer r.Close()
	return readAll(r, "gzip")
}

type zlibCompressor struct{}

func (zlibCompressor) Name() string { return "zlib" }

func (zlibCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
	if err != nil {
		return nil, err
	}
	return finish(&buf, w, data, "zlib")
}

func (zlibCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("compress: zlib: %w", err)
	}
	defer r.Close()
	return readAll(r, "zlib")
}

// zstdCompressor shares one encoder and one decoder; EncodeAll and DecodeAll
// are safe for concurrent use.
type zstdCompressor struct {
	once sync.Once
	enc  *zstd.Encoder
	dec  *zstd.Decoder
	err  error
}

func (z *zstdCompressor) init() error {
	z.once.Do(func() {
		z.enc, z.err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if z.err != nil {
			return
		}
		z.dec, z.err = zstd.NewReader(nil)
	})
	return z.err
}

func (z *zstdCompressor) Name() string { return "zstd" }

func (z *zstdCompressor) Compress(data []byte) ([]byte, error) {
	if err := z.init(); err != nil {
		return nil, fmt.Errorf("compress: zstd: %w", err)
	}
	return z.enc.EncodeAll(data, nil), nil
}

func (z *zstdCompressor) Decompress(data []byte) ([]byte, error) {
	if err := z.init(); err != nil {
		return nil, fmt.Errorf("compress: zstd: %w", err)
	}
	out, err := z.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("compress: zstd: %w", err)
	}
	return out, nil
}

type snappyCompressor struct{}

func (snappyCompressor) Name() string { return "snappy" }

func (snappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (snappyCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("compress: snappy: %w", err)
	}
	return out, nil
}

func finish(buf *bytes.Buffer, w io.WriteCloser, data []byte, name string) ([]byte, error) {
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compress: %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress: %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func readAll(r io.Reader, name string) ([]byte, error) {
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("compress: %s: %w", name, err)
	}
	return out, nil
}
