// Package compression provides the streaming codecs applied to dump files.
package compression

import (
	"fmt"
	"io"

	apperrors "database-manager/internal/errors"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type names a compression algorithm.
type Type string

const (
	TypeGzip Type = "gzip"
	TypeNull Type = "null"
	TypeLZ4  Type = "lz4"
	TypeZstd Type = "zstd"
)

// Compressor wraps streams with one compression algorithm.
type Compressor interface {
	Name() Type
	// Extension is appended to artifact paths, e.g. ".gz". It is empty for
	// the null compressor.
	Extension() string
	// Compress returns a writer compressing into w. Close flushes the
	// compressed stream but does not close w.
	Compress(w io.Writer) (io.WriteCloser, error)
	// Decompress returns a reader decompressing r.
	Decompress(r io.Reader) (io.ReadCloser, error)
}

// All returns every supported compressor. Gzip comes first.
func All() []Compressor {
	return []Compressor{
		&GzipCompressor{Level: gzip.DefaultCompression},
		&NullCompressor{},
		&LZ4Compressor{},
		&ZstdCompressor{Level: zstd.SpeedDefault},
	}
}

// GzipCompressor implements gzip compression
type GzipCompressor struct {
	Level int
}

func (gc *GzipCompressor) Name() Type        { return TypeGzip }
func (gc *GzipCompressor) Extension() string { return ".gz" }

func (gc *GzipCompressor) Compress(w io.Writer) (io.WriteCloser, error) {
	writer, err := gzip.NewWriterLevel(w, gc.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}
	return writer, nil
}

func (gc *GzipCompressor) Decompress(r io.Reader) (io.ReadCloser, error) {
	reader, err := gzip.NewReader(r)
	if err != nil {
		return nil, apperrors.NewCompressionError("failed to read gzip header", err)
	}
	return reader, nil
}

// NullCompressor passes data through unchanged.
type NullCompressor struct{}

func (nc *NullCompressor) Name() Type        { return TypeNull }
func (nc *NullCompressor) Extension() string { return "" }

func (nc *NullCompressor) Compress(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (nc *NullCompressor) Decompress(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

// LZ4Compressor implements LZ4 frame compression
type LZ4Compressor struct {
	// High selects lz4.Level9 instead of the fast default.
	High bool
}

func (lc *LZ4Compressor) Name() Type        { return TypeLZ4 }
func (lc *LZ4Compressor) Extension() string { return ".lz4" }

func (lc *LZ4Compressor) Compress(w io.Writer) (io.WriteCloser, error) {
	writer := lz4.NewWriter(w)
	if lc.High {
		if err := writer.Apply(lz4.CompressionLevelOption(lz4.Level9)); err != nil {
			return nil, fmt.Errorf("failed to set LZ4 high compression: %w", err)
		}
	}
	return writer, nil
}

func (lc *LZ4Compressor) Decompress(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

// ZstdCompressor implements Zstandard compression
type ZstdCompressor struct {
	Level zstd.EncoderLevel
}

func (zc *ZstdCompressor) Name() Type        { return TypeZstd }
func (zc *ZstdCompressor) Extension() string { return ".zst" }

func (zc *ZstdCompressor) Compress(w io.Writer) (io.WriteCloser, error) {
	level := zc.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}
	encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	return encoder, nil
}

func (zc *ZstdCompressor) Decompress(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, apperrors.NewCompressionError("failed to create zstd decoder", err)
	}
	return decoder.IOReadCloser(), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
