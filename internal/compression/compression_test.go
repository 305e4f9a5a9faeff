package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	apperrors "database-manager/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressors_Stream(t *testing.T) {
	dump := []byte(strings.Repeat("INSERT INTO `users` VALUES (1,'alice'),(2,'bob');\n", 200))

	for _, c := range All() {
		t.Run(string(c.Name()), func(t *testing.T) {
			var compressed bytes.Buffer
			w, err := c.Compress(&compressed)
			require.NoError(t, err)
			_, err = w.Write(dump)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if c.Name() == TypeNull {
				assert.Equal(t, dump, compressed.Bytes())
			} else {
				assert.Less(t, compressed.Len(), len(dump))
			}

			r, err := c.Decompress(&compressed)
			require.NoError(t, err)
			defer r.Close()

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, dump, got)
		})
	}
}

func TestCompressors_Extension(t *testing.T) {
	want := map[Type]string{
		TypeGzip: ".gz",
		TypeNull: "",
		TypeLZ4:  ".lz4",
		TypeZstd: ".zst",
	}
	for _, c := range All() {
		assert.Equal(t, want[c.Name()], c.Extension(), c.Name())
	}
	assert.Equal(t, TypeGzip, All()[0].Name())
}

func TestGzipCompressor_InvalidInput(t *testing.T) {
	c := &GzipCompressor{}
	_, err := c.Decompress(strings.NewReader("not gzip"))
	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeCompression, apperrors.GetErrorType(err))
}

func TestGzipCompressor_InvalidLevel(t *testing.T) {
	c := &GzipCompressor{Level: 42}
	_, err := c.Compress(io.Discard)
	assert.Error(t, err)
}

func TestLZ4Compressor_High(t *testing.T) {
	c := &LZ4Compressor{High: true}
	var buf bytes.Buffer
	w, err := c.Compress(&buf)
	require.NoError(t, err)
	_, err = io.Copy(w, strings.NewReader(strings.Repeat("a", 4096)))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := c.Decompress(&buf)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, 4096, len(got))
}
