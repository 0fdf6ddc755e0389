package serialize

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	payload := bytes.Repeat([]byte("leaf-0 = (EQUALS id 1) "), 50)

	sealed, err := Seal(payload)
	require.NoError(t, err)
	assert.Less(t, len(sealed), len(payload))
	assert.NotContains(t, sealed, "=", "raw base64 has no padding")

	opened, err := Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, payload, opened)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open("")
	assert.ErrorIs(t, err, ErrEmptyEnvelope)

	_, err = Open("not base64!")
	assert.Error(t, err)

	_, err = Open(base64.RawURLEncoding.EncodeToString([]byte("not a zstd frame")))
	assert.Error(t, err)
}

func TestCompressorReuse(t *testing.T) {
	c, err := NewCompressor()
	require.NoError(t, err)
	defer c.Close()
	d, err := NewDecompressor()
	require.NoError(t, err)
	defer d.Close()

	for _, in := range [][]byte{{}, []byte("x"), bytes.Repeat([]byte{1, 2, 3}, 1000)} {
		out, err := d.Decompress(c.Compress(in))
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}
