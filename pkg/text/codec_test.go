package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestCodec_UTF8(t *testing.T) {
	codec, err := NewCodec("")
	require.NoError(t, err)
	assert.Equal(t, "utf-8", codec.Name())

	s, err := codec.Decode([]byte("Reisende på tog ✓"))
	require.NoError(t, err)
	assert.Equal(t, "Reisende på tog ✓", s)

	b, err := codec.Encode(s)
	require.NoError(t, err)
	assert.Equal(t, []byte("Reisende på tog ✓"), b)
}

func TestCodec_InvalidUTF8(t *testing.T) {
	codec, err := NewCodec("UTF-8")
	require.NoError(t, err)

	_, err = codec.Decode([]byte("ab\xffcd"))
	require.Error(t, err)

	var derr *DecodingError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, 2, derr.Offset)
	assert.Equal(t, "utf-8", derr.Encoding)
	assert.Contains(t, err.Error(), "offset 2")
}

func TestCodec_Windows1252(t *testing.T) {
	codec, err := NewCodec("latin1")
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", codec.Name())

	s, err := codec.Decode([]byte("caf\xe9"))
	require.NoError(t, err)
	assert.Equal(t, "café", s)

	b, err := codec.Encode(s)
	require.NoError(t, err)
	assert.Equal(t, []byte("caf\xe9"), b)
}

func TestCodec_Unknown(t *testing.T) {
	_, err := NewCodec("klingon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown encoding "klingon"`)
}
