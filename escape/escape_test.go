package escape_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duperfmt/duper/escape"
)

func TestDecodeStringSimpleEscapes(t *testing.T) {
	t.Parallel()
	got, err := escape.DecodeString(`hello\nworld\t\"quoted\"`)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\t\"quoted\"", got)
}

func TestDecodeStringHexAndUnicode(t *testing.T) {
	t.Parallel()
	got, err := escape.DecodeString("\\x41\\u00e9")
	require.NoError(t, err)
	assert.Equal(t, "Aé", got)
}

func TestDecodeStringUnrecognizedEscapePassesThrough(t *testing.T) {
	t.Parallel()
	got, err := escape.DecodeString(`\q`)
	require.NoError(t, err)
	assert.Equal(t, `\q`, got)
}

func TestDecodeStringInvalidUnicodeEscape(t *testing.T) {
	t.Parallel()
	_, err := escape.DecodeString(`\ud800`)
	require.Error(t, err)
	var decErr *escape.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, escape.InvalidUnicode, decErr.Kind)
}

func TestDecodeBytesHexEscape(t *testing.T) {
	t.Parallel()
	got, err := escape.DecodeBytes(`\xff\x00`)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0x00}, got)
}

func TestEncodeStringRoundTrip(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"plain", "has\nnewline", "has\"quote", "tab\there"} {
		encoded := escape.EncodeString(s)
		decoded, err := escape.DecodeString(encoded)
		require.NoError(t, err)
		assert.Equal(t, s, decoded)
	}
}

func TestEncodeBytesRoundTrip(t *testing.T) {
	t.Parallel()
	data := []byte{0x00, 0x41, 0xff, '"', '\'', '\\', '\n'}
	encoded := escape.EncodeBytes(data)
	decoded, err := escape.DecodeBytes(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestEncodeBytesEscapesSingleQuote(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `\'`, escape.EncodeBytes([]byte{'\''}))
}
