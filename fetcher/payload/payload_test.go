package payload

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to build a in-memory zip with the given files.
func buildZip(t *testing.T, files map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := writer.Create(name)
		require.NoError(t, err)
		_, err = f.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return buf.Bytes()
}

func TestDecodeJSON(t *testing.T) {
	body := []byte(`{"gameId": 123}`)

	decoded, err := Decode("application/json; charset=utf-8", body)

	require.NoError(t, err)
	assert.Equal(t, KindJSON, decoded.Kind)
	assert.JSONEq(t, `{"gameId": 123}`, string(decoded.JSON))
	assert.Nil(t, decoded.Binary)
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, err := Decode("application/json", []byte(`{"gameId":`))
	assert.Error(t, err)
}

func TestDecodeArchivedJSON(t *testing.T) {
	body := buildZip(t, map[string][]byte{
		"summary.json": []byte(`{"participants": []}`),
	})

	decoded, err := Decode("application/zip", body)

	require.NoError(t, err)
	assert.Equal(t, KindArchivedJSON, decoded.Kind)
	assert.JSONEq(t, `{"participants": []}`, string(decoded.JSON))
}

func TestDecodeEmptyArchive(t *testing.T) {
	body := buildZip(t, map[string][]byte{})

	_, err := Decode("application/zip", body)

	assert.True(t, errors.Is(err, ErrEmptyArchive))
}

func TestDecodeArchivedNonJSON(t *testing.T) {
	body := buildZip(t, map[string][]byte{
		"replay.rofl": []byte{0x00, 0x01, 0x02},
	})

	_, err := Decode("application/zip", body)
	assert.Error(t, err)
}

func TestDecodeBinary(t *testing.T) {
	body := []byte{0xde, 0xad, 0xbe, 0xef}

	decoded, err := Decode("application/octet-stream", body)

	require.NoError(t, err)
	assert.Equal(t, KindBinary, decoded.Kind)
	assert.Equal(t, body, decoded.Binary)
	assert.Nil(t, decoded.JSON)
}

func TestDecodeUnsupportedContentType(t *testing.T) {
	_, err := Decode("text/html", []byte("<html></html>"))

	var unsupported *UnsupportedContentTypeError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "text/html", unsupported.ContentType)
}
