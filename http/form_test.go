package http

import (
	"testing"

	"github.com/indigo-web/fetch/http/blob"
	"github.com/indigo-web/fetch/http/form"
	"github.com/indigo-web/fetch/http/mime"
	"github.com/indigo-web/fetch/http/status"
	"github.com/indigo-web/fetch/kv"
	"github.com/stretchr/testify/require"
)

func TestFormCodec(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		f := form.New().
			AppendString("a", "1").
			AppendFile("f", blob.NewFile([]any{[]byte{0xFF, 0, '\r', '\n'}}, "f.bin", blob.FileOptions{Type: mime.OctetStream})).
			AppendString("a", "2")

		data, contentType := EncodeForm(nil, f)
		require.True(t, mime.Is(mime.Multipart, contentType))

		decoded, err := DecodeForm(nil, data, kv.New().Add("Content-Type", contentType))
		require.NoError(t, err)
		require.Equal(t, []string{"a", "f"}, collectKeys(decoded))

		values := decoded.GetAll("a")
		require.Len(t, values, 2)
		require.Equal(t, "2", values[1].Text())

		file, _ := decoded.Get("f")
		require.Equal(t, "f.bin", file.File().Name())
		require.Equal(t, []byte{0xFF, 0, '\r', '\n'}, file.File().Bytes())
	})

	t.Run("mixed case boundary", func(t *testing.T) {
		data := "--AaB03x\r\n" +
			"Content-Disposition: form-data; name=\"f\"\r\n" +
			"\r\n" +
			"value\r\n" +
			"--AaB03x--"

		decoded, err := DecodeForm(nil, []byte(data), kv.New().Add("content-type", "multipart/form-data; boundary=AaB03x"))
		require.NoError(t, err)
		f, found := decoded.Get("f")
		require.True(t, found)
		require.Equal(t, "value", f.Text())
	})

	t.Run("no headers", func(t *testing.T) {
		_, err := DecodeForm(nil, []byte("a=b"), nil)
		require.ErrorIs(t, err, status.ErrUnsupportedMediaType)
	})

	t.Run("empty boundary", func(t *testing.T) {
		_, err := DecodeForm(nil, nil, kv.New().Add("content-type", `multipart/form-data; boundary=""`))
		require.ErrorIs(t, err, status.ErrMissingBoundary)
	})
}

func collectKeys(f *form.Form) (keys []string) {
	for key := range f.Keys() {
		keys = append(keys, key)
	}

	return keys
}
