package formdata

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/indigo-web/fetch/config"
	"github.com/indigo-web/fetch/http/blob"
	"github.com/indigo-web/fetch/http/form"
	"github.com/indigo-web/fetch/http/mime"
	"github.com/indigo-web/fetch/http/status"
	"github.com/stretchr/testify/require"
)

type flatEntry struct {
	Key, Value, Filename, Type string
}

func flatten(f *form.Form) (entries []flatEntry) {
	for key, value := range f.Entries() {
		if !value.IsFile() {
			entries = append(entries, flatEntry{Key: key, Value: value.Text()})
			continue
		}

		file := value.File()
		entries = append(entries, flatEntry{
			Key:      key,
			Value:    string(file.Bytes()),
			Filename: file.Name(),
			Type:     file.Type(),
		})
	}

	return entries
}

func TestParseMultipart(t *testing.T) {
	cfg := config.Default()

	t.Run("real-world example", func(t *testing.T) {
		data := "------WebKitFormBoundary7MA4YWxkTrZu0gW\r\nContent-Disposition: form-data; " +
			"name=\"username\"\r\n\r\nAlice\r\n------WebKitFormBoundary7MA4YWxkTrZu0gW\r\nCo" +
			"ntent-Disposition: form-data; name=\"profile_pic\"; filename=\"profile.png\"\r\n" +
			"Content-Type: image/png\r\n\r\n[binary file content]\r\n------WebKitFormBoundary7MA4YWxkTrZu0gW--\r\n"
		parsed, err := ParseMultipart(cfg, nil, []byte(data), "----WebKitFormBoundary7MA4YWxkTrZu0gW")
		require.NoError(t, err)
		require.Equal(t, []flatEntry{
			{Key: "username", Value: "Alice"},
			{Key: "profile_pic", Value: "[binary file content]", Filename: "profile.png", Type: mime.PNG},
		}, flatten(parsed))
	})

	t.Run("prelude and postlude", func(t *testing.T) {
		data := "Hello, world!--boundary\r\nContent-Disposition: form-data; " +
			"name=username\r\n\r\nAlice\r\n--boundary--\r\nAre you still reading?"
		parsed, err := ParseMultipart(cfg, nil, []byte(data), "boundary")
		require.NoError(t, err)
		require.Equal(t, []flatEntry{{Key: "username", Value: "Alice"}}, flatten(parsed))
	})

	t.Run("case-insensitive headers", func(t *testing.T) {
		data := "--boundary\r\ncontent-disposition: form-data; NAME=\"a\"; FileName=\"a.txt\"\r\n" +
			"CONTENT-TYPE: text/plain\r\nX-Ignored: yes\r\n\r\nhello\r\n--boundary--"
		parsed, err := ParseMultipart(cfg, nil, []byte(data), "boundary")
		require.NoError(t, err)
		require.Equal(t, []flatEntry{
			{Key: "a", Value: "hello", Filename: "a.txt", Type: "text/plain"},
		}, flatten(parsed))
	})

	t.Run("filename without type is a text", func(t *testing.T) {
		data := "--boundary\r\nContent-Disposition: form-data; name=a; filename=a.txt\r\n\r\nhello\r\n--boundary--"
		parsed, err := ParseMultipart(cfg, nil, []byte(data), "boundary")
		require.NoError(t, err)
		require.Equal(t, []flatEntry{{Key: "a", Value: "hello"}}, flatten(parsed))
	})

	t.Run("empty filename is a text", func(t *testing.T) {
		data := "--boundary\r\nContent-Disposition: form-data; name=\"f\"; filename=\"\"\r\n" +
			"Content-Type: text/plain\r\n\r\nhello\r\n--boundary--"
		parsed, err := ParseMultipart(cfg, nil, []byte(data), "boundary")
		require.NoError(t, err)
		value, found := parsed.Get("f")
		require.True(t, found)
		require.False(t, value.IsFile())
		require.Equal(t, "hello", value.Text())
	})

	t.Run("quoted name with semicolons and escapes", func(t *testing.T) {
		data := "--boundary\r\nContent-Disposition: form-data; name=\"a;\\\"b\\\"\"\r\n\r\nv\r\n--boundary--"
		parsed, err := ParseMultipart(cfg, nil, []byte(data), "boundary")
		require.NoError(t, err)
		require.Equal(t, []flatEntry{{Key: `a;"b"`, Value: "v"}}, flatten(parsed))
	})

	t.Run("nameless and malformed parts are skipped", func(t *testing.T) {
		data := "--boundary\r\n\r\nnameless\r\n" +
			"--boundary\r\nContent-Disposition: form-data\r\n\r\nnameless too\r\n" +
			"--boundary\r\nContent-Disposition: form-data; name=ok\r\n\r\nvalue\r\n" +
			"--boundary\r\nContent-Disposition: form-data; name=unterminated"
		parsed, err := ParseMultipart(cfg, nil, []byte(data), "boundary")
		require.NoError(t, err)
		require.Equal(t, []flatEntry{{Key: "ok", Value: "value"}}, flatten(parsed))
	})

	t.Run("repeating keys", func(t *testing.T) {
		data := "--b\r\nContent-Disposition: form-data; name=a\r\n\r\n1\r\n" +
			"--b\r\nContent-Disposition: form-data; name=b\r\n\r\n2\r\n" +
			"--b\r\nContent-Disposition: form-data; name=a\r\n\r\n3\r\n--b--"
		parsed, err := ParseMultipart(cfg, nil, []byte(data), "b")
		require.NoError(t, err)
		require.Equal(t, []flatEntry{
			{Key: "a", Value: "1"}, {Key: "a", Value: "3"}, {Key: "b", Value: "2"},
		}, flatten(parsed))
	})

	t.Run("base64 content transfer encoding", func(t *testing.T) {
		payload := []byte{0, 1, 2, 0xFF, '\r', '\n'}
		data := "--b\r\nContent-Disposition: form-data; name=f; filename=f.bin\r\n" +
			"Content-Type: application/octet-stream\r\nContent-Transfer-Encoding: BASE64\r\n\r\n" +
			base64.StdEncoding.EncodeToString(payload) + "\r\n--b--"
		parsed, err := ParseMultipart(cfg, nil, []byte(data), "b")
		require.NoError(t, err)
		value, found := parsed.Get("f")
		require.True(t, found)
		require.Equal(t, payload, value.File().Bytes())
	})

	t.Run("forced base64", func(t *testing.T) {
		forced := config.Default()
		forced.Form.DecodeBase64Files = true
		data := "--b\r\nContent-Disposition: form-data; name=f; filename=f.txt\r\n" +
			"Content-Type: text/plain\r\n\r\naGVs\r\nbG8=\r\n" +
			"--b\r\nContent-Disposition: form-data; name=bad; filename=f.txt\r\n" +
			"Content-Type: text/plain\r\n\r\n!!!\r\n--b--"
		parsed, err := ParseMultipart(forced, nil, []byte(data), "b")
		require.NoError(t, err)
		require.Equal(t, []flatEntry{
			{Key: "f", Value: "hello", Filename: "f.txt", Type: "text/plain"},
		}, flatten(parsed))
	})

	t.Run("strip array suffix", func(t *testing.T) {
		stripping := config.Default()
		stripping.Form.StripArraySuffix = true
		data := "--b\r\nContent-Disposition: form-data; name=\"list[]\"\r\n\r\n1\r\n" +
			"--b\r\nContent-Disposition: form-data; name=\"list[]\"\r\n\r\n2\r\n--b--"
		parsed, err := ParseMultipart(stripping, nil, []byte(data), "b")
		require.NoError(t, err)
		require.Equal(t, []flatEntry{{Key: "list", Value: "1"}, {Key: "list", Value: "2"}}, flatten(parsed))
	})

	t.Run("values own their memory", func(t *testing.T) {
		data := []byte("--b\r\nContent-Disposition: form-data; name=a\r\n\r\nvalue\r\n--b--")
		parsed, err := ParseMultipart(cfg, nil, data, "b")
		require.NoError(t, err)
		for i := range data {
			data[i] = 'x'
		}

		require.Equal(t, []flatEntry{{Key: "a", Value: "value"}}, flatten(parsed))
	})

	t.Run("no parts", func(t *testing.T) {
		for _, data := range []string{"", "prelude only", "--b--"} {
			parsed, err := ParseMultipart(cfg, nil, []byte(data), "b")
			require.NoError(t, err)
			require.Zero(t, parsed.Len())
		}
	})

	t.Run("missing boundary", func(t *testing.T) {
		_, err := ParseMultipart(cfg, nil, []byte("--\r\n"), "")
		require.ErrorIs(t, err, status.ErrMissingBoundary)
	})
}

func TestSerializeMultipart(t *testing.T) {
	cfg := config.Default()

	t.Run("grammar", func(t *testing.T) {
		f := form.New().
			AppendString("k", "v").
			AppendFile("f", blob.NewFile([]any{"data"}, "f.txt", blob.FileOptions{Type: "text/plain"})).
			AppendFile("untyped", blob.NewFile([]any{"raw"}, "raw", blob.FileOptions{}))

		want := "--b\r\nContent-Disposition: form-data; name=\"k\"\r\n\r\nv\r\n" +
			"--b\r\nContent-Disposition: form-data; name=\"f\"; filename=\"f.txt\"\r\nContent-Type: text/plain\r\n\r\ndata\r\n" +
			"--b\r\nContent-Disposition: form-data; name=\"untyped\"; filename=\"raw\"\r\n" +
			"Content-Type: application/octet-stream\r\n\r\nraw\r\n--b--"
		require.Equal(t, want, string(SerializeMultipart(cfg, f, "b", nil)))
	})

	t.Run("empty form", func(t *testing.T) {
		require.Equal(t, "--b--", string(SerializeMultipart(cfg, form.New(), "b", nil)))
	})

	t.Run("nameless file", func(t *testing.T) {
		f := form.New().AppendFile("f", blob.NewFile([]any{"x"}, "", blob.FileOptions{Type: "text/plain"}))
		data := SerializeMultipart(cfg, f, "b", nil)
		require.Contains(t, string(data), `filename="blob"`)

		parsed, err := ParseMultipart(cfg, nil, data, "b")
		require.NoError(t, err)
		value, _ := parsed.Get("f")
		require.True(t, value.IsFile())
		require.Equal(t, "blob", value.File().Name())
	})

	t.Run("round trip", func(t *testing.T) {
		binary := make([]byte, 256)
		for i := range binary {
			binary[i] = byte(i)
		}

		f := form.New().
			AppendString("name", "Alice").
			AppendString(`quoted "key"\`, "multi\r\nline\r\n").
			AppendBlob("blob", blob.New([]any{binary}, blob.Options{Type: "application/octet-stream"}), "").
			AppendString("name", "Bob").
			AppendString("empty", "").
			AppendFile("empty file", blob.NewFile(nil, "empty.txt", blob.FileOptions{Type: "text/plain"}))

		boundary := Boundary()
		data := SerializeMultipart(cfg, f, boundary, nil)
		parsed, err := ParseMultipart(cfg, nil, data, boundary)
		require.NoError(t, err)
		require.Equal(t, flatten(f), flatten(parsed))
	})
}

func TestBoundary(t *testing.T) {
	seen := make(map[string]struct{}, 1000)

	for range 1000 {
		boundary := Boundary()
		require.Len(t, boundary, 26+16)
		require.True(t, strings.HasPrefix(boundary, strings.Repeat("-", 26)))
		require.Equal(t, -1, strings.IndexFunc(boundary[26:], func(r rune) bool {
			return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
		}))

		seen[boundary] = struct{}{}
	}

	require.Len(t, seen, 1000)
}

func BenchmarkMultipart(b *testing.B) {
	cfg := config.Default()
	f := form.New()
	for range 20 {
		f.AppendString("something", "somewhere")
	}

	f.AppendFile("file", blob.NewFile([]any{strings.Repeat("a", 4096)}, "a", blob.FileOptions{Type: "text/plain"}))
	data := SerializeMultipart(cfg, f, "boundary", nil)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	for range b.N {
		_, _ = ParseMultipart(cfg, nil, data, "boundary")
	}
}
