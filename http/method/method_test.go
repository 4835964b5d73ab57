package method

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func BenchmarkParse(b *testing.B) {
	var parsed Method

	for _, m := range List {
		b.Run(m.String(), func(b *testing.B) {
			str := m.String()
			b.SetBytes(int64(len(str)))
			b.ResetTimer()

			for j := 0; j < b.N; j++ {
				parsed = Parse(str)
			}
		})
	}

	keepalive(parsed)
}

func keepalive(Method) {}

func TestMethod(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		for _, method := range List {
			assert.Equal(t, method, Parse(method.String()))
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, POST, Parse("post"))
		assert.Equal(t, PATCH, Parse("pAtCh"))
		assert.Equal(t, TRACK, Parse("track"))
	})

	t.Run("extension methods", func(t *testing.T) {
		assert.Equal(t, Method("PROPFIND"), Parse("PROPFIND"))
		assert.Equal(t, Method("mkCol"), Parse("mkCol"))
		assert.Equal(t, "PROPFIND", Parse("PROPFIND").String())
	})

	t.Run("invalid tokens", func(t *testing.T) {
		assert.Equal(t, Unknown, Parse(""))
		assert.Equal(t, Unknown, Parse("GET /"))
		assert.Equal(t, Unknown, Parse("GE(T)"))
		assert.Empty(t, Unknown.String())
	})

	t.Run("forbidden", func(t *testing.T) {
		assert.True(t, Forbidden(CONNECT))
		assert.True(t, Forbidden(TRACE))
		assert.True(t, Forbidden(TRACK))
		assert.False(t, Forbidden(GET))
		assert.False(t, Forbidden(OPTIONS))
		assert.True(t, Forbidden("connect"))
		assert.False(t, Forbidden("PROPFIND"))
	})

	t.Run("no body", func(t *testing.T) {
		assert.True(t, NoBody(GET))
		assert.True(t, NoBody(HEAD))
		assert.False(t, NoBody(POST))
		assert.True(t, NoBody("head"))
		assert.False(t, NoBody("PROPFIND"))
	})
}
