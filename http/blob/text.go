package blob

import (
	"strings"
	"unicode/utf8"

	"github.com/indigo-web/utils/uf"
)

// textDecoder decodes UTF-8 incrementally, keeping a rune split between two chunks until
// the rest of it arrives.
type textDecoder struct {
	pending [utf8.UTFMax]byte
	n       int
}

func (d *textDecoder) Write(sb *strings.Builder, chunk []byte) {
	if d.n > 0 {
		taken := 0
		for taken < len(chunk) && !utf8.FullRune(d.pending[:d.n]) {
			d.pending[d.n] = chunk[taken]
			d.n++
			taken++
		}

		if !utf8.FullRune(d.pending[:d.n]) {
			return
		}

		writeValid(sb, d.pending[:d.n])
		d.n = 0
		chunk = chunk[taken:]
	}

	cut := incompleteTail(chunk)
	writeValid(sb, chunk[:cut])
	d.n = copy(d.pending[:], chunk[cut:])
}

// Flush writes the replacement character, if a partial rune is left.
func (d *textDecoder) Flush(sb *strings.Builder) {
	if d.n > 0 {
		sb.WriteRune(utf8.RuneError)
		d.n = 0
	}
}

// incompleteTail returns the offset of a trailing rune, which can't be decoded yet, as it is
// truncated. If there's none, len(data) is returned.
func incompleteTail(data []byte) int {
	for i := len(data) - 1; i >= 0 && i >= len(data)-utf8.UTFMax; i-- {
		if utf8.RuneStart(data[i]) {
			if utf8.FullRune(data[i:]) {
				return len(data)
			}

			return i
		}
	}

	return len(data)
}

func writeValid(sb *strings.Builder, data []byte) {
	if utf8.Valid(data) {
		sb.WriteString(uf.B2S(data))
		return
	}

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		sb.WriteRune(r)
		data = data[size:]
	}
}

// DecodeText decodes the data as UTF-8 the same way Blob.Text does.
func DecodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	var (
		sb      strings.Builder
		decoder textDecoder
	)

	sb.Grow(len(data))
	decoder.Write(&sb, data)
	decoder.Flush(&sb)

	return sb.String()
}
