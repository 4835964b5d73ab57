package strutil

import (
	"iter"
	"strings"
)

// WalkParams iterates over semicolon-separated key=value parameters, as found in
// Content-Type or Content-Disposition header values. Quoted values may contain semicolons
// and escaped quotes; they are yielded unquoted. Keys are stripped of whitespaces but left
// in their original case. Segments without the equality sign are yielded with an empty value.
func WalkParams(data string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for len(data) > 0 {
			var segment string
			segment, data = cutSegment(data)
			segment = StripWS(segment)
			if len(segment) == 0 {
				continue
			}

			key, value, _ := strings.Cut(segment, "=")
			if !yield(StripWS(key), Unquote(StripWS(value))) {
				return
			}
		}
	}
}

// cutSegment returns everything until the first semicolon, which isn't inside a
// quoted string.
func cutSegment(data string) (segment, rest string) {
	quoted := false

	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\\':
			if quoted {
				i++
			}
		case '"':
			quoted = !quoted
		case ';':
			if !quoted {
				return data[:i], data[i+1:]
			}
		}
	}

	return data, ""
}
