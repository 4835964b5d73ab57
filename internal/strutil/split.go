package strutil

import (
	"iter"
	"strings"
)

// Split iterates over the pieces of str separated by sep. Empty pieces are yielded as well;
// an empty string yields nothing.
func Split(str string, sep byte) iter.Seq[string] {
	return func(yield func(string) bool) {
		for len(str) > 0 {
			boundary := strings.IndexByte(str, sep)
			if boundary == -1 {
				yield(str)
				return
			}

			if !yield(str[:boundary]) {
				return
			}

			str = str[boundary+1:]
		}
	}
}
