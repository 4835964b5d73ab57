package formdata

import (
	"strings"

	"github.com/dchest/uniuri"
)

const boundaryRandLen = 16

var (
	boundaryPrefix = strings.Repeat("-", 26)
	boundaryChars  = []byte("abcdefghijklmnopqrstuvwxyz0123456789")
)

// Boundary generates a multipart boundary. It isn't cryptographically secure, just
// unlikely to be met in the content.
func Boundary() string {
	return boundaryPrefix + uniuri.NewLenChars(boundaryRandLen, boundaryChars)
}
