package method

import (
	"strings"

	"github.com/indigo-web/utils/strcomp"
)

// Method is a request method token. Standard methods are represented by the constants below,
// extension methods (e.g. PROPFIND) by their tokens as is.
type Method string

const (
	// Unknown is the zero value. Request constructors treat it as "not set" and
	// default to GET.
	Unknown Method = ""
	GET     Method = "GET"
	HEAD    Method = "HEAD"
	POST    Method = "POST"
	PUT     Method = "PUT"
	DELETE  Method = "DELETE"
	CONNECT Method = "CONNECT"
	OPTIONS Method = "OPTIONS"
	TRACE   Method = "TRACE"
	PATCH   Method = "PATCH"
	// TRACK is not standardized, but is still recognized in order to be rejected.
	TRACK Method = "TRACK"
)

// List contains all the known HTTP methods.
var List = []Method{GET, HEAD, POST, PUT, DELETE, CONNECT, OPTIONS, TRACE, PATCH, TRACK}

func (m Method) String() string {
	return string(m)
}

// Parse normalizes the token: known methods are matched case-insensitively and returned
// in their canonical upper-case form, any other token is returned unchanged. Tokens
// containing characters not allowed in a method name result in Unknown.
func Parse(str string) Method {
	for _, m := range List {
		if strcomp.EqualFold(str, string(m)) {
			return m
		}
	}

	if !isToken(str) {
		return Unknown
	}

	return Method(str)
}

// Forbidden reports whether the method must never be used to construct a request.
func Forbidden(m Method) bool {
	switch Parse(string(m)) {
	case CONNECT, TRACE, TRACK:
		return true
	default:
		return false
	}
}

// NoBody reports whether requests of the method are not allowed to carry a body.
func NoBody(m Method) bool {
	m = Parse(string(m))
	return m == GET || m == HEAD
}

func isToken(str string) bool {
	if len(str) == 0 {
		return false
	}

	return strings.IndexFunc(str, func(r rune) bool {
		return r <= ' ' || r >= 0x7f || strings.ContainsRune(`"(),/:;<=>?@[\]{}`, r)
	}) == -1
}
