package mime

import (
	"strings"

	"github.com/elnormous/contenttype"
	"github.com/indigo-web/fetch/internal/strutil"
)

type MIME = string

const (
	Unset          MIME = ""
	OctetStream    MIME = "application/octet-stream"
	Plain          MIME = "text/plain"
	HTML           MIME = "text/html"
	JSON           MIME = "application/json"
	FormUrlencoded MIME = "application/x-www-form-urlencoded"
	Multipart      MIME = "multipart/form-data"
	PNG            MIME = "image/png"
)

// Complies returns whether two MIMEs are compatible. Empty MIME is
// considered compatible with any other MIME
func Complies(mime MIME, with string) bool {
	essence := Essence(with)
	return len(essence) == 0 || essence == mime
}

// Is reports whether the header value denotes exactly the given MIME. Unlike Complies, an
// empty value never matches.
func Is(mime MIME, with string) bool {
	return len(with) > 0 && Essence(with) == mime
}

// MediaType is a parsed Content-Type header value.
type MediaType struct {
	// Essence is the lower-cased type/subtype pair, without parameters.
	Essence MIME
	// Params holds the parameters, keyed by lower-cased names.
	Params map[string]string
}

// Param returns the value of the parameter, if presented.
func (m MediaType) Param(key string) (string, bool) {
	value, found := m.Params[strings.ToLower(key)]
	return value, found
}

// Parse parses a Content-Type header value. Values which aren't syntactically valid media
// types are still split into the essence and parameters in a lenient manner, so the result
// is always usable. The error reports whether the strict parsing succeeded. Parameter values
// are kept in their original case.
func Parse(value string) (MediaType, error) {
	mt := parseLenient(value)

	parsed, err := contenttype.ParseMediaType(value)
	if err != nil {
		return mt, err
	}

	mt.Essence = strings.ToLower(parsed.Type + "/" + parsed.Subtype)

	return mt, nil
}

// Essence returns the lower-cased type/subtype pair of the header value.
func Essence(value string) MIME {
	essence, _ := strutil.CutHeader(value)
	return strings.ToLower(strutil.RStripWS(strutil.LStripWS(essence)))
}

// Boundary extracts the boundary parameter of a multipart Content-Type value, preserving
// its case. The returned bool is false if there's none or it's empty.
func Boundary(contentType string) (string, bool) {
	boundary, found := parseLenient(contentType).Param("boundary")

	return boundary, found && len(boundary) > 0
}

func parseLenient(value string) MediaType {
	essence, params := strutil.CutHeader(value)
	mt := MediaType{
		Essence: Essence(essence),
		Params:  make(map[string]string),
	}

	for key, val := range strutil.WalkParams(params) {
		mt.Params[strings.ToLower(key)] = val
	}

	return mt
}
