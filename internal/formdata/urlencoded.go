package formdata

import (
	"net/url"
	"strings"

	"github.com/indigo-web/fetch/http/form"
	"github.com/indigo-web/fetch/internal/strutil"
	"github.com/indigo-web/fetch/internal/urlencoded"
	"github.com/indigo-web/utils/uf"
)

// ParseURLEncoded decodes an application/x-www-form-urlencoded body into the form. Pairs
// without the equality sign are stored with an empty value, empty pairs are skipped.
// The returned buffer must be re-used for consecutive calls, as it may have grown.
func ParseURLEncoded(into *form.Form, data, buff []byte) (*form.Form, []byte, error) {
	if into == nil {
		into = form.New()
	}

	body := strings.TrimSpace(uf.B2S(data))

	for pair := range strutil.Split(body, '&') {
		if len(pair) == 0 {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")

		var err error
		buff = buff[:0]
		if key, buff, err = urlencoded.ExtendedDecodeString(key, buff); err != nil {
			return into, buff, err
		}

		key = strings.Clone(key)
		buff = buff[:0]
		if value, buff, err = urlencoded.ExtendedDecodeString(value, buff); err != nil {
			return into, buff, err
		}

		into.AppendString(key, strings.Clone(value))
	}

	return into, buff, nil
}

// SerializeURLEncoded appends the application/x-www-form-urlencoded representation of
// the form to buff. Files are represented by their names.
func SerializeURLEncoded(f *form.Form, buff []byte) []byte {
	first := true

	for key, value := range f.Entries() {
		if !first {
			buff = append(buff, '&')
		}

		first = false
		buff = append(buff, url.QueryEscape(key)...)
		buff = append(buff, '=')
		buff = append(buff, url.QueryEscape(value.String())...)
	}

	return buff
}
