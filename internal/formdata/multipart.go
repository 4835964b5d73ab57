package formdata

import (
	"encoding/base64"
	"strings"

	"github.com/indigo-web/fetch/config"
	"github.com/indigo-web/fetch/http/blob"
	"github.com/indigo-web/fetch/http/form"
	"github.com/indigo-web/fetch/http/status"
	"github.com/indigo-web/fetch/internal/strutil"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

type header struct {
	Name, File, ContentType, Encoding string
}

// SerializeMultipart appends the multipart/form-data representation of the form to buff.
func SerializeMultipart(cfg *config.Config, f *form.Form, boundary string, buff []byte) []byte {
	for key, value := range f.Entries() {
		buff = append(buff, "--"...)
		buff = append(buff, boundary...)
		buff = append(buff, "\r\nContent-Disposition: form-data; name=\""...)
		buff = appendQuoted(buff, key)
		buff = append(buff, '"')

		if !value.IsFile() {
			buff = append(buff, "\r\n\r\n"...)
			buff = append(buff, value.Text()...)
			buff = append(buff, "\r\n"...)
			continue
		}

		file := value.File()
		name := file.Name()
		if len(name) == 0 {
			name = form.DefaultFilename
		}

		buff = append(buff, "; filename=\""...)
		buff = appendQuoted(buff, name)
		buff = append(buff, "\"\r\nContent-Type: "...)
		if contentType := file.Type(); len(contentType) > 0 {
			buff = append(buff, contentType...)
		} else {
			buff = append(buff, cfg.Form.DefaultFileType...)
		}

		buff = append(buff, "\r\n\r\n"...)
		for chunk := range file.Chunks() {
			buff = append(buff, chunk...)
		}

		buff = append(buff, "\r\n"...)
	}

	buff = append(buff, "--"...)
	buff = append(buff, boundary...)
	return append(buff, "--"...)
}

// appendQuoted escapes double quotes and backslashes, so the value can be safely put into
// a quoted-string.
func appendQuoted(buff []byte, value string) []byte {
	for i := 0; i < len(value); i++ {
		switch c := value[i]; c {
		case '"', '\\':
			buff = append(buff, '\\', c)
		default:
			buff = append(buff, c)
		}
	}

	return buff
}

// ParseMultipart decodes a multipart/form-data body into the form. Malformed parts and
// parts without a name are skipped. Parts carrying both a non-empty filename and a
// Content-Type become files, everything else becomes text. File contents are taken
// verbatim, unless the part declares Content-Transfer-Encoding: base64 or
// cfg.Form.DecodeBase64Files is set, in which case they are base64-decoded and parts
// failing to decode are skipped. All the produced values own their memory, so data can
// be reused after the call.
func ParseMultipart(cfg *config.Config, into *form.Form, data []byte, boundary string) (*form.Form, error) {
	if len(boundary) == 0 {
		return into, status.ErrMissingBoundary
	}

	if into == nil {
		into = form.NewPrealloc(cfg.Form.EntriesPrealloc)
	}

	delimiter := "--" + boundary
	body := uf.B2S(data)

	// everything before the first delimiter is a preamble
	start := strings.Index(body, delimiter)
	if start == -1 {
		return into, nil
	}

	body = body[start+len(delimiter):]

	for len(body) > 0 && !strings.HasPrefix(body, "--") {
		var chunk string
		if next := strings.Index(body, delimiter); next == -1 {
			chunk, body = body, ""
		} else {
			chunk, body = body[:next], body[next+len(delimiter):]
		}

		hdr, content, err := parsePart(chunk)
		if err != nil || len(hdr.Name) == 0 {
			continue
		}

		if cfg.Form.StripArraySuffix {
			hdr.Name = strings.TrimSuffix(hdr.Name, "[]")
		}

		if len(hdr.File) == 0 || len(hdr.ContentType) == 0 {
			into.AppendString(hdr.Name, strings.Clone(content))
			continue
		}

		if cfg.Form.DecodeBase64Files || strcomp.EqualFold(hdr.Encoding, "base64") {
			decoded, err := decodeBase64(content)
			if err != nil {
				continue
			}

			content = uf.B2S(decoded)
		}

		file := blob.NewFile([]any{content}, hdr.File, blob.FileOptions{Type: hdr.ContentType})
		into.AppendFile(hdr.Name, file)
	}

	return into, nil
}

// parsePart splits the chunk enclosed between two delimiters into its headers and content.
func parsePart(chunk string) (hdr header, content string, err error) {
	s := newStream(chunk)
	if !s.Consume("\r\n") {
		s.Consume("\n")
	}

	for {
		if s.Consume("\r\n") || s.Consume("\n") {
			break
		}

		if hdr, err = parseHeader(&s, hdr); err != nil {
			return hdr, "", err
		}
	}

	content = s.Expose()
	if strings.HasSuffix(content, "\r\n") {
		content = content[:len(content)-2]
	} else {
		content = strings.TrimSuffix(content, "\n")
	}

	return hdr, content, nil
}

func parseHeader(s *stream, origin header) (header, error) {
	switch {
	case s.ConsumeFold("Content-Disposition:"):
		s.SkipWhitespaces()
		value, ok := s.AdvanceLine()
		if !ok {
			return origin, status.ErrMalformedMultipart
		}

		_, params := strutil.CutHeader(value)
		for key, val := range strutil.WalkParams(params) {
			switch {
			case strcomp.EqualFold(key, "name"):
				origin.Name = val
			case strcomp.EqualFold(key, "filename"):
				origin.File = val
			}
		}
	case s.ConsumeFold("Content-Type:"):
		value, ok := s.AdvanceLine()
		if !ok {
			return origin, status.ErrMalformedMultipart
		}

		origin.ContentType = strutil.StripWS(value)
	case s.ConsumeFold("Content-Transfer-Encoding:"):
		value, ok := s.AdvanceLine()
		if !ok {
			return origin, status.ErrMalformedMultipart
		}

		origin.Encoding = strutil.StripWS(value)
	default:
		// must ignore
		if _, ok := s.AdvanceLine(); !ok {
			return origin, status.ErrMalformedMultipart
		}
	}

	return origin, nil
}

// decodeBase64 decodes standard base64, ignoring line breaks between the encoded lines.
func decodeBase64(content string) ([]byte, error) {
	if strings.ContainsAny(content, "\r\n") {
		content = strings.NewReplacer("\r", "", "\n", "").Replace(content)
	}

	decoded, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, status.ErrBadEncoding
	}

	return decoded, nil
}
