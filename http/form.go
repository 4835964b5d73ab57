package http

import (
	"github.com/indigo-web/fetch/config"
	"github.com/indigo-web/fetch/http/form"
	"github.com/indigo-web/fetch/http/mime"
	"github.com/indigo-web/fetch/http/status"
	"github.com/indigo-web/fetch/internal/formdata"
	"github.com/indigo-web/fetch/kv"
)

// EncodeForm serializes the form as multipart/form-data with a freshly generated boundary.
// The returned content type carries the boundary.
func EncodeForm(cfg *config.Config, f *form.Form) (data []byte, contentType string) {
	if cfg == nil {
		cfg = config.Default()
	}

	boundary := formdata.Boundary()
	data = formdata.SerializeMultipart(cfg, f, boundary, make([]byte, 0, cfg.Form.BufferPrealloc))

	return data, mime.Multipart + "; boundary=" + boundary
}

// DecodeForm decodes the data according to the Content-Type header. See message.FormData
// for supported types.
func DecodeForm(cfg *config.Config, data []byte, headers Headers) (*form.Form, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	if headers == nil {
		headers = kv.New()
	}

	return decodeForm(cfg, data, headers.Value("content-type"))
}

func decodeForm(cfg *config.Config, data []byte, contentType string) (*form.Form, error) {
	into := form.NewPrealloc(cfg.Form.EntriesPrealloc)

	switch mime.Essence(contentType) {
	case mime.Multipart:
		boundary, ok := mime.Boundary(contentType)
		if !ok {
			return nil, status.ErrMissingBoundary
		}

		return formdata.ParseMultipart(cfg, into, data, boundary)
	case mime.FormUrlencoded:
		f, _, err := formdata.ParseURLEncoded(into, data, make([]byte, 0, cfg.Form.BufferPrealloc))
		if err != nil {
			return nil, err
		}

		return f, nil
	default:
		return nil, status.ErrUnsupportedMediaType
	}
}
