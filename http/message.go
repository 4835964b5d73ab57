package http

import (
	"bytes"
	"io"
	"sync/atomic"

	"github.com/indigo-web/fetch/config"
	"github.com/indigo-web/fetch/http/blob"
	"github.com/indigo-web/fetch/http/form"
	"github.com/indigo-web/fetch/http/mime"
	"github.com/indigo-web/fetch/internal/formdata"
	"github.com/indigo-web/fetch/kv"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

type Headers = *kv.Storage

// message is the part shared by requests and responses: headers and a body, which can be
// read at most once.
type message struct {
	body     Body
	consumed atomic.Bool
	headers  Headers
	// boundary is chosen once, so the Content-Type header and the serialized form agree.
	boundary string
	cfg      *config.Config
}

func (m *message) init(cfg *config.Config, body Body, headers Headers) {
	if cfg == nil {
		cfg = config.Default()
	}

	if headers == nil {
		headers = kv.NewPrealloc(cfg.Headers.Prealloc)
	} else {
		headers = headers.Clone()
	}

	m.cfg = cfg
	m.body = body
	m.headers = headers
	m.inferContentType()
}

func (m *message) inferContentType() {
	contentType, found := m.headers.Get("content-type")

	if m.body.kind == KindForm {
		if boundary, ok := mime.Boundary(contentType); ok && mime.Is(mime.Multipart, contentType) {
			m.boundary = boundary
		} else {
			m.boundary = formdata.Boundary()
		}
	}

	if found {
		return
	}

	switch m.body.kind {
	case KindForm:
		m.headers.Set("content-type", mime.Multipart+"; boundary="+m.boundary)
	case KindBlob:
		if t := m.body.blob.Type(); len(t) > 0 {
			m.headers.Set("content-type", t)
		}
	case KindURLEncoded:
		m.headers.Set("content-type", mime.WithCharset(mime.FormUrlencoded, mime.UTF8))
	case KindText:
		m.headers.Set("content-type", mime.WithCharset(mime.Plain, mime.UTF8))
	}
}

// Headers returns the message headers. Lookups are case-insensitive.
func (m *message) Headers() Headers {
	return m.headers
}

// ContentType returns the Content-Type header value, or an empty string if there's none.
func (m *message) ContentType() string {
	return m.headers.Value("content-type")
}

// BodyUsed reports whether the body has already been read.
func (m *message) BodyUsed() bool {
	return m.consumed.Load()
}

func (m *message) consume() error {
	if !m.consumed.CompareAndSwap(false, true) {
		return ErrBodyAlreadyConsumed
	}

	return nil
}

// materialize serializes the body into bytes. The result may share the memory with the body.
func (m *message) materialize() []byte {
	switch m.body.kind {
	case KindRaw:
		return m.body.raw
	case KindText:
		return uf.S2B(m.body.text)
	case KindURLEncoded:
		return formdata.SerializeURLEncoded(m.body.form, make([]byte, 0, m.cfg.Form.BufferPrealloc))
	case KindBlob:
		return m.body.blob.Bytes()
	case KindForm:
		buff := make([]byte, 0, m.cfg.Form.BufferPrealloc)
		return formdata.SerializeMultipart(m.cfg, m.body.form, m.boundary, buff)
	default:
		return nil
	}
}

// Bytes returns the whole body at once.
//
// Please note: this method, as well as any other method reading the body, can be used only
// once. Consecutive calls return ErrBodyAlreadyConsumed.
func (m *message) Bytes() ([]byte, error) {
	if err := m.consume(); err != nil {
		return nil, err
	}

	if m.body.kind == KindText {
		return []byte(m.body.text), nil
	}

	return m.materialize(), nil
}

// Text returns the whole body decoded as UTF-8. Invalid sequences are replaced by U+FFFD.
func (m *message) Text() (string, error) {
	if err := m.consume(); err != nil {
		return "", err
	}

	switch m.body.kind {
	case KindText:
		return m.body.text, nil
	case KindBlob:
		return m.body.blob.Text(), nil
	default:
		return blob.DecodeText(m.materialize()), nil
	}
}

// JSON convoys the body to a json unmarshaller. Errors of the unmarshaller are returned as is,
// trailing data after the value is an error, too.
func (m *message) JSON(model any) error {
	if err := m.consume(); err != nil {
		return err
	}

	return json.ConfigDefault.Unmarshal(m.materialize(), model)
}

// Blob returns the body as a blob. Its type is the type of the body's own blob, if it has
// one, otherwise the Content-Type header value.
func (m *message) Blob() (*blob.Blob, error) {
	if err := m.consume(); err != nil {
		return nil, err
	}

	if m.body.kind == KindBlob {
		b := m.body.blob
		if len(b.Type()) > 0 {
			return b, nil
		}

		return b.Slice(0, b.Size(), m.ContentType()), nil
	}

	return blob.New([]any{m.materialize()}, blob.Options{Type: m.ContentType()}), nil
}

// FormData returns the body as a form. Bodies constructed from a form return it as is,
// otherwise the body is decoded according to its Content-Type: multipart/form-data and
// application/x-www-form-urlencoded are supported, anything else results in
// status.ErrUnsupportedMediaType.
func (m *message) FormData() (*form.Form, error) {
	if err := m.consume(); err != nil {
		return nil, err
	}

	switch m.body.kind {
	case KindForm, KindURLEncoded:
		return m.body.form, nil
	}

	return decodeForm(m.cfg, m.materialize(), m.ContentType())
}

// Reader returns the body as a stream.
func (m *message) Reader() (io.Reader, error) {
	if err := m.consume(); err != nil {
		return nil, err
	}

	if m.body.kind == KindBlob {
		return m.body.blob.Stream(), nil
	}

	return bytes.NewReader(m.materialize()), nil
}

func (m *message) cloneInto(dst *message) error {
	if m.consumed.Load() {
		return ErrAlreadyConsumedClone
	}

	dst.body = m.body.clone()
	dst.headers = m.headers.Clone()
	dst.boundary = m.boundary
	dst.cfg = m.cfg

	return nil
}

// take transfers the body to another message, marking this one as consumed.
func (m *message) take() (Body, error) {
	if m.body.Empty() {
		return m.body, nil
	}

	if err := m.consume(); err != nil {
		return NoBody, err
	}

	return m.body, nil
}
