package http

import (
	"fmt"
	"net/url"

	"github.com/indigo-web/fetch/config"
	"github.com/indigo-web/fetch/http/mime"
	"github.com/indigo-web/fetch/http/status"
	"github.com/indigo-web/fetch/kv"
	json "github.com/json-iterator/go"
)

type ResponseType string

const (
	TypeBasic   ResponseType = "basic"
	TypeError   ResponseType = "error"
	TypeDefault ResponseType = "default"
)

type ResponseInit struct {
	// Status defaults to status.OK.
	Status status.Code
	// StatusText defaults to the standard text of the status code.
	StatusText status.Status
	// Headers are copied, so the storage may be reused.
	Headers Headers
	// URL defaults to the Location header value, if any.
	URL string
	// Config defaults to config.Default().
	Config *config.Config
}

// Response represents an HTTP response. It's immutable, except for the body being read.
type Response struct {
	message
	status     status.Code
	statusText status.Status
	typ        ResponseType
	url        string
	redirected bool
}

// NewResponse validates the status code and constructs a response. Bodies of responses with
// null-body status codes (101, 103, 204, 205 and 304) are dropped.
func NewResponse(body Body, init ResponseInit) (*Response, error) {
	code := init.Status
	if code == 0 {
		code = status.OK
	}

	if !status.Valid(code) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatusCode, code)
	}

	if status.IsNullBody(code) {
		body = NoBody
	}

	r := &Response{
		status:     code,
		statusText: init.StatusText,
		typ:        TypeBasic,
		url:        init.URL,
	}

	if len(r.statusText) == 0 {
		r.statusText = status.Text(code)
	}

	r.init(init.Config, body, init.Headers)

	location, found := r.headers.Get("location")
	r.redirected = found
	if len(r.url) == 0 {
		r.url = location
	}

	return r, nil
}

// Redirect returns a response redirecting to the absolute URL. The code must be one of
// 301, 302, 303, 307 and 308; zero defaults to 307.
func Redirect(location string, code status.Code) (*Response, error) {
	if code == 0 {
		code = status.TemporaryRedirect
	}

	if !status.IsRedirect(code) {
		return nil, fmt.Errorf("%w: %d is not a redirect", ErrInvalidStatusCode, code)
	}

	parsed, err := url.Parse(location)
	if err != nil || !parsed.IsAbs() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, location)
	}

	r, err := NewResponse(NoBody, ResponseInit{
		Status:  code,
		Headers: kv.New().Add("location", location),
	})
	if err != nil {
		return nil, err
	}

	r.typ = TypeDefault
	return r, nil
}

// ErrorResponse returns a network error response: status 0 with no status text.
func ErrorResponse() *Response {
	r := &Response{typ: TypeError}
	r.init(nil, NoBody, nil)

	return r
}

// JSONResponse serializes the model into the body and sets the Content-Type to
// application/json, unless it's set explicitly.
func JSONResponse(model any, init ResponseInit) (*Response, error) {
	stream := json.ConfigDefault.BorrowStream(nil)
	stream.WriteVal(model)
	err := stream.Error
	data := append([]byte(nil), stream.Buffer()...)
	json.ConfigDefault.ReturnStream(stream)
	if err != nil {
		return nil, err
	}

	if init.Headers == nil || !init.Headers.Has("content-type") {
		init.Headers = init.Headers.Clone().Set("content-type", mime.JSON)
	}

	return NewResponse(BytesBody(data), init)
}

// Clone returns an independent copy of the response. It fails if the body has already been read.
func (r *Response) Clone() (*Response, error) {
	clone := &Response{
		status:     r.status,
		statusText: r.statusText,
		typ:        r.typ,
		url:        r.url,
		redirected: r.redirected,
	}

	if err := r.cloneInto(&clone.message); err != nil {
		return nil, err
	}

	return clone, nil
}

func (r *Response) Status() status.Code {
	return r.status
}

func (r *Response) StatusText() status.Status {
	return r.statusText
}

// OK reports whether the status code is in range [200, 299].
func (r *Response) OK() bool {
	return status.IsOK(r.status)
}

// Redirected reports whether the Location header is present.
func (r *Response) Redirected() bool {
	return r.redirected
}

func (r *Response) Type() ResponseType {
	return r.typ
}

func (r *Response) URL() string {
	return r.url
}
