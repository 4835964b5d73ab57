package status

// HTTPError is an error carrying the status code it corresponds to. Handlers may use the
// code to answer the peer without inspecting the error any further.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrBadRequest           = NewError(BadRequest, "bad request")
	ErrURLDecoding          = NewError(BadRequest, "invalid urlencoded sequence")
	ErrMissingBoundary      = NewError(BadRequest, "multipart boundary is missing")
	ErrMalformedMultipart   = NewError(BadRequest, "malformed multipart part")
	ErrBadEncoding          = NewError(BadRequest, "bad content transfer encoding")
	ErrUnsupportedMediaType = NewError(UnsupportedMediaType, "unsupported media type")
)
