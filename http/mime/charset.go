package mime

type Charset = string

const (
	UTF8 Charset = "UTF-8"
)

// WithCharset renders the MIME together with the charset parameter, the way the fetch
// standard does: without a space after the semicolon.
func WithCharset(mime MIME, charset Charset) string {
	return mime + ";charset=" + charset
}
