package http

import (
	"github.com/indigo-web/fetch/http/blob"
	"github.com/indigo-web/fetch/http/form"
)

type BodyKind uint8

const (
	KindEmpty BodyKind = iota
	KindRaw
	KindText
	KindURLEncoded
	KindBlob
	KindForm
)

// Body is a message payload of one of the kinds. The kind is decided once the body is
// constructed and never changes.
type Body struct {
	kind BodyKind
	raw  []byte
	text string
	blob *blob.Blob
	form *form.Form
}

// NoBody is an empty body.
var NoBody = Body{}

// BytesBody uses the data WITHOUT COPYING. Changing the passed slice later will affect
// the body by itself.
func BytesBody(data []byte) Body {
	return Body{kind: KindRaw, raw: data}
}

func TextBody(text string) Body {
	return Body{kind: KindText, text: text}
}

// URLEncodedBody is serialized as application/x-www-form-urlencoded.
func URLEncodedBody(f *form.Form) Body {
	if f == nil {
		f = form.New()
	}

	return Body{kind: KindURLEncoded, form: f}
}

func BlobBody(b *blob.Blob) Body {
	if b == nil {
		return NoBody
	}

	return Body{kind: KindBlob, blob: b}
}

// FormBody is serialized as multipart/form-data.
func FormBody(f *form.Form) Body {
	if f == nil {
		f = form.New()
	}

	return Body{kind: KindForm, form: f}
}

func (b Body) Kind() BodyKind {
	return b.kind
}

// Empty reports whether the body carries no payload. Forms and blobs are never considered
// empty, as they are still serialized into something.
func (b Body) Empty() bool {
	switch b.kind {
	case KindEmpty:
		return true
	case KindRaw:
		return len(b.raw) == 0
	case KindText:
		return len(b.text) == 0
	default:
		return false
	}
}

func (b Body) clone() Body {
	if b.form != nil {
		b.form = b.form.Clone()
	}

	return b
}
