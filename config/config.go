package config

import (
	"github.com/indigo-web/fetch/http/mime"
)

type (
	Headers struct {
		// Prealloc is the initial capacity of header storages, created for requests and
		// responses implicitly.
		Prealloc int
	}

	Form struct {
		// EntriesPrealloc is the number of preallocated seats for keys of form.Form, produced
		// by decoding a message body.
		EntriesPrealloc int
		// BufferPrealloc is the initial capacity of a buffer, used for encoding a form into
		// the multipart/form-data representation and for url-decoding keys and values.
		BufferPrealloc int
		// DefaultFileType is written into the Content-Type header of a multipart part if the
		// file carries no type on its own.
		DefaultFileType mime.MIME
		// DecodeBase64Files makes the multipart decoder treat content of every file part as
		// base64 text, even if no Content-Transfer-Encoding header is present. Peers encoding
		// files this way exist, yet by default contents are taken byte-exactly.
		DecodeBase64Files bool `test:"nullable"`
		// StripArraySuffix removes the trailing [] from decoded multipart names, so
		// name="list[]" is stored under the "list" key.
		StripArraySuffix bool `test:"nullable"`
	}

	Client struct {
		// UserAgent is the value of the User-Agent header, added to every outgoing request
		// unless one is set explicitly.
		UserAgent string
	}
)

// Config holds settings used across various parts of fetch, mainly pre-allocations and
// codec behaviour.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Headers Headers
	Form    Form
	Client  Client
}

// Default returns default config.
func Default() *Config {
	return &Config{
		Headers: Headers{
			Prealloc: 8,
		},
		Form: Form{
			EntriesPrealloc: 8,
			// mostly enough for a couple of text fields. Files grow it anyway
			BufferPrealloc:  1024,
			DefaultFileType: mime.OctetStream,
		},
		Client: Client{
			UserAgent: "indigo-fetch",
		},
	}
}
