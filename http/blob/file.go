package blob

import "time"

type FileOptions struct {
	Type    string
	Endings Endings
	// LastModified is a unix timestamp in milliseconds. Zero value stands for the moment
	// of the file construction.
	LastModified int64
}

// File is a Blob with a name and a modification timestamp.
type File struct {
	*Blob
	name         string
	lastModified int64
}

func NewFile(parts []any, name string, opts FileOptions) *File {
	lastModified := opts.LastModified
	if lastModified == 0 {
		lastModified = time.Now().UnixMilli()
	}

	return &File{
		Blob: New(parts, Options{
			Type:    opts.Type,
			Endings: opts.Endings,
		}),
		name:         name,
		lastModified: lastModified,
	}
}

// AsFile wraps the blob into a file of the same type, sharing the memory.
func AsFile(b *Blob, name string) *File {
	if b == nil {
		b = New(nil, Options{})
	}

	return NewFile([]any{b}, name, FileOptions{Type: b.Type()})
}

func (f *File) Name() string {
	return f.name
}

// LastModified returns the unix timestamp in milliseconds.
func (f *File) LastModified() int64 {
	return f.lastModified
}
