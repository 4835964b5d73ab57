package form

import "github.com/indigo-web/fetch/http/blob"

// Value is either a text or a file. The zero value is an empty text.
type Value struct {
	text string
	file *blob.File
}

func Text(text string) Value {
	return Value{text: text}
}

func File(file *blob.File) Value {
	return Value{file: file}
}

func (v Value) IsFile() bool {
	return v.file != nil
}

// Text returns the text value. For files, an empty string is returned.
func (v Value) Text() string {
	return v.text
}

// File returns the file value or nil, if the value is a text.
func (v Value) File() *blob.File {
	return v.file
}

// String returns the text value or the file name.
func (v Value) String() string {
	if v.file != nil {
		return v.file.Name()
	}

	return v.text
}
