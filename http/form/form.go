package form

import (
	"iter"

	"github.com/indigo-web/fetch/http/blob"
)

// DefaultFilename is given to blobs appended without a filename.
const DefaultFilename = "blob"

type entry struct {
	key    string
	values []Value
}

// Form is an ordered multi-map of keys to values. Keys are kept in the order of their first
// occurrence; multiple values of the same key fan out at the key's position. Keys are
// compared byte-wise.
type Form struct {
	entries []entry
}

func New() *Form {
	return new(Form)
}

func NewPrealloc(n int) *Form {
	return &Form{
		entries: make([]entry, 0, n),
	}
}

// Append adds the value without removing existing ones.
func (f *Form) Append(key string, value Value) *Form {
	if i := f.index(key); i != -1 {
		f.entries[i].values = append(f.entries[i].values, value)
		return f
	}

	f.entries = append(f.entries, entry{key: key, values: []Value{value}})
	return f
}

func (f *Form) AppendString(key, value string) *Form {
	return f.Append(key, Text(value))
}

// AppendBlob wraps the blob into a file named filename (or DefaultFilename, if empty) and
// appends it. The blob's memory is shared.
func (f *Form) AppendBlob(key string, b *blob.Blob, filename string) *Form {
	if len(filename) == 0 {
		filename = DefaultFilename
	}

	return f.Append(key, File(blob.AsFile(b, filename)))
}

func (f *Form) AppendFile(key string, file *blob.File) *Form {
	return f.Append(key, File(file))
}

// Set replaces all values of the key by a single one, keeping the key's position. If the
// key is absent, it's appended.
func (f *Form) Set(key string, value Value) *Form {
	if i := f.index(key); i != -1 {
		f.entries[i].values = append(f.entries[i].values[:0:0], value)
		return f
	}

	return f.Append(key, value)
}

// Get returns the first value of the key.
func (f *Form) Get(key string) (Value, bool) {
	if i := f.index(key); i != -1 {
		return f.entries[i].values[0], true
	}

	return Value{}, false
}

// GetAll returns all values of the key. The returned slice is never nil and is safe to
// modify.
func (f *Form) GetAll(key string) []Value {
	if i := f.index(key); i != -1 {
		return append(make([]Value, 0, len(f.entries[i].values)), f.entries[i].values...)
	}

	return []Value{}
}

func (f *Form) Has(key string) bool {
	return f.index(key) != -1
}

// Delete removes all values of the key.
func (f *Form) Delete(key string) *Form {
	if i := f.index(key); i != -1 {
		f.entries = append(f.entries[:i], f.entries[i+1:]...)
	}

	return f
}

// Entries iterates over all key-value pairs. Values of the same key are yielded in a row.
func (f *Form) Entries() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, e := range f.entries {
			for _, value := range e.values {
				if !yield(e.key, value) {
					return
				}
			}
		}
	}
}

// Keys iterates over unique keys.
func (f *Form) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, e := range f.entries {
			if !yield(e.key) {
				return
			}
		}
	}
}

func (f *Form) Values() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for _, value := range f.Entries() {
			if !yield(value) {
				return
			}
		}
	}
}

// Len returns the total number of values.
func (f *Form) Len() (n int) {
	for _, e := range f.entries {
		n += len(e.values)
	}

	return n
}

func (f *Form) Empty() bool {
	return len(f.entries) == 0
}

// Clone returns a deep copy of the form. Files are shared, as they are immutable.
func (f *Form) Clone() *Form {
	if f == nil {
		return New()
	}

	clone := NewPrealloc(len(f.entries))
	for _, e := range f.entries {
		clone.entries = append(clone.entries, entry{
			key:    e.key,
			values: append([]Value(nil), e.values...),
		})
	}

	return clone
}

func (f *Form) index(key string) int {
	for i, e := range f.entries {
		if e.key == key {
			return i
		}
	}

	return -1
}
