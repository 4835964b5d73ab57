package blob

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"runtime"
	"strings"
)

// PoolSize is the maximal length of a chunk, produced by Stream.
const PoolSize = 64 * 1024

var (
	ErrInvalidParts   = errors.New("blob parts cannot be converted to a sequence")
	ErrInvalidOptions = errors.New("blob options cannot be converted to a dictionary")
)

// Endings controls how line endings of string parts are treated.
type Endings uint8

const (
	// Transparent keeps line endings as is.
	Transparent Endings = iota
	// Native rewrites every \r\n, \r and \n into the line ending of the host system.
	Native
)

func (e Endings) String() string {
	if e == Native {
		return "native"
	}

	return "transparent"
}

type Options struct {
	// Type is the media type of the blob. Values containing characters outside the visible
	// ASCII range are silently replaced by an empty string; otherwise it's lower-cased.
	Type    string
	Endings Endings
}

type part struct {
	data []byte
	blob *Blob
}

func (p part) size() int64 {
	if p.blob != nil {
		return p.blob.size
	}

	return int64(len(p.data))
}

// Blob is an immutable sequence of bytes, possibly composed of other blobs. Composition,
// slicing and streaming never flatten nested blobs into a single buffer.
type Blob struct {
	parts   []part
	size    int64
	typ     string
	endings Endings
}

// New composes a blob out of the parts. Byte slices are copied, blobs (and files) are
// referenced, strings are taken as UTF-8 and any other value is encoded via its default
// textual representation (see fmt.Sprint). Empty parts are dropped.
func New(parts []any, opts Options) *Blob {
	b := &Blob{
		parts:   make([]part, 0, len(parts)),
		typ:     normalizeType(opts.Type),
		endings: opts.Endings,
	}

	for _, element := range parts {
		b.push(element)
	}

	return b
}

// From is a constructor for values of unknown shape. The parts must be either nil, a slice,
// an array or an iter.Seq[any], otherwise ErrInvalidParts is returned. Options may be nil,
// Options, *Options or a map with the "type" and "endings" keys, otherwise ErrInvalidOptions
// is returned.
func From(parts any, options any) (*Blob, error) {
	opts, err := parseOptions(options)
	if err != nil {
		return nil, err
	}

	b := New(nil, opts)

	switch p := parts.(type) {
	case nil:
	case iter.Seq[any]:
		for element := range p {
			b.push(element)
		}
	default:
		value := reflect.ValueOf(parts)
		switch value.Kind() {
		case reflect.Slice, reflect.Array:
		default:
			return nil, fmt.Errorf("%w: %T", ErrInvalidParts, parts)
		}

		for i := range value.Len() {
			b.push(value.Index(i).Interface())
		}
	}

	return b, nil
}

func parseOptions(options any) (Options, error) {
	switch o := options.(type) {
	case nil:
		return Options{}, nil
	case Options:
		return o, nil
	case *Options:
		if o == nil {
			return Options{}, nil
		}

		return *o, nil
	case map[string]any:
		var opts Options
		if t, found := o["type"]; found && t != nil {
			opts.Type = fmt.Sprint(t)
		}

		if e, found := o["endings"]; found && fmt.Sprint(e) == "native" {
			opts.Endings = Native
		}

		return opts, nil
	default:
		return Options{}, fmt.Errorf("%w: %T", ErrInvalidOptions, options)
	}
}

func (b *Blob) push(element any) {
	var p part

	switch e := element.(type) {
	case []byte:
		p.data = append([]byte(nil), e...)
	case *Blob:
		if e != nil {
			p.blob = e
		}
	case *File:
		if e != nil {
			p.blob = e.Blob
		}
	case string:
		p.data = []byte(b.convertEndings(e))
	default:
		p.data = []byte(b.convertEndings(fmt.Sprint(element)))
	}

	if size := p.size(); size > 0 {
		b.size += size
		b.parts = append(b.parts, p)
	}
}

func (b *Blob) convertEndings(str string) string {
	if b.endings != Native {
		return str
	}

	return convertLineEndings(str, nativeLineEnding())
}

// Size returns the total number of bytes.
func (b *Blob) Size() int64 {
	return b.size
}

// Type returns the media type of the blob.
func (b *Blob) Type() string {
	return b.typ
}

// Endings returns the line-endings policy the blob was constructed with.
func (b *Blob) Endings() Endings {
	return b.endings
}

// Slice returns a blob holding the bytes in [start, end). Negative offsets are counted
// from the end; both are clamped into [0, Size()]. The memory of the original blob is shared,
// so no bytes are copied.
func (b *Blob) Slice(start, end int64, contentType string) *Blob {
	relStart, relEnd := relative(start, b.size), relative(end, b.size)
	span := max(relEnd-relStart, 0)

	slice := &Blob{
		size:    span,
		typ:     normalizeType(contentType),
		endings: b.endings,
	}

	var added int64

	for _, p := range b.parts {
		if added >= span {
			break
		}

		size := p.size()
		if relStart != 0 && size <= relStart {
			// skip the beginning, shifting the relative offsets accordingly
			relStart -= size
			relEnd -= size
			continue
		}

		upper := min(size, relEnd)
		var chunk part
		if p.blob != nil {
			chunk.blob = p.blob.Slice(relStart, upper, "")
		} else {
			chunk.data = p.data[relStart:upper:upper]
		}

		added += chunk.size()
		relEnd -= size
		relStart = 0

		if chunk.size() > 0 {
			slice.parts = append(slice.parts, chunk)
		}
	}

	return slice
}

// Bytes returns the whole content in a newly allocated slice.
func (b *Blob) Bytes() []byte {
	data := make([]byte, 0, b.size)
	for chunk := range b.Chunks() {
		data = append(data, chunk...)
	}

	return data
}

// Text decodes the content as UTF-8. Invalid sequences are replaced by U+FFFD.
func (b *Blob) Text() string {
	var (
		sb      strings.Builder
		decoder textDecoder
	)

	sb.Grow(int(b.size))

	for chunk := range b.Chunks() {
		decoder.Write(&sb, chunk)
	}

	decoder.Flush(&sb)

	return sb.String()
}

// Chunks iterates over the underlying memory views, flattening nested blobs depth-first. The
// views are yielded without copying, therefore they must not be modified or retained.
func (b *Blob) Chunks() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		b.walk(yield)
	}
}

func (b *Blob) walk(yield func([]byte) bool) bool {
	for _, p := range b.parts {
		if p.blob != nil {
			if !p.blob.walk(yield) {
				return false
			}

			continue
		}

		if !yield(p.data) {
			return false
		}
	}

	return true
}

// Stream returns a lazy reader over the content. Chunks it produces are copies, at most
// PoolSize bytes long each.
func (b *Blob) Stream() *Stream {
	return newStream(b)
}

func relative(offset, size int64) int64 {
	if offset < 0 {
		return max(size+offset, 0)
	}

	return min(offset, size)
}

func normalizeType(t string) string {
	for i := 0; i < len(t); i++ {
		if t[i] < 0x20 || t[i] > 0x7E {
			return ""
		}
	}

	return strings.ToLower(t)
}

func nativeLineEnding() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}

	return "\n"
}

func convertLineEndings(str, ending string) string {
	if strings.IndexByte(str, '\r') == -1 && ending == "\n" {
		return str
	}

	var sb strings.Builder
	sb.Grow(len(str))

	for i := 0; i < len(str); i++ {
		switch str[i] {
		case '\r':
			if i+1 < len(str) && str[i+1] == '\n' {
				i++
			}

			sb.WriteString(ending)
		case '\n':
			sb.WriteString(ending)
		default:
			sb.WriteByte(str[i])
		}
	}

	return sb.String()
}
