package formdata

import (
	"strings"

	"github.com/indigo-web/fetch/internal/strutil"
	"github.com/indigo-web/utils/strcomp"
)

// stream is a cursor over the headers section of a single multipart part.
type stream struct {
	data string
}

func newStream(data string) stream {
	return stream{data}
}

func (s *stream) Consume(str string) bool {
	if strings.HasPrefix(s.data, str) {
		s.data = s.data[len(str):]
		return true
	}

	return false
}

func (s *stream) ConsumeFold(str string) bool {
	if len(s.data) >= len(str) && strcomp.EqualFold(s.data[:len(str)], str) {
		s.data = s.data[len(str):]
		return true
	}

	return false
}

// AdvanceLine returns everything until the next LF, excluding it and the preceding CR,
// if any. If there's no LF, false is returned and the stream is left untouched.
func (s *stream) AdvanceLine() (line string, ok bool) {
	newline := strings.IndexByte(s.data, '\n')
	if newline == -1 {
		return "", false
	}

	line, s.data = s.data[:newline], s.data[newline+1:]
	return strings.TrimSuffix(line, "\r"), true
}

func (s *stream) SkipWhitespaces() {
	s.data = strutil.LStripWS(s.data)
}

func (s *stream) Expose() string {
	return s.data
}
