package blob

import "io"

type frame struct {
	parts []part
	next  int
}

// Stream reads a blob lazily, chunk by chunk. It is finite and cannot be restarted: once
// io.EOF is returned, every consecutive call returns it again.
type Stream struct {
	stack   []frame
	current []byte
	pending []byte
	eof     bool
}

func newStream(b *Blob) *Stream {
	return &Stream{
		stack: []frame{{parts: b.parts}},
	}
}

// Retrieve returns the next chunk of at most PoolSize bytes. The chunk is a copy, so it can
// be retained by the caller. When the blob is exhausted, nil and io.EOF are returned.
func (s *Stream) Retrieve() ([]byte, error) {
	view, err := s.advance()
	if err != nil {
		return nil, err
	}

	return append([]byte(nil), view...), nil
}

// Read implements the io.Reader interface.
func (s *Stream) Read(into []byte) (n int, err error) {
	if len(s.pending) == 0 {
		s.pending, err = s.advance()
		if err != nil {
			return 0, err
		}
	}

	n = copy(into, s.pending)
	s.pending = s.pending[n:]

	return n, nil
}

// WriteTo implements the io.WriterTo interface, so io.Copy avoids an intermediate buffer.
func (s *Stream) WriteTo(w io.Writer) (total int64, err error) {
	if len(s.pending) > 0 {
		n, err := w.Write(s.pending)
		total += int64(n)
		s.pending = nil
		if err != nil {
			return total, err
		}
	}

	for {
		view, err := s.advance()
		switch err {
		case nil:
		case io.EOF:
			return total, nil
		default:
			return total, err
		}

		n, err := w.Write(view)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
}

// advance returns the next view into the blob memory, at most PoolSize bytes long.
func (s *Stream) advance() ([]byte, error) {
	if s.eof {
		return nil, io.EOF
	}

	for len(s.current) == 0 {
		if len(s.stack) == 0 {
			s.eof = true
			return nil, io.EOF
		}

		top := &s.stack[len(s.stack)-1]
		if top.next >= len(top.parts) {
			s.stack = s.stack[:len(s.stack)-1]
			continue
		}

		p := top.parts[top.next]
		top.next++

		if p.blob != nil {
			s.stack = append(s.stack, frame{parts: p.blob.parts})
			continue
		}

		s.current = p.data
	}

	n := min(len(s.current), PoolSize)
	view := s.current[:n]
	s.current = s.current[n:]

	return view, nil
}
