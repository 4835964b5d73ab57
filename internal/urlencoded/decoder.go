package urlencoded

import (
	"github.com/indigo-web/fetch/http/status"
	"github.com/indigo-web/fetch/internal/hexconv"
	"github.com/indigo-web/utils/uf"
)

// Decode decodes percent-encoded sequences of src, appending the result to dst. If there's
// nothing to be decoded, src is returned as is and dst stays untouched. The returned buffer
// must be re-used for consecutive calls, as it may have grown.
func Decode(src, dst []byte) (decoded, buffer []byte, err error) {
	return decode(src, dst, false)
}

// ExtendedDecode is the same as Decode, but on top also decodes + as spaces.
func ExtendedDecode(src, dst []byte) (decoded, buffer []byte, err error) {
	return decode(src, dst, true)
}

// ExtendedDecodeString is ExtendedDecode for strings. The result may share the memory
// with the buffer, so it must be copied if the buffer is going to be reused.
func ExtendedDecodeString(src string, buff []byte) (decoded string, buffer []byte, err error) {
	d, buffer, err := ExtendedDecode(uf.S2B(src), buff)
	return uf.B2S(d), buffer, err
}

func decode(src, dst []byte, plus bool) (decoded, buffer []byte, err error) {
	if !needsDecoding(src, plus) {
		return src, dst, nil
	}

	head := len(dst)

	for i := 0; i < len(src); i++ {
		switch c := src[i]; {
		case c == '%':
			if i+2 >= len(src) {
				return nil, dst, status.ErrURLDecoding
			}

			char, ok := hexconv.Pair(src[i+1], src[i+2])
			if !ok {
				return nil, dst, status.ErrURLDecoding
			}

			dst = append(dst, char)
			i += 2
		case c == '+' && plus:
			dst = append(dst, ' ')
		default:
			dst = append(dst, c)
		}
	}

	return dst[head:], dst, nil
}

func needsDecoding(src []byte, plus bool) bool {
	for _, c := range src {
		if c == '%' || (plus && c == '+') {
			return true
		}
	}

	return false
}
