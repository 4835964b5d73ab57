package strutil

import "strings"

func LStripWS(str string) string {
	for i, c := range str {
		switch c {
		case ' ', '\t':
		default:
			return str[i:]
		}
	}

	return ""
}

func RStripWS(str string) string {
	for i := len(str); i > 0; i-- {
		switch str[i-1] {
		case ' ', '\t':
		default:
			return str[:i]
		}
	}

	return ""
}

// StripWS strips spaces and tabs from both sides.
func StripWS(str string) string {
	return RStripWS(LStripWS(str))
}

// CutHeader splits the header value into the value itself and its parameters, stripping
// whitespaces between the first semicolon and the first parameter.
func CutHeader(header string) (value, params string) {
	sep := strings.IndexByte(header, ';')
	if sep == -1 {
		return header, ""
	}

	return header[:sep], LStripWS(header[sep+1:])
}

// Unquote removes surrounding double quotes, resolving backslash-escapes inside. Strings
// which aren't quoted are returned as is.
func Unquote(str string) string {
	if len(str) < 2 || str[0] != '"' || str[len(str)-1] != '"' {
		return str
	}

	str = str[1 : len(str)-1]
	if strings.IndexByte(str, '\\') == -1 {
		return str
	}

	var b strings.Builder
	b.Grow(len(str))

	for i := 0; i < len(str); i++ {
		if str[i] == '\\' && i+1 < len(str) {
			i++
		}

		b.WriteByte(str[i])
	}

	return b.String()
}
