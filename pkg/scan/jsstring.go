package scan

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

// UnquoteJS interprets a JavaScript string literal, single, double or
// backtick quoted, and returns its cooked value. Surrogate pairs in \u
// escapes combine into one rune.
func UnquoteJS(s string) (string, error) {
	if len(s) < 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidLiteral, s)
	}
	quote := s[0]
	if quote != '\'' && quote != '"' && quote != '`' {
		return "", fmt.Errorf("%w: %q", ErrInvalidLiteral, s)
	}
	if s[len(s)-1] != quote {
		return "", fmt.Errorf("%w: %q", ErrInvalidLiteral, s)
	}
	body := s[1 : len(s)-1]

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("%w: trailing backslash in %q", ErrInvalidLiteral, s)
		}
		e := body[i]
		i++
		switch e {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case 'x':
			r, n, err := hexRune(body[i:], 2)
			if err != nil {
				return "", fmt.Errorf("%w: %q", ErrInvalidLiteral, s)
			}
			b.WriteRune(r)
			i += n
		case 'u':
			r, n, err := unicodeEscape(body[i:])
			if err != nil {
				return "", fmt.Errorf("%w: %q", ErrInvalidLiteral, s)
			}
			i += n
			if utf16.IsSurrogate(r) && strings.HasPrefix(body[i:], `\u`) {
				low, ln, err := unicodeEscape(body[i+2:])
				if err == nil {
					if combined := utf16.DecodeRune(r, low); combined != 0xFFFD {
						r = combined
						i += 2 + ln
					}
				}
			}
			b.WriteRune(r)
		case '\n':
			// Line continuation.
		case '\r':
			if i < len(body) && body[i] == '\n' {
				i++
			}
		default:
			b.WriteByte(e)
		}
	}
	return b.String(), nil
}

// unicodeEscape parses the payload of a \u escape, either four hex digits or
// a braced code point, returning the rune and consumed byte count.
func unicodeEscape(s string) (rune, int, error) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0, fmt.Errorf("unterminated code point escape")
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || v > 0x10FFFF {
			return 0, 0, fmt.Errorf("bad code point escape")
		}
		return rune(v), end + 1, nil
	}
	return hexRune(s, 4)
}

func hexRune(s string, digits int) (rune, int, error) {
	if len(s) < digits {
		return 0, 0, fmt.Errorf("truncated escape")
	}
	v, err := strconv.ParseUint(s[:digits], 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad hex escape")
	}
	return rune(v), digits, nil
}

// QuoteJS renders s as a double-quoted JavaScript string literal. Line and
// paragraph separators are escaped, so the result is valid in any script
// context regardless of ECMAScript version.
func QuoteJS(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case ' ':
			b.WriteString(` `)
		case ' ':
			b.WriteString(` `)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
