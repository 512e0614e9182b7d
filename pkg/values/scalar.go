package values

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// yaml11Bools are plain scalars that YAML 1.1 readers (Helm among them) load
// as booleans even though yaml.v3 reads them as strings.
var yaml11Bools = map[string]struct{}{
	"y": {}, "Y": {}, "yes": {}, "Yes": {}, "YES": {},
	"n": {}, "N": {}, "no": {}, "No": {}, "NO": {},
	"on": {}, "On": {}, "ON": {},
	"off": {}, "Off": {}, "OFF": {},
}

// offsetOf converts a 1-based line and character column, as reported by
// yaml.v3, into a byte offset into src.
func offsetOf(src []byte, line, column int) (int, bool) {
	if line < 1 || column < 1 {
		return 0, false
	}
	off := 0
	if bytes.HasPrefix(src, utf8BOM) {
		off = len(utf8BOM)
	}
	for l := 1; l < line; l++ {
		i := bytes.IndexByte(src[off:], '\n')
		if i < 0 {
			return 0, false
		}
		off += i + 1
	}
	for c := 1; c < column; c++ {
		if off >= len(src) || src[off] == '\n' {
			return 0, false
		}
		_, size := utf8.DecodeRune(src[off:])
		off += size
	}
	if off >= len(src) {
		return 0, false
	}
	return off, true
}

// skipProperties moves pos past any anchor (&name) and tag (!tag) preceding a scalar.
func skipProperties(src []byte, pos int) (int, bool) {
	for pos < len(src) && (src[pos] == '&' || src[pos] == '!') {
		for pos < len(src) && !isBlank(src[pos]) && src[pos] != '\n' && src[pos] != '\r' {
			pos++
		}
		for pos < len(src) && isBlank(src[pos]) {
			pos++
		}
	}
	if pos >= len(src) || src[pos] == '\n' || src[pos] == '\r' {
		return 0, false
	}
	return pos, true
}

// scanScalar returns the end offset of the scalar token starting at pos.
// Block scalars are not handled.
func scanScalar(src []byte, pos int, style yaml.Style, flow bool) (int, bool) {
	switch {
	case style&yaml.DoubleQuotedStyle != 0:
		if src[pos] != '"' {
			return 0, false
		}
		for i := pos + 1; i < len(src); i++ {
			if src[i] == '\\' {
				i++
				continue
			}
			if src[i] == '"' {
				return i + 1, true
			}
		}
		return 0, false
	case style&yaml.SingleQuotedStyle != 0:
		if src[pos] != '\'' {
			return 0, false
		}
		for i := pos + 1; i < len(src); i++ {
			if src[i] != '\'' {
				continue
			}
			if i+1 < len(src) && src[i+1] == '\'' {
				i++
				continue
			}
			return i + 1, true
		}
		return 0, false
	case style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0:
		return 0, false
	}

	end := pos
	for i := pos; i < len(src); i++ {
		c := src[i]
		if c == '\n' || c == '\r' {
			break
		}
		if c == '#' && i > pos && isBlank(src[i-1]) {
			break
		}
		if flow && (c == ',' || c == ']' || c == '}') {
			break
		}
		if !isBlank(c) {
			end = i + 1
		}
	}
	if end == pos {
		return 0, false
	}
	return end, true
}

// tokenDecodesTo reports whether token, read on its own, is a scalar equal to value.
// It rejects tokens that only cover part of a multi-line scalar.
func tokenDecodesTo(token []byte, value string) bool {
	var n yaml.Node
	if err := yaml.Unmarshal(token, &n); err != nil || len(n.Content) != 1 {
		return false
	}
	s := n.Content[0]
	return s.Kind == yaml.ScalarNode && s.Value == value
}

// renderScalar renders value as a YAML string scalar, keeping the requested
// quoting style where that still reads back as the same string.
func renderScalar(value string, style yaml.Style, flow bool) string {
	switch {
	case style&yaml.SingleQuotedStyle != 0 && singleQuotable(value):
		return "'" + strings.ReplaceAll(value, "'", "''") + "'"
	case style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) != 0:
		return doubleQuote(value)
	case plainSafe(value, flow):
		return value
	default:
		return doubleQuote(value)
	}
}

// plainSafe reports whether value can be written unquoted and still be read
// back as the same string by both YAML 1.1 and YAML 1.2 readers.
func plainSafe(value string, flow bool) bool {
	if value == "" || strings.TrimSpace(value) != value {
		return false
	}
	if flow && strings.ContainsAny(value, ",[]{}") {
		return false
	}
	if strings.Contains(value, " #") || strings.Contains(value, ": ") {
		return false
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return false
		}
	}
	if _, ok := yaml11Bools[value]; ok {
		return false
	}

	var n yaml.Node
	if err := yaml.Unmarshal([]byte(value), &n); err != nil || len(n.Content) != 1 {
		return false
	}
	s := n.Content[0]
	return s.Kind == yaml.ScalarNode && s.Style == 0 && s.ShortTag() == strTag && s.Value == value
}

func singleQuotable(value string) bool {
	for _, r := range value {
		if r != '\t' && unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// doubleQuote renders value as a YAML double-quoted scalar.
func doubleQuote(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('"')
	for _, r := range value {
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
		default:
			switch {
			case unicode.IsPrint(r):
				b.WriteRune(r)
			case r <= 0xFF:
				fmt.Fprintf(&b, `\x%02X`, r)
			case r <= 0xFFFF:
				fmt.Fprintf(&b, `\u%04X`, r)
			default:
				fmt.Fprintf(&b, `\U%08X`, r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// detectIndent returns the smallest indentation used in src, or the default.
func detectIndent(src []byte) int {
	indent := 0
	for _, line := range bytes.Split(src, []byte("\n")) {
		trimmed := bytes.TrimLeft(line, " ")
		if len(trimmed) == 0 || trimmed[0] == '#' || trimmed[0] == '\r' {
			continue
		}
		n := len(line) - len(trimmed)
		if n > 0 && (indent == 0 || n < indent) {
			indent = n
		}
	}
	if indent < defaultIndent {
		return defaultIndent
	}
	return indent
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}
