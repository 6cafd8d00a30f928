package analysis

import "strings"

// RepairJSON applies a best-effort cleanup to almost-JSON collaborator
// output: smart quotes become plain quotes, single-quoted strings become
// double-quoted, and trailing commas before closing braces/brackets are
// dropped. It never touches the content of properly quoted strings.
func RepairJSON(s string) string {
	s = normalizeQuotes(s)
	return stripTrailingCommas(s)
}

var quoteReplacer = strings.NewReplacer(
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"‘", "'",
	"’", "'",
)

// normalizeQuotes maps typographic quotes to ASCII and converts
// single-quoted keys and values to double-quoted ones outside of
// existing double-quoted strings.
func normalizeQuotes(s string) string {
	s = quoteReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	inDouble := false
	inSingle := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		switch c {
		case '\\':
			b.WriteByte(c)
			escaped = true
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
			b.WriteByte(c)
		case '\'':
			if inDouble {
				b.WriteByte(c)
				break
			}
			// Single quote delimiting a string: rewrite as double.
			inSingle = !inSingle
			b.WriteByte('"')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// stripTrailingCommas removes commas that directly precede a closing
// brace or bracket, ignoring commas inside strings.
func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' && inString {
			b.WriteByte(c)
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			b.WriteByte(c)
			continue
		}
		if c == ',' && !inString {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue // drop the comma
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
