package transform

import "strings"

// percentEncode escapes markup-significant characters the way browsers encode
// URI components: everything outside the unreserved set (A-Z a-z 0-9
// - _ . ! ~ * ' ( )) becomes %XX on its UTF-8 bytes. Space maps to %20 and
// '+' to %2B, which neither of the stdlib escaping families produces for
// both inputs at once.
func percentEncode(value string) string {
	const hex = "0123456789ABCDEF"
	var builder strings.Builder
	builder.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if isUnreserved(c) {
			builder.WriteByte(c)
			continue
		}
		builder.WriteByte('%')
		builder.WriteByte(hex[c>>4])
		builder.WriteByte(hex[c&0xf])
	}
	return builder.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// attribute serializes a name/value pair verbatim. Used for identifier-safe
// values (id, src, clauseid) that are never percent-encoded.
func attribute(name, value string) string {
	return name + `="` + value + `"`
}

// encodedAttribute serializes a name/value pair with a percent-encoded value.
func encodedAttribute(name, value string) string {
	return attribute(name, percentEncode(value))
}

// joinAttributes joins serialized attributes with single spaces, preserving
// the caller's order.
func joinAttributes(parts ...string) string {
	return strings.Join(parts, " ")
}

// selfClosingTag renders the `<name attrs/>` form; the space before the
// attribute string is omitted when there are no attributes.
func selfClosingTag(name, attributeString string) string {
	if attributeString == "" {
		return "<" + name + "/>"
	}
	return "<" + name + " " + attributeString + "/>"
}
