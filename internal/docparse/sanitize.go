package docparse

import "strings"

// Sanitize escapes a literal "---" sequence so untrusted text (a title or
// body pulled from a remote issue) cannot terminate a frontmatter block
// when composed into a new document.
func Sanitize(s string) string {
	return strings.ReplaceAll(s, "---", "&#45;&#45;&#45;")
}
