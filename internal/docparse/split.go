// Package docparse implements the document parser and frontmatter editor:
// pure functions from raw Markdown-with-YAML-frontmatter text to typed
// metadata and back, plus round-trip-safe field-level mutation of the raw
// YAML.
package docparse

import (
	"regexp"
	"strings"

	"janus/internal/errs"
)

var frontmatterRe = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n(.*)$`)

// Split separates a document's raw text into its YAML frontmatter and
// Markdown body. The grammar is: an optional UTF-8 BOM; a literal "---\n";
// YAML lines until the next line that is exactly "---\n"; the remainder is
// the body. CRLF and mixed line endings are normalized to LF before
// matching (I5); the returned body reflects that normalization.
func Split(text string) (frontmatterRaw, body string, err error) {
	text = strings.TrimPrefix(text, "﻿")
	text = normalizeLineEndings(text)

	m := frontmatterRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", errs.ErrMissingFrontmatter
	}

	frontmatterRaw, body = m[1], m[2]

	if strings.TrimSpace(frontmatterRaw) == "" {
		return "", "", errs.ErrEmptyFrontmatter
	}

	return frontmatterRaw, body, nil
}

// Join is Split's inverse: it re-wraps frontmatter and body into a full
// document. frontmatter is expected without its delimiters; a trailing
// newline is added if missing.
func Join(frontmatter, body string) string {
	if !strings.HasSuffix(frontmatter, "\n") {
		frontmatter += "\n"
	}

	return "---\n" + frontmatter + "---\n" + body
}

func normalizeLineEndings(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}

	s = strings.ReplaceAll(s, "\r\n", "\n")

	return strings.ReplaceAll(s, "\r", "\n")
}
