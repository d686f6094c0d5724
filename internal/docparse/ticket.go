package docparse

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"janus/internal/errs"
)

// Valid enum values for ticket frontmatter fields.
var (
	ValidStatuses = []string{"new", "next", "in-progress", "complete", "cancelled"}
	ValidTypes    = []string{"task", "feature", "bug", "chore"}
	ValidSizes    = []string{"small", "medium", "large", "xlarge"}
)

// ticketFrontmatter is the strict YAML schema for ticket frontmatter: any
// key not listed here causes the decode to fail, surfacing schema drift
// instead of silently dropping it.
type ticketFrontmatter struct {
	ID          string   `yaml:"id"`
	UUID        string   `yaml:"uuid"`
	Status      string   `yaml:"status,omitempty"`
	Deps        []string `yaml:"deps,omitempty"`
	Links       []string `yaml:"links,omitempty"`
	Created     string   `yaml:"created,omitempty"`
	Type        string   `yaml:"type,omitempty"`
	Priority    int      `yaml:"priority,omitempty"`
	Size        string   `yaml:"size,omitempty"`
	ExternalRef string   `yaml:"external-ref,omitempty"`
	Remote      string   `yaml:"remote,omitempty"`
	Parent      string   `yaml:"parent,omitempty"`
	SpawnedFrom string   `yaml:"spawned-from,omitempty"`
	Depth       int      `yaml:"depth,omitempty"`
	Triaged     bool     `yaml:"triaged,omitempty"`
}

// TicketMetadata is the typed, in-memory representation of a ticket: the
// frontmatter fields plus the body-derived title, description, and named
// sections. FilePath is populated by the repository after parse, not
// stored in the file.
type TicketMetadata struct {
	ID          string
	UUID        string
	Status      string
	Deps        []string
	Links       []string
	Created     time.Time
	Type        string
	Priority    int
	Size        string
	ExternalRef string
	Remote      string
	Parent      string
	SpawnedFrom string
	Depth       int
	Triaged     bool

	Title       string
	Description string
	Sections    map[string]string // case-preserved heading -> trimmed body

	FilePath string
}

var titleRe = regexp.MustCompile(`(?m)^#\s+(.*)$`)

// ParseTicketStrict parses the frontmatter/body of raw ticket text into
// TicketMetadata. Unknown frontmatter keys or invalid enum values are
// reported as *errs.InvalidFormat; callers doing bulk scans should log and
// skip on this error rather than abort.
func ParseTicketStrict(raw string) (*TicketMetadata, error) {
	fmRaw, body, err := Split(raw)
	if err != nil {
		return nil, err
	}

	var tf ticketFrontmatter

	dec := yaml.NewDecoder(bytes.NewReader([]byte(fmRaw)))
	dec.KnownFields(true)

	if err := dec.Decode(&tf); err != nil {
		return nil, &errs.InvalidFormat{Detail: fmt.Sprintf("frontmatter: %v", err)}
	}

	if tf.ID == "" {
		return nil, &errs.InvalidFormat{Detail: "missing required field \"id\""}
	}

	if tf.UUID == "" {
		return nil, &errs.InvalidFormat{Detail: "missing required field \"uuid\""}
	}

	if tf.Status != "" && !contains(ValidStatuses, tf.Status) {
		return nil, &errs.InvalidFormat{Detail: fmt.Sprintf("invalid status %q", tf.Status)}
	}

	if tf.Type != "" && !contains(ValidTypes, tf.Type) {
		return nil, &errs.InvalidFormat{Detail: fmt.Sprintf("invalid type %q", tf.Type)}
	}

	if tf.Size != "" && !contains(ValidSizes, tf.Size) {
		return nil, &errs.InvalidFormat{Detail: fmt.Sprintf("invalid size %q", tf.Size)}
	}

	meta := &TicketMetadata{
		ID:          tf.ID,
		UUID:        tf.UUID,
		Status:      tf.Status,
		Deps:        tf.Deps,
		Links:       tf.Links,
		Type:        tf.Type,
		Priority:    tf.Priority,
		Size:        tf.Size,
		ExternalRef: tf.ExternalRef,
		Remote:      tf.Remote,
		Parent:      tf.Parent,
		SpawnedFrom: tf.SpawnedFrom,
		Depth:       tf.Depth,
		Triaged:     tf.Triaged,
	}

	if tf.Created != "" {
		t, err := time.Parse(time.RFC3339, tf.Created)
		if err != nil {
			return nil, &errs.InvalidFormat{Detail: fmt.Sprintf("invalid created timestamp %q", tf.Created)}
		}

		meta.Created = t
	}

	meta.Title = extractTitle(body)
	meta.Description = extractDescription(body)
	meta.Sections = extractAllSections(body)

	return meta, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}

	return false
}

// extractTitle returns the text of the first line matching "# ..." in the
// body (the first H1, not the first heading of any level).
func extractTitle(body string) string {
	m := titleRe.FindStringSubmatch(body)
	if m == nil {
		return ""
	}

	return strings.TrimSpace(m[1])
}

// extractDescription returns the free text between the title line and the
// first H2 (or end of document).
func extractDescription(body string) string {
	loc := titleRe.FindStringIndex(body)
	if loc == nil {
		return strings.TrimSpace(body)
	}

	rest := body[loc[1]:]

	if idx := firstH2Index(rest); idx >= 0 {
		rest = rest[:idx]
	}

	return strings.TrimSpace(rest)
}

var h2LineRe = regexp.MustCompile(`(?m)^##\s`)

func firstH2Index(s string) int {
	loc := h2LineRe.FindStringIndex(s)
	if loc == nil {
		return -1
	}

	return loc[0]
}

// extractAllSections returns every named H2 section in the body, keyed by
// heading text (trimmed), mapping to the content up to the next H2 or end
// of document.
func extractAllSections(body string) map[string]string {
	sections := map[string]string{}

	headings := h2HeadingRe.FindAllStringSubmatchIndex(body, -1)
	for i, h := range headings {
		name := strings.TrimSpace(body[h[2]:h[3]])

		start := h[1]

		end := len(body)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		}

		sections[name] = strings.TrimSpace(body[start:end])
	}

	return sections
}

var h2HeadingRe = regexp.MustCompile(`(?m)^##\s+(.*)$`)

// ExtractSection returns a single named H2 section, matched
// case-insensitively, terminating at the next H2 or end of document.
func ExtractSection(body, name string) (string, bool) {
	pattern := `(?ims)^##[ \t]+` + regexp.QuoteMeta(name) + `[ \t]*\n(.*?)(?:^##[ \t]|\z)`

	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", false
	}

	m := re.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}

	return strings.TrimSpace(m[1]), true
}
