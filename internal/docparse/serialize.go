package docparse

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FormatNewTicket renders a brand-new ticket's frontmatter and body. It is
// only used at creation time; subsequent edits go through the frontmatter
// editor (yamledit.go) so unrelated keys are never touched.
func FormatNewTicket(meta *TicketMetadata) string {
	var b strings.Builder

	b.WriteString("---\n")
	b.WriteString("id: " + meta.ID + "\n")
	b.WriteString("uuid: " + meta.UUID + "\n")

	if meta.Status != "" {
		b.WriteString("status: " + meta.Status + "\n")
	}

	writeStringList(&b, "deps", meta.Deps)
	writeStringList(&b, "links", meta.Links)

	if !meta.Created.IsZero() {
		b.WriteString("created: " + meta.Created.UTC().Format(time.RFC3339) + "\n")
	}

	if meta.Type != "" {
		b.WriteString("type: " + meta.Type + "\n")
	}

	b.WriteString(fmt.Sprintf("priority: %d\n", meta.Priority))

	if meta.Size != "" {
		b.WriteString("size: " + meta.Size + "\n")
	}

	if meta.ExternalRef != "" {
		b.WriteString("external-ref: " + meta.ExternalRef + "\n")
	}

	if meta.Remote != "" {
		b.WriteString("remote: " + meta.Remote + "\n")
	}

	if meta.Parent != "" {
		b.WriteString("parent: " + meta.Parent + "\n")
	}

	if meta.SpawnedFrom != "" {
		b.WriteString("spawned-from: " + meta.SpawnedFrom + "\n")
	}

	if meta.Depth != 0 {
		b.WriteString(fmt.Sprintf("depth: %d\n", meta.Depth))
	}

	if meta.Triaged {
		b.WriteString("triaged: true\n")
	}

	b.WriteString("---\n")
	b.WriteString("# " + meta.Title + "\n")

	if meta.Description != "" {
		b.WriteString("\n" + meta.Description + "\n")
	}

	for _, name := range sortedSectionNames(meta.Sections) {
		content := meta.Sections[name]
		if content == "" {
			continue
		}

		b.WriteString("\n## " + name + "\n\n" + content + "\n")
	}

	return b.String()
}

func sortedSectionNames(sections map[string]string) []string {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func writeStringList(b *strings.Builder, field string, items []string) {
	if len(items) == 0 {
		return
	}

	b.WriteString(field + ":\n")

	for _, item := range items {
		b.WriteString("  - " + item + "\n")
	}
}
