package docparse

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	eastx "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"gopkg.in/yaml.v3"
)

// Section is the marker interface implemented by each kind of a plan's
// top-level body sections. PlanMetadata keeps each kind in its own field,
// and SerializePlanBody (plan_serialize.go) re-emits them by heading in
// SectionOrder; no code switches over Section values.
type Section interface {
	sectionMarker()
}

// AcceptanceCriteriaSection is the optional acceptance-criteria list.
type AcceptanceCriteriaSection struct {
	Items      []string
	RawContent string
}

func (*AcceptanceCriteriaSection) sectionMarker() {}

// TicketsSection is a top-level tickets list (a simple plan).
type TicketsSection struct {
	TicketIDs  []string
	RawContent string
}

func (*TicketsSection) sectionMarker() {}

// Subsection is a preserved, unrecognized H3 under a Phase section (I3).
// H3 headings under the top-level Acceptance Criteria or Tickets sections
// are not split out; they remain only in that section's RawContent.
type Subsection struct {
	Heading string
	Content string
}

// PhaseSection is one `## Phase N: Name` section of a phased plan.
type PhaseSection struct {
	Number           string
	Name             string
	SuccessCriteria  []string
	TicketIDs        []string
	ExtraSubsections []Subsection
	SectionOrder     []string // order of appearance of all H3 headings, for serialization fidelity
	RawContent       string
}

func (*PhaseSection) sectionMarker() {}

// FreeFormSection is any H2 section not recognized as one of the
// structured kinds above, preserved verbatim including nested content.
type FreeFormSection struct {
	Heading    string
	RawContent string
}

func (*FreeFormSection) sectionMarker() {}

// PlanMetadata is the typed, in-memory representation of a plan.
type PlanMetadata struct {
	ID    string
	Extra map[string]any

	Title              string
	AcceptanceCriteria *AcceptanceCriteriaSection
	Simple             *TicketsSection
	Phases             []*PhaseSection
	FreeForm           []*FreeFormSection

	// SectionOrder records the order H2 headings appeared in, by heading
	// text, so a phased/simple plan's interleaving with free-form sections
	// round-trips.
	SectionOrder []string

	FilePath string
}

var phaseHeadingRe = regexp.MustCompile(`(?i)^phase\s+(\d+[a-z]?)\s*[-:]?\s*(.*)$`)

// ParsePlanTolerant parses raw plan text into PlanMetadata. Frontmatter is
// tolerant: any field not explicitly modeled is retained in Extra.
func ParsePlanTolerant(raw string) (*PlanMetadata, error) {
	fmRaw, body, err := Split(raw)
	if err != nil {
		return nil, err
	}

	extra, err := tolerantFrontmatterMap(fmRaw)
	if err != nil {
		return nil, err
	}

	meta := &PlanMetadata{Extra: extra}

	if id, ok := extra["id"]; ok {
		if s, ok := id.(string); ok {
			meta.ID = s
			delete(extra, "id")
		}
	}

	meta.Title = extractTitle(body)

	if err := parsePlanBody(meta, body); err != nil {
		return nil, err
	}

	return meta, nil
}

func tolerantFrontmatterMap(raw string) (map[string]any, error) {
	var m map[string]any

	if err := yaml.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}

	if m == nil {
		m = map[string]any{}
	}

	return m, nil
}

func gmParser() parser.Parser {
	md := goldmark.New(goldmark.WithExtensions(extension.Table, extension.TaskList))

	return md.Parser()
}

// parsePlanBody walks the goldmark AST of body, classifying each top-level
// H2 in order. Because the AST parser never turns text inside a fenced
// code block into heading/list nodes, headings and list items that only
// appear inside a code fence are never mistaken for structure (I4).
func parsePlanBody(meta *PlanMetadata, body string) error {
	source := []byte(body)
	reader := text.NewReader(source)
	root := gmParser().Parse(reader)

	var (
		seenAcceptance bool
		seenTickets    bool
	)

	child := root.FirstChild()
	for child != nil {
		heading, ok := child.(*gast.Heading)
		if !ok || heading.Level != 2 {
			child = child.NextSibling()

			continue
		}

		name := strings.TrimSpace(renderInline(heading, source))

		end := sectionEnd(heading)
		raw := rawRange(source, heading.NextSibling(), end)

		switch {
		case strings.EqualFold(name, "Acceptance Criteria") && !seenAcceptance:
			seenAcceptance = true

			meta.AcceptanceCriteria = &AcceptanceCriteriaSection{
				Items:      extractListItems(heading, end, source),
				RawContent: raw,
			}
			meta.SectionOrder = append(meta.SectionOrder, name)

		case strings.EqualFold(name, "Tickets") && !seenTickets:
			seenTickets = true

			meta.Simple = &TicketsSection{
				TicketIDs:  extractListItems(heading, end, source),
				RawContent: raw,
			}
			meta.SectionOrder = append(meta.SectionOrder, name)

		default:
			if m := phaseHeadingRe.FindStringSubmatch(name); m != nil {
				phase := parsePhase(m[1], strings.TrimSpace(m[2]), heading, end, source)
				meta.Phases = append(meta.Phases, phase)
				meta.SectionOrder = append(meta.SectionOrder, name)
			} else {
				meta.FreeForm = append(meta.FreeForm, &FreeFormSection{
					Heading:    name,
					RawContent: raw,
				})
				meta.SectionOrder = append(meta.SectionOrder, name)
			}
		}

		child = end
	}

	return nil
}

// sectionEnd returns the next sibling H2 heading after start, or nil if
// start's section runs to the end of the document.
func sectionEnd(start gast.Node) gast.Node {
	n := start.NextSibling()
	for n != nil {
		if h, ok := n.(*gast.Heading); ok && h.Level == 2 {
			return n
		}

		n = n.NextSibling()
	}

	return nil
}

func parsePhase(number, name string, heading gast.Node, end gast.Node, source []byte) *PhaseSection {
	phase := &PhaseSection{
		Number:     number,
		Name:       name,
		RawContent: rawRange(source, heading.NextSibling(), end),
	}

	n := heading.NextSibling()
	for n != nil && n != end {
		h3, ok := n.(*gast.Heading)
		if !ok || h3.Level != 3 {
			n = n.NextSibling()

			continue
		}

		h3Name := strings.TrimSpace(renderInline(h3, source))
		h3End := nextH3OrEnd(h3, end)

		switch {
		case strings.EqualFold(h3Name, "Success Criteria"):
			phase.SuccessCriteria = extractListItems(h3, h3End, source)
		case strings.EqualFold(h3Name, "Tickets"):
			phase.TicketIDs = extractListItems(h3, h3End, source)
		default:
			phase.ExtraSubsections = append(phase.ExtraSubsections, Subsection{
				Heading: h3Name,
				Content: rawRange(source, h3.NextSibling(), h3End),
			})
		}

		phase.SectionOrder = append(phase.SectionOrder, h3Name)

		n = h3End
	}

	return phase
}

func nextH3OrEnd(start gast.Node, sectionEndNode gast.Node) gast.Node {
	n := start.NextSibling()
	for n != nil && n != sectionEndNode {
		if h, ok := n.(*gast.Heading); ok && h.Level == 3 {
			return n
		}

		n = n.NextSibling()
	}

	return sectionEndNode
}

// extractListItems walks the first top-level List between start (exclusive)
// and end (exclusive), rendering each item's inline content to text and
// stripping task-list checkbox markers.
func extractListItems(start gast.Node, end gast.Node, source []byte) []string {
	var items []string

	n := start.NextSibling()
	for n != nil && n != end {
		list, ok := n.(*gast.List)
		if !ok {
			n = n.NextSibling()

			continue
		}

		for item := list.FirstChild(); item != nil; item = item.NextSibling() {
			items = append(items, strings.TrimSpace(renderListItemText(item, source)))
		}

		break
	}

	if items == nil {
		items = []string{}
	}

	return items
}

func renderListItemText(item gast.Node, source []byte) string {
	return renderInline(item, source)
}

// renderInline walks an inline tree, re-rendering Markdown for the
// formatting the spec requires to survive list extraction (bold, italic,
// code spans, links), skipping task-list checkbox nodes entirely.
func renderInline(n gast.Node, source []byte) string {
	var sb strings.Builder

	var walk func(gast.Node)

	walk = func(node gast.Node) {
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			switch v := c.(type) {
			case *gast.Text:
				sb.Write(v.Segment.Value(source))
			case *gast.String:
				sb.Write(v.Value)
			case *gast.CodeSpan:
				sb.WriteString("`")
				walk(v)
				sb.WriteString("`")
			case *gast.Emphasis:
				marker := strings.Repeat("*", v.Level)
				sb.WriteString(marker)
				walk(v)
				sb.WriteString(marker)
			case *gast.Link:
				sb.WriteString("[")
				walk(v)
				sb.WriteString("](" + string(v.Destination) + ")")
			case *gast.AutoLink:
				sb.Write(v.URL(source))
			case *eastx.TaskCheckBox:
				// Stripped to plain text, per spec.
			default:
				walk(c)
			}
		}
	}

	walk(n)

	return sb.String()
}

// rawRange renders the verbatim source text spanning from start
// (inclusive) to end (exclusive, nil meaning end of document), used as the
// fallback RawContent for non-list prose inside a structured section.
func rawRange(source []byte, start gast.Node, end gast.Node) string {
	if start == nil {
		return ""
	}

	startLine := firstLine(start)
	if startLine == nil {
		return ""
	}

	// Block line segments begin after their markers ("## ", "- "), so the
	// range starts on the line after the heading that precedes start and
	// ends where end's line begins.
	startOffset := startLine.Start
	if h := firstLine(start.PreviousSibling()); h != nil {
		if nl := bytes.IndexByte(source[h.Stop:], '\n'); nl >= 0 {
			startOffset = h.Stop + nl + 1
		}
	}

	var endOffset int

	if end == nil {
		endOffset = len(source)
	} else {
		endLine := firstLine(end)
		if endLine == nil {
			endOffset = len(source)
		} else {
			endOffset = bytes.LastIndexByte(source[:endLine.Start], '\n') + 1
		}
	}

	if startOffset > endOffset {
		return ""
	}

	return strings.TrimSpace(string(source[startOffset:endOffset]))
}

func firstLine(n gast.Node) *text.Segment {
	if n == nil {
		return nil
	}

	if lb, ok := n.(interface{ Lines() *text.Segments }); ok {
		lines := lb.Lines()
		if lines.Len() > 0 {
			seg := lines.At(0)

			return &seg
		}
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if seg := firstLine(c); seg != nil {
			return seg
		}
	}

	return nil
}
