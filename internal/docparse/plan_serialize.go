package docparse

import (
	"fmt"
	"strings"
)

// SerializePlanBody reconstructs a plan's Markdown body from its typed
// sections, reproducing the original H2 interleaving via SectionOrder and
// each phase's H3 interleaving via its own SectionOrder (I3).
func SerializePlanBody(meta *PlanMetadata) string {
	var b strings.Builder

	if meta.Title != "" {
		b.WriteString("# " + meta.Title + "\n")
	}

	byHeading := map[string]func() string{}

	if meta.AcceptanceCriteria != nil {
		byHeading["Acceptance Criteria"] = func() string {
			return renderSection("Acceptance Criteria", meta.AcceptanceCriteria.Items, meta.AcceptanceCriteria.RawContent)
		}
	}

	if meta.Simple != nil {
		byHeading["Tickets"] = func() string {
			return renderSection("Tickets", meta.Simple.TicketIDs, meta.Simple.RawContent)
		}
	}

	phaseByHeading := map[string]*PhaseSection{}

	for _, p := range meta.Phases {
		phaseByHeading[phaseHeadingText(p)] = p
	}

	freeByHeading := map[string]*FreeFormSection{}

	for _, f := range meta.FreeForm {
		freeByHeading[f.Heading] = f
	}

	for _, heading := range meta.SectionOrder {
		if render, ok := byHeading[heading]; ok {
			b.WriteString("\n" + render())

			continue
		}

		if phase, ok := phaseByHeading[heading]; ok {
			b.WriteString("\n" + renderPhase(phase))

			continue
		}

		if free, ok := freeByHeading[heading]; ok {
			b.WriteString("\n## " + free.Heading + "\n\n" + free.RawContent + "\n")

			continue
		}
	}

	return b.String()
}

func phaseHeadingText(p *PhaseSection) string {
	if p.Name == "" {
		return fmt.Sprintf("Phase %s", p.Number)
	}

	return fmt.Sprintf("Phase %s: %s", p.Number, p.Name)
}

func renderSection(heading string, items []string, rawFallback string) string {
	var b strings.Builder

	b.WriteString("## " + heading + "\n\n")

	if len(items) > 0 {
		for _, item := range items {
			b.WriteString("- " + item + "\n")
		}
	} else if rawFallback != "" {
		b.WriteString(rawFallback + "\n")
	}

	return b.String()
}

func renderPhase(p *PhaseSection) string {
	var b strings.Builder

	b.WriteString("## " + phaseHeadingText(p) + "\n")

	rendered := map[string]bool{}

	order := p.SectionOrder
	if len(order) == 0 {
		if p.SuccessCriteria != nil {
			order = append(order, "Success Criteria")
		}

		if p.TicketIDs != nil {
			order = append(order, "Tickets")
		}

		for _, extra := range p.ExtraSubsections {
			order = append(order, extra.Heading)
		}
	}

	extraByHeading := map[string]Subsection{}
	for _, e := range p.ExtraSubsections {
		extraByHeading[e.Heading] = e
	}

	for _, h := range order {
		if rendered[h] {
			continue
		}

		rendered[h] = true

		switch {
		case strings.EqualFold(h, "Success Criteria"):
			b.WriteString("\n" + renderSection("Success Criteria", p.SuccessCriteria, ""))
		case strings.EqualFold(h, "Tickets"):
			b.WriteString("\n" + renderSection("Tickets", p.TicketIDs, ""))
		default:
			if e, ok := extraByHeading[h]; ok {
				b.WriteString("\n### " + e.Heading + "\n\n" + e.Content + "\n")
			}
		}
	}

	return b.String()
}
