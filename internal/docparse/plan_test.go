package docparse

import "testing"

func simplePlanDoc() string {
	return "---\n" +
		"id: p-1\n" +
		"owner: alice\n" +
		"---\n" +
		"# My Plan\n" +
		"\n" +
		"## Acceptance Criteria\n" +
		"\n" +
		"- criteria one\n" +
		"- criteria **two**\n" +
		"\n" +
		"## Tickets\n" +
		"\n" +
		"- j-1\n" +
		"- j-2\n"
}

func TestParsePlanTolerant_Simple(t *testing.T) {
	t.Parallel()

	meta, err := ParsePlanTolerant(simplePlanDoc())
	if err != nil {
		t.Fatalf("ParsePlanTolerant failed: %v", err)
	}

	if meta.ID != "p-1" {
		t.Errorf("ID = %q", meta.ID)
	}

	if owner, _ := meta.Extra["owner"].(string); owner != "alice" {
		t.Errorf("Extra[owner] = %v, want alice", meta.Extra["owner"])
	}

	if meta.AcceptanceCriteria == nil || len(meta.AcceptanceCriteria.Items) != 2 {
		t.Fatalf("AcceptanceCriteria = %+v", meta.AcceptanceCriteria)
	}

	if meta.AcceptanceCriteria.Items[1] != "criteria **two**" {
		t.Errorf("item[1] = %q, want bold preserved", meta.AcceptanceCriteria.Items[1])
	}

	if meta.Simple == nil || len(meta.Simple.TicketIDs) != 2 {
		t.Fatalf("Simple = %+v", meta.Simple)
	}

	if meta.Simple.TicketIDs[0] != "j-1" || meta.Simple.TicketIDs[1] != "j-2" {
		t.Errorf("TicketIDs = %v", meta.Simple.TicketIDs)
	}
}

func phasedPlanDoc() string {
	return "---\n" +
		"id: p-2\n" +
		"---\n" +
		"# Phased Plan\n" +
		"\n" +
		"## Phase 1: Setup\n" +
		"\n" +
		"### Success Criteria\n" +
		"\n" +
		"- env ready\n" +
		"\n" +
		"### Tickets\n" +
		"\n" +
		"- j-1\n" +
		"\n" +
		"### Risks\n" +
		"\n" +
		"Some risk prose.\n" +
		"\n" +
		"## Phase 2: Build\n" +
		"\n" +
		"### Tickets\n" +
		"\n" +
		"- j-2\n" +
		"\n" +
		"## Notes\n" +
		"\n" +
		"Free-form notes.\n"
}

// P3: unknown-H3 preservation.
func TestParsePlanTolerant_PhasedWithExtraSubsection(t *testing.T) {
	t.Parallel()

	meta, err := ParsePlanTolerant(phasedPlanDoc())
	if err != nil {
		t.Fatalf("ParsePlanTolerant failed: %v", err)
	}

	if len(meta.Phases) != 2 {
		t.Fatalf("Phases = %d, want 2", len(meta.Phases))
	}

	p1 := meta.Phases[0]
	if p1.Number != "1" || p1.Name != "Setup" {
		t.Errorf("phase 1 = %+v", p1)
	}

	if len(p1.ExtraSubsections) != 1 || p1.ExtraSubsections[0].Heading != "Risks" {
		t.Fatalf("ExtraSubsections = %+v", p1.ExtraSubsections)
	}

	if p1.ExtraSubsections[0].Content != "Some risk prose." {
		t.Errorf("Risks content = %q", p1.ExtraSubsections[0].Content)
	}

	wantOrder := []string{"Success Criteria", "Tickets", "Risks"}
	if len(p1.SectionOrder) != len(wantOrder) {
		t.Fatalf("SectionOrder = %v", p1.SectionOrder)
	}

	for i, h := range wantOrder {
		if p1.SectionOrder[i] != h {
			t.Errorf("SectionOrder[%d] = %q, want %q", i, p1.SectionOrder[i], h)
		}
	}

	if len(meta.FreeForm) != 1 || meta.FreeForm[0].Heading != "Notes" {
		t.Fatalf("FreeForm = %+v", meta.FreeForm)
	}
}

// P5: code-block immunity. A fenced code block containing a fake
// "## Phase 1: X" header and a fake "- j-foo" ticket must not be parsed as
// structure.
func TestParsePlanTolerant_CodeBlockImmunity(t *testing.T) {
	t.Parallel()

	doc := "---\n" +
		"id: p-3\n" +
		"---\n" +
		"# Plan\n" +
		"\n" +
		"## Tickets\n" +
		"\n" +
		"```\n" +
		"## Phase 1: X\n" +
		"- j-foo\n" +
		"```\n" +
		"\n" +
		"- j-real\n"

	meta, err := ParsePlanTolerant(doc)
	if err != nil {
		t.Fatalf("ParsePlanTolerant failed: %v", err)
	}

	if len(meta.Phases) != 0 {
		t.Fatalf("expected no phases, got %+v", meta.Phases)
	}

	if meta.Simple == nil {
		t.Fatal("expected a Tickets section")
	}

	for _, id := range meta.Simple.TicketIDs {
		if id == "j-foo" {
			t.Errorf("fenced-code-block ticket leaked into structure: %v", meta.Simple.TicketIDs)
		}
	}
}
