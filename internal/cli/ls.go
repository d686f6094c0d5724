package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"janus/internal/docparse"

	flag "github.com/spf13/pflag"
)

// LsCmd returns the ls command.
func LsCmd(a *app) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	status := fs.String("status", "", "Filter by status")
	ticketType := fs.String("type", "", "Filter by type")
	parent := fs.String("parent", "", "Filter by parent ticket id")
	jsonOut := fs.Bool("json", false, "Output as JSON array")

	return &Command{
		Flags: fs,
		Usage: "ls [flags]",
		Short: "List tickets",
		Long:  "List all tickets in the store, sorted by id.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			tickets, _ := a.store.SnapshotAll()

			var filtered []*docparse.TicketMetadata

			for _, t := range tickets {
				if *status != "" && t.Status != *status {
					continue
				}

				if *ticketType != "" && t.Type != *ticketType {
					continue
				}

				if *parent != "" && t.Parent != *parent {
					continue
				}

				filtered = append(filtered, t)
			}

			sort.Slice(filtered, func(i, j int) bool { return filtered[i].ID < filtered[j].ID })

			if *jsonOut {
				return printTicketsJSON(o, filtered)
			}

			for _, t := range filtered {
				o.Println(formatTicketLine(t))
			}

			return nil
		},
	}
}

type ticketJSON struct {
	ID       string   `json:"id"`
	Status   string   `json:"status"`
	Priority int      `json:"priority"`
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Parent   string   `json:"parent,omitempty"`
	Deps     []string `json:"deps"`
}

func printTicketsJSON(o *IO, tickets []*docparse.TicketMetadata) error {
	out := make([]ticketJSON, 0, len(tickets))

	for _, t := range tickets {
		deps := t.Deps
		if deps == nil {
			deps = []string{}
		}

		out = append(out, ticketJSON{
			ID: t.ID, Status: t.Status, Priority: t.Priority,
			Type: t.Type, Title: t.Title, Parent: t.Parent, Deps: deps,
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	o.Println(string(data))

	return nil
}

func formatTicketLine(t *docparse.TicketMetadata) string {
	var b strings.Builder

	b.WriteString(t.ID)
	b.WriteString(" [")
	b.WriteString(t.Status)
	b.WriteString("] - ")
	b.WriteString(t.Title)

	if t.Parent != "" {
		b.WriteString(" (parent: ")
		b.WriteString(t.Parent)
		b.WriteString(")")
	}

	if len(t.Deps) > 0 {
		b.WriteString(" <- deps: [")
		b.WriteString(strings.Join(t.Deps, ", "))
		b.WriteString("]")
	}

	return b.String()
}
