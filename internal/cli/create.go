package cli

import (
	"context"
	"fmt"

	"janus/internal/editor"

	flag "github.com/spf13/pflag"
)

// CreateCmd returns the create command.
func CreateCmd(a *app) *Command {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)

	description := fs.StringP("description", "d", "", "Description text")
	ticketType := fs.StringP("type", "t", "", "Type: bug|feature|task|chore")
	priority := fs.IntP("priority", "p", 2, "Priority 0-4 (0=most urgent)")
	size := fs.String("size", "", "Size estimate")
	externalRef := fs.String("external-ref", "", "External tracker reference")
	parent := fs.String("parent", "", "Parent ticket id")
	spawnedFrom := fs.String("spawned-from", "", "Ticket id this was spawned from")
	untrusted := fs.Bool("untrusted", false, "Sanitize title/description as untrusted input")

	return &Command{
		Flags: fs,
		Usage: "create <title> [flags]",
		Short: "Create a new ticket",
		Long:  "Mints an id and writes a new ticket file. Prints the id on success.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errTitleRequired
			}

			if *priority < 0 || *priority > 4 {
				return errInvalidPriority
			}

			id, err := a.editor.CreateTicket(editor.NewTicketParams{
				Title:       args[0],
				Description: *description,
				Type:        *ticketType,
				Priority:    *priority,
				Size:        *size,
				ExternalRef: *externalRef,
				Parent:      *parent,
				SpawnedFrom: *spawnedFrom,
				Untrusted:   *untrusted,
			})
			if err != nil {
				return fmt.Errorf("create ticket: %w", err)
			}

			o.Println(id)

			return nil
		},
	}
}
