package cli

import (
	"context"
	"fmt"
	"strconv"

	flag "github.com/spf13/pflag"
)

// SetCmd returns the set command: set a single whitelisted frontmatter
// field on a ticket.
func SetCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("set", flag.ContinueOnError),
		Usage: "set <id> <field> <value>",
		Short: "Set a ticket field",
		Long:  "Set a single frontmatter field (status, priority, size, type, assignee, external-ref, remote, parent, triaged).",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) < 2 {
				return errFieldRequired
			}

			if len(args) < 3 {
				return errValueRequired
			}

			id, err := a.resolveTicket(args[0])
			if err != nil {
				return err
			}

			field, rawValue := args[1], args[2]

			var value any = rawValue
			if field == "priority" {
				n, convErr := strconv.Atoi(rawValue)
				if convErr != nil {
					return fmt.Errorf("priority must be an integer: %w", convErr)
				}

				value = n
			} else if field == "triaged" {
				b, convErr := strconv.ParseBool(rawValue)
				if convErr != nil {
					return fmt.Errorf("triaged must be a boolean: %w", convErr)
				}

				value = b
			}

			if err := a.editor.SetTicketField(id, field, value); err != nil {
				return err
			}

			o.Println(id)

			return nil
		},
	}
}

// AddDepCmd returns the add-dep command.
func AddDepCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("add-dep", flag.ContinueOnError),
		Usage: "add-dep <id> <dep-id>",
		Short: "Add a dependency",
		Long:  "Adds dep-id to id's deps. Rejected if it would create a cycle.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) < 2 {
				return errDepRequired
			}

			id, err := a.resolveTicket(args[0])
			if err != nil {
				return err
			}

			dep, err := a.resolveTicket(args[1])
			if err != nil {
				return err
			}

			added, err := a.editor.AddToArrayField(id, "deps", dep)
			if err != nil {
				return err
			}

			if !added {
				o.Warn("%s already depends on %s", id, dep)
			}

			o.Println(id)

			return nil
		},
	}
}

// RmDepCmd returns the rm-dep command.
func RmDepCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm-dep", flag.ContinueOnError),
		Usage: "rm-dep <id> <dep-id>",
		Short: "Remove a dependency",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) < 2 {
				return errDepRequired
			}

			id, err := a.resolveTicket(args[0])
			if err != nil {
				return err
			}

			dep, err := a.resolveTicket(args[1])
			if err != nil {
				return err
			}

			removed, err := a.editor.RemoveFromArrayField(id, "deps", dep)
			if err != nil {
				return err
			}

			if !removed {
				o.Warn("%s did not depend on %s", id, dep)
			}

			o.Println(id)

			return nil
		},
	}
}

// NoteCmd returns the note command.
func NoteCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("note", flag.ContinueOnError),
		Usage: "note <id> <text>",
		Short: "Append a timestamped note",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) < 2 {
				return errNoteTextRequired
			}

			id, err := a.resolveTicket(args[0])
			if err != nil {
				return err
			}

			if err := a.editor.AddNote(id, args[1]); err != nil {
				return err
			}

			o.Println(id)

			return nil
		},
	}
}

// DescribeCmd returns the describe command.
func DescribeCmd(a *app) *Command {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	clear := fs.Bool("clear", false, "Clear the description instead of replacing it")

	return &Command{
		Flags: fs,
		Usage: "describe <id> [text]",
		Short: "Replace a ticket's description",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) < 1 {
				return errIDRequired
			}

			id, err := a.resolveTicket(args[0])
			if err != nil {
				return err
			}

			text := ""
			if len(args) > 1 {
				text = args[1]
			}

			if !*clear && text == "" {
				return errValueRequired
			}

			if err := a.editor.UpdateDescription(id, text, *clear); err != nil {
				return err
			}

			o.Println(id)

			return nil
		},
	}
}
