package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// ShowCmd returns the show command.
func ShowCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("show", flag.ContinueOnError),
		Usage: "show <id>",
		Short: "Print a ticket's raw file contents",
		Long:  "Resolves a full or partial ticket id and prints the ticket file as written on disk.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execShow(o, a, args)
		},
	}
}

func execShow(o *IO, a *app, args []string) error {
	if len(args) == 0 {
		return errIDRequired
	}

	id, err := a.resolveTicket(args[0])
	if err != nil {
		return err
	}

	raw, err := a.repo.ReadTicketRaw(id)
	if err != nil {
		return err
	}

	o.Printf("%s", raw)

	return nil
}
