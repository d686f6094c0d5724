package cli

import (
	"context"
	"sort"

	flag "github.com/spf13/pflag"
)

// ReadyCmd returns the ready command: tickets whose dependencies are all
// resolved and that haven't started yet.
func ReadyCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("ready", flag.ContinueOnError),
		Usage: "ready",
		Short: "List tickets ready to start",
		Long:  "List tickets with status \"new\" or \"next\" whose dependencies are all complete.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			tickets := a.store.Ready()

			sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })

			for _, t := range tickets {
				o.Println(formatTicketLine(t))
			}

			return nil
		},
	}
}

// BlockedCmd returns the blocked command: tickets with at least one
// unresolved dependency.
func BlockedCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("blocked", flag.ContinueOnError),
		Usage: "blocked",
		Short: "List blocked tickets",
		Long:  "List tickets that are not complete or cancelled and have at least one dependency that is not complete.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			tickets := a.store.Blocked()

			sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })

			for _, t := range tickets {
				o.Println(formatTicketLine(t))
			}

			return nil
		},
	}
}
