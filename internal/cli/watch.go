package cli

import (
	"context"
	"strings"
	"time"

	"janus/internal/store"
	"janus/internal/watcher"

	flag "github.com/spf13/pflag"
)

// WatchCmd returns the watch command: starts the filesystem watcher and
// prints each batched change event until the context is cancelled (Ctrl-C
// or SIGTERM from Run's signal handling).
func WatchCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("watch", flag.ContinueOnError),
		Usage: "watch",
		Short: "Watch items/ and plans/ for changes",
		Long:  "Starts the filesystem watcher and prints one line per batched change event. Runs until interrupted.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execWatch(ctx, o, a)
		},
	}
}

func execWatch(ctx context.Context, o *IO, a *app) error {
	w := watcher.New(a.root, a.repo, a.store, a.warn)
	w.SetDebounce(time.Duration(a.cfg.DebounceMillis) * time.Millisecond)

	if err := w.Start(); err != nil {
		return err
	}
	defer w.Close()

	sub, cancel := a.store.Subscribe()
	defer cancel()

	o.Println("watching", a.root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-sub:
			printEvent(o, ev)
		}
	}
}

func printEvent(o *IO, ev store.Event) {
	switch ev.Kind {
	case store.TicketsChanged:
		o.Println("tickets changed:", joinStems(ev.Stems))
	case store.PlansChanged:
		o.Println("plans changed:", joinStems(ev.Stems))
	}
}

func joinStems(stems []string) string {
	if len(stems) == 0 {
		return "(none)"
	}

	return strings.Join(stems, ", ")
}
