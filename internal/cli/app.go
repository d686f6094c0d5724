package cli

import (
	"os"

	"janus/internal/config"
	"janus/internal/editor"
	"janus/internal/graph"
	"janus/internal/repo"
	"janus/internal/store"
	"janus/internal/warn"
)

// app bundles the components every command needs: the on-disk repository,
// the in-memory store kept warm at startup, and an editor for mutations.
// Commands are read-mostly against the store and fall through to the
// repository for anything the store doesn't carry (raw file content,
// creation).
type app struct {
	root   string
	cfg    config.Config
	repo   *repo.Repository
	store  *store.Store
	editor *editor.Editor
	warn   warn.Sink
}

// newApp discovers the Janus root, loads its config, and performs a cold
// load of every ticket and plan into a fresh in-memory store. Invalid
// files are warned about, not fatal, per the bulk-scan log-and-skip
// policy.
func newApp(cwd string, env map[string]string, o *IO) (*app, error) {
	root := config.DiscoverRoot(cwd, func(k string) string { return env[k] })

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	w := warn.New(os.Stderr)

	r := repo.New(config.ItemsDir(root), config.PlansDir(root), w)
	st := store.New()

	tickets, ticketFailures := r.GetAllTickets()
	for _, t := range tickets {
		st.UpsertTicket(t)
	}

	plans, planFailures := r.GetAllPlans()
	for _, p := range plans {
		st.UpsertPlan(p)
	}

	for _, f := range ticketFailures {
		o.Warn("%s: %v", f.Path, f.Err)
	}

	for _, f := range planFailures {
		o.Warn("%s: %v", f.Path, f.Err)
	}

	ed := editor.New(r, st, nil, w)

	return &app{root: root, cfg: cfg, repo: r, store: st, editor: ed, warn: w}, nil
}

// resolveTicket resolves a possibly-partial ticket id against the store's
// loaded keys, falling back to the filesystem if the store missed it
// (e.g. a file written between cold load and this call).
func (a *app) resolveTicket(q string) (string, error) {
	keys := a.store.TicketKeys()
	if len(keys) > 0 {
		if id, err := graph.Resolve(q, keys); err == nil {
			return id, nil
		}
	}

	return a.repo.FindByPartialID(q)
}
