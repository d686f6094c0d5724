package cli

import (
	"context"
	"strings"

	"janus/internal/graph"

	flag "github.com/spf13/pflag"
)

// PlanCmd returns the plan command: prints a phased plan's roll-up status
// and next actionable tickets.
func PlanCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("plan", flag.ContinueOnError),
		Usage: "plan <id>",
		Short: "Show a plan's phase roll-up",
		Long:  "Resolves a plan id and prints each phase's status, the plan's overall status, and the next actionable tickets.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execPlan(o, a, args)
		},
	}
}

func execPlan(o *IO, a *app, args []string) error {
	if len(args) == 0 {
		return errIDRequired
	}

	id, err := a.repo.FindPlanByPartialID(args[0])
	if err != nil {
		return err
	}

	plan, ok := a.store.GetPlan(id)
	if !ok {
		plan, err = a.repo.GetPlan(id)
		if err != nil {
			return err
		}
	}

	if len(plan.Phases) == 0 {
		o.Println(plan.ID, "is not a phased plan")
		return nil
	}

	tickets, _ := a.store.SnapshotAll()
	rollups := graph.RollupPhases(plan.Phases, tickets)

	for _, r := range rollups {
		o.Printf("phase %s (%s): %s\n", r.Phase.Number, r.Phase.Name, r.Status)
	}

	overall := graph.OverallStatus(rollups)
	o.Printf("overall: %s\n", overall)

	next := graph.NextActionable(rollups, tickets)
	if len(next) > 0 {
		o.Printf("next actionable: %s\n", strings.Join(next, ", "))
	}

	return nil
}
