package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/JonMunkholm/cohort/internal/logging"
	"github.com/JonMunkholm/cohort/internal/resolve"
	"github.com/JonMunkholm/cohort/internal/table"
)

// ErrOrphans reports foreign keys left without a match in strict runs.
var ErrOrphans = errors.New("unmatched foreign keys")

// Options tunes a run.
type Options struct {
	// FailOnOrphans aborts the run at the first step that leaves a null
	// foreign key.
	FailOnOrphans bool
}

// StepReport summarises one executed step.
type StepReport struct {
	Step     string
	Kind     StepKind
	Rows     int // rows of the table holding the new foreign key
	Orphans  int // of those, rows with a null foreign key
	Dropped  int // pair rows dropped for a null attribute
	Duration time.Duration
}

// Result holds the working set after the last step.
type Result struct {
	Tables map[string]*table.Table
	Steps  []StepReport
}

// Orphans returns the total number of unmatched foreign keys.
func (r *Result) Orphans() int {
	n := 0
	for _, s := range r.Steps {
		n += s.Orphans
	}
	return n
}

// Runner executes a plan.
type Runner struct {
	plan *Plan
	opts Options
}

// NewRunner creates a runner for plan.
func NewRunner(plan *Plan, opts Options) *Runner {
	return &Runner{plan: plan, opts: opts}
}

// Run validates the plan against inputs and executes its steps in order.
// Inputs are not modified. Any structural error aborts the run and no
// partial result is returned.
func (r *Runner) Run(ctx context.Context, inputs map[string]*table.Table) (*Result, error) {
	names := slices.Sorted(maps.Keys(inputs))
	if err := r.plan.Validate(names); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	logger.Info("normalization started", "steps", len(r.plan.Steps), "inputs", len(inputs))
	start := time.Now()

	working := maps.Clone(inputs)
	result := &Result{Steps: make([]StepReport, 0, len(r.plan.Steps))}

	for _, s := range r.plan.Steps {
		stepStart := time.Now()

		var (
			report StepReport
			err    error
		)
		switch s.Kind {
		case KindJunction:
			report, err = runJunction(working, s)
		default:
			report, err = runLink(working, s)
		}
		if err != nil {
			logger.Error("step failed", "step", s.Name, "error", err)
			return nil, fmt.Errorf("step %s: %w", s.Name, err)
		}
		report.Step = s.Name
		report.Kind = s.Kind
		report.Duration = time.Since(stepStart)
		result.Steps = append(result.Steps, report)

		logStep(ctx, report)

		if r.opts.FailOnOrphans && report.Orphans > 0 {
			return nil, fmt.Errorf("step %s: %w: %d of %d rows", s.Name, ErrOrphans, report.Orphans, report.Rows)
		}
	}

	result.Tables = working
	logger.Info("normalization complete",
		"tables", len(working),
		"orphans", result.Orphans(),
		"duration", time.Since(start),
	)
	return result, nil
}

func logStep(ctx context.Context, report StepReport) {
	level := slog.LevelInfo
	if report.Orphans > 0 {
		level = slog.LevelWarn
	}
	logging.WithFields(ctx, "step", report.Step, "kind", string(report.Kind)).Log(ctx, level, "step resolved",
		"rows", report.Rows,
		"orphans", report.Orphans,
		"dropped", report.Dropped,
		"duration", report.Duration,
	)
}

func runLink(working map[string]*table.Table, s Step) (StepReport, error) {
	left, right, err := resolve.Resolve(working[s.Left], working[s.Right], s.Link)
	if err != nil {
		return StepReport{}, err
	}
	working[s.Left] = left
	working[s.Right] = right

	holder := right
	if s.Link.HoldsOnLeft() {
		holder = left
	}
	return StepReport{
		Rows:    holder.Len(),
		Orphans: countNull(holder, s.Link.FKColumn),
	}, nil
}

func runJunction(working map[string]*table.Table, s Step) (StepReport, error) {
	pairs := working[s.Right]
	kept := pairs.DropNull(s.Junction.Attribute)

	base, junction, attrs, err := resolve.ResolveManyToMany(working[s.Left], kept, s.Junction)
	if err != nil {
		return StepReport{}, err
	}
	working[s.Left] = base
	working[junction.Name] = junction
	working[attrs.Name] = attrs

	return StepReport{
		Rows:    junction.Len(),
		Orphans: countNull(junction, s.Junction.LeftColumn),
		Dropped: pairs.Len() - kept.Len(),
	}, nil
}

func countNull(t *table.Table, column string) int {
	n := 0
	for _, r := range t.Rows {
		if r[column] == nil {
			n++
		}
	}
	return n
}
