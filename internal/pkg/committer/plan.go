// Package committer runs multi-step write plans against the record store.
//
// # Plans
//
// A usecase describes its writes as an ordered list of named steps. Each step
// is normally a single store call and must be idempotent, so a plan that
// aborts halfway can simply be executed again:
//
//	// 1. Build the plan
//	plan := committer.NewPlan()
//	plan.Read("collect_products", func(ctx context.Context, s recordstore.Store) error { ... })
//	plan.Write("delete_variants", func(ctx context.Context, s recordstore.Store) error { ... })
//
//	// 2. Apply it
//	err := c.ApplyAtomic(ctx, plan)
//
// Apply runs every step against the store in order and stops at the first
// failure, leaving earlier steps committed. ApplyAtomic runs the whole plan
// inside one transaction when the store implements recordstore.Transactor
// and falls back to Apply otherwise.
//
// Failures are reported as *StepError, naming the failing step and the steps
// that had already completed.
package committer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// StepFunc performs one step against the store handed in by the committer.
type StepFunc func(ctx context.Context, store recordstore.Store) error

// Step is one named unit of a plan.
type Step struct {
	Name     string
	ReadOnly bool
	Run      StepFunc
}

// Plan is an ordered list of steps.
type Plan struct {
	steps []Step
}

// NewPlan creates a new empty Plan.
func NewPlan() *Plan {
	return &Plan{
		steps: make([]Step, 0),
	}
}

// Read appends a step that only reads.
func (p *Plan) Read(name string, fn StepFunc) {
	p.Add(Step{Name: name, ReadOnly: true, Run: fn})
}

// Write appends a step that mutates the store.
func (p *Plan) Write(name string, fn StepFunc) {
	p.Add(Step{Name: name, Run: fn})
}

// Add appends a step. Steps without a Run func are silently ignored.
func (p *Plan) Add(step Step) {
	if step.Run != nil {
		p.steps = append(p.steps, step)
	}
}

// Steps returns the collected steps.
func (p *Plan) Steps() []Step {
	return p.steps
}

// Names returns the step names in order.
func (p *Plan) Names() []string {
	names := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		names = append(names, s.Name)
	}
	return names
}

// IsEmpty returns true if the plan has no steps.
func (p *Plan) IsEmpty() bool {
	return len(p.steps) == 0
}

// Count returns the number of steps in the plan.
func (p *Plan) Count() int {
	return len(p.steps)
}

// StepError reports the step a plan stopped at.
type StepError struct {
	Step      string
	Index     int
	Completed []string
	// Mutated is true when a completed write step was left committed.
	Mutated bool
	Atomic  bool
	Err     error
}

func (e *StepError) Error() string {
	if len(e.Completed) == 0 {
		return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("step %q failed after [%s]: %v", e.Step, strings.Join(e.Completed, ", "), e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Committer executes plans.
type Committer struct {
	store  recordstore.Store
	logger *zap.Logger
}

// NewCommitter creates a new Committer.
func NewCommitter(store recordstore.Store, logger *zap.Logger) *Committer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Committer{store: store, logger: logger}
}

// Store returns the store plans run against outside a transaction.
func (c *Committer) Store() recordstore.Store {
	return c.store
}

// SupportsTransactions reports whether ApplyAtomic can be atomic.
func (c *Committer) SupportsTransactions() bool {
	_, ok := c.store.(recordstore.Transactor)
	return ok
}

// Apply executes the steps in order, each committing on its own.
func (c *Committer) Apply(ctx context.Context, plan *Plan) error {
	if plan.IsEmpty() {
		return nil // Nothing to run
	}
	return c.run(ctx, c.store, plan, false)
}

// ApplyAtomic executes the plan within one transaction when the store
// supports it; otherwise it behaves like Apply.
func (c *Committer) ApplyAtomic(ctx context.Context, plan *Plan) error {
	if plan.IsEmpty() {
		return nil
	}
	tx, ok := c.store.(recordstore.Transactor)
	if !ok {
		return c.run(ctx, c.store, plan, false)
	}
	return tx.RunInTransaction(ctx, func(ctx context.Context, s recordstore.Store) error {
		return c.run(ctx, s, plan, true)
	})
}

func (c *Committer) run(ctx context.Context, store recordstore.Store, plan *Plan, atomic bool) error {
	completed := make([]string, 0, plan.Count())
	mutated := false
	for i, step := range plan.Steps() {
		if err := step.Run(ctx, store); err != nil {
			c.logger.Warn("plan step failed",
				zap.String("step", step.Name),
				zap.Int("index", i),
				zap.Strings("completed", completed),
				zap.Bool("atomic", atomic),
				zap.Error(err),
			)
			return &StepError{
				Step:      step.Name,
				Index:     i,
				Completed: completed,
				Mutated:   mutated && !atomic,
				Atomic:    atomic,
				Err:       err,
			}
		}
		completed = append(completed, step.Name)
		if !step.ReadOnly {
			mutated = true
		}
		c.logger.Debug("plan step completed", zap.String("step", step.Name), zap.Int("index", i))
	}
	return nil
}
