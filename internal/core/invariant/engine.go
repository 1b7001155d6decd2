package invariant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultCheckTimeout bounds a single checker invocation.
const DefaultCheckTimeout = 30 * time.Second

// ConfigSource provides invariant configurations for a project scope.
// An empty projectID means global scope; project lookups fall back to global
// configuration inside the source.
type ConfigSource interface {
	// FindEnabled returns every enabled invariant config for the scope.
	FindEnabled(ctx context.Context, projectID string) ([]Config, error)

	// FindByInvariantID returns one invariant's config, or nil if absent.
	FindByInvariantID(ctx context.Context, invariantID, projectID string) (*Config, error)
}

// Options controls one CheckAll run.
type Options struct {
	// Sequential runs checkers one at a time in config order instead of the
	// default parallel fan-out.
	Sequential bool

	// FailFast stops enqueuing further checkers once a blocking failure is
	// observed. Only honored in sequential mode; already-collected results
	// are kept.
	FailFast bool

	// Timeout bounds each checker invocation. Zero means DefaultCheckTimeout.
	Timeout time.Duration
}

// AggregatedResult is the complete outcome of one check run. The engine is
// total: every enabled invariant contributes exactly one result (unless a
// fail-fast sequential run stopped early).
type AggregatedResult struct {
	RunID                 string
	Results               []Result
	Passed                []Result
	Failed                []Result
	ErrorCount            int
	WarningCount          int
	AllPassed             bool
	HasBlockingViolations bool
	BlockingIssues        []string
	Warnings              []string
}

// FindResult returns the result for the given invariant id, or nil. Result
// order is not part of the contract; callers locate results by id.
func (r *AggregatedResult) FindResult(invariantID string) *Result {
	for i := range r.Results {
		if r.Results[i].InvariantID == invariantID {
			return &r.Results[i]
		}
	}
	return nil
}

// Engine orchestrates running every enabled invariant against a batch. It is
// stateless: each invocation works only on its inputs and the injected
// collaborators.
type Engine struct {
	registry *Registry
	configs  ConfigSource
	timeout  time.Duration
}

// NewEngine creates an engine over the given registry and config source.
func NewEngine(registry *Registry, configs ConfigSource) *Engine {
	return &Engine{
		registry: registry,
		configs:  configs,
		timeout:  DefaultCheckTimeout,
	}
}

// CheckAll runs every enabled invariant for the context's project scope
// against the batch and aggregates the outcomes. Checker faults and timeouts
// are converted into failing error-severity results, never propagated.
func (e *Engine) CheckAll(ctx context.Context, atoms []Atom, cctx CheckContext, opts Options) (*AggregatedResult, error) {
	cfgs, err := e.configs.FindEnabled(ctx, cctx.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invariant configs: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = e.timeout
	}

	var results []Result
	if opts.Sequential {
		for _, cfg := range cfgs {
			res := e.runOne(ctx, atoms, cctx, cfg, timeout)
			results = append(results, res)
			if opts.FailFast && !res.Passed && res.Severity == SeverityError {
				break
			}
		}
	} else {
		results = make([]Result, len(cfgs))
		var g errgroup.Group
		for i, cfg := range cfgs {
			i, cfg := i, cfg
			g.Go(func() error {
				results[i] = e.runOne(ctx, atoms, cctx, cfg, timeout)
				return nil
			})
		}
		// Goroutines never return errors; faults become failing results.
		_ = g.Wait()
	}

	return aggregate(results), nil
}

// CheckSingle evaluates one invariant outside a full run, for diagnostics.
// Returns nil when the config or checker is absent.
func (e *Engine) CheckSingle(ctx context.Context, atoms []Atom, invariantID string, cctx CheckContext) (*Result, error) {
	cfg, err := e.configs.FindByInvariantID(ctx, invariantID, cctx.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invariant config: %w", err)
	}
	if cfg == nil {
		return nil, nil
	}
	if !e.registry.Has(invariantID) {
		return nil, nil
	}

	res := e.runOne(ctx, atoms, cctx, *cfg, e.timeout)
	return &res, nil
}

// runOne executes one checker with timeout isolation. A missing
// implementation synthesizes a pass: absence of a checker must never silently
// block a commit.
func (e *Engine) runOne(ctx context.Context, atoms []Atom, cctx CheckContext, cfg Config, timeout time.Duration) Result {
	checker := e.registry.Get(cfg.InvariantID)
	if checker == nil {
		return Result{
			InvariantID:   cfg.InvariantID,
			InvariantName: cfg.Name,
			Passed:        true,
			Severity:      cfg.Severity(),
			Message:       fmt.Sprintf("skipped: no implementation registered for %q", cfg.InvariantID),
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Each invocation gets its own copy of the batch so concurrent checkers
	// share no mutable state.
	batch := make([]Atom, len(atoms))
	copy(batch, atoms)

	done := make(chan Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				// A checker fault always blocks, regardless of the config's
				// severity: a swallowed panic must never admit a commit.
				done <- Result{
					InvariantID:   cfg.InvariantID,
					InvariantName: cfg.Name,
					Passed:        false,
					Severity:      SeverityError,
					Message:       fmt.Sprintf("checker %q panicked: %v", cfg.InvariantID, r),
				}
			}
		}()
		done <- checker.Check(runCtx, batch, cctx, cfg)
	}()

	var res Result
	select {
	case res = <-done:
	case <-runCtx.Done():
		res = Result{
			InvariantID:     cfg.InvariantID,
			InvariantName:   cfg.Name,
			Passed:          false,
			Severity:        SeverityError,
			Message:         fmt.Sprintf("checker %q did not complete within %s: %v", cfg.InvariantID, timeout, runCtx.Err()),
			AffectedAtomIDs: nil,
		}
	}

	if !res.Passed && len(res.Suggestions) == 0 {
		if s, ok := checker.(Suggester); ok {
			res.Suggestions = s.Suggestions()
		}
	}
	return res
}

// aggregate partitions results and derives the run verdict.
func aggregate(results []Result) *AggregatedResult {
	agg := &AggregatedResult{
		RunID:   uuid.NewString(),
		Results: results,
	}

	for _, res := range results {
		if res.Passed {
			agg.Passed = append(agg.Passed, res)
			continue
		}
		agg.Failed = append(agg.Failed, res)
		switch res.Severity {
		case SeverityError:
			agg.ErrorCount++
			agg.BlockingIssues = append(agg.BlockingIssues, res.Message)
		default:
			agg.WarningCount++
			agg.Warnings = append(agg.Warnings, res.Message)
		}
	}

	agg.AllPassed = len(agg.Failed) == 0
	agg.HasBlockingViolations = agg.ErrorCount > 0
	return agg
}
