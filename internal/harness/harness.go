package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/statebind/internal/actions"
	"github.com/roach88/statebind/internal/inject"
	"github.com/roach88/statebind/internal/ir"
	"github.com/roach88/statebind/internal/registry"
	"github.com/roach88/statebind/internal/selector"
	"github.com/roach88/statebind/internal/store"
	"github.com/roach88/statebind/internal/testutil"
)

// Definitions is what a Loader produces for a scenario's defs directory.
type Definitions struct {
	Defs      map[string]ir.ActionDef
	Selectors []ir.SelectorSpec
}

// Loader compiles the definitions in dir.
type Loader func(dir string) (Definitions, error)

// Harness is the scenario execution engine.
type Harness struct {
	loader Loader
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger for step progress and selector failures.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a Harness that compiles definitions with loader.
// Logs are discarded unless WithLogger is given.
func New(loader Loader, opts ...Option) *Harness {
	h := &Harness{
		loader: loader,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory journal with a deterministic
// clock. Execution flow:
//  1. Load definitions and selectors, bind actions to the journal
//  2. Dispatch flow steps, checking expect_error
//  3. Read the journal back as the trace
//  4. Resolve views against the scenario state
//  5. Evaluate trace assertions
//
// A returned error means the scenario could not run at all; failed
// expectations are reported in Result.Errors.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	if h.loader == nil {
		return nil, fmt.Errorf("harness: loader is required")
	}

	defs, err := h.loader(scenario.Defs)
	if err != nil {
		return nil, fmt.Errorf("failed to load definitions: %w", err)
	}

	state, err := toObject(scenario.State)
	if err != nil {
		return nil, fmt.Errorf("invalid state: %w", err)
	}

	session := scenario.Session
	if session == "" {
		session = DefaultSession
	}
	st, err := store.Open(":memory:",
		store.WithClock(testutil.NewDeterministicClock()),
		store.WithSessionID(session),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	reg := registry.New()
	selectors, err := selector.Build(defs.Selectors)
	if err != nil {
		return nil, fmt.Errorf("failed to build selectors: %w", err)
	}
	reg.SetSelectors(selectors)

	table, err := actions.GetActions(reg, defs.Defs, st, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to bind actions: %w", err)
	}

	result := NewResult()

	if err := h.executeFlow(scenario.Flow, table, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	records, err := st.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	for _, r := range records {
		result.Trace = append(result.Trace, TraceEvent{Seq: r.Seq, Type: r.Type, Payload: r.Payload, ID: r.ID})
	}

	injector := inject.New(reg, inject.WithLogger(h.logger))
	if err := h.resolveViews(injector, scenario.Views, state, table, result); err != nil {
		return nil, fmt.Errorf("failed to resolve views: %w", err)
	}

	for _, msg := range EvaluateAssertions(result.Trace, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// executeFlow dispatches each step through the bound action table.
// Unknown actions and malformed args abort the run; dispatch outcomes
// that contradict expect_error are recorded as failures.
func (h *Harness) executeFlow(flow []FlowStep, table ir.ActionTable, result *Result) error {
	for i, step := range flow {
		key, name, ok := strings.Cut(step.Dispatch, ".")
		if !ok {
			return fmt.Errorf("flow step %d: invalid action %q, expected key.action", i, step.Dispatch)
		}
		fn, ok := table.Lookup(key, name)
		if !ok {
			return fmt.Errorf("flow step %d: unknown action %q", i, step.Dispatch)
		}

		args, err := toArgs(step.Args)
		if err != nil {
			return fmt.Errorf("flow step %d: failed to convert args: %w", i, err)
		}

		err = fn(args...)
		switch {
		case step.ExpectError == "" && err != nil:
			result.AddError(fmt.Sprintf("flow[%d] %s: unexpected error: %v", i, step.Dispatch, err))
		case step.ExpectError != "" && err == nil:
			result.AddError(fmt.Sprintf("flow[%d] %s: expected error containing %q, got success", i, step.Dispatch, step.ExpectError))
		case step.ExpectError != "" && !strings.Contains(err.Error(), step.ExpectError):
			result.AddError(fmt.Sprintf("flow[%d] %s: expected error containing %q, got %q", i, step.Dispatch, step.ExpectError, err.Error()))
		}

		h.logger.Info("flow step completed",
			"step", i,
			"action", step.Dispatch,
			"error", err,
		)
	}
	return nil
}

func (h *Harness) resolveViews(injector *inject.Injector, views []ViewStep, state ir.Object, table ir.ActionTable, result *Result) error {
	for i, view := range views {
		resolver, err := injector.Inject(view.Keys...)
		if err != nil {
			return fmt.Errorf("view %d: %w", i, err)
		}
		props := resolver(state, nil, table)
		result.Views = append(result.Views, View{Keys: view.Keys, Values: props.Values})

		expected, err := toObject(view.Expect)
		if err != nil {
			return fmt.Errorf("view %d: invalid expect: %w", i, err)
		}
		for _, field := range expected.SortedKeys() {
			got, ok := props.Values[field]
			if !ok {
				result.AddError(fmt.Sprintf("views[%d] %v: field %q missing", i, view.Keys, field))
				continue
			}
			if !valuesEqual(expected[field], got) {
				result.AddError(fmt.Sprintf("views[%d] %v: field %q = %s, expected %s",
					i, view.Keys, field, formatValue(got), formatValue(expected[field])))
			}
		}

		h.logger.Info("view resolved", "view", i, "keys", view.Keys, "fields", len(props.Values))
	}
	return nil
}

// toObject converts YAML-decoded data into an ir.Object.
// A nil map yields an empty object.
func toObject(m map[string]any) (ir.Object, error) {
	if m == nil {
		return ir.Object{}, nil
	}
	v, err := ir.FromGo(m)
	if err != nil {
		return nil, err
	}
	return v.(ir.Object), nil
}

func toArgs(raw []any) ([]ir.Value, error) {
	args := make([]ir.Value, len(raw))
	for i, a := range raw {
		v, err := ir.FromGo(a)
		if err != nil {
			return nil, fmt.Errorf("args[%d]: %w", i, err)
		}
		args[i] = v
	}
	return args, nil
}
