package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a scenario test.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Defs is the directory of CUE definitions and selectors.
	// LoadScenario resolves it relative to the scenario file.
	Defs string `yaml:"defs"`

	// Session is the journal session ID. Defaults to DefaultSession.
	Session string `yaml:"session,omitempty"`

	// State is the state document views resolve against.
	State map[string]any `yaml:"state,omitempty"`

	// Flow lists actions to dispatch, in order.
	Flow []FlowStep `yaml:"flow,omitempty"`

	// Views lists selector key sets to resolve after the flow.
	Views []ViewStep `yaml:"views,omitempty"`

	// Assertions check the journaled trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// DefaultSession is the session ID used when a scenario names none.
const DefaultSession = "test-session"

// FlowStep dispatches one bound action.
type FlowStep struct {
	// Dispatch names the bound action as "key.action", e.g. "cart.addItem".
	Dispatch string `yaml:"dispatch"`

	// Args are the positional action arguments.
	Args []any `yaml:"args,omitempty"`

	// ExpectError, if set, must be a substring of the dispatch error.
	// The step then fails if dispatch succeeds.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// ViewStep resolves a set of selector keys.
type ViewStep struct {
	// Keys are selector keys ("X" or "X.Y").
	Keys []string `yaml:"keys"`

	// Expect is a subset match against the resolved values.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion checks the journaled trace.
type Assertion struct {
	// Type is one of trace_contains, trace_order or trace_count.
	Type string `yaml:"type"`

	// Action is the action type, e.g. "Cart.addItem".
	Action string `yaml:"action,omitempty"`

	// Payload is a subset match against the payload (trace_contains).
	Payload map[string]any `yaml:"payload,omitempty"`

	// Count is the exact number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Actions is the expected relative order (trace_order).
	Actions []string `yaml:"actions,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Defs != "" && !filepath.IsAbs(scenario.Defs) {
		scenario.Defs = filepath.Join(filepath.Dir(path), scenario.Defs)
	}
	if info, err := os.Stat(scenario.Defs); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("invalid scenario: defs directory not found: %s", scenario.Defs)
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML without touching the filesystem.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if scenario.Session == "" {
		scenario.Session = DefaultSession
	}

	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Defs == "" {
		return fmt.Errorf("defs is required")
	}
	if len(s.Flow) == 0 && len(s.Views) == 0 {
		return fmt.Errorf("at least one flow step or view is required")
	}

	for i, step := range s.Flow {
		if step.Dispatch == "" {
			return fmt.Errorf("flow[%d]: dispatch is required", i)
		}
	}

	for i, view := range s.Views {
		if len(view.Keys) == 0 {
			return fmt.Errorf("views[%d]: keys are required", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
