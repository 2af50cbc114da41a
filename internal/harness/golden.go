package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/statebind/internal/ir"
)

// snapshot builds the golden representation of a result: the trace
// without record IDs, plus resolved views. Views may hold null for absent
// state, so snapshots use MarshalValue rather than canonical JSON.
func snapshot(name string, result *Result) ir.Object {
	trace := make(ir.List, len(result.Trace))
	for i, event := range result.Trace {
		trace[i] = ir.Object{
			"seq":     ir.Int(event.Seq),
			"type":    ir.String(event.Type),
			"payload": event.Payload,
		}
	}

	views := make(ir.List, len(result.Views))
	for i, view := range result.Views {
		keys := make(ir.List, len(view.Keys))
		for j, k := range view.Keys {
			keys[j] = ir.String(k)
		}
		views[i] = ir.Object{"keys": keys, "values": view.Values}
	}

	return ir.Object{
		"scenario_name": ir.String(name),
		"trace":         trace,
		"views":         views,
	}
}

// RunWithGolden executes a scenario and compares its trace and views
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func (h *Harness) RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := h.Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := ir.MarshalValue(snapshot(scenarioName, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
