// Package harness runs scenario tests against compiled action definitions.
//
// A scenario dispatches bound actions into a fresh in-memory journal,
// resolves selector keys against a state document, and asserts on both
// the journaled trace and the resolved views.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario checks"
//	defs: ./defs
//	state:
//	  cart: { items: 2 }
//	flow:
//	  - dispatch: cart.addItem
//	    args: ["widget", 2]
//	  - dispatch: cart.addItem
//	    args: ["widget"]
//	    expect_error: "expected 2 args"
//	views:
//	  - keys: [cart.summary, user]
//	    expect: { count: 2 }
//	assertions:
//	  - type: trace_contains
//	    action: Cart.addItem
//	    payload: { item_id: widget }
//	  - type: trace_order
//	    actions: [Cart.addItem, Cart.clear]
//	  - type: trace_count
//	    action: Cart.addItem
//	    count: 1
//
// The defs path is resolved relative to the scenario file.
//
// # Determinism
//
// Every run uses a deterministic clock starting at seq 1 and a fixed
// session ID, so record IDs and traces are identical across runs and can
// be compared against golden files.
//
// # Golden Files
//
// RunWithGolden stores traces in testdata/golden/{name}.golden.
// Regenerate them with:
//
//	go test ./internal/harness -update
package harness
