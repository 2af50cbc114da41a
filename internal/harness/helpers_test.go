package harness

import (
	"github.com/roach88/statebind/internal/ir"
)

func cartDefinitions() Definitions {
	return Definitions{
		Defs: map[string]ir.ActionDef{
			"cart": {
				Name:    "Cart",
				Purpose: "Shopping cart",
				Actions: []ir.ActionSig{
					{Name: "addItem", Args: []ir.NamedArg{
						{Name: "item_id", Type: "string"},
						{Name: "quantity", Type: "int"},
					}},
					{Name: "clear"},
				},
			},
			"user": {
				Name:    "User",
				Purpose: "Signed-in user",
				Actions: []ir.ActionSig{{Name: "rename", Args: []ir.NamedArg{{Name: "name", Type: "string"}}}},
			},
		},
		Selectors: []ir.SelectorSpec{
			{Namespace: "cart", Name: "summary", Fields: map[string]string{"count": "cart.count", "items": "cart.items"}},
			{Namespace: "cart", Name: "broken", Fields: map[string]string{"total": "cart.total"}},
		},
	}
}

func staticLoader(defs Definitions) Loader {
	return func(string) (Definitions, error) {
		return defs, nil
	}
}

func newTestHarness() *Harness {
	return New(staticLoader(cartDefinitions()))
}

const cartFlowYAML = `
name: cart_flow
description: Add two items, clear, then reject a short call
defs: ./defs
state:
  cart:
    count: 3
    items: [widget, gadget]
  user:
    name: ada
flow:
  - dispatch: cart.addItem
    args: [widget, 2]
  - dispatch: cart.addItem
    args: [gadget, 1]
  - dispatch: cart.clear
  - dispatch: cart.addItem
    args: [widget]
    expect_error: "expected 2 args"
views:
  - keys: [cart.summary, user]
    expect:
      count: 3
      user: { name: ada }
assertions:
  - type: trace_contains
    action: Cart.addItem
    payload: { item_id: gadget }
  - type: trace_order
    actions: [Cart.addItem, Cart.clear]
  - type: trace_count
    action: Cart.addItem
    count: 2
`
