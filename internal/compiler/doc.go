// Package compiler turns CUE source into action definitions and
// declarative selector specs.
//
// Definitions live under the top-level `def` field, one struct per
// definition key:
//
//	def: cart: {
//		name:    "Cart"
//		purpose: "Shopping cart"
//		action: addItem: args: {
//			item_id:  string
//			quantity: int
//		}
//		action: clear: {}
//	}
//
// Selectors live under `selector`, keyed by namespace and name:
//
//	selector: cart: summary: fields: {
//		total: "cart.total"
//	}
//
// Arg order follows declaration order in the CUE source.
package compiler
