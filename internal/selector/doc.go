// Package selector parses selector keys and builds projection selectors
// from declarative specs.
//
// A selector key is either "X", naming a top-level state field, or "X.Y",
// naming selector Y in namespace X. Any other shape is rejected by ParseKey.
// Field names in keys are free-form; declared selector names are not.
package selector
