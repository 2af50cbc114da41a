// Package ir provides the shared types for statebind.
//
// This package contains type definitions and their serialization only.
// All other internal packages import ir; ir imports nothing internal, so
// the registry, the action assembler and the injector can exchange values
// without import cycles.
//
// Key design constraints:
//   - NO float values anywhere - use int64 for numbers
//   - Object keys iterate in RFC 8785 order (UTF-16 code units)
//   - Null is an explicit value (Null{}), used for absent state fields
//   - Action types are "Def.action" references
package ir
