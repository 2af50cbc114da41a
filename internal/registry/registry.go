// Package registry holds the process-wide lookup shared by the action
// assembler and the state injector.
//
// A Registry is created once and passed explicitly to the components that
// need it. Each test gets a fresh one.
package registry

import (
	"sync"

	"github.com/roach88/statebind/internal/ir"
)

// Slot names a well-known registry entry.
type Slot string

const (
	// SlotActions holds the ir.ActionTable written by actions.GetActions.
	SlotActions Slot = "actions"

	// SlotSelectors holds the ir.SelectorTable read by the injector.
	SlotSelectors Slot = "selectors"
)

// Registry is a slot-keyed store with last-writer-wins semantics.
// It is safe for concurrent use; writes are expected at setup time only.
type Registry struct {
	mu    sync.RWMutex
	slots map[Slot]any
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{slots: make(map[Slot]any)}
}

// Get returns the raw value stored in slot.
func (r *Registry) Get(slot Slot) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.slots[slot]
	return v, ok
}

// Set replaces the value stored in slot. There is no merge with a prior value.
func (r *Registry) Set(slot Slot, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[slot] = value
}

// typed reads slot as T. A slot that is absent or holds another type
// yields the zero T and ok=false.
func typed[T any](r *Registry, slot Slot) (T, bool) {
	v, ok := r.Get(slot)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Actions returns the registered action table. An absent slot, or one
// holding something other than an ir.ActionTable, yields an empty table
// and ok=false.
func (r *Registry) Actions() (ir.ActionTable, bool) {
	table, ok := typed[ir.ActionTable](r, SlotActions)
	if !ok || table == nil {
		return ir.ActionTable{}, ok
	}
	return table, true
}

// SetActions replaces the action table.
func (r *Registry) SetActions(table ir.ActionTable) {
	r.Set(SlotActions, table)
}

// Selectors returns the registered selector table, with the same
// fallback as Actions.
func (r *Registry) Selectors() (ir.SelectorTable, bool) {
	table, ok := typed[ir.SelectorTable](r, SlotSelectors)
	if !ok || table == nil {
		return ir.SelectorTable{}, ok
	}
	return table, true
}

// SetSelectors replaces the selector table.
func (r *Registry) SetSelectors(table ir.SelectorTable) {
	r.Set(SlotSelectors, table)
}
