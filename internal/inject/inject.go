// Package inject resolves selector keys against application state and
// merges the resulting slices with bound actions into view props.
//
// Keys are validated when Inject is called. Failures while resolving a
// namespaced key at render time are logged and isolated to that key.
package inject

import (
	"fmt"
	"log/slog"

	"github.com/roach88/statebind/internal/ir"
	"github.com/roach88/statebind/internal/registry"
	"github.com/roach88/statebind/internal/selector"
)

// Resolver computes props from the current state, the view's own props and
// the bound actions the caller holds. It keeps no state between calls.
type Resolver func(state, ownProps ir.Object, actions ir.ActionTable) ir.Props

// Injector builds resolvers that read selectors from a registry.
type Injector struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// Option configures an Injector.
type Option func(*Injector)

// WithLogger sets the logger used for per-key resolution failures.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Injector) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New creates an Injector over reg.
func New(reg *registry.Registry, opts ...Option) *Injector {
	i := &Injector{registry: reg, logger: slog.Default()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Inject parses keys and returns a Resolver for them.
// A malformed key is reported here rather than skipped at render time.
func (i *Injector) Inject(keys ...string) (Resolver, error) {
	if i.registry == nil {
		return nil, fmt.Errorf("inject: registry is required")
	}
	parsed, err := selector.ParseKeys(keys)
	if err != nil {
		return nil, fmt.Errorf("inject: %w", err)
	}

	return func(state, _ ir.Object, actions ir.ActionTable) ir.Props {
		selectors := i.selectors()

		values := make(ir.Object)
		for _, key := range parsed {
			if key.TopLevel() {
				v, ok := state[key.Namespace]
				if !ok || v == nil {
					v = ir.Null{}
				}
				values[key.Namespace] = v
				continue
			}

			slice, ok := i.resolve(selectors, key, state)
			if !ok {
				continue
			}
			for field, v := range slice {
				values[field] = v
			}
		}

		return ir.Props{Values: values, Actions: actions}
	}, nil
}

// MustInject is like Inject but panics on a malformed key.
// It is meant for wiring static keys at package init.
func (i *Injector) MustInject(keys ...string) Resolver {
	r, err := i.Inject(keys...)
	if err != nil {
		panic(err)
	}
	return r
}

// selectors reads the selector table for one render. A slot holding the
// wrong type is logged and treated as empty.
func (i *Injector) selectors() ir.SelectorTable {
	table, ok := i.registry.Selectors()
	if !ok {
		if v, present := i.registry.Get(registry.SlotSelectors); present {
			i.logger.Error("selectors slot holds wrong type", "type", fmt.Sprintf("%T", v))
		}
	}
	return table
}

// resolve runs one namespaced selector. Lookup misses, selector errors and
// selector panics are logged and reported as !ok.
func (i *Injector) resolve(selectors ir.SelectorTable, key selector.Key, state ir.Object) (slice ir.Object, ok bool) {
	sel, found := selectors.Lookup(key.Namespace, key.Name)
	if !found {
		i.logger.Warn("selector not found", "key", key.Raw)
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("selector panicked", "key", key.Raw, "panic", r)
			slice, ok = nil, false
		}
	}()

	var err error
	slice, err = sel(state)
	if err != nil {
		i.logger.Error("selector failed", "key", key.Raw, "error", err)
		return nil, false
	}
	return slice, true
}
