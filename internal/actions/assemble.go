package actions

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/statebind/internal/ir"
	"github.com/roach88/statebind/internal/registry"
)

// GetActions generates and binds every definition in defs against store,
// registers the resulting table in reg's actions slot and returns it.
//
// Definitions are processed in sorted key order. Each is bound with the
// fixed context {ActionCreators, Def, Dispatch: store.Dispatch, Store, Key}
// plus params; params cannot override the fixed fields (see Params).
//
// The registered table replaces any earlier registration. On the first
// error nothing is registered and the error is returned wrapped with the
// offending key.
func GetActions(reg *registry.Registry, defs map[string]ir.ActionDef, store Store, params Params) (ir.ActionTable, error) {
	if reg == nil {
		return nil, errors.New("get actions: registry is required")
	}
	if store == nil {
		return nil, errors.New("get actions: store is required")
	}

	keys := make([]string, 0, len(defs))
	for key := range defs {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	table := make(ir.ActionTable, len(defs))
	for _, key := range keys {
		def := defs[key]

		creators, err := Generate(def)
		if err != nil {
			return nil, fmt.Errorf("get actions %q: %w", key, err)
		}

		group, err := Bind(BindContext{
			ActionCreators: creators,
			Def:            def,
			Dispatch:       store.Dispatch,
			Store:          store,
			Key:            key,
			Params:         params,
		})
		if err != nil {
			return nil, fmt.Errorf("get actions %q: %w", key, err)
		}
		table[key] = group
	}

	reg.SetActions(table)
	slog.Debug("actions registered", "defs", len(table))
	return table, nil
}
