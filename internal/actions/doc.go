// Package actions turns declarative action definitions into bound,
// dispatchable functions.
//
// The pipeline runs once at setup time:
//
//  1. Generate derives one pure action creator per ActionSig.
//  2. Bind wraps each creator so that calling it builds the action and
//     hands it straight to the store's Dispatch.
//  3. GetActions drives both for every definition, then writes the full
//     table into the registry's actions slot.
//
// Errors at this layer are fail-fast: the first bad definition aborts
// assembly and nothing is registered. Misconfiguration should stop an
// application from starting, not surface at render time.
package actions
