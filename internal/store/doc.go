// Package store provides a SQLite-backed journal of dispatched actions.
//
// A Store satisfies actions.Store, so bound actions can dispatch straight
// into it. Every dispatched action is appended as one record.
//
// # Ordering and Identity
//
//   - Records are stamped with seq from a logical clock, never timestamps.
//     The clock resumes after the highest seq already in the journal.
//   - Record IDs are content addresses over (session, seq, type, payload)
//     computed by ir.ActionID.
//   - All queries order by seq ASC, id ASC COLLATE BINARY.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
