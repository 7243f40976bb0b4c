// Package store provides SQLite-backed storage for captures and their
// decoded protocol views.
//
// The store keeps:
//   - Captures: one row per imported capture, identified by a UUIDv7
//   - Samples: the (time, state) transitions of each capture
//   - Protocol entries: the merged decode of a capture, with the session
//     that produced it
//
// # Ordering
//
// Captures carry a logical seq assigned on insert. Listing orders by
// seq ASC, id ASC COLLATE BINARY so results are identical across runs.
// Samples and entries are ordered by their per-capture seq.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
