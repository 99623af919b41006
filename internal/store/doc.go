// Package store provides SQLite-backed durable storage for the publication
// lifecycle.
//
// The store holds two worlds:
//   - Pending: publications, pending_documents, binder_members, and the
//     license/role acceptance ledgers. Populated by intake, mutated only by
//     append-only acceptance updates, emptied by promotion.
//   - Permanent: modules and trees, keyed by content UUID + version. Written
//     exclusively by promotion.
//
// # Critical Patterns
//
// At-most-once commit claim:
//   - ClaimCommit counts outstanding acceptances and conditionally moves the
//     publication from Processing to Publishing in ONE transaction. Exactly
//     one concurrent caller wins; everyone else observes the marker.
//
// Append-only acceptance:
//   - Acceptance updates are guarded by "accepted = 0", so repeating an
//     acceptance is a no-op and flags never transition back.
//
// Atomic promotion:
//   - Promote inserts modules/trees, deletes the publication's pending rows,
//     and records the terminal state in ONE transaction. A failed promotion
//     leaves the pending rows exactly as they were.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
