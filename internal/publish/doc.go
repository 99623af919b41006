// Package publish implements the publication lifecycle engine: intake, the
// acceptance ledger operations, the state evaluator, and the commit engine.
//
// ARCHITECTURE:
//
// The engine has no internal goroutines or schedulers. It is invoked
// synchronously by inbound events (an intake request, an acceptance event, a
// status poll) arriving from a network-facing front end, potentially from
// many connections at once. Correctness under that concurrency rests on two
// properties:
//
//   - Acceptance updates are commutative and idempotent (flags only move
//     false -> true), so concurrent acceptance calls need no ordering.
//   - The only mutual exclusion is the evaluator's commit claim: a
//     conditional Processing -> Publishing transition executed atomically
//     with the outstanding-acceptance count (store.ClaimCommit). Exactly one
//     of any number of concurrent evaluator calls wins the claim and runs
//     the commit; every later call observes a terminal state and no-ops.
//
// Event flow:
//  1. Submit validates the content tree, assigns UUIDs and versions, and
//     populates the pending store in one transaction.
//  2. External acceptance events flip ledger rows and re-run the evaluator.
//  3. The evaluator counts outstanding records; at zero it claims the
//     transition and invokes the commit engine exactly once.
//  4. Commit promotes pending rows to permanent modules, materializes binder
//     trees bottom-up, and cleans up - all in one transaction.
//
// A failed commit moves the publication to the terminal Failure state with
// the error recorded; pending rows are kept for operator inspection and the
// evaluator will not retry. Acceptance callers never see a commit failure -
// their acceptance was recorded; status polling reports the Failure.
package publish
