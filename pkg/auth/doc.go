// Package auth is the credential and session core of the wallet platform.
// It authenticates principals, issues and rotates bearer token pairs,
// enforces the single-active-session invariant through the session manager,
// and exposes safe projections of account data.
//
// # Architecture
//
//   - Service – orchestrates login, registration, refresh, logout, and
//     profile reads against a Storage implementation.
//   - Storage – persistence contract for principal records; implemented by
//     storage/postgres.
//   - errors.go – sentinel failures the HTTP boundary maps to status codes.
//
// All business-rule failures are typed, local, non-exceptional results.
// Only infrastructure faults (wrapping ErrStoreUnavailable) are logged as
// errors and surfaced to callers as generic internal failures.
//
// # Concurrency
//
// Operations run under a concurrent-request server sharing one datastore
// pool. The engine holds no in-process shared mutable state: there is no
// session cache and no in-memory table, so every decision costs a store
// round-trip by design. The register pre-checks and the session establish
// path are deliberately not transactional; see Storage and session.Manager
// for the resulting semantics.
package auth
