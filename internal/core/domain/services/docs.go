// Package services provides domain services that span the job and collector aggregates.
//
// The package includes:
//   - JobDispatcher: selects the nearest eligible collector for a Pending job and
//     performs the Pending -> Accepted transition on the job aggregate
//
// The dispatcher is pure: it never touches storage. Persisting its result through
// the guarded store transition is the caller's responsibility.
package services
