// Package job provides the PickupJob aggregate and its lifecycle state machine.
//
// The package includes:
//   - Job: the aggregate root holding a requester's pickup request and its assignment
//   - Status: the lifecycle state machine
//   - Transition: the description of one state change, used by stores to apply it conditionally
//
// Key business rules:
//   - Jobs are created Pending with a positive quantity, a category and a location
//   - Status follows Pending -> Accepted -> InProgress -> Completed
//   - Pending and Accepted jobs can be Cancelled; InProgress only when collector abort is allowed
//   - A job has an assigned collector exactly when it is Accepted, InProgress or Completed
//   - Completed and Cancelled are terminal
//   - Every transition increments the job version
package job
