// Package collector provides the Collector aggregate: a member of a collector
// organization with an optional last-reported position.
//
// Key business rules:
//   - A collector belongs to exactly one organization and has a non-empty name
//   - Location and last-seen time are either both set or both absent
//   - Reporting a location overwrites the previous one (last write wins)
package collector
