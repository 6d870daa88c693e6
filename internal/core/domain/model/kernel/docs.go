// Package kernel provides the shared value objects of the pickup domain.
//
// The package includes:
//   - UUID: identifier value object with a total order used for deterministic tie-breaks
//   - Location: a validated latitude/longitude pair with great-circle distance
//   - Clock and IDGenerator: injected sources of time and identity
//
// Values are immutable and safe for concurrent use.
package kernel
