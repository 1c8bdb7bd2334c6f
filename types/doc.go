// Package types provides core type definitions and interfaces for the allot library.
//
// This package contains shared types that are used across multiple packages in the
// library. By keeping these types in a separate package, we avoid import cycles
// between the root allot package and its internal implementations.
//
// Key types:
//   - Month, Availability: Calendar months and monthly availability fractions
//   - Person, Task: Allocation inputs
//   - Assignment, Result: Allocation outputs
//   - AllocationStrategy, RecordSource, ResultPublisher: Pluggable components
//   - Logger, MetricsCollector, Hooks: Observability
package types
