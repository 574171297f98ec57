// Package types provides core type definitions and interfaces for the subsample library.
//
// This package contains shared types that are used across multiple packages in the
// library. By keeping these types in a separate package, we avoid import cycles
// between the root subsample package and its internal implementations.
//
// Key types:
//   - TableSpec: Logical table name plus routing columns
//   - TableSource: Resolves logical tables to input files
//   - DrawStrategy: Seeded uniform draw used for partition assignment
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
//   - TableError: Error carrying table and row context
package types
