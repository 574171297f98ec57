// Package source provides built-in table source implementations.
//
// Table sources resolve logical table names to input files.
// The package includes:
//
//   - Directory: <dir>/<name><ext> on the local filesystem
//   - Static: Fixed map of table names to paths
//
// Custom sources can be implemented by satisfying the types.TableSource interface.
package source
