// Package utils provides shared internal utilities.
//
// This package contains the reflection helpers shared by the validator and
// wrapper packages: ordinal labels for diagnostics, runtime type names,
// assignment of validated values into typed parameters, and the
// error-or-panic convention used by typed function proxies.
//
// This package is internal and should not be imported by external code.
package utils
