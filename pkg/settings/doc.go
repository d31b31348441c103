// Package settings resolves the flags that gate contract checking.
//
// Settings come in layers. From lowest to highest precedence: the built-in
// defaults, the global layer, a per-scope layer and call-site overrides. A
// Source stores the global and scoped layers; Resolve merges them into an
// immutable Settings snapshot using RFC 7386 JSON merge patches.
//
// The global layer can be filled from CONTRACTS_* environment variables
// (LoadEnv, which also reads a .env file once) and both layers from a YAML
// file (LoadYAML, LoadFile).
//
// Example usage:
//
//	src := settings.NewSource()
//	_ = src.Set(settings.KeyMatchReturn, false)
//	_ = src.SetScoped("billing", settings.KeyCoerce, true)
//	s, err := src.Resolve("billing", settings.Overrides{settings.KeyEnabled: true})
package settings
