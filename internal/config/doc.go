// Package config loads and validates the window sweep run configuration.
//
// Configuration is resolved in three layers: struct tag defaults, then
// environment variables with the WINSWEEP prefix, then an optional YAML
// file which takes precedence over both. The resolved configuration is
// validated before the run starts; a sweep never begins with an invalid
// configuration.
package config
