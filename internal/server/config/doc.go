// Package config defines the respkv-server configuration.
//
//   - spec.go: ServerConfig struct with koanf tags
//   - default.go: default values
//   - verify.go: validation run after loading
//
// Configuration is loaded by internal/infra/confloader from a YAML file,
// RESPKV_ environment variables and command-line flags.
package config
