// Package config holds respkv-cli preferences stored in ~/.respkv/cli.yaml.
//
// Flags and RESPKV_CLI_* environment variables override the file.
package config
