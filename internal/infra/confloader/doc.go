// Package confloader loads layered configuration with koanf.
//
// Sources, highest priority first:
//
//  1. Overrides (command-line flags, via LoadMap)
//  2. Environment variables with the RESPKV_ prefix
//  3. A YAML configuration file
//  4. Values already present in the target struct
//
// Environment names map to keys by lowercasing and treating a double
// underscore as the nesting separator, so RESPKV_SERVER__REDIS__READ_TIMEOUT
// sets server.redis.read_timeout.
//
// Watcher reports changes to the configuration file so callers can
// reload the parts that support it.
package confloader
