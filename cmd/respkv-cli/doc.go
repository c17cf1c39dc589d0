// Command respkv-cli is the command-line client for respkv.
//
// Usage:
//
//	respkv-cli                          interactive mode
//	respkv-cli exec SET key value       one command
//	respkv-cli -o json exec HGETALL h   structured output
//	respkv-cli ping
//
// Defaults come from ~/.respkv/cli.yaml and RESPKV_CLI_* variables.
package main
