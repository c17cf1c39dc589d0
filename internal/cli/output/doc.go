// Package output renders RESP replies for respkv-cli.
//
//   - raw: the redis-cli style listing, e.g. (integer) 1 and 1) "a"
//   - json, yaml: the reply converted to plain values by Value
package output
