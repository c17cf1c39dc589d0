// Package buildinfo exposes version information for respkv binaries.
//
// Release builds inject values with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/respkv/internal/infra/buildinfo.Version=v1.0.0 \
//	  -X github.com/yndnr/respkv/internal/infra/buildinfo.Commit=$(git rev-parse --short HEAD)"
//
// Fields left unset fall back to what the Go toolchain embedded in the
// binary.
package buildinfo
