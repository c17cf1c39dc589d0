// Package benchmark holds performance benchmarks for respkv.
//
// Run them with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Compare runs with benchstat:
//
//	go test -bench=. -benchmem -count=5 ./internal/tests/benchmark/... | tee new.txt
//	benchstat old.txt new.txt
package benchmark
