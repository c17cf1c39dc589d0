package benchmark

import (
	"bytes"
	"fmt"
	"runtime"
	"testing"

	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/pkg/resp"
)

// KeyCounts are the keyspace sizes the store benchmarks run against.
var KeyCounts = []int{1000, 10000, 100000}

// PayloadSizes are the bulk string sizes the codec benchmarks use.
var PayloadSizes = []int{16, 256, 4096, 65536}

func prefillStore(store *memory.Store, count int) []string {
	keys := make([]string, count)
	value := resp.BulkString(bytes.Repeat([]byte("v"), 64))
	for i := range keys {
		keys[i] = fmt.Sprintf("key:%d", i)
		store.Set(keys[i], value)
		store.HSet("hash:"+keys[i], "field", value)
		store.InsertMembers("set:"+keys[i], []string{"a", "b", "c"})
	}
	return keys
}

func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
}

func runWithKeyCounts(b *testing.B, fn func(b *testing.B, count int)) {
	for _, count := range KeyCounts {
		b.Run(fmt.Sprintf("keys_%d", count), func(b *testing.B) {
			fn(b, count)
		})
	}
}

func runWithPayloadSizes(b *testing.B, fn func(b *testing.B, size int)) {
	for _, size := range PayloadSizes {
		b.Run(fmt.Sprintf("bytes_%d", size), func(b *testing.B) {
			fn(b, size)
		})
	}
}
