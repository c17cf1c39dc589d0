package metric

import "github.com/prometheus/client_golang/prometheus"

// KeyspaceFunc returns the current key count per keyspace type.
type KeyspaceFunc func() map[string]int

// KeyspaceCollector reports key counts at scrape time.
type KeyspaceCollector struct {
	stats KeyspaceFunc
	keys  *prometheus.Desc
}

// NewKeyspaceCollector creates a collector that calls stats on every scrape.
func NewKeyspaceCollector(stats KeyspaceFunc) *KeyspaceCollector {
	return &KeyspaceCollector{
		stats: stats,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "keyspace", "keys"),
			"Number of keys, by keyspace type",
			[]string{"type"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *KeyspaceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
}

// Collect implements prometheus.Collector.
func (c *KeyspaceCollector) Collect(ch chan<- prometheus.Metric) {
	for typ, n := range c.stats() {
		ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(n), typ)
	}
}
