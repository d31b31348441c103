package wrapper

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports the Stats of every wrapper in a Registry as Prometheus
// counters labelled by function name. Values are read at scrape time, so
// wrappers registered after the collector are picked up automatically.
type Collector struct {
	registry   *Registry
	calls      *prometheus.Desc
	violations *prometheus.Desc
	bypassed   *prometheus.Desc
}

// NewCollector creates a collector over r. Metric names are prefixed with
// namespace when it is non-empty.
func NewCollector(r *Registry, namespace string) *Collector {
	labels := []string{"function"}
	return &Collector{
		registry: r,
		calls: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "contracts", "calls_total"),
			"Total number of calls made through a wrapped function",
			labels, nil,
		),
		violations: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "contracts", "violations_total"),
			"Total number of contract violations raised by a wrapped function",
			labels, nil,
		),
		bypassed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "contracts", "bypassed_total"),
			"Total number of calls that skipped checking because contracts were disabled",
			labels, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.calls
	ch <- c.violations
	ch <- c.bypassed
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, f := range c.registry.List(nil) {
		s := f.Stats()
		ch <- prometheus.MustNewConstMetric(c.calls, prometheus.CounterValue, float64(s.Calls), f.Name())
		ch <- prometheus.MustNewConstMetric(c.violations, prometheus.CounterValue, float64(s.Violations), f.Name())
		ch <- prometheus.MustNewConstMetric(c.bypassed, prometheus.CounterValue, float64(s.Bypassed), f.Name())
	}
}
