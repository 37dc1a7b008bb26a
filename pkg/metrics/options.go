package metrics

import (
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// minRefreshInterval keeps the runtime sampler from spinning on
// ReadMemStats, which stops the world.
const minRefreshInterval = time.Second

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace overrides the "ftcscope" metric prefix.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem overrides the "dashboard" metric subsystem.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithHistogramBuckets sets the millisecond buckets shared by the upstream,
// lookup and HTTP latency histograms. Buckets are sorted and de-duplicated;
// non-positive bounds are dropped.
func WithHistogramBuckets(bucketsMS []float64) Option {
	return func(m *Manager) {
		out := make([]float64, 0, len(bucketsMS))
		for _, b := range bucketsMS {
			if b > 0 {
				out = append(out, b)
			}
		}
		if len(out) == 0 {
			return
		}
		slices.Sort(out)
		m.histogramBuckets = slices.Compact(out)
	}
}

// WithRefreshInterval sets how often RunRuntimeSampler refreshes the memory
// and goroutine gauges. Intervals under one second are raised to one second.
func WithRefreshInterval(interval time.Duration) Option {
	return func(m *Manager) {
		if interval <= 0 {
			return
		}
		m.refreshInterval = max(interval, minRefreshInterval)
	}
}

// WithCustomLabels attaches constant labels, such as a deployment name, to
// every series. Entries with an empty name or value are ignored.
func WithCustomLabels(labels map[string]string) Option {
	return func(m *Manager) {
		for k, v := range labels {
			if k == "" || v == "" {
				continue
			}
			m.customLabels[k] = v
		}
	}
}

// WithPrometheusRegistry registers metrics on registry instead of the
// default registerer.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
