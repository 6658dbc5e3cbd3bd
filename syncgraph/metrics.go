package syncgraph

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the build-progress counters exposed by a Builder, grounded on
// the teacher pack's prometheus/client_golang usage (see DESIGN.md). They
// are a pure observability side-channel: nothing in Build's control flow
// reads them back.
type Metrics struct {
	MarkingsInstalled  prometheus.Counter
	SegmentsInstalled  prometheus.Counter
	SyncNodesInstalled prometheus.Counter
	ExternFired        prometheus.Counter
}

// NewMetrics registers a fresh Metrics set against reg. Pass a fresh
// prometheus.NewRegistry() to avoid colliding with the default global
// registry; the CLI does so and serves that registry on -metrics-addr.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MarkingsInstalled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pnreach",
			Name:      "markings_installed_total",
			Help:      "Markings installed across all module segments.",
		}),
		SegmentsInstalled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pnreach",
			Name:      "segments_installed_total",
			Help:      "Distinct segments installed across all modules.",
		}),
		SyncNodesInstalled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pnreach",
			Name:      "sync_nodes_installed_total",
			Help:      "Sync nodes installed in the top-level graph.",
		}),
		ExternFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pnreach",
			Name:      "extern_transitions_fired_total",
			Help:      "Extern transition firings processed while expanding sync nodes.",
		}),
	}
	reg.MustRegister(m.MarkingsInstalled, m.SegmentsInstalled, m.SyncNodesInstalled, m.ExternFired)
	return m
}
