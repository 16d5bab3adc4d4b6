// Package telemetry exposes Prometheus collectors for focus and layering activity.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors a focus environment updates. A nil *Metrics
// is valid and records nothing, so components never need to branch on it.
type Metrics struct {
	traversals       *prometheus.CounterVec
	trapActivations  *prometheus.CounterVec
	guardedElements  prometheus.Gauge
	activeLayers     *prometheus.GaugeVec
	outsideDismissed *prometheus.CounterVec
	typeAheadMatches *prometheus.CounterVec
}

// NewMetrics creates collectors under namespace and registers them on reg.
// A nil registerer leaves them unregistered, which tests use to avoid
// duplicate registration across environments.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		traversals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "focus_traversals_total",
			Help:      "Directional focus moves by result.",
		}, []string{"result"}),
		trapActivations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "focus_trap_transitions_total",
			Help:      "Focus trap activations and deactivations.",
		}, []string{"transition"}),
		guardedElements: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inert_guarded_elements",
			Help:      "Elements currently marked inert and aria-hidden.",
		}),
		activeLayers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "layers_active",
			Help:      "Open modal-like layers by kind.",
		}, []string{"kind"}),
		outsideDismissed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outside_interactions_total",
			Help:      "Interactions detected outside owned containers by event type.",
		}, []string{"event"}),
		typeAheadMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "typeahead_searches_total",
			Help:      "Type-ahead searches by outcome.",
		}, []string{"outcome"}),
	}

	if reg != nil {
		registered := make([]prometheus.Collector, 0, len(m.collectors()))
		for _, c := range m.collectors() {
			if err := reg.Register(c); err != nil {
				for _, done := range registered {
					reg.Unregister(done)
				}
				return nil, err
			}
			registered = append(registered, c)
		}
	}
	return m, nil
}

// Unregister removes the collectors from reg. It reports whether all of
// them were registered there.
func (m *Metrics) Unregister(reg prometheus.Registerer) bool {
	if m == nil || reg == nil {
		return false
	}
	all := true
	for _, c := range m.collectors() {
		if !reg.Unregister(c) {
			all = false
		}
	}
	return all
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.traversals,
		m.trapActivations,
		m.guardedElements,
		m.activeLayers,
		m.outsideDismissed,
		m.typeAheadMatches,
	}
}

// Traversal records the result of a focus move.
func (m *Metrics) Traversal(result string) {
	if m == nil {
		return
	}
	m.traversals.WithLabelValues(result).Inc()
}

// TrapTransition records "activate" or "deactivate".
func (m *Metrics) TrapTransition(transition string) {
	if m == nil {
		return
	}
	m.trapActivations.WithLabelValues(transition).Inc()
}

// GuardedDelta adjusts the number of inert elements.
func (m *Metrics) GuardedDelta(delta int) {
	if m == nil {
		return
	}
	m.guardedElements.Add(float64(delta))
}

// LayerDelta adjusts the open layer count for kind.
func (m *Metrics) LayerDelta(kind string, delta int) {
	if m == nil {
		return
	}
	m.activeLayers.WithLabelValues(kind).Add(float64(delta))
}

// Outside records an interaction outside a registration's containers.
func (m *Metrics) Outside(event string) {
	if m == nil {
		return
	}
	m.outsideDismissed.WithLabelValues(event).Inc()
}

// TypeAhead records "match" or "miss".
func (m *Metrics) TypeAhead(outcome string) {
	if m == nil {
		return
	}
	m.typeAheadMatches.WithLabelValues(outcome).Inc()
}
