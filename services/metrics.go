package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	scoresRecorded       prometheus.Counter
	participationsScored prometheus.Counter
	roundsAdvanced       prometheus.Counter
	liveListeners        prometheus.Gauge
	liveDropped          prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		scoresRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slam",
			Name:      "scores_recorded_total",
			Help:      "Raw judge scores persisted.",
		}),
		participationsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slam",
			Name:      "participations_scored_total",
			Help:      "Participations whose final score was aggregated.",
		}),
		roundsAdvanced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slam",
			Name:      "rounds_advanced_total",
			Help:      "Rounds created by room advancement.",
		}),
		liveListeners: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "slam",
			Name:      "live_listeners",
			Help:      "Connected live update listeners.",
		}),
		liveDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slam",
			Name:      "live_messages_dropped_total",
			Help:      "Live messages dropped because a listener buffer was full.",
		}),
	}
	reg.MustRegister(m.scoresRecorded, m.participationsScored, m.roundsAdvanced, m.liveListeners, m.liveDropped)
	return m
}

func (m *Metrics) scoreRecorded() {
	if m != nil {
		m.scoresRecorded.Inc()
	}
}

func (m *Metrics) participationScored() {
	if m != nil {
		m.participationsScored.Inc()
	}
}

func (m *Metrics) roundAdvanced() {
	if m != nil {
		m.roundsAdvanced.Inc()
	}
}

func (m *Metrics) listenerAdded() {
	if m != nil {
		m.liveListeners.Inc()
	}
}

func (m *Metrics) listenerRemoved() {
	if m != nil {
		m.liveListeners.Dec()
	}
}

func (m *Metrics) liveMessageDropped() {
	if m != nil {
		m.liveDropped.Inc()
	}
}
