/*
Package metrics exposes realtime activity as Prometheus metrics.

Presence gauges are sampled from the Registry at scrape time; session outcomes are counted
through the chat.Recorder hook.
*/
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"channelchat/internal/app/chat"
)

const namespace = "channelchat"

// StatsSource provides presence counts. *chat.Registry satisfies it.
type StatsSource interface {
	Stats() chat.RegistryStats
}

// Metrics owns a private Prometheus registry and implements chat.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	sessionsJoined   prometheus.Counter
	sessionsRejected *prometheus.CounterVec
	messagesPosted   prometheus.Counter
	assistantCalls   *prometheus.CounterVec
}

var _ chat.Recorder = (*Metrics)(nil)

// New registers the process, runtime and chat collectors.
func New(source StatsSource) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessionsJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_joined_total",
			Help:      "Sessions that joined a channel.",
		}),
		sessionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_rejected_total",
			Help:      "Sessions closed before joining, by websocket close code.",
		}, []string{"close_code"}),
		messagesPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_posted_total",
			Help:      "Messages stored and broadcast.",
		}),
		assistantCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_calls_total",
			Help:      "Calls to the assistant service, by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}

	stat := func(pick func(chat.RegistryStats) int) func() float64 {
		return func() float64 { return float64(pick(source.Stats())) }
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.sessionsJoined,
		m.sessionsRejected,
		m.messagesPosted,
		m.assistantCalls,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_channels",
			Help:      "Channels with at least one live connection.",
		}, stat(func(s chat.RegistryStats) int { return s.Channels })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Live realtime connections.",
		}, stat(func(s chat.RegistryStats) int { return s.Connections })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "present_users",
			Help:      "Distinct users present in any channel.",
		}, stat(func(s chat.RegistryStats) int { return s.Users })),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evicted_connections_total",
			Help:      "Connections dropped after a failed broadcast.",
		}, func() float64 { return float64(source.Stats().Evictions) }),
	)

	return m
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) SessionJoined() {
	m.sessionsJoined.Inc()
}

func (m *Metrics) SessionRejected(closeCode int) {
	m.sessionsRejected.WithLabelValues(strconv.Itoa(closeCode)).Inc()
}

func (m *Metrics) MessagePosted() {
	m.messagesPosted.Inc()
}

func (m *Metrics) AssistantCall(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.assistantCalls.WithLabelValues(kind, outcome).Inc()
}
