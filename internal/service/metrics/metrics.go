package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chatlens"

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	MessagesAccepted prometheus.Counter
	MessagesRejected *prometheus.CounterVec
	Queries          *prometheus.CounterVec
	AskResults       *prometheus.CounterVec
	AskLatency       prometheus.Histogram
	Purged           prometheus.Counter
}

// Source exposes live values sampled at scrape time.
type Source interface {
	Chats() []string
	Len(chatID string) int
}

// New registers the collectors on reg. pending may be nil.
func New(reg prometheus.Registerer, store Source, pending func() int) *Metrics {
	f := promauto.With(reg)

	m := &Metrics{
		MessagesAccepted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_accepted_total",
			Help:      "Messages accepted by the capture endpoint",
		}),
		MessagesRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_rejected_total",
			Help:      "Messages dropped before or at storage, by reason",
		}, []string{"reason"}),
		Queries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Analysis queries by routing mode",
		}, []string{"mode"}),
		AskResults: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ask_requests_total",
			Help:      "Open-ended AI prompts by outcome",
		}, []string{"status"}),
		AskLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ask_duration_seconds",
			Help:      "AI prompt latency in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		Purged: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_purged_total",
			Help:      "Messages removed by the retention sweep",
		}),
	}

	if store != nil {
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "conversations",
			Help:      "Conversations with a non-empty buffer",
		}, func() float64 {
			return float64(len(store.Chats()))
		})
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "messages_buffered",
			Help:      "Messages held across all conversation buffers",
		}, func() float64 {
			n := 0
			for _, id := range store.Chats() {
				n += store.Len(id)
			}
			return float64(n)
		})
	}

	if pending != nil {
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ingest_pending",
			Help:      "Messages waiting in ingest queues",
		}, func() float64 {
			return float64(pending())
		})
	}

	return m
}

func (m *Metrics) Accepted() {
	if m == nil {
		return
	}
	m.MessagesAccepted.Inc()
}

func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.MessagesRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) Query(mode string) {
	if m == nil {
		return
	}
	m.Queries.WithLabelValues(mode).Inc()
}

func (m *Metrics) Ask(status string, seconds float64) {
	if m == nil {
		return
	}
	m.AskResults.WithLabelValues(status).Inc()
	m.AskLatency.Observe(seconds)
}

func (m *Metrics) Purge(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Purged.Add(float64(n))
}
