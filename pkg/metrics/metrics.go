package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records counters for the scan/lookup/speech pipeline.
type Metrics struct {
	scansAccepted  prometheus.Counter
	scansDebounced prometheus.Counter

	lookupDuration *prometheus.HistogramVec
	lookupResults  *prometheus.CounterVec

	speechQueueDepth  prometheus.Gauge
	utterancesSpoken  prometheus.Counter
	utterancesDropped prometheus.Counter
}

// Lookup result labels.
const (
	LookupCacheHit = "cache_hit"
	LookupFound    = "found"
	LookupNotFound = "not_found"
	LookupError    = "error"
)

// New registers the pipeline metrics on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	scansAccepted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scans_accepted_total",
		Help: "Barcode detections accepted past the debounce window.",
	})
	scansDebounced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scans_debounced_total",
		Help: "Barcode detections suppressed by the debounce window.",
	})
	lookupDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lookup_duration_seconds",
		Help:    "Duration of product resolutions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
	lookupResults := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lookup_results_total",
		Help: "Product resolutions by outcome.",
	}, []string{"result"})
	speechQueueDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "speech_queue_depth",
		Help: "Utterances waiting for the speech worker.",
	})
	utterancesSpoken := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "utterances_spoken_total",
		Help: "Utterances handed to the TTS backend.",
	})
	utterancesDropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "utterances_dropped_total",
		Help: "Pending utterances cleared by an interrupting utterance.",
	})
	reg.MustRegister(
		scansAccepted, scansDebounced,
		lookupDuration, lookupResults,
		speechQueueDepth, utterancesSpoken, utterancesDropped,
	)
	return &Metrics{
		scansAccepted:     scansAccepted,
		scansDebounced:    scansDebounced,
		lookupDuration:    lookupDuration,
		lookupResults:     lookupResults,
		speechQueueDepth:  speechQueueDepth,
		utterancesSpoken:  utterancesSpoken,
		utterancesDropped: utterancesDropped,
	}
}

// IncScanAccepted counts a detection that passed the debouncer.
func (m *Metrics) IncScanAccepted() {
	if m == nil || m.scansAccepted == nil {
		return
	}
	m.scansAccepted.Inc()
}

// IncScanDebounced counts a detection suppressed by the debouncer.
func (m *Metrics) IncScanDebounced() {
	if m == nil || m.scansDebounced == nil {
		return
	}
	m.scansDebounced.Inc()
}

// ObserveLookup records one resolution outcome and its duration.
func (m *Metrics) ObserveLookup(result string, duration time.Duration) {
	if m == nil || m.lookupResults == nil {
		return
	}
	m.lookupResults.WithLabelValues(normalizeLabel(result)).Inc()
	m.lookupDuration.WithLabelValues(normalizeLabel(result)).Observe(duration.Seconds())
}

// SetSpeechQueueDepth publishes the pending utterance count.
func (m *Metrics) SetSpeechQueueDepth(depth int) {
	if m == nil || m.speechQueueDepth == nil {
		return
	}
	m.speechQueueDepth.Set(float64(depth))
}

// IncUtteranceSpoken counts an utterance handed to the backend.
func (m *Metrics) IncUtteranceSpoken() {
	if m == nil || m.utterancesSpoken == nil {
		return
	}
	m.utterancesSpoken.Inc()
}

// AddUtterancesDropped counts pending utterances cleared by an interrupt.
func (m *Metrics) AddUtterancesDropped(n int) {
	if m == nil || m.utterancesDropped == nil || n <= 0 {
		return
	}
	m.utterancesDropped.Add(float64(n))
}

func normalizeLabel(result string) string {
	if result == "" {
		return "unknown"
	}
	return result
}
