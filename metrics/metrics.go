package metrics

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name when no namespace is provided.
const DefaultNamespace = "customer_lookup"

// Lookup outcomes used as the "outcome" label.
const (
	OutcomeFound   = "found"
	OutcomeEmpty   = "empty"
	OutcomeFailed  = "failed"
	OutcomeInvalid = "invalid"
)

var (
	// ErrInvalidNamespace indicates a namespace that is not a valid metric name prefix.
	ErrInvalidNamespace = errors.New("metric namespace is invalid")

	// ErrRegister wraps failures while registering collectors.
	ErrRegister = errors.New("failed to register metrics")

	isNamespaceValid = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)
)

// Config controls how collectors are named and registered.
type Config struct {
	// Registerer receives the collectors. If nil, prometheus.DefaultRegisterer is used.
	Registerer prometheus.Registerer

	// Namespace prefixes metric names. If empty, DefaultNamespace is used.
	Namespace string
}

// Metrics holds the lookup collectors.
type Metrics struct {
	// Lookups counts invocations by outcome.
	Lookups *prometheus.CounterVec

	// Duration observes the time spent connecting, querying and reading rows.
	Duration prometheus.Histogram

	// Rows observes the number of records returned per successful lookup.
	Rows prometheus.Histogram

	// BuildInfo is set to 1 with the running version labels.
	BuildInfo *prometheus.GaugeVec
}

// New creates and registers the lookup collectors.
func New(cfg Config) (*Metrics, error) {
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	if !isNamespaceValid.MatchString(ns) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNamespace, ns)
	}

	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "lookups_total",
			Help:      "Customer lookups by outcome.",
		}, []string{"outcome"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "lookup_duration_seconds",
			Help:      "Time spent connecting to the database and reading matching customers.",
			Buckets:   prometheus.DefBuckets,
		}),
		Rows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "lookup_rows",
			Help:      "Customer records returned per lookup.",
			Buckets:   []float64{0, 1, 2, 5, 10, 50, 100},
		}),
		BuildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "build_info",
			Help:      "Build information of the customer lookup.",
		}, []string{"version", "commit", "date"}),
	}

	for _, c := range []prometheus.Collector{m.Lookups, m.Duration, m.Rows, m.BuildInfo} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Join(ErrRegister, err)
		}
	}

	return m, nil
}

// ObserveLookup records one lookup. Rows are only observed for outcomes that
// reached the database successfully.
func (m *Metrics) ObserveLookup(outcome string, elapsed time.Duration, rows int) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(outcome).Inc()
	if outcome == OutcomeInvalid {
		return
	}
	m.Duration.Observe(elapsed.Seconds())
	if outcome == OutcomeFound || outcome == OutcomeEmpty {
		m.Rows.Observe(float64(rows))
	}
}

// SetBuildInfo publishes the running version.
func (m *Metrics) SetBuildInfo(version, commit, date string) {
	if m == nil {
		return
	}
	m.BuildInfo.WithLabelValues(version, commit, date).Set(1)
}
