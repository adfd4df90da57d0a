package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name      string
		namespace string
		wantErr   error
	}{
		{name: "default namespace"},
		{name: "custom namespace", namespace: "promptflow_tools"},
		{name: "invalid namespace", namespace: "bad-name", wantErr: ErrInvalidNamespace},
		{name: "leading digit", namespace: "1abc", wantErr: ErrInvalidNamespace},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m, err := New(Config{Registerer: prometheus.NewRegistry(), Namespace: tc.namespace})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if err == nil && m == nil {
				t.Fatalf("expected metrics instance")
			}
		})
	}
}

func TestNew_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	if _, err := New(Config{Registerer: reg}); err != nil {
		t.Fatalf("first New returned error: %v", err)
	}
	if _, err := New(Config{Registerer: reg}); !errors.Is(err, ErrRegister) {
		t.Fatalf("expected ErrRegister, got %v", err)
	}
}

func TestObserveLookup(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := New(Config{Registerer: reg})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	m.ObserveLookup(OutcomeFound, 20*time.Millisecond, 1)
	m.ObserveLookup(OutcomeEmpty, 10*time.Millisecond, 0)
	m.ObserveLookup(OutcomeFailed, 5*time.Millisecond, 0)
	m.ObserveLookup(OutcomeInvalid, 0, 0)

	for outcome, want := range map[string]float64{
		OutcomeFound:   1,
		OutcomeEmpty:   1,
		OutcomeFailed:  1,
		OutcomeInvalid: 1,
	} {
		if got := testutil.ToFloat64(m.Lookups.WithLabelValues(outcome)); got != want {
			t.Fatalf("lookups{outcome=%q} = %v, want %v", outcome, got, want)
		}
	}

	if got := testutil.CollectAndCount(m.Duration); got != 1 {
		t.Fatalf("expected 1 duration series, got %d", got)
	}

	m.SetBuildInfo("v1.0.0", "abc123", "2026-10-18")
	if got := testutil.ToFloat64(m.BuildInfo.WithLabelValues("v1.0.0", "abc123", "2026-10-18")); got != 1 {
		t.Fatalf("build info = %v, want 1", got)
	}
}

func TestNilMetrics(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveLookup(OutcomeFound, time.Second, 3)
	m.SetBuildInfo("dev", "none", "unknown")
}
