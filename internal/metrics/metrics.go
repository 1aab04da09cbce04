// Package metrics exposes orrery counters over Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orrery"

// Collector records simulation and panel activity. A nil *Collector is valid
// and records nothing.
type Collector struct {
	registry *prometheus.Registry

	ticks            prometheus.Counter
	speed            prometheus.Gauge
	bodies           *prometheus.GaugeVec
	actions          *prometheus.CounterVec
	frameDuration    prometheus.Histogram
	assistantReqs    *prometheus.CounterVec
	assistantLatency prometheus.Histogram
	streamClients    prometheus.Gauge
	streamDropped    prometheus.Counter
	dataLoad         *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	m := &Collector{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Integrator steps run",
		}),
		speed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "speed_multiplier",
			Help:      "Current signed speed multiplier",
		}),
		bodies: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "bodies",
				Help:      "Registered bodies by kind",
			},
			[]string{"kind"},
		),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transport_actions_total",
				Help:      "Transport actions applied",
			},
			[]string{"action"},
		),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Time spent stepping and publishing one frame",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025},
		}),
		assistantReqs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "assistant_requests_total",
				Help:      "Assistant prompts by outcome",
			},
			[]string{"result"},
		),
		assistantLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assistant_request_duration_seconds",
			Help:      "Assistant round-trip time",
		}),
		streamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_clients",
			Help:      "Connected frame stream clients",
		}),
		streamDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_frames_dropped_total",
			Help:      "Frames skipped for slow stream clients",
		}),
		dataLoad: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "planet_data_loads_total",
				Help:      "Planet data load attempts by outcome",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		m.ticks,
		m.speed,
		m.bodies,
		m.actions,
		m.frameDuration,
		m.assistantReqs,
		m.assistantLatency,
		m.streamClients,
		m.streamDropped,
		m.dataLoad,
	)

	return m
}

// Registry returns the registry the collector's metrics live in.
func (m *Collector) Registry() *prometheus.Registry {
	return m.registry
}

// RecordTick counts one integrator step and its wall time.
func (m *Collector) RecordTick(speed float64, d time.Duration) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	m.speed.Set(speed)
	m.frameDuration.Observe(d.Seconds())
}

// RecordAction counts a transport action and the speed it produced.
func (m *Collector) RecordAction(action string, speed float64) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(action).Inc()
	m.speed.Set(speed)
}

// SetBodies records how many bodies of a kind are registered.
func (m *Collector) SetBodies(kind string, n int) {
	if m == nil {
		return
	}
	m.bodies.WithLabelValues(kind).Set(float64(n))
}

// RecordAssistant counts one assistant prompt. result is "ok", "cached" or
// "error".
func (m *Collector) RecordAssistant(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.assistantReqs.WithLabelValues(result).Inc()
	if result != "cached" {
		m.assistantLatency.Observe(d.Seconds())
	}
}

// SetStreamClients records the number of connected stream clients.
func (m *Collector) SetStreamClients(n int) {
	if m == nil {
		return
	}
	m.streamClients.Set(float64(n))
}

// RecordStreamDrop counts a frame skipped for a slow client.
func (m *Collector) RecordStreamDrop() {
	if m == nil {
		return
	}
	m.streamDropped.Inc()
}

// RecordDataLoad counts a planet data load attempt.
func (m *Collector) RecordDataLoad(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.dataLoad.WithLabelValues(result).Inc()
}

// Handler returns the HTTP handler exposing the collector's registry.
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes the metrics at path on addr until ctx is cancelled.
func (m *Collector) Serve(ctx context.Context, addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}
