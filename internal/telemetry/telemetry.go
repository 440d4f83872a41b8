// Package telemetry exposes runtime counters as Prometheus metrics. It
// implements the bridge and orchestrator observer interfaces.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DiNaSoR/Veil/pkg/hud"
)

// Namespace prefixes every metric name.
const Namespace = "veil"

// MetricsPath is where Serve exposes the metrics.
const MetricsPath = "/metrics"

// Telemetry wraps Prometheus metrics with its own registry.
type Telemetry struct {
	registry *prometheus.Registry

	CommandsSent      *prometheus.CounterVec
	ResponsesMatched  prometheus.Counter
	CommandsExpired   prometheus.Counter
	ResponseLatency   prometheus.Histogram
	HandlerFailures   *prometheus.CounterVec
	ComponentFailures *prometheus.CounterVec
	InboundLines      prometheus.Counter
	Toasts            *prometheus.CounterVec
	Components        prometheus.Gauge
	PendingCommands   prometheus.Gauge
	Visible           prometheus.Gauge
}

// New creates the metric set on a fresh registry.
func New() *Telemetry {
	reg := prometheus.NewRegistry()
	t := &Telemetry{
		registry: reg,
		CommandsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "bridge",
			Name: "commands_sent_total",
			Help: "Commands transmitted to the host",
		}, []string{"command"}),
		ResponsesMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "bridge",
			Name: "responses_matched_total",
			Help: "Inbound lines correlated to a pending command",
		}),
		CommandsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "bridge",
			Name: "commands_expired_total",
			Help: "Pending commands discarded after the response timeout",
		}),
		ResponseLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace, Subsystem: "bridge",
			Name:    "response_latency_seconds",
			Help:    "Age of a command when its response was matched",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		HandlerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "bridge",
			Name: "handler_failures_total",
			Help: "Pattern handlers that panicked",
		}, []string{"pattern"}),
		ComponentFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "hud",
			Name: "component_failures_total",
			Help: "Contained component errors and panics",
		}, []string{"phase"}),
		InboundLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "bridge",
			Name: "inbound_lines_total",
			Help: "Lines received from the host",
		}),
		Toasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "notify",
			Name: "toasts_total",
			Help: "Notifications raised",
		}, []string{"adapter", "style"}),
		Components: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace, Subsystem: "hud",
			Name: "components",
			Help: "Registered HUD components",
		}),
		PendingCommands: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace, Subsystem: "bridge",
			Name: "pending_commands",
			Help: "Commands awaiting a response",
		}),
		Visible: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace, Subsystem: "hud",
			Name: "visible",
			Help: "1 when the HUD is shown",
		}),
	}
	reg.MustRegister(
		t.CommandsSent, t.ResponsesMatched, t.CommandsExpired, t.ResponseLatency,
		t.HandlerFailures, t.ComponentFailures, t.InboundLines, t.Toasts,
		t.Components, t.PendingCommands, t.Visible,
	)
	return t
}

// Registry returns the underlying registry.
func (t *Telemetry) Registry() *prometheus.Registry { return t.registry }

// Handler returns an HTTP handler that serves Prometheus metrics.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

func (t *Telemetry) CommandSent(command string) {
	t.CommandsSent.WithLabelValues(command).Inc()
}

func (t *Telemetry) ResponseMatched(_ string, age time.Duration) {
	t.ResponsesMatched.Inc()
	t.ResponseLatency.Observe(age.Seconds())
}

func (t *Telemetry) CommandExpired(string, time.Duration) {
	t.CommandsExpired.Inc()
}

func (t *Telemetry) HandlerFailed(pattern string) {
	t.HandlerFailures.WithLabelValues(pattern).Inc()
}

func (t *Telemetry) ComponentFailed(_ string, phase hud.Phase) {
	t.ComponentFailures.WithLabelValues(string(phase)).Inc()
}

// LineReceived counts one inbound line.
func (t *Telemetry) LineReceived() { t.InboundLines.Inc() }

// ToastRaised counts one notification.
func (t *Telemetry) ToastRaised(adapterID, style string) {
	t.Toasts.WithLabelValues(adapterID, style).Inc()
}

// SetState records the per-tick gauges.
func (t *Telemetry) SetState(components, pending int, visible bool) {
	t.Components.Set(float64(components))
	t.PendingCommands.Set(float64(pending))
	v := 0.0
	if visible {
		v = 1
	}
	t.Visible.Set(v)
}

// Serve exposes MetricsPath on addr until ctx is done. It returns once the
// listener is bound, reporting the bound address; serving continues in the
// background.
func (t *Telemetry) Serve(ctx context.Context, addr string, logger *slog.Logger) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, t.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) && logger != nil {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	if logger != nil {
		logger.Info("serving metrics", "addr", ln.Addr().String(), "path", MetricsPath)
	}
	return ln.Addr().String(), nil
}
