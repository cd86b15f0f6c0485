// Package metrics exposes the modem's frame and error counters as
// Prometheus collectors, served over HTTP the same way the rest of the
// example pack's services expose theirs.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Modem is the set of modem counters and gauges; callers update them
// directly, so this package never imports internal/modem, keeping the
// dependency one-directional. Each Modem owns its own registry rather than registering
// on the global default one, so constructing more than one (as happens
// across independent tests in the same process) never collides.
type Modem struct {
	FramesReceived   prometheus.Counter
	FramesSent       prometheus.Counter
	RXFIFOOverruns   prometheus.Counter
	BitStuffEvents   prometheus.Counter
	EscapedBytesRX   prometheus.Counter
	CurrentlySending prometheus.Gauge

	registry *prometheus.Registry
}

// NewModem registers and returns the modem counter set on a fresh registry.
func NewModem() *Modem {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Modem{
		registry: reg,
		FramesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "afsk1200",
			Subsystem: "rx",
			Name:      "frames_total",
			Help:      "Total AX.25 frames delivered to the RX queue.",
		}),
		FramesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "afsk1200",
			Subsystem: "tx",
			Name:      "frames_total",
			Help:      "Total AX.25 frames queued for transmission.",
		}),
		RXFIFOOverruns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "afsk1200",
			Subsystem: "rx",
			Name:      "fifo_overruns_total",
			Help:      "Total times a decoded byte was dropped because the RX queue was full.",
		}),
		BitStuffEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "afsk1200",
			Subsystem: "tx",
			Name:      "bit_stuff_total",
			Help:      "Total stuffed zero bits inserted into the transmitted stream.",
		}),
		EscapedBytesRX: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "afsk1200",
			Subsystem: "rx",
			Name:      "escaped_bytes_total",
			Help:      "Total reserved bytes unescaped from the received stream.",
		}),
		CurrentlySending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "afsk1200",
			Subsystem: "tx",
			Name:      "sending",
			Help:      "1 while the DAC interrupt is actively producing samples, 0 otherwise.",
		}),
	}
}

// Registry returns the registry this Modem's collectors were registered on,
// for wiring into a Server.
func (m *Modem) Registry() *prometheus.Registry {
	return m.registry
}

// Server is the HTTP listener exposing a registry's collectors.
type Server struct {
	logger *logrus.Logger
	http   *http.Server
}

// NewServer builds a metrics Server listening on addr, serving registry's
// collectors at path (e.g. "/metrics").
func NewServer(logger *logrus.Logger, addr, path string, registry *prometheus.Registry) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return &Server{
		logger: logger,
		http:   &http.Server{Addr: addr, Handler: mux},
	}
}

// Start begins serving in the background. It returns as soon as
// ListenAndServe has been launched on a goroutine, which may be before the
// listener accepts connections; the caller should call Shutdown to stop it.
func (s *Server) Start() {
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("metrics server stopped unexpectedly")
		}
	}()
	s.logger.WithField("addr", s.http.Addr).Info("metrics server listening")
}

// Shutdown gracefully stops the metrics server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	return nil
}
