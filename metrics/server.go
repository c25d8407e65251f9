package metrics

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Expvar metrics
	MessageReceivedCount = expvar.NewInt("messages_received")
	MessageSentCount     = expvar.NewInt("messages_sent")

	// Prometheus metrics with labels
	CommandTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roastbot_command_total",
			Help: "Total number of commands invoked by platform and command",
		},
		[]string{"platform", "command"},
	)

	CommandErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roastbot_command_errors",
			Help: "Total number of command failures by command and failure kind",
		},
		[]string{"command", "kind"},
	)

	CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roastbot_command_duration_seconds",
			Help:    "Duration of command execution in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	CompletionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roastbot_completion_total",
			Help: "Total number of completion calls by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	FallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roastbot_fallback_total",
			Help: "Total number of fallback selections by flavor and reason",
		},
		[]string{"flavor", "reason"},
	)
)

type Server struct {
	*http.Server
}

// SetupServer builds the metrics and health server. pprof is not exposed.
func SetupServer(addr string) *Server {
	if addr == "" {
		addr = ":6060"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewExpvarCollector(
			map[string]*prometheus.Desc{
				"messages_received": prometheus.NewDesc("roastbot_messages_received", "number of command messages received", nil, nil),
				"messages_sent":     prometheus.NewDesc("roastbot_messages_sent", "number of messages sent by the bot", nil, nil),
			},
		),
		CommandTotal,
		CommandErrors,
		CommandDuration,
		CompletionTotal,
		FallbackTotal,
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", healthzHandler)

	return &Server{&http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}}
}

// healthzHandler returns a simple health check response
func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Run serves until ctx is cancelled, then shuts the server down.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}
