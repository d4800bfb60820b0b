package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/theengineear/upper-doodle-sub000/compile"
	"github.com/theengineear/upper-doodle-sub000/config"
	"github.com/theengineear/upper-doodle-sub000/diagram"
	"github.com/theengineear/upper-doodle-sub000/export"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a compile endpoint over HTTP",
		Long: `Serve exposes POST /compile (diagram document in, serialized RDF out),
GET /healthz, and GET /metrics (Prometheus).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")

	return cmd
}

// serverMetrics holds the Prometheus instrumentation for the serve command.
type serverMetrics struct {
	registry        *prometheus.Registry
	compileTotal    *prometheus.CounterVec
	compileDuration prometheus.Histogram
}

func newServerMetrics() *serverMetrics {
	m := &serverMetrics{
		registry: prometheus.NewRegistry(),
		compileTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upper_doodle_compile_total",
			Help: "Number of compile requests by status.",
		}, []string{"status"}),
		compileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "upper_doodle_compile_duration_seconds",
			Help:    "Compile request duration.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(m.compileTotal, m.compileDuration)
	return m
}

func runServe(ctx context.Context, addr string) error {
	cfg, err := config.NewLoader(slog.Default()).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	metrics := newServerMetrics()

	mux := http.NewServeMux()
	mux.HandleFunc("/compile", compileHandler(cfg, metrics))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "version": Version})
	})
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Serving", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}

func compileHandler(cfg *config.Config, metrics *serverMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		start := time.Now()
		status := "ok"
		defer func() {
			metrics.compileTotal.WithLabelValues(status).Inc()
			metrics.compileDuration.Observe(time.Since(start).Seconds())
		}()

		body, err := io.ReadAll(r.Body)
		if err != nil {
			status = "error"
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		doc, err := diagram.Parse(body)
		if err != nil {
			status = "error"
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		domain := doc.Domain
		if domain == "" {
			domain = cfg.Domain
		}
		if domain == "" {
			status = "error"
			http.Error(w, "no domain declared in document or config", http.StatusBadRequest)
			return
		}

		prefixes := make(map[string]string, len(cfg.Prefixes)+len(doc.Prefixes))
		for name, ns := range cfg.Prefixes {
			prefixes[name] = ns
		}
		for name, ns := range doc.Prefixes {
			prefixes[name] = ns
		}

		format := export.FormatTurtle
		if name := r.URL.Query().Get("format"); name != "" {
			format, err = export.ParseFormat(name)
			if err != nil {
				status = "error"
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		result := compile.Generate(domain, prefixes, doc.Elements, "")
		output, err := export.Render(format, result.UsedPrefixes, result.NTriples)
		if err != nil {
			status = "error"
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		info, _ := export.GetFormatInfo(format)
		w.Header().Set("Content-Type", info.MIMEType)
		_, _ = io.WriteString(w, output)
	}
}
