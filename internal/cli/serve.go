package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	deperrors "github.com/matzehuels/depsize/pkg/errors"
	"github.com/matzehuels/depsize/pkg/observability"
	"github.com/matzehuels/depsize/pkg/pipeline"
)

const (
	defaultAddr     = "127.0.0.1:8080"
	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the serve command for viewing the graph in a browser.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags generateFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dependency graph over HTTP",
		Long: `Serve the dependency graph over HTTP.

Every request to / measures the environment again and renders a fresh page
in memory; nothing is written to disk. /healthz answers "ok" for health checks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			opts.Logger = c.Logger
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), addr, opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	flags.register(cmd)

	return cmd
}

// runServe serves the graph page until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string, opts pipeline.Options) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newServeRouter(opts, c.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	printInfo(c.status, "Serving dependency graph on %s", StyleLink.Render("http://"+addr))
	printDetail(c.status, "Press Ctrl+C to stop")

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	}
}

// newServeRouter builds the HTTP routes for the preview server. Each page
// request runs the pipeline with the request-scoped logger, so its log lines
// carry the request ID.
func newServeRouter(opts pipeline.Options, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(observeRequests(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		l := loggerFromContext(req.Context())
		reqOpts := opts
		reqOpts.Logger = l

		result, page, err := pipeline.NewRunner(l).Generate(req.Context(), reqOpts)
		if err != nil {
			l.Error("render failed", "err", err)
			http.Error(w, deperrors.UserMessage(err), http.StatusInternalServerError)
			return
		}
		l.Debug("rendered graph", "nodes", result.Stats.NodeCount, "bytes", len(page))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})

	return r
}

// observeRequests attaches a request-scoped logger to the context, logs
// each response and reports it to the HTTP observability hooks.
func observeRequests(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			hooks := observability.HTTP()
			hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

			l := logger.With("request_id", middleware.GetReqID(r.Context()))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), l)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
			l.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", elapsed)
		})
	}
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a copy of ctx carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
