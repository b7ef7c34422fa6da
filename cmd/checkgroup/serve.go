package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pthm/checkgroup"
	cgchi "github.com/pthm/checkgroup/adapters/chi"
	"github.com/pthm/checkgroup/internal/manifest"
	"github.com/pthm/checkgroup/internal/metrics"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the manifest's groups over HTTP",
	Long: `Starts an HTTP server with a page showing every group from the manifest.
Group interactions round-trip through HTMX, counters are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := loggerFor(cmd)
		if err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("manifest")
		port, _ := cmd.Flags().GetString("port")

		m, err := manifest.Load(path)
		if err != nil {
			return err
		}

		key, err := serveKey()
		if err != nil {
			return err
		}
		if os.Getenv("CHECKGROUP_KEY") == "" {
			logger.Warn("CHECKGROUP_KEY not set, using a random key; props will not survive a restart")
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           newServer(m, key, metrics.New(), logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting server", "addr", srv.Addr, "manifest", path, "groups", len(m.Groups))
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("killing server: %w", err)
				}
			}
			logger.Info("server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}

func serveKey() ([]byte, error) {
	if k := os.Getenv("CHECKGROUP_KEY"); k != "" {
		return []byte(k), nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}
	return key, nil
}

// newServer wires the manifest's components, the page listing them and the
// metrics endpoint onto one router.
func newServer(m *manifest.Manifest, key []byte, collector *metrics.Collector, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	reg := cgchi.Mount(r, cgchi.WithKey(key), cgchi.WithActionHook(func(rep checkgroup.ActionReport) {
		collector.Observe(rep)
		logger.Debug("group action",
			"group", rep.Group,
			"action", rep.Action,
			"valid", rep.Valid,
			"events", rep.Events,
		)
	}))
	reg.OnError = func(w http.ResponseWriter, req *http.Request, err error) {
		logger.Warn("group request failed",
			"path", req.URL.Path,
			"request_id", middleware.GetReqID(req.Context()),
			"error", err,
		)
		checkgroup.DefaultErrorHandler(w, req, err)
	}
	reg.Add(m.Components(logger)...)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		if err := checkgroup.Render(w, req, page(reg.Components())); err != nil {
			logger.Error("rendering page", "error", err)
		}
	})
	r.Handle("/metrics", collector.Handler())
	return r
}

func page(comps []*checkgroup.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>checkgroup</title>
<script src="https://unpkg.com/htmx.org@2.0.4"></script>
</head>
<body>
<main class="slds-form">
`); err != nil {
			return err
		}
		for _, c := range comps {
			if err := c.Render(c.Initial()).Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}
