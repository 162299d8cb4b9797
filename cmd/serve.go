package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/masnyjimmy/rentdocs/catalog"
	"github.com/masnyjimmy/rentdocs/compilation"
	"github.com/masnyjimmy/rentdocs/config"
	"github.com/masnyjimmy/rentdocs/loader"
	"github.com/masnyjimmy/rentdocs/logging"
	"github.com/masnyjimmy/rentdocs/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the API documentation with Swagger UI",
	Long: `Serve publishes the compiled document with Swagger UI. When --input is
set the file is watched and open pages reload after every successful
recompilation; a broken edit keeps the last good document online.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		configFile, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(config.New(), cmd.Flags(), configFile)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	config.RegisterFlags(serveCmd.Flags())
	serveCmd.MarkFlagFilename(config.KeyInput, "yaml", "yml")
}

// server is the documentation server built from a configuration. watcher is
// nil when serving the embedded catalog.
type server struct {
	http    *http.Server
	docs    *swagger.Swagger
	watcher *swagger.Watcher
}

func newServer(ctx context.Context, cfg config.Config) (*server, error) {
	doc, err := readDocument(cfg.Input)
	if err != nil {
		return nil, err
	}

	var (
		registerer prometheus.Registerer
		gatherer   prometheus.Gatherer
	)
	if cfg.Metrics {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		registerer, gatherer = registry, registry
	}

	docs, err := swagger.New(doc, swagger.Options{
		DebounceTime: cfg.Debounce,
		BaseUrl:      cfg.BaseUrl,
		Logger:       logging.WithSubsystem(logger, "swagger"),
		Registerer:   registerer,
	})
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}

	out := &server{docs: docs}

	if cfg.Input == "" {
		catalog.Register()
	} else {
		watcher, err := docs.WatchFile(cfg.Input)
		if err != nil {
			logger.Warn("unable to watch for file updates", "input", cfg.Input, "error", err)
		} else {
			out.watcher = watcher
			go docs.Follow(ctx, watcher, func() (*compilation.Document, error) {
				return loader.Load(cfg.Input)
			})
		}
	}

	out.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           docs.Router(swagger.RouterOptions{CorsOrigins: cfg.CorsOrigins, Gatherer: gatherer}),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	return out, nil
}

func (s *server) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

func serve(ctx context.Context, cfg config.Config) error {
	srv, err := newServer(ctx, cfg)
	if err != nil {
		return err
	}
	defer srv.Close()

	logger.Info("serving api documentation", "addr", cfg.Addr, "base_url", cfg.BaseUrl, "input", sourceName(cfg.Input))
	return run(ctx, srv.http)
}

// run serves until ctx is done, then shuts down gracefully.
func run(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
