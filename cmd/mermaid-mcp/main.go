package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/diagramkit/mermaid-mcp/internal/config"
	"github.com/diagramkit/mermaid-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 5 * time.Second

func main() {
	transport := pflag.String("transport", "stdio", "Transport to serve on: stdio or http")
	port := pflag.Int("port", 3001, "Port to listen on with the http transport")
	configPath := pflag.String("config", "", "Path to an optional YAML config file")
	showVersion := pflag.BoolP("version", "v", false, "Print version information and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Printf("mermaid-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
		log.WithField("logLevel", cfg.LogLevel).Warn("unknown log level, using info")
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, Version)

	log.WithFields(log.Fields{
		"name":      cfg.Name,
		"version":   Version,
		"transport": *transport,
	}).Info("starting MCP server")

	switch *transport {
	case "stdio":
		if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Fatal("server error")
		}
	case "http":
		if err := serveHTTP(ctx, srv, *port); err != nil {
			log.WithError(err).Fatal("server error")
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown transport %q (want stdio or http)\n", *transport)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// serveHTTP runs the streamable HTTP transport until ctx is canceled, then
// drains in-flight requests before returning.
func serveHTTP(ctx context.Context, srv *server.Server, port int) error {
	handler, err := srv.Handler()
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown did not complete cleanly")
		}
	}()

	log.WithField("addr", httpServer.Addr).Info("listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
