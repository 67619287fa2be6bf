package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/smallest-ai/kb-mcp-server/internal/config"
	"github.com/smallest-ai/kb-mcp-server/internal/logging"
	"github.com/smallest-ai/kb-mcp-server/internal/mcp"
)

func main() {
	root := &cobra.Command{
		Use:           "mcp-server",
		Short:         "Smallest.ai knowledge base MCP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.PersistentFlags().String(config.KeyBaseURL, "", "Knowledge base API base URL (env BASE_URL)")
	root.PersistentFlags().String(config.KeyAPIKey, "", "Knowledge base API key (env API_KEY)")
	root.PersistentFlags().String(config.KeyLogLevel, "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String(config.KeyTransport, config.TransportStdio, "Transport: stdio or http")
	root.PersistentFlags().String(config.KeyHTTPAddr, "0.0.0.0:8000", "Listen address for the http transport")
	root.PersistentFlags().String(config.KeyHTTPEndpoint, "/mcp", "Endpoint path for the http transport")

	config.Init(root)

	if err := root.Execute(); err != nil {
		log.Fatalf("mcp-server: %v", err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.LevelLogger(config.LogLevel()))

	upstream, err := config.LoadUpstream()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	srv, err := mcp.New(mcp.DefaultConfig(upstream, nil, logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch transport := config.Transport(); transport {
	case config.TransportStdio:
		err := srv.ServeStdio(ctx, os.Stdin, os.Stdout)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
			return err
		}
		logger.Info("stdio session closed")
		return nil
	case config.TransportHTTP:
		return serveHTTP(ctx, srv, logger)
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", transport, config.TransportStdio, config.TransportHTTP)
	}
}

func serveHTTP(ctx context.Context, srv *mcp.Server, logger logging.Logger) error {
	addr := config.HTTPAddr()
	httpServer := &http.Server{
		Addr: addr,
		Handler: srv.HTTPHandler(
			mcpserver.WithEndpointPath(config.HTTPEndpoint()),
			mcpserver.WithStateLess(true),
		),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("MCP server listening", "addr", addr, "endpoint", config.HTTPEndpoint())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
