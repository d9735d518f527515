package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codebrainhq/codebrain/internal/discovery"
	"github.com/codebrainhq/codebrain/internal/maintain"
	mcpserver "github.com/codebrainhq/codebrain/internal/mcp"
)

var (
	serveHTTP bool
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio or HTTP",
	Long: `Serves the search_brain, list_repos, brain_status, and check_repo tools
over the Model Context Protocol.

By default the server speaks stdio for local MCP clients, with a health
endpoint in the background. With --http it serves Streamable HTTP at /mcp
for remote clients.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveHTTP, "http", false, "serve MCP over HTTP instead of stdio")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "HTTP listen port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Cancel on SIGTERM/SIGINT so stdio clients disconnect cleanly.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	a, err := loadApp()
	if err != nil {
		return err
	}

	if err := a.connectStore(); err != nil {
		return err
	}
	defer a.store.Close()

	embedder, err := a.newEmbedder()
	if err != nil {
		return fmt.Errorf("create embedder: %w", err)
	}

	// The GitHub client is optional: without it check_repo degrades to
	// reporting stored provenance only.
	var remote mcpserver.RemoteResolver
	if ghClient, err := discovery.NewClient(ctx); err == nil {
		remote = ghClient
	} else {
		a.logger.Warn("GitHub client unavailable, check_repo degraded", "error", err)
	}

	server := mcpserver.NewServer(&mcpserver.Config{
		Store:    a.store,
		Embedder: embedder,
		Maintain: maintain.NewService(a.store, a.logger),
		Remote:   remote,
		Profiles: a.profiles,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/", mcpserver.NewLandingHandler())
	mux.HandleFunc("/health", mcpserver.NewHealthHandler(a.store))
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(server, nil))

	addr := "0.0.0.0:" + servePort

	if serveHTTP {
		a.logger.Info("starting HTTP server", "addr", addr)
		return http.ListenAndServe(addr, mux)
	}

	// Stdio mode keeps the health endpoint alive in the background.
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			a.logger.Error("health server error", "error", err)
		}
	}()

	a.logger.Info("starting MCP server (stdio)")
	return server.Run(ctx)
}
