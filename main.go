package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/application"
	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/domain"
	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/infrastructure"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to optional configuration file")
	flag.Parse()

	// All diagnostics go to stderr; stdout carries the protocol stream.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	config, err := domain.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "path", *configPath, "error", err)
		os.Exit(1)
	}

	// Credential resolution happens once, before the transport is started.
	// A configuration failure exits here and never reaches the client.
	identity, err := domain.ResolveCredentials(logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	httpClient := infrastructure.NewAuthenticatedClient(identity)
	client := infrastructure.NewBitbucketClient(config.Bitbucket.APIBaseURL, identity.Workspace, httpClient)

	router := application.NewRequestRouter(
		application.NewRepositoryHandler(client, config.Bitbucket.CloneHost),
		application.NewBranchHandler(client),
		application.NewPullRequestHandler(client),
		application.NewDeploymentHandler(client),
	)

	var transport domain.Transport
	switch config.Transport.Type {
	case "stdio":
		transport = domain.NewStdioTransport(logger)
	case "http":
		transport = domain.NewHTTPTransport(config.Transport.HTTP.Host, config.Transport.HTTP.Port, logger)
	default:
		logger.Error("invalid transport type", "type", config.Transport.Type)
		os.Exit(1)
	}

	server := application.NewServer(transport, router, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			errChan <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	logger.Info("bitbucket mcp server running",
		"transport", config.Transport.Type,
		"workspace", identity.Workspace)

	select {
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	case err := <-errChan:
		logger.Error("server error", "error", err)
		cancel()
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("error closing server", "error", closeErr)
		}
		os.Exit(1)
	}

	if err := server.Close(); err != nil {
		logger.Error("error during shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
