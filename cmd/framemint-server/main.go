package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pendergraft/framemint/internal/chains"
	"github.com/pendergraft/framemint/internal/config"
	"github.com/pendergraft/framemint/internal/mint"
	"github.com/pendergraft/framemint/internal/observability/metrics"
	"github.com/pendergraft/framemint/internal/recipient"
	"github.com/pendergraft/framemint/internal/server"
	"github.com/pendergraft/framemint/internal/views"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "framemint-server",
		Short:         "Framemint server - mint NFTs from a Farcaster frame",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Default behavior (no subcommand) is to serve
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe()
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newRenderCmd())

	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func newResolveCmd() *cobra.Command {
	var button int

	cmd := &cobra.Command{
		Use:   "resolve <input>",
		Short: "Show the mint request an input would produce, without minting",
		Long: `Resolve a recipient the way the frame does and print the Crossmint
request that would be sent. Names are looked up through the configured
EVM and Solana RPC endpoints.

EXAMPLES:
  framemint-server resolve alice@example.com
  framemint-server resolve vitalik.eth --button 2
  framemint-server resolve bonfida.sol --button 4
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), cmd.OutOrStdout(), args[0], button)
		},
	}

	cmd.Flags().IntVarP(&button, "button", "b", 1, "clicked button: 1 Base, 2 Optimism, 3 Polygon, 4 Solana")

	return cmd
}

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "render <view>",
		Short:     "Print the frame HTML of a view",
		ValidArgs: viewNames(),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.OutOrStdout(), views.Name(args[0]))
		},
	}
}

func viewNames() []string {
	names := make([]string, len(views.Names))
	for i, n := range views.Names {
		names[i] = string(n)
	}
	return names
}

// Resolve command

func runResolve(ctx context.Context, out io.Writer, input string, button int) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	collab, err := server.NewCollaborators(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing clients: %w", err)
	}

	resolved, err := recipient.NewResolver(collab.ENS, collab.SNS).Resolve(ctx, input)
	if err != nil {
		return err
	}
	chain, err := chains.FromButton(button)
	if err != nil {
		return err
	}
	if err := chains.CheckRecipient(resolved.Kind, chain); err != nil {
		return err
	}
	req, err := mint.NewBuilder(cfg.Crossmint.Collections).Build(resolved, chain)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"kind":         resolved.Kind.String(),
		"address":      resolved.Address,
		"chain":        chain,
		"collectionId": req.CollectionID,
		"body":         req,
	})
}

// Render command

func runRender(out io.Writer, name views.Name) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	catalog, err := server.NewCatalog(cfg)
	if err != nil {
		return err
	}
	frame, err := catalog.Get(name)
	if err != nil {
		return err
	}
	return views.Render(out, frame)
}

// Server command

func runServe() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logger := setupLogger(cfg)
	logger.Info("starting framemint-server",
		"version", version,
		"crossmint_env", cfg.Crossmint.Env,
		"public_url", cfg.Frame.PublicURL,
	)

	metrics.Init(cfg.Metrics.Enabled, "framemint")

	for _, c := range chains.All() {
		col, ok := cfg.Crossmint.Collections[c]
		if !ok || col.ID == "" || col.TemplateID == "" {
			logger.Warn("chain has no complete collection; mints on it will fail", "chain", c)
		}
	}

	collab, err := server.NewCollaborators(context.Background(), cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing clients: %w", err)
	}

	srv, err := server.New(cfg, collab, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer srv.Close()

	// Create HTTP server with configurable timeouts
	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      srv.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig)
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
