package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"gh300site/internal/config"
	"gh300site/internal/logging"
	"gh300site/internal/otel"
	"gh300site/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gh300site",
		Short:         "Demo site with a home page, a project info page and static assets",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	})

	root.AddCommand(&cobra.Command{
		Use:       "render <page>",
		Short:     "Render a page (index or info) to stdout",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"index", "info"},
		RunE:      runRender,
	})

	return root
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logging.Stdout(cfg.Location())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Error("tracing_init_failed", err, nil)
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error("tracing_shutdown_failed", err, nil)
		}
	}()

	srv, err := server.New(cfg)
	if err != nil {
		log.Error("server_init_failed", err, nil)
		return err
	}

	if err := srv.Run(ctx); err != nil {
		log.Error("server_failed", err, nil)
		return err
	}
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	// stdout carries the page; logs go to stderr.
	srv, err := server.New(cfg, server.WithLogOutput(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	if err := srv.RenderPage(cmd.OutOrStdout(), args[0]); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}
	return nil
}
