package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sooryaraj/folio/internal/content"
	"github.com/sooryaraj/folio/internal/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Serve the portfolio",
	Long: `Serve the portfolio page, the contact form endpoint and the assets
directory. In the development environment the page reloads itself when the
content file or an asset changes.

Examples:
  folio serve                         # http://localhost:8080
  folio serve -p 3000 --content site.yml
  folio serve --env production --host 0.0.0.0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().AddFlagSet(serverFlagSet())
	serveCmd.Flags().AddFlagSet(siteFlagSet())
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, merge(serverBindings, siteBindings))
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	store, err := content.NewStore(cfg.Site.Content, logger)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}

	srv, err := server.New(cfg, store, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s at http://%s\n", store.Site().Name, cfg.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
