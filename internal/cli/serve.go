// Serve command for the abacus CLI.
// Implements: prd007-abacus-cli (R3.2: serve command);
//
//	rel01.0-uc001-independent-calculation (F1); rel01.1-uc002-dual-store-history (F1).
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/abacus/internal/docstore"
	"github.com/mesh-intelligence/abacus/internal/logging"
	"github.com/mesh-intelligence/abacus/internal/server"
	"github.com/mesh-intelligence/abacus/internal/sqlite"
	"github.com/mesh-intelligence/abacus/internal/tape"
	"github.com/mesh-intelligence/abacus/pkg/calc"
)

const (
	// storePingTimeout bounds the startup health probe of both tapes.
	storePingTimeout = 5 * time.Second

	// shutdownTimeout bounds the drain of in-flight requests on stop.
	shutdownTimeout = 10 * time.Second
)

var flagListen string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the calculator HTTP service",
		Long: "Open the relational and document tapes, then serve the calculator\n" +
			"API until interrupted. SIGINT and SIGTERM trigger a graceful stop.",
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().StringVar(&flagListen, "listen", "", "listen address (default: config listen_addr, then :8496)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(flagListen)
	if err != nil {
		return exitError(cmd, exitUserError, fmt.Sprintf("resolve configuration: %s", err))
	}

	logs, err := logging.Open(cfg.LogDir)
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("open log directory: %s", err))
	}
	defer logs.Close()

	rel, err := sqlite.Open(cfg.DataDir)
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("open relational tape: %s", err))
	}
	doc, err := docstore.Open(cfg.DataDir)
	if err != nil {
		rel.Close()
		return exitError(cmd, exitSysError, fmt.Sprintf("open document tape: %s", err))
	}
	store := tape.New(rel, doc, logs.Logger(logging.RequestLogger))
	defer store.Close()

	pingCtx, cancelPing := context.WithTimeout(cmd.Context(), storePingTimeout)
	err = store.Ping(pingCtx)
	cancelPing()
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("ping tapes: %s", err))
	}

	srv := server.New(cfg, calc.NewCalculator(), store, logs)
	if err := srv.Start(); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("start server: %s", err))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Block until a signal arrives or the serve goroutine dies on its own.
	select {
	case <-ctx.Done():
		stop()
	case <-srv.Dying():
	}

	logs.Logger(logging.RequestLogger).Info("Shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Stop(shutdownCtx); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("stop server: %s", err))
	}
	return nil
}
