// Package cli implements the abacus command-line interface.
// Implements: prd007-abacus-cli (R1: Root command structure, R2: Global flags,
//             R4: Exit codes);
//             rel01.1-uc003-configuration-loading (F1, F2).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes (prd007-abacus-cli R4).
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	logDir    string
}

var flags rootFlags

// NewRootCmd creates the top-level "abacus" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "abacus",
		Short: "A two-mode integer calculator service",
		Long: "Abacus serves an integer calculator over HTTP with an independent\n" +
			"mode and a stack mode, recording every calculation on relational\n" +
			"and document tapes.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	// Global persistent flags (prd007-abacus-cli R2).
	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .abacus-db)")
	root.PersistentFlags().StringVar(&flags.logDir, "log-dir", "", "log directory (default: logs)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newServeCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}

// exitError prints the error to stderr and exits with the given code.
func exitError(cmd *cobra.Command, code int, msg string) error {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
	return nil // unreachable
}
