package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/intake/internal/config"
	"github.com/aretw0/intake/internal/logging"
)

// cfg is loaded from the environment before any command runs; flags override it.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Intake is a multi-step project intake wizard",
	Long: `Intake collects what a client wants built (project type, brand, content,
budget, contact) step by step and turns the answers into a project record.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		flags := cmd.Flags()
		if flags.Changed("store") {
			cfg.Store, _ = flags.GetString("store")
		}
		if flags.Changed("store-dir") {
			cfg.StoreDir, _ = flags.GetString("store-dir")
		}
		if flags.Changed("log-level") {
			cfg.LogLevel, _ = flags.GetString("log-level")
		}
		return cfg.Validate()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("store", "", "Session store: memory, file or redis (env INTAKE_STORE)")
	rootCmd.PersistentFlags().String("store-dir", "", "Directory of the file session store (env INTAKE_STORE_DIR)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (env INTAKE_LOG_LEVEL)")
}

// newLogger builds the process logger from cfg. Logs always go to Stderr.
func newLogger() *slog.Logger {
	return logging.NewWithFormat(os.Stderr, cfg.Level(), cfg.LogFormat)
}
