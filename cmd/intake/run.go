package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/intake/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fill in a project intake in the terminal",
	Long: `Starts an interactive wizard. Sessions are saved as they change, so an
interrupted wizard resumes where it stopped when run again with --session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{Config: cfg}
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.UserID, _ = cmd.Flags().GetString("user")
		opts.Layout, _ = cmd.Flags().GetString("layout")
		opts.Locale, _ = cmd.Flags().GetString("locale")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.Plain, _ = cmd.Flags().GetBool("plain")
		if cmd.Flags().Changed("db") {
			opts.Config.DBPath, _ = cmd.Flags().GetString("db")
		}
		if opts.Locale == "" {
			opts.Locale = cfg.Locale
		}
		return cli.Execute(opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", "", "Session ID to start or resume (generated when empty)")
	runCmd.Flags().StringP("user", "u", "local", "Client the project will belong to")
	runCmd.Flags().StringP("layout", "l", "", "Step layout: classic or detailed")
	runCmd.Flags().String("locale", "", "Locale for titles and labels (env INTAKE_LOCALE)")
	runCmd.Flags().String("db", "", "SQLite file for created projects (default in memory)")
	runCmd.Flags().Bool("fresh", false, "Discard the saved session before starting")
	runCmd.Flags().Bool("debug", false, "Log engine events to Stderr")
	runCmd.Flags().Bool("plain", false, "Print raw markdown instead of styled output")
}
