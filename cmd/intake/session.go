package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/cli"
	"github.com/aretw0/intake/internal/config"
	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/internal/presentation/graph"
	"github.com/aretw0/intake/internal/presentation/tui"
	"github.com/aretw0/intake/pkg/persistence/middleware"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage saved wizard sessions",
	Long: `List, inspect, follow and remove wizard sessions in the configured store
(.intake/sessions by default).`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all saved sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openSessions()
		if err != nil {
			return err
		}
		defer done()

		sessions, err := svc.Sessions().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No saved sessions found.")
			return nil
		}

		fmt.Fprintln(out, "Saved Sessions:")
		for _, id := range sessions {
			state, err := svc.Load(cmd.Context(), id)
			if err != nil {
				fmt.Fprintf(out, "- %s (unreadable: %v)\n", id, err)
				continue
			}
			fmt.Fprintf(out, "- %s  user=%s layout=%s step=%d/%d submission=%s\n",
				id, state.UserID, state.Layout, state.CurrentStep, state.TotalSteps, state.Submission)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]
		svc, done, err := openSessions()
		if err != nil {
			return err
		}
		defer done()

		state, err := svc.Load(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", sessionID, err)
		}

		if asGraph, _ := cmd.Flags().GetBool("graph"); asGraph {
			layout, err := svc.Layout(state.Layout)
			if err != nil {
				return err
			}
			overlay := &graph.Overlay{VisitedSteps: state.History, CurrentStep: state.CurrentStep}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(layout.Describe(), overlay))
			return nil
		}

		reveal, _ := cmd.Flags().GetBool("reveal")
		if cfg.MaskInspection && !reveal {
			if state, err = middleware.NewMasker(middleware.DefaultPIIPatterns).MaskState(state); err != nil {
				return err
			}
		}

		// Pretty print JSON
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling state: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args: func(cmd *cobra.Command, args []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openSessions()
		if err != nil {
			return err
		}
		defer done()

		if all, _ := cmd.Flags().GetBool("all"); all {
			if args, err = svc.Sessions().List(cmd.Context()); err != nil {
				return fmt.Errorf("error listing sessions: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		var errs []error
		for _, sessionID := range args {
			if err := svc.Sessions().Delete(cmd.Context(), sessionID); err != nil {
				errs = append(errs, fmt.Errorf("error removing '%s': %w", sessionID, err))
				continue
			}
			fmt.Fprintf(out, "Removed session '%s'\n", sessionID)
		}
		return errors.Join(errs...)
	},
}

var sessionWatchCmd = &cobra.Command{
	Use:   "watch <session-id>",
	Short: "Follow a session and redraw it as it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, done, err := openSessions()
		if err != nil {
			return err
		}
		defer done()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		interval, _ := cmd.Flags().GetDuration("interval")
		render := tui.Plain
		if plain, _ := cmd.Flags().GetBool("plain"); !plain {
			render = tui.NewRenderer()
		}
		err = cli.RunWatch(ctx, svc, args[0], cmd.OutOrStdout(), render, interval, logging.NewNop())
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	sessionCmd.AddCommand(sessionWatchCmd)

	sessionInspectCmd.Flags().Bool("reveal", false, "Show contact details unmasked")
	sessionInspectCmd.Flags().Bool("graph", false, "Print the step flow with the session's progress as Mermaid")
	sessionRmCmd.Flags().Bool("all", false, "Remove every saved session")
	sessionWatchCmd.Flags().Duration("interval", cli.DefaultWatchInterval, "How often to check for changes")
	sessionWatchCmd.Flags().Bool("plain", false, "Print raw markdown instead of styled output")
}

// openSessions builds a service over the configured store. A memory store
// would always be empty here, so it is replaced by the file store.
func openSessions() (*intake.Service, func(), error) {
	c := cfg
	if c.Store == config.StoreMemory {
		c.Store = config.StoreFile
	}
	svc, closeService, err := cli.NewService(c, logging.NewNop())
	if err != nil {
		return nil, nil, err
	}
	return svc, func() {
		if err := closeService(); err != nil {
			fmt.Fprintf(os.Stderr, "closing stores: %v\n", err)
		}
	}, nil
}
