package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/config"
	"github.com/aretw0/intake/internal/presentation/tui"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Config    config.Config
	SessionID string
	UserID    string
	Layout    string
	Locale    string
	Fresh     bool
	Debug     bool
	Plain     bool
}

// Execute runs the terminal wizard on Stdin/Stdout.
func Execute(opts RunOptions) error {
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	plain := opts.Plain || !isTerminal(os.Stdout)
	in := NewInterruptibleReader(os.Stdin, sigCtx.Done())
	err := run(sigCtx, opts, in, os.Stdout, plain)
	if sigCtx.Err() != nil && err == nil {
		err = sigCtx.Err()
	}
	return handleExecutionError(err)
}

func run(ctx *SignalContext, opts RunOptions, in io.Reader, out io.Writer, plain bool) error {
	logger := createLogger(opts.Debug)

	// A terminal wizard is meant to be resumed, so sessions go to disk
	// unless a shared store is configured.
	cfg := opts.Config
	if cfg.Store == config.StoreMemory {
		cfg.Store = config.StoreFile
	}

	render := tui.Plain
	if !plain {
		tui.PrintBanner(out, strings.TrimSpace(intake.Version))
		render = tui.NewRenderer()
	}

	svc, closeService, err := NewService(cfg, logger, intake.WithNotifier(terminalNotifier{out: out}))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeService(); cerr != nil {
			logger.Warn("failed to close stores", "err", cerr)
		}
	}()

	if opts.Fresh && opts.SessionID != "" {
		if err := svc.Sessions().Delete(ctx, opts.SessionID); err != nil {
			logger.Debug("nothing to reset", "session_id", opts.SessionID, "err", err)
		}
	}

	state, err := svc.Start(ctx, opts.SessionID, opts.UserID, opts.Layout, opts.Locale)
	if err != nil {
		return fmt.Errorf("failed to start wizard: %w", err)
	}
	logger.Info("Session active", "session_id", state.SessionID, "step", state.CurrentStep)
	printSystemMessage(out, "Session '%s' at step %d/%d. Type help for commands.", state.SessionID, state.CurrentStep, state.TotalSteps)

	sess := NewSession(svc, state.SessionID, out, render, logger)
	sess.MaxInput = cfg.MaxInputSize
	err = sess.Loop(ctx, in)
	if ctx.Err() != nil && err == nil {
		err = ctx.Err()
	}
	logCompletion(out, state.SessionID, err, ctx.Signal())
	return err
}
