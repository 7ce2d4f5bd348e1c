package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/presentation/tui"
	"github.com/aretw0/intake/pkg/domain"
)

// DefaultWatchInterval is how often RunWatch polls the store.
const DefaultWatchInterval = 500 * time.Millisecond

// RunWatch follows a wizard driven elsewhere (HTTP, MCP, another terminal)
// and redraws its current step whenever the stored state changes. It returns
// nil once the wizard is submitted or discarded.
func RunWatch(ctx context.Context, svc *intake.Service, sessionID string, out io.Writer, render tui.Renderer, interval time.Duration, logger *slog.Logger) error {
	if render == nil {
		render = tui.Plain
	}
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var seen time.Time
	for {
		state, err := svc.Load(ctx, sessionID)
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			if seen.IsZero() {
				return err
			}
			printSystemMessage(out, "Wizard '%s' was discarded.", sessionID)
			return nil
		case err != nil:
			return err
		}

		if !state.UpdatedAt.Equal(seen) {
			seen = state.UpdatedAt
			logger.Debug("state changed", "session_id", sessionID, "step", state.CurrentStep)
			view, err := svc.Render(state)
			if err != nil {
				return err
			}
			md, err := render(tui.ViewMarkdown(view))
			if err != nil {
				return err
			}
			if _, err := io.WriteString(out, md); err != nil {
				return err
			}
			if state.Submission == domain.SubmissionSucceeded {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
