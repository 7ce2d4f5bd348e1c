package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/intake/pkg/domain"
)

// LoggingHooks writes one structured line per event.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_enter", "session_id", e.SessionID, "step", e.Step)
		},
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_leave", "session_id", e.SessionID, "step", e.Step)
		},
		OnFieldChange: func(ctx context.Context, e *domain.FieldEvent) {
			logger.DebugContext(ctx, "field_change", "session_id", e.SessionID, "path", e.Path, "toggle", e.Toggle)
		},
		OnSubmit: func(ctx context.Context, e *domain.SubmitEvent) {
			logger.InfoContext(ctx, "submit", "session_id", e.SessionID, "generation", e.Generation)
		},
		OnSubmitResult: func(ctx context.Context, e *domain.SubmitEvent) {
			level := slog.LevelInfo
			if e.IsError {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "submit_result",
				"session_id", e.SessionID,
				"generation", e.Generation,
				"outcome", Outcome(e),
				"project_id", e.ProjectID,
				"duration", e.Duration,
			)
		},
		OnCancel: func(ctx context.Context, e *domain.EventBase) {
			logger.InfoContext(ctx, "cancel", "session_id", e.SessionID)
		},
	}
}
