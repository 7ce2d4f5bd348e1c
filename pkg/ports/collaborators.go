package ports

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// NotifyKind classifies a user-facing notification.
type NotifyKind string

const (
	NotifySuccess NotifyKind = "success"
	NotifyError   NotifyKind = "error"
)

// Notifier delivers user feedback. Delivery failures are the notifier's concern.
type Notifier interface {
	Notify(ctx context.Context, kind NotifyKind, message string)
}

// Translator looks up display text. A missing key returns the key itself.
type Translator interface {
	Translate(locale, key string) string
}

// Host receives the outcome of a wizard. Each callback fires at most once per session.
type Host interface {
	OnCreated(ctx context.Context, sessionID string, project *domain.Project)
	OnCancel(ctx context.Context, sessionID string)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, NotifyKind, string) {}

// KeyTranslator returns keys unchanged.
type KeyTranslator struct{}

func (KeyTranslator) Translate(_, key string) string { return key }

// HostFuncs adapts plain functions to Host. Nil functions are skipped.
type HostFuncs struct {
	Created  func(ctx context.Context, sessionID string, project *domain.Project)
	Canceled func(ctx context.Context, sessionID string)
}

func (h HostFuncs) OnCreated(ctx context.Context, sessionID string, project *domain.Project) {
	if h.Created != nil {
		h.Created(ctx, sessionID, project)
	}
}

func (h HostFuncs) OnCancel(ctx context.Context, sessionID string) {
	if h.Canceled != nil {
		h.Canceled(ctx, sessionID)
	}
}
