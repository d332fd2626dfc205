package notify

import (
	"github.com/getsentry/sentry-go"
)

// Sentry reports error notices to Sentry and forwards every notice to next
type Sentry struct {
	hub  *sentry.Hub
	next Notifier
}

// NewSentry wraps next. A nil hub falls back to the current hub.
func NewSentry(hub *sentry.Hub, next Notifier) *Sentry {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return &Sentry{hub: hub, next: next}
}

// Notify captures error notices and forwards n
func (s *Sentry) Notify(n Notice) {
	if n.Level == LevelError && n.Err != nil {
		s.hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("operation", n.Operation)
			scope.SetExtra("notice", n.Message)
			s.hub.CaptureException(n.Err)
		})
	}
	if s.next != nil {
		s.next.Notify(n)
	}
}
