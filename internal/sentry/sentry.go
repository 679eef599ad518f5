package sentry

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/socialchef/planner/internal/config"
)

// Init initializes Sentry from the service configuration.
// If the DSN is empty, Sentry initialization is skipped and nil is returned.
func Init(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}

	options := sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Env,
		ServerName:       cfg.ServiceName,
		Release:          cfg.ServiceVersion,
		AttachStacktrace: true,
		TracesSampleRate: 0.0, // tracing goes through OpenTelemetry
		BeforeSend:       scrubEvent,
	}

	if err := sentry.Init(options); err != nil {
		return fmt.Errorf("failed to initialize Sentry: %w", err)
	}

	return nil
}

// scrubEvent drops credentials that may have been attached to a request
func scrubEvent(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event.Request != nil {
		delete(event.Request.Headers, "Authorization")
		event.Request.Cookies = ""
		event.Request.Data = ""
	}
	return event
}

// Flush waits for all pending Sentry events to be sent.
// Call this during graceful shutdown.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

// Recover captures a panic and forwards it to Sentry.
// Should be used with defer in goroutines.
func Recover() {
	sentry.Recover()
}
