package worker

import (
	"context"
	"errors"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
)

// SentryMiddleware wraps asynq job handlers with Sentry error capture.
// Panics are reported and turned into task errors.
func SentryMiddleware(h asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) (err error) {
		taskID, _ := asynq.GetTaskID(ctx)
		queueName, _ := asynq.GetQueueName(ctx)
		retryCount, _ := asynq.GetRetryCount(ctx)

		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetTag("task_type", t.Type())
		hub.Scope().SetTag("task_id", taskID)
		hub.Scope().SetTag("queue", queueName)
		hub.Scope().SetTag("retry_count", strconv.Itoa(retryCount))
		if userID := payloadUserID(t); userID != "" {
			hub.Scope().SetUser(sentry.User{ID: userID})
		}

		ctx = sentry.SetHubOnContext(ctx, hub)

		defer func() {
			if r := recover(); r != nil {
				hub.Recover(r)
				err = errors.Join(errors.New("task panicked"), asynq.SkipRetry)
			}
		}()

		err = h.ProcessTask(ctx, t)
		if err != nil && !errors.Is(err, context.Canceled) {
			hub.CaptureException(err)
		}

		return err
	})
}
