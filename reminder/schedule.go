package reminder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Watch runs job on the cron schedule spec (e.g. "0 9 * * *" for every day at
// 9am) until ctx is done. It waits for a running job to finish before
// returning.
func Watch(ctx context.Context, spec string, logger *slog.Logger, job func(context.Context) error) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := job(ctx); err != nil {
			logger.Error("reminder job failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	logger.Info("watching for repayments", "schedule", spec)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
