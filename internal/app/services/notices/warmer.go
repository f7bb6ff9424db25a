package notices

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sandol-project/kakao-bot-service/pkg/logger"
)

// Warmer refreshes the notice cache on a cron schedule so the first user
// of the day does not pay the upstream latency.
type Warmer struct {
	service       *Service
	schedule      string
	warmOnStartup bool
	cron          *cron.Cron
	log           *logger.Logger
}

// NewWarmer builds the warmer. schedule is a standard five-field cron
// expression, e.g. "*/10 * * * *".
func NewWarmer(service *Service, schedule string, warmOnStartup bool, log *logger.Logger) *Warmer {
	if log == nil {
		log = logger.NewDefault("notice-warmer")
	}
	return &Warmer{
		service:       service,
		schedule:      schedule,
		warmOnStartup: warmOnStartup,
		log:           log,
	}
}

// Name implements system.Service.
func (w *Warmer) Name() string { return "notice-cache-warmer" }

// Start validates the schedule, optionally warms immediately, and begins
// the cron loop.
func (w *Warmer) Start(ctx context.Context) error {
	w.cron = cron.New()
	_, err := w.cron.AddFunc(w.schedule, func() {
		runCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := w.service.Warm(runCtx); err != nil {
			w.log.WithError(err).Warn("scheduled notice warm failed")
		}
	})
	if err != nil {
		return err
	}

	if w.warmOnStartup {
		if err := w.service.Warm(ctx); err != nil {
			// Upstream being down at boot is not fatal; the cron loop
			// retries.
			w.log.WithError(err).Warn("startup notice warm failed")
		}
	}

	w.cron.Start()
	w.log.WithField("schedule", w.schedule).Info("notice cache warmer started")
	return nil
}

// Stop halts the cron loop, waiting for an in-flight run to finish.
func (w *Warmer) Stop(ctx context.Context) error {
	if w.cron == nil {
		return nil
	}
	done := w.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
