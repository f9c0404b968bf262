package sandbox

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Refresher regenerates the served dataset on a cron schedule so long-running
// preview servers do not hand out the same fixtures forever.
type Refresher struct {
	cron    *cron.Cron
	handler *SeedHandler
	logger  zerolog.Logger
}

// NewRefresher parses schedule (standard five-field cron syntax or a
// descriptor such as "@hourly") without starting it.
func NewRefresher(h *SeedHandler, schedule string, logger zerolog.Logger) (*Refresher, error) {
	r := &Refresher{
		cron:    cron.New(),
		handler: h,
		logger:  logger,
	}
	if _, err := r.cron.AddFunc(schedule, r.Refresh); err != nil {
		return nil, fmt.Errorf("invalid regenerate schedule %q: %w", schedule, err)
	}
	return r, nil
}

func (r *Refresher) Start() {
	r.cron.Start()
}

// Stop halts the schedule. The returned context is done once a running
// refresh has finished.
func (r *Refresher) Stop() context.Context {
	return r.cron.Stop()
}

// Refresh reseeds with the current counts and a fresh random seed.
func (r *Refresher) Refresh() {
	cfg := r.handler.Config()
	cfg.Seed = 0
	if _, err := r.handler.Seed(context.Background(), cfg); err != nil {
		r.logger.Error().Err(err).Msg("scheduled regeneration failed")
		return
	}
	r.logger.Info().Msg("scheduled regeneration complete")
}
