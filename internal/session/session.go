package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/TEL1N/pokemon-adb-bot/internal/constants"
	"github.com/TEL1N/pokemon-adb-bot/internal/device"
	"github.com/TEL1N/pokemon-adb-bot/internal/logger"
	"github.com/TEL1N/pokemon-adb-bot/internal/search"
	"github.com/TEL1N/pokemon-adb-bot/internal/vision"
)

// Runner drives the full cycle for one device: search, engage,
// wait out the battle, reset, repeat until the catalog is exhausted
// or the context is cancelled.
type Runner struct {
	ID    uuid.UUID
	dev   device.Device
	nav   *search.Navigator
	orch  *search.Orchestrator
	flash *vision.FlashDetector
	log   *logger.AppLogger

	// StatusFunc receives coarse state changes for a UI; optional.
	StatusFunc func(status string)

	battles int
}

func NewRunner(dev device.Device, nav *search.Navigator, orch *search.Orchestrator, log *logger.AppLogger) *Runner {
	return &Runner{
		ID:    uuid.New(),
		dev:   dev,
		nav:   nav,
		orch:  orch,
		flash: vision.NewFlashDetector(),
		log:   log,
	}
}

// Battles reports how many battles the runner has started.
func (r *Runner) Battles() int {
	return r.battles
}

func (r *Runner) setStatus(s string) {
	if r.StatusFunc != nil {
		r.StatusFunc(s)
	}
}

// Run loops cycles until the search space is exhausted, the context is
// cancelled, or an unrecoverable error occurs. A failed cycle stage
// does not abort the run: the resume location is dropped, since the UI
// state behind it can no longer be trusted, and the next cycle starts
// after a cooldown.
func (r *Runner) Run(ctx context.Context) error {
	r.log.Info("Session %s started on device %s", r.ID, r.dev.ID())
	for {
		select {
		case <-ctx.Done():
			r.log.Info("Session %s stopped after %d battles", r.ID, r.battles)
			return ctx.Err()
		default:
		}

		done, err := r.cycle(ctx)
		if err != nil {
			if ctx.Err() != nil {
				r.log.Info("Session %s stopped after %d battles", r.ID, r.battles)
				return ctx.Err()
			}
			r.log.Error("Cycle failed: %v", err)
			r.orch.ClearResume()
			r.setStatus("Recovering")
			if !sleepCtx(ctx, constants.ErrorCooldown) {
				return ctx.Err()
			}
			continue
		}
		if done {
			r.setStatus("Exhausted")
			r.log.Info("Search space exhausted after %d battles", r.battles)
			return nil
		}

		if !sleepCtx(ctx, constants.CyclePause) {
			return ctx.Err()
		}
	}
}

// cycle runs one search-engage-battle-reset pass. done=true means the
// catalog is exhausted and the session should end.
func (r *Runner) cycle(ctx context.Context) (bool, error) {
	r.setStatus("Searching")
	res, err := r.orch.Run()
	if err != nil {
		return false, err
	}
	if res.Outcome == search.OutcomeExhausted {
		return true, nil
	}

	r.setStatus("In battle")
	if err := r.nav.EngageBattle(res.Click); err != nil {
		return false, err
	}
	r.battles++
	r.log.Info("Battle #%d engaged, waiting for it to finish", r.battles)

	if err := r.flash.Monitor(ctx, r.dev); err != nil {
		return false, err
	}
	r.log.Info("Battle #%d finished", r.battles)

	r.setStatus("Resetting")
	if err := r.nav.UniversalReset(); err != nil {
		return false, err
	}
	// The reset lands on the intermediate difficulty screen.
	r.orch.SyncState(search.Intermediate)
	return false, nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
