package search

import (
	"errors"
	"image"
	"time"

	"github.com/TEL1N/pokemon-adb-bot/internal/config"
	"github.com/TEL1N/pokemon-adb-bot/internal/constants"
	"github.com/TEL1N/pokemon-adb-bot/internal/device"
	"github.com/TEL1N/pokemon-adb-bot/internal/logger"
)

// ErrUnreachable marks an expected UI surface that failed to open (for
// example, tapping a slot the layout does not have). The orchestrator
// recovers locally by treating the target expansion as empty; this
// guarantees loop termination at the cost of possibly skipping a
// reachable reward.
var ErrUnreachable = errors.New("navigation target unreachable")

// Navigator issues the blind tap/swipe sequences that drive the game's
// menus. It holds no search state; the orchestrator decides where to
// go, the navigator only knows how to get there.
type Navigator struct {
	dev device.Device
	cfg *config.Config
	log *logger.AppLogger
}

func NewNavigator(dev device.Device, cfg *config.Config, log *logger.AppLogger) *Navigator {
	return &Navigator{dev: dev, cfg: cfg, log: log}
}

// SwitchDifficulty returns to the solo-battles screen and opens the
// given tier. Beginner is above the fold; the other tiers need the
// calibrated reveal scroll first.
func (n *Navigator) SwitchDifficulty(d Difficulty) error {
	btn, err := n.cfg.DifficultyButton(string(d))
	if err != nil {
		return err
	}

	n.log.Debug("[Nav] Switching to %s difficulty", d)
	if err := n.dev.PressBack(constants.MenuOpenSettle); err != nil {
		return err
	}

	if d != Beginner {
		g, err := n.cfg.DifficultyScrollGesture()
		if err != nil {
			return err
		}
		for i := 0; i < constants.DifficultyScrolls; i++ {
			err := n.dev.SwipeHold(g.Start.X, g.Start.Y, g.End.X, g.End.Y,
				constants.SwipeDuration, constants.SwipeHoldTime, constants.ScrollHoldSettle)
			if err != nil {
				return err
			}
		}
	}

	return n.dev.Tap(btn.X, btn.Y, constants.MenuOpenSettle)
}

// OpenExpansionsMenu opens the expansion selection surface. Opening it
// fresh also resets the list to the top, which the scroll math relies
// on.
func (n *Navigator) OpenExpansionsMenu() error {
	btn, err := n.cfg.Expansions()
	if err != nil {
		return err
	}
	return n.dev.Tap(btn.X, btn.Y, constants.MenuOpenSettle)
}

// SelectSeries switches the expansion list to the given series.
func (n *Navigator) SelectSeries(s Series) error {
	btn, err := n.cfg.SeriesButton(string(s))
	if err != nil {
		return err
	}
	return n.dev.Tap(btn.X, btn.Y, constants.MenuOpenSettle)
}

// ScrollExpansionList advances the expansion list by the given number
// of positions using the calibrated hold-scroll gesture.
func (n *Navigator) ScrollExpansionList(times int) error {
	g, err := n.cfg.ExpansionScrollGesture()
	if err != nil {
		return err
	}
	for i := 0; i < times; i++ {
		n.log.Debug("[Nav] Expansion scroll %d/%d", i+1, times)
		err := n.dev.SwipeHold(g.Start.X, g.Start.Y, g.End.X, g.End.Y,
			constants.SwipeDuration, constants.SwipeHoldTime, constants.ScrollHoldSettle)
		if err != nil {
			return err
		}
		time.Sleep(constants.SwipeSettle)
	}
	return nil
}

// OpenSlot taps the 1-indexed visible expansion slot. A slot the
// layout does not have is reported as ErrUnreachable rather than a
// config fault, so the caller can skip the expansion and keep going.
func (n *Navigator) OpenSlot(slot int) error {
	p, err := n.cfg.Slot(slot)
	if err != nil {
		if len(n.cfg.ExpansionSlots) == 0 {
			return err // nothing calibrated at all
		}
		n.log.Debug("[Nav] Slot %d outside calibrated layout", slot)
		return ErrUnreachable
	}
	return n.dev.Tap(p.X, p.Y, constants.ExpansionSettle)
}

// ScrollListToBottom fast-scrolls the battle list toward its end:
// short swipes with no hold, then one settle wait for the animation.
func (n *Navigator) ScrollListToBottom(scrolls int) error {
	r, err := n.cfg.BattleList()
	if err != nil {
		return err
	}

	startX := r.X + r.W/2
	startY := r.Y + int(float64(r.H)*0.8)
	endY := r.Y + int(float64(r.H)*0.2)

	for i := 0; i < scrolls; i++ {
		err := n.dev.Swipe(startX, startY, startX, endY,
			constants.FastSwipeDuration, constants.FastScrollPause)
		if err != nil {
			return err
		}
	}
	time.Sleep(constants.ListSettle)
	return nil
}

// ScrollListDown advances the battle list by one step with a
// hold-scroll, for stepwise scanning.
func (n *Navigator) ScrollListDown() error {
	return n.listStep(200)
}

// ScrollListUp moves one step toward the top of the battle list.
func (n *Navigator) ScrollListUp() error {
	return n.listStep(-200)
}

func (n *Navigator) listStep(distance int) error {
	r, err := n.cfg.BattleList()
	if err != nil {
		return err
	}
	x := r.X + r.W/2
	y := r.Y + r.H/2
	return n.dev.SwipeHold(x, y, x, y+distance,
		constants.SwipeDuration, constants.SwipeHoldTime, constants.SwipeSettle)
}

// EngageBattle taps the detected battle card, then AUTO, then BATTLE.
func (n *Navigator) EngageBattle(p image.Point) error {
	auto, err := n.cfg.Auto()
	if err != nil {
		return err
	}
	battle, err := n.cfg.Battle()
	if err != nil {
		return err
	}

	n.log.Info("Engaging battle at (%d, %d)", p.X, p.Y)
	if err := n.dev.Tap(p.X, p.Y, constants.MenuOpenSettle); err != nil {
		return err
	}
	if err := n.dev.Tap(auto.X, auto.Y, 1200*time.Millisecond); err != nil {
		return err
	}
	return n.dev.Tap(battle.X, battle.Y, constants.SeriesSettle)
}

// UniversalReset returns the game to the intermediate solo-battle
// screen from any state: close every menu with repeated BACK presses,
// then re-navigate from the battles tab.
func (n *Navigator) UniversalReset() error {
	battles, err := n.cfg.Battles()
	if err != nil {
		return err
	}
	solo, err := n.cfg.SoloBattle()
	if err != nil {
		return err
	}
	intermediate, err := n.cfg.DifficultyButton(string(Intermediate))
	if err != nil {
		return err
	}
	g, err := n.cfg.DifficultyScrollGesture()
	if err != nil {
		return err
	}

	n.log.Info("Running universal reset flow")
	for i := 0; i < constants.ResetBackPresses; i++ {
		if err := n.dev.PressBack(constants.BackSettle); err != nil {
			return err
		}
	}
	time.Sleep(constants.ListSettle)

	if err := n.dev.Tap(battles.X, battles.Y, constants.ListSettle); err != nil {
		return err
	}
	if err := n.dev.Tap(solo.X, solo.Y, constants.ListSettle); err != nil {
		return err
	}
	for i := 0; i < constants.DifficultyScrolls; i++ {
		err := n.dev.SwipeHold(g.Start.X, g.Start.Y, g.End.X, g.End.Y,
			constants.SwipeDuration, constants.SwipeHoldTime, constants.ScrollHoldSettle)
		if err != nil {
			return err
		}
	}
	return n.dev.Tap(intermediate.X, intermediate.Y, constants.ListSettle)
}
