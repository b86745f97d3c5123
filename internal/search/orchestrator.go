package search

import (
	"errors"
	"fmt"
	"image"

	"github.com/TEL1N/pokemon-adb-bot/internal/constants"
	"github.com/TEL1N/pokemon-adb-bot/internal/device"
	"github.com/TEL1N/pokemon-adb-bot/internal/logger"
	"github.com/TEL1N/pokemon-adb-bot/internal/progress"
)

// Outcome tags a traversal result so callers never have to tell a
// normal negative apart from a fault by error type.
type Outcome int

const (
	// OutcomeFound carries a verified click point.
	OutcomeFound Outcome = iota
	// OutcomeExhausted means every (difficulty, series) pair in the
	// catalog is confirmed reward-free.
	OutcomeExhausted
)

// Result is the terminal value of one traversal invocation.
type Result struct {
	Outcome Outcome
	Click   image.Point
	// Location is set when the click came from inside an expansion;
	// a quick-check hit on the current screen has none.
	Location *Location
}

// Location addresses one expansion in the search space.
type Location struct {
	Difficulty Difficulty
	Series     Series
	Expansion  int // 1-indexed ordinal
}

func (l Location) String() string {
	return fmt.Sprintf("%s %s-series expansion #%d", l.Difficulty, l.Series, l.Expansion)
}

// ScanMode selects the in-expansion scan policy.
type ScanMode int

const (
	// ScanBottom fast-scrolls to the end of the battle list and samples
	// once. Rewards cluster toward the bottom of an expansion's list;
	// this is an empirical policy, not a guarantee, and can miss a
	// reward positioned mid-list.
	ScanBottom ScanMode = iota
	// ScanStepwise samples at every scroll position. Slower, no blind
	// spots.
	ScanStepwise
)

// Detector is the slice of the vision layer the orchestrator uses.
type Detector interface {
	FindBattle(img image.Image, region image.Rectangle) (image.Point, bool)
	Verify(dev device.Device, region image.Rectangle, click image.Point) (image.Point, bool, error)
}

// Nav is the slice of the navigator the orchestrator drives.
type Nav interface {
	SwitchDifficulty(d Difficulty) error
	OpenExpansionsMenu() error
	SelectSeries(s Series) error
	ScrollExpansionList(times int) error
	OpenSlot(slot int) error
	ScrollListToBottom(scrolls int) error
	ScrollListDown() error
}

// Options configures an orchestrator at construction; there is no
// ambient lookup afterwards.
type Options struct {
	Catalog Catalog
	Region  image.Rectangle // reward detection region
	Mode    ScanMode
	Start   Difficulty // UI state at construction; defaults to Beginner
}

// Orchestrator walks the (difficulty, series, expansion) space depth
// first, resuming mid-flight via a ResumeLocation and skipping
// exhausted regions via the progress store's high-water marks. One
// orchestrator belongs to one session and one device; it is not safe
// for concurrent use and does not need to be.
type Orchestrator struct {
	dev   device.Device
	nav   Nav
	det   Detector
	store progress.Store
	log   *logger.AppLogger

	catalog Catalog
	region  image.Rectangle
	mode    ScanMode

	// current mirrors the difficulty the game UI is showing, so the
	// difficulty loop only navigates on actual changes.
	current Difficulty

	// resume points at the expansion where the last battle was found.
	// That expansion may hold further reward battles, so it is not
	// marked checked until a later scan comes back empty.
	resume *Location
}

func NewOrchestrator(dev device.Device, nav Nav, det Detector, store progress.Store, log *logger.AppLogger, opts Options) *Orchestrator {
	if opts.Catalog == nil {
		opts.Catalog = DefaultCatalog()
	}
	if opts.Start == "" {
		opts.Start = Beginner
	}
	return &Orchestrator{
		dev:     dev,
		nav:     nav,
		det:     det,
		store:   store,
		log:     log,
		catalog: opts.Catalog,
		region:  opts.Region,
		mode:    opts.Mode,
		current: opts.Start,
	}
}

// Resume returns the pending resume location, if any.
func (o *Orchestrator) Resume() *Location {
	return o.resume
}

// ClearResume drops the pending resume location. The session runner
// calls this after a cycle stage fails, since the UI state backing the
// location is no longer trustworthy.
func (o *Orchestrator) ClearResume() {
	o.resume = nil
}

// SyncState tells the orchestrator which difficulty the game UI now
// shows, after an externally driven navigation such as the universal
// reset.
func (o *Orchestrator) SyncState(d Difficulty) {
	o.current = d
}

// Run performs one traversal. It returns a found click point, an
// exhausted result, or an error from the taxonomy: config faults and
// transient device I/O propagate; unreachable expansions are absorbed
// by marking them checked.
func (o *Orchestrator) Run() (Result, error) {
	startIdx := 0

	// RESUME: re-enter the expansion where the last battle was found,
	// without consulting the store.
	if o.resume != nil {
		res, done, err := o.runResume()
		if err != nil {
			return Result{}, err
		}
		if done {
			return res, nil
		}
		startIdx = difficultyIndex(o.resume.Difficulty)
		o.resume = nil
	}

	if progress.FullyExhausted(o.store, difficultyNames(), o.catalog.counts()) {
		o.log.Info("All expansions already checked")
		return Result{Outcome: OutcomeExhausted}, nil
	}

	// QUICK_CHECK: zero-cost shot at the current screen before any
	// navigation.
	if click, ok, err := o.checkCurrentScreen(); err != nil {
		return Result{}, err
	} else if ok {
		o.log.Info("Reward found on current screen")
		return Result{Outcome: OutcomeFound, Click: click}, nil
	}

	// DIFFICULTY_LOOP
	for i := startIdx; i < len(Difficulties); i++ {
		d := Difficulties[i]
		if progress.DifficultyExhausted(o.store, string(d), o.catalog.counts()) {
			o.log.Debug("[Search] %s fully exhausted, skipping", d)
			continue
		}

		if d != o.current {
			if err := o.nav.SwitchDifficulty(d); err != nil {
				return Result{}, err
			}
			o.current = d
		}

		res, found, err := o.scanDifficulty(d)
		if err != nil {
			return Result{}, err
		}
		if found {
			return res, nil
		}
		o.log.Info("No rewards in %s", d)
	}

	return Result{Outcome: OutcomeExhausted}, nil
}

// runResume re-scans the resume expansion. Returns done=true with a
// result when the invocation should finish here; done=false falls
// through to the normal search starting at the resume difficulty.
func (o *Orchestrator) runResume() (Result, bool, error) {
	loc := *o.resume
	o.log.Info("Resuming at %s", loc)

	if loc.Difficulty != o.current {
		if err := o.nav.SwitchDifficulty(loc.Difficulty); err != nil {
			return Result{}, false, err
		}
		o.current = loc.Difficulty
	}

	if err := o.openExpansion(loc.Series, loc.Expansion); err != nil {
		if errors.Is(err, ErrUnreachable) {
			o.markChecked(loc.Difficulty, loc.Series, loc.Expansion)
			return Result{}, false, nil
		}
		return Result{}, false, err
	}

	click, found, err := o.scanExpansion()
	if err != nil {
		return Result{}, false, err
	}
	if found {
		// Another battle in the same expansion: keep the resume
		// location, there may be more.
		o.log.Info("Found another battle in %s", loc)
		return Result{Outcome: OutcomeFound, Click: click, Location: &loc}, true, nil
	}

	o.log.Info("No more battles in %s", loc)
	o.markChecked(loc.Difficulty, loc.Series, loc.Expansion)
	return Result{}, false, nil
}

func (o *Orchestrator) scanDifficulty(d Difficulty) (Result, bool, error) {
	for _, s := range SeriesOrder {
		total := o.catalog[s]
		if total == 0 || o.store.SeriesExhausted(string(d), string(s), total) {
			continue
		}

		start := o.store.StartPosition(string(d), string(s))
		if start > total {
			continue
		}
		o.log.Info("Scanning %s %s-series from expansion #%d of %d", d, s, start, total)

		for n := start; n <= total; n++ {
			if err := o.openExpansion(s, n); err != nil {
				if errors.Is(err, ErrUnreachable) {
					// Treat an unopenable expansion as empty so the
					// loop always terminates.
					o.log.Error("Expansion #%d unreachable, marking checked", n)
					o.markChecked(d, s, n)
					continue
				}
				return Result{}, false, err
			}

			click, found, err := o.scanExpansion()
			if err != nil {
				return Result{}, false, err
			}
			if found {
				loc := Location{Difficulty: d, Series: s, Expansion: n}
				o.resume = &loc
				o.log.Info("Reward battle found in %s", loc)
				return Result{Outcome: OutcomeFound, Click: click, Location: &loc}, true, nil
			}

			o.markChecked(d, s, n)
		}
	}
	return Result{}, false, nil
}

// openExpansion navigates to the n-th expansion of a series: open the
// menu fresh (resetting the list to the top), pick the series, scroll
// into position, tap the slot.
func (o *Orchestrator) openExpansion(s Series, n int) error {
	if err := o.nav.OpenExpansionsMenu(); err != nil {
		return err
	}
	if err := o.nav.SelectSeries(s); err != nil {
		return err
	}
	if scrolls := Scrolls(n); scrolls > 0 {
		if err := o.nav.ScrollExpansionList(scrolls); err != nil {
			return err
		}
	}
	return o.nav.OpenSlot(Slot(n))
}

// scanExpansion looks for a reward battle inside the currently open
// expansion, per the configured scan mode. Every hit goes through the
// verification sub-protocol; a candidate that fails it is a normal
// negative.
func (o *Orchestrator) scanExpansion() (image.Point, bool, error) {
	switch o.mode {
	case ScanStepwise:
		return o.scanStepwise()
	default:
		return o.scanBottom()
	}
}

func (o *Orchestrator) scanBottom() (image.Point, bool, error) {
	if err := o.nav.ScrollListToBottom(constants.BottomScanScrolls); err != nil {
		return image.Point{}, false, err
	}
	return o.checkCurrentScreen()
}

func (o *Orchestrator) scanStepwise() (image.Point, bool, error) {
	for pos := 0; pos <= constants.StepwiseScanScrolls; pos++ {
		click, ok, err := o.checkCurrentScreen()
		if err != nil {
			return image.Point{}, false, err
		}
		if ok {
			return click, true, nil
		}
		if pos < constants.StepwiseScanScrolls {
			if err := o.nav.ScrollListDown(); err != nil {
				return image.Point{}, false, err
			}
		}
	}
	return image.Point{}, false, nil
}

// checkCurrentScreen runs one detection on a fresh screenshot and
// verifies any hit.
func (o *Orchestrator) checkCurrentScreen() (image.Point, bool, error) {
	img, err := o.dev.Screenshot()
	if err != nil {
		return image.Point{}, false, err
	}
	click, ok := o.det.FindBattle(img, o.region)
	if !ok {
		return image.Point{}, false, nil
	}

	verified, ok, err := o.det.Verify(o.dev, o.region, click)
	if err != nil {
		return image.Point{}, false, err
	}
	if !ok {
		o.log.Debug("[Search] Candidate at (%d, %d) failed verification", click.X, click.Y)
		return image.Point{}, false, nil
	}
	return verified, true, nil
}

func (o *Orchestrator) markChecked(d Difficulty, s Series, n int) {
	o.store.MarkChecked(string(d), string(s), n)
	o.log.Debug("[Search] Marked %s %s-series #%d checked", d, s, n)
}

func difficultyIndex(d Difficulty) int {
	for i, v := range Difficulties {
		if v == d {
			return i
		}
	}
	return 0
}
