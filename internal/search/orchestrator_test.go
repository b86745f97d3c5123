package search

import (
	"fmt"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TEL1N/pokemon-adb-bot/internal/device"
	"github.com/TEL1N/pokemon-adb-bot/internal/logger"
	"github.com/TEL1N/pokemon-adb-bot/internal/progress"
)

// fakeDevice only serves screenshots; the fake detector decides what
// is on them.
type fakeDevice struct{}

func (fakeDevice) ID() string                      { return "fake" }
func (fakeDevice) Screenshot() (image.Image, error) { return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil }
func (fakeDevice) Tap(x, y int, settle time.Duration) error { return nil }
func (fakeDevice) Swipe(x1, y1, x2, y2 int, duration, settle time.Duration) error { return nil }
func (fakeDevice) SwipeHold(x1, y1, x2, y2 int, duration, hold, settle time.Duration) error {
	return nil
}
func (fakeDevice) PressBack(settle time.Duration) error { return nil }

// fakeWorld models the game: which expansions currently show a reward
// battle, which are unreachable, and what the UI has open right now.
type fakeWorld struct {
	rewards     map[string]bool
	unreachable map[string]bool

	// rewardOnScreen simulates a reward visible before any navigation.
	rewardOnScreen bool

	difficulty Difficulty
	series     Series
	scrolls    int
	opened     string // location key of the open expansion

	switches []Difficulty
	openLog  []string
}

func locKey(d Difficulty, s Series, n int) string {
	return fmt.Sprintf("%s/%s/%d", d, s, n)
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		rewards:     make(map[string]bool),
		unreachable: make(map[string]bool),
		difficulty:  Beginner,
	}
}

// fakeNav drives the world the way the real navigator drives the game.
type fakeNav struct{ w *fakeWorld }

func (n *fakeNav) SwitchDifficulty(d Difficulty) error {
	n.w.difficulty = d
	n.w.opened = ""
	n.w.switches = append(n.w.switches, d)
	return nil
}

func (n *fakeNav) OpenExpansionsMenu() error {
	n.w.scrolls = 0
	n.w.opened = ""
	return nil
}

func (n *fakeNav) SelectSeries(s Series) error {
	n.w.series = s
	return nil
}

func (n *fakeNav) ScrollExpansionList(times int) error {
	n.w.scrolls += times
	return nil
}

func (n *fakeNav) OpenSlot(slot int) error {
	// Invert the scroll/slot mapping back to the ordinal: ordinals 1
	// and 2 open without scrolling, everything later lands in the
	// bottom slot after n-2 scrolls.
	ordinal := slot
	if slot == 3 {
		ordinal = n.w.scrolls + 2
	}
	key := locKey(n.w.difficulty, n.w.series, ordinal)
	if n.w.unreachable[key] {
		return fmt.Errorf("open slot %d: %w", slot, ErrUnreachable)
	}
	n.w.opened = key
	n.w.openLog = append(n.w.openLog, key)
	return nil
}

func (n *fakeNav) ScrollListToBottom(scrolls int) error { return nil }
func (n *fakeNav) ScrollListDown() error                { return nil }

// fakeDetector reports a battle whenever the open expansion holds a
// reward in the world model.
type fakeDetector struct {
	w          *fakeWorld
	failVerify bool
}

func (d *fakeDetector) FindBattle(img image.Image, region image.Rectangle) (image.Point, bool) {
	if d.w.opened == "" {
		if d.w.rewardOnScreen {
			return image.Pt(300, 500), true
		}
		return image.Point{}, false
	}
	if d.w.rewards[d.w.opened] {
		return image.Pt(300, 500), true
	}
	return image.Point{}, false
}

func (d *fakeDetector) Verify(dev device.Device, region image.Rectangle, click image.Point) (image.Point, bool, error) {
	if d.failVerify {
		return image.Point{}, false, nil
	}
	return click, true, nil
}

func newTestOrchestrator(w *fakeWorld, catalog Catalog) (*Orchestrator, *fakeDetector, progress.Store) {
	det := &fakeDetector{w: w}
	store := progress.NewMemory()
	orch := NewOrchestrator(fakeDevice{}, &fakeNav{w: w}, det, store, logger.NewConsoleLogger(), Options{
		Catalog: catalog,
		Region:  image.Rect(0, 0, 540, 960),
	})
	return orch, det, store
}

func TestRunFindsRewardAndSetsResume(t *testing.T) {
	w := newFakeWorld()
	w.rewards[locKey(Beginner, SeriesA, 2)] = true
	catalog := Catalog{SeriesA: 2, SeriesB: 1}
	orch, _, store := newTestOrchestrator(w, catalog)

	res, err := orch.Run()
	require.NoError(t, err)
	assert.Equal(t, OutcomeFound, res.Outcome)
	require.NotNil(t, res.Location)
	assert.Equal(t, Location{Beginner, SeriesA, 2}, *res.Location)
	assert.Equal(t, image.Pt(300, 500), res.Click)

	// Expansion #1 was empty and marked; #2 held the find and must
	// stay unmarked while the resume location points at it.
	assert.Equal(t, 2, store.StartPosition(string(Beginner), string(SeriesA)))
	require.NotNil(t, orch.Resume())
	assert.Equal(t, []string{"beginner/A/1", "beginner/A/2"}, w.openLog)
}

func TestRunResumesIntoSameExpansion(t *testing.T) {
	w := newFakeWorld()
	w.rewards[locKey(Beginner, SeriesA, 2)] = true
	catalog := Catalog{SeriesA: 2, SeriesB: 1}
	orch, _, _ := newTestOrchestrator(w, catalog)

	res, err := orch.Run()
	require.NoError(t, err)
	require.Equal(t, OutcomeFound, res.Outcome)

	// The expansion still has a battle: the resume scan finds it
	// without walking expansion #1 again.
	w.openLog = nil
	res, err = orch.Run()
	require.NoError(t, err)
	assert.Equal(t, OutcomeFound, res.Outcome)
	assert.Equal(t, []string{"beginner/A/2"}, w.openLog)
	require.NotNil(t, orch.Resume())
}

func TestRunExhaustsAfterResumeComesUpEmpty(t *testing.T) {
	w := newFakeWorld()
	w.rewards[locKey(Beginner, SeriesA, 2)] = true
	catalog := Catalog{SeriesA: 2, SeriesB: 1}
	orch, _, store := newTestOrchestrator(w, catalog)

	res, err := orch.Run()
	require.NoError(t, err)
	require.Equal(t, OutcomeFound, res.Outcome)

	// The battle was fought; nothing is left anywhere.
	delete(w.rewards, locKey(Beginner, SeriesA, 2))

	res, err = orch.Run()
	require.NoError(t, err)
	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.Nil(t, orch.Resume())

	// Every remaining difficulty was visited in order.
	assert.Equal(t, []Difficulty{Intermediate, Advanced, Expert}, w.switches)
	assert.True(t, progress.FullyExhausted(store, difficultyNames(), catalog.counts()))

	// A third run short-circuits on the stored progress.
	w.openLog = nil
	res, err = orch.Run()
	require.NoError(t, err)
	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.Empty(t, w.openLog)
}

func TestRunQuickCheckSkipsNavigation(t *testing.T) {
	w := newFakeWorld()
	w.rewardOnScreen = true
	orch, _, _ := newTestOrchestrator(w, Catalog{SeriesA: 2, SeriesB: 1})

	res, err := orch.Run()
	require.NoError(t, err)
	assert.Equal(t, OutcomeFound, res.Outcome)
	assert.Nil(t, res.Location)
	assert.Empty(t, w.openLog)
	assert.Nil(t, orch.Resume())
}

func TestRunIgnoresUnverifiedCandidates(t *testing.T) {
	w := newFakeWorld()
	w.rewards[locKey(Beginner, SeriesA, 1)] = true
	catalog := Catalog{SeriesA: 1, SeriesB: 1}
	orch, det, _ := newTestOrchestrator(w, catalog)
	det.failVerify = true

	// Every hit fails verification, so the traversal treats the whole
	// catalog as empty.
	res, err := orch.Run()
	require.NoError(t, err)
	assert.Equal(t, OutcomeExhausted, res.Outcome)
}

func TestRunMarksUnreachableExpansionChecked(t *testing.T) {
	w := newFakeWorld()
	w.unreachable[locKey(Beginner, SeriesA, 1)] = true
	w.rewards[locKey(Beginner, SeriesA, 2)] = true
	catalog := Catalog{SeriesA: 2, SeriesB: 1}
	orch, _, store := newTestOrchestrator(w, catalog)

	res, err := orch.Run()
	require.NoError(t, err)
	assert.Equal(t, OutcomeFound, res.Outcome)
	require.NotNil(t, res.Location)
	assert.Equal(t, 2, res.Location.Expansion)
	// The unreachable slot did not stall the loop.
	assert.Equal(t, 2, store.StartPosition(string(Beginner), string(SeriesA)))
}

func TestRunStartsFromStoredPosition(t *testing.T) {
	w := newFakeWorld()
	w.rewards[locKey(Beginner, SeriesA, 2)] = true
	catalog := Catalog{SeriesA: 2, SeriesB: 1}
	orch, _, store := newTestOrchestrator(w, catalog)

	store.MarkChecked(string(Beginner), string(SeriesA), 1)

	res, err := orch.Run()
	require.NoError(t, err)
	require.Equal(t, OutcomeFound, res.Outcome)
	assert.Equal(t, []string{"beginner/A/2"}, w.openLog)
}

func TestSyncStateAvoidsRedundantSwitch(t *testing.T) {
	w := newFakeWorld()
	w.rewards[locKey(Intermediate, SeriesA, 1)] = true
	catalog := Catalog{SeriesA: 1}

	orch, _, store := newTestOrchestrator(w, catalog)
	// Beginner already swept, UI left on intermediate by the reset.
	store.MarkChecked(string(Beginner), string(SeriesA), 1)
	w.difficulty = Intermediate
	orch.SyncState(Intermediate)

	res, err := orch.Run()
	require.NoError(t, err)
	assert.Equal(t, OutcomeFound, res.Outcome)
	assert.Empty(t, w.switches)
}
