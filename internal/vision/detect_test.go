package vision

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TEL1N/pokemon-adb-bot/internal/device"
)

var magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}

// makeScreen paints solid blobs on a black background.
func makeScreen(w, h int, c color.Color, blobs ...image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	for _, b := range blobs {
		draw.Draw(img, b, image.NewUniform(c), image.Point{}, draw.Src)
	}
	return img
}

func TestDetectFindsGlyphCluster(t *testing.T) {
	// Two 20x20 magenta squares 50px apart vertically: one card's
	// worth of reward glyphs.
	img := makeScreen(200, 200, magenta,
		image.Rect(30, 20, 50, 40),
		image.Rect(30, 70, 50, 90),
	)

	det := New()
	candidates := det.Detect(img, img.Bounds())
	require.Len(t, candidates, 1)
	require.Len(t, candidates[0].Icons, 2)

	click := candidates[0].ClickPoint()
	assert.Equal(t, 40, click.X)
	assert.Equal(t, 55, click.Y)
}

func TestDetectIgnoresLoneGlyph(t *testing.T) {
	img := makeScreen(200, 200, magenta, image.Rect(30, 20, 50, 40))

	det := New()
	assert.Empty(t, det.Detect(img, img.Bounds()))

	_, found := det.FindBattle(img, img.Bounds())
	assert.False(t, found)
}

func TestDetectFiltersSmallBlobs(t *testing.T) {
	// 5x5 blobs are below the minimum icon area.
	img := makeScreen(200, 200, magenta,
		image.Rect(30, 20, 35, 25),
		image.Rect(30, 70, 35, 75),
	)

	det := New()
	assert.Empty(t, det.Detect(img, img.Bounds()))
}

func TestDetectIgnoresUnsaturatedColors(t *testing.T) {
	gray := color.RGBA{R: 180, G: 180, B: 180, A: 255}
	img := makeScreen(200, 200, gray,
		image.Rect(30, 20, 50, 40),
		image.Rect(30, 70, 50, 90),
	)

	det := New()
	assert.Empty(t, det.Detect(img, img.Bounds()))
}

func TestDetectRespectsRegion(t *testing.T) {
	img := makeScreen(400, 400, magenta,
		image.Rect(30, 20, 50, 40),
		image.Rect(30, 70, 50, 90),
	)

	det := New()
	// The blobs sit outside this region.
	assert.Empty(t, det.Detect(img, image.Rect(200, 200, 400, 400)))
}

func TestClusterSplitsOnGap(t *testing.T) {
	det := New()
	icons := []Detection{
		{X: 40, Y: 10, Area: 400},
		{X: 40, Y: 50, Area: 400},
		{X: 40, Y: 140, Area: 400},
		{X: 40, Y: 160, Area: 400},
		{X: 40, Y: 500, Area: 400}, // lone, dropped
	}

	candidates := det.cluster(icons)
	require.Len(t, candidates, 2)
	assert.Len(t, candidates[0].Icons, 2)
	assert.Len(t, candidates[1].Icons, 2)
	assert.Equal(t, 10, candidates[0].Icons[0].Y)
	assert.Equal(t, 140, candidates[1].Icons[0].Y)
}

// fakeScreen satisfies device.Device with canned screenshots.
type fakeScreen struct {
	frames []image.Image
	calls  int
}

func (f *fakeScreen) ID() string { return "fake" }

func (f *fakeScreen) Screenshot() (image.Image, error) {
	img := f.frames[f.calls]
	if f.calls < len(f.frames)-1 {
		f.calls++
	}
	return img, nil
}

func (f *fakeScreen) Tap(x, y int, settle time.Duration) error { return nil }
func (f *fakeScreen) Swipe(x1, y1, x2, y2 int, duration, settle time.Duration) error {
	return nil
}
func (f *fakeScreen) SwipeHold(x1, y1, x2, y2 int, duration, hold, settle time.Duration) error {
	return nil
}
func (f *fakeScreen) PressBack(settle time.Duration) error { return nil }

var _ device.Device = (*fakeScreen)(nil)

func TestVerifyAcceptsStableCandidate(t *testing.T) {
	img := makeScreen(200, 200, magenta,
		image.Rect(30, 20, 50, 40),
		image.Rect(30, 70, 50, 90),
	)
	dev := &fakeScreen{frames: []image.Image{img}}

	det := New()
	// Claim a click 30px away from where the fresh detection lands.
	pt, ok, err := det.Verify(dev, img.Bounds(), image.Pt(40, 85))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, image.Pt(40, 55), pt)
}

func TestVerifyRejectsDriftedCandidate(t *testing.T) {
	img := makeScreen(400, 400, magenta,
		image.Rect(30, 20, 50, 40),
		image.Rect(30, 70, 50, 90),
	)
	dev := &fakeScreen{frames: []image.Image{img}}

	det := New()
	_, ok, err := det.Verify(dev, img.Bounds(), image.Pt(300, 300))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyRejectsVanishedCandidate(t *testing.T) {
	blank := makeScreen(200, 200, magenta)
	dev := &fakeScreen{frames: []image.Image{blank}}

	det := New()
	_, ok, err := det.Verify(dev, blank.Bounds(), image.Pt(40, 55))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRGBToHSVScale(t *testing.T) {
	// Pure magenta on the OpenCV scale: H 300/2, full S and V.
	h, s, v := rgbToHSV(255, 0, 255)
	assert.Equal(t, uint8(150), h)
	assert.Equal(t, uint8(255), s)
	assert.Equal(t, uint8(255), v)

	h, s, v = rgbToHSV(0, 0, 0)
	assert.Equal(t, uint8(0), h)
	assert.Equal(t, uint8(0), s)
	assert.Equal(t, uint8(0), v)
}
