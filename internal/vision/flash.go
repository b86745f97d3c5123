package vision

import (
	"context"
	"image"
	"time"

	"github.com/nfnt/resize"

	"github.com/TEL1N/pokemon-adb-bot/internal/constants"
	"github.com/TEL1N/pokemon-adb-bot/internal/device"
)

// FlashDetector recognizes the end of a battle: the game cuts to a
// full white screen for both victory and defeat, and nothing during a
// battle comes close, so a single positive check is conclusive.
type FlashDetector struct {
	Threshold uint8   // grayscale value counted as white
	Coverage  float64 // fraction of pixels that must be white

	// downscaleWidth shrinks screenshots before counting; the flash
	// covers the whole screen, so a thumbnail measures it just as well.
	downscaleWidth uint
}

func NewFlashDetector() *FlashDetector {
	return &FlashDetector{
		Threshold:      constants.FlashThreshold,
		Coverage:       constants.FlashCoverage,
		downscaleWidth: 160,
	}
}

// IsFlash reports whether the frame is the battle-end white screen.
func (f *FlashDetector) IsFlash(img image.Image) bool {
	small := resize.Resize(f.downscaleWidth, 0, img, resize.NearestNeighbor)
	bounds := small.Bounds()

	white, total := 0, 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := small.At(x, y).RGBA()
			// Rec. 601 luma
			gray := (299*(r>>8) + 587*(g>>8) + 114*(b>>8)) / 1000
			if gray >= uint32(f.Threshold) {
				white++
			}
			total++
		}
	}
	return total > 0 && float64(white)/float64(total) >= f.Coverage
}

// Monitor polls the screen until the white flash appears or the context
// is cancelled. Battles take minutes, so an initial grace period skips
// the pointless early polls.
func (f *FlashDetector) Monitor(ctx context.Context, dev device.Device) error {
	select {
	case <-time.After(constants.FlashGracePeriod):
	case <-ctx.Done():
		return ctx.Err()
	}

	ticker := time.NewTicker(constants.FlashPollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			img, err := dev.Screenshot()
			if err != nil {
				return err
			}
			if f.IsFlash(img) {
				return nil
			}
		}
	}
}
