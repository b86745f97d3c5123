package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/TEL1N/pokemon-adb-bot/internal/config"
	"github.com/TEL1N/pokemon-adb-bot/internal/vision"
)

// Offline harness: run the reward icon detector over a saved
// screenshot and print every cluster, so tuning the color ranges and
// detection region does not need a live emulator.
//
//	go run ./cmd/debug_detect screen.png adb_config.json
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_detect <screenshot.png> [config]")
		return
	}

	img, err := loadImage(os.Args[1])
	if err != nil {
		fmt.Printf("Failed to load screenshot: %v\n", err)
		return
	}
	fmt.Printf("Screen size: %dx%d\n", img.Bounds().Dx(), img.Bounds().Dy())

	region := img.Bounds()
	if len(os.Args) > 2 {
		cfg, err := config.Load(os.Args[2])
		if err != nil {
			fmt.Printf("Failed to load config: %v\n", err)
			return
		}
		r, err := cfg.RewardDetection()
		if err != nil {
			fmt.Printf("Config has no detection region: %v\n", err)
			return
		}
		region = r.Rect()
	}
	fmt.Printf("Detection region: %v\n", region)

	det := vision.New()
	candidates := det.Detect(img, region)
	if len(candidates) == 0 {
		fmt.Println("No reward battle candidates found")
		return
	}

	for i, c := range candidates {
		p := c.ClickPoint()
		fmt.Printf("Candidate %d: %d icons, click at (%d, %d)\n", i+1, len(c.Icons), p.X, p.Y)
		for _, icon := range c.Icons {
			fmt.Printf("  icon at (%d, %d) area=%d\n", icon.X, icon.Y, icon.Area)
		}
	}

	flash := vision.NewFlashDetector()
	fmt.Printf("White flash: %v\n", flash.IsFlash(img))
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}
