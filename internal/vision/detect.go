package vision

import (
	"image"
	"math"
	"sort"
	"time"

	"github.com/TEL1N/pokemon-adb-bot/internal/constants"
	"github.com/TEL1N/pokemon-adb-bot/internal/device"
)

// Detection is a single reward glyph located in the detection region,
// in full-screen coordinates.
type Detection struct {
	X    int
	Y    int
	Area int
}

// Candidate is a cluster of glyphs judged to belong to one battle card.
type Candidate struct {
	Icons []Detection
}

// ClickPoint reduces the cluster to its mean centroid, which sits on
// the card itself (the glyphs render on the card's right edge).
func (c Candidate) ClickPoint() image.Point {
	var sx, sy int
	for _, d := range c.Icons {
		sx += d.X
		sy += d.Y
	}
	n := len(c.Icons)
	return image.Point{X: sx / n, Y: sy / n}
}

// hsvRange is an inclusive HSV color predicate on the OpenCV scale
// (H 0-179, S and V 0-255).
type hsvRange struct {
	loH, loS, loV uint8
	hiH, hiS, hiV uint8
}

func (r hsvRange) contains(h, s, v uint8) bool {
	return h >= r.loH && h <= r.hiH &&
		s >= r.loS && s <= r.hiS &&
		v >= r.loV && v <= r.hiV
}

// glyphRanges is a disjunction, not a single range: the glyph palette
// varies by reward type (hourglasses are cyan or magenta, pack icons
// gold), plus a broad bright-saturated catch-all.
var glyphRanges = []hsvRange{
	{80, 100, 150, 130, 255, 255},  // cyan/blue
	{130, 100, 150, 170, 255, 255}, // purple/magenta
	{15, 100, 150, 45, 255, 255},   // yellow/gold
	{0, 120, 180, 179, 255, 255},   // any bright saturated color
}

// Detector finds reward-bearing battle cards on a screenshot. The zero
// value is not usable; construct with New.
type Detector struct {
	MinArea    int
	MaxArea    int
	MinAspect  float64
	MaxAspect  float64
	ClusterGap int
	MinCluster int
}

func New() *Detector {
	return &Detector{
		MinArea:    constants.MinIconArea,
		MaxArea:    constants.MaxIconArea,
		MinAspect:  constants.MinIconAspect,
		MaxAspect:  constants.MaxIconAspect,
		ClusterGap: constants.ClusterGapPx,
		MinCluster: constants.MinClusterSize,
	}
}

// Detect returns battle candidates in top-to-bottom scan order. Only
// the given region of the screenshot is examined; detections are
// reported in full-screen coordinates.
func (d *Detector) Detect(img image.Image, region image.Rectangle) []Candidate {
	icons := d.findIcons(img, region)
	return d.cluster(icons)
}

// FindBattle returns the click point of the first (topmost) candidate.
func (d *Detector) FindBattle(img image.Image, region image.Rectangle) (image.Point, bool) {
	candidates := d.Detect(img, region)
	if len(candidates) == 0 {
		return image.Point{}, false
	}
	return candidates[0].ClickPoint(), true
}

// findIcons masks the region by the glyph palette and extracts
// connected components that look like icons.
func (d *Detector) findIcons(img image.Image, region image.Rectangle) []Detection {
	crop := region.Intersect(img.Bounds())
	if crop.Empty() {
		return nil
	}

	w, h := crop.Dx(), crop.Dy()
	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(crop.Min.X+x, crop.Min.Y+y).RGBA()
			hue, sat, val := rgbToHSV(uint8(r>>8), uint8(g>>8), uint8(b>>8))
			for _, rng := range glyphRanges {
				if rng.contains(hue, sat, val) {
					mask[y*w+x] = true
					break
				}
			}
		}
	}

	var detections []Detection
	visited := make([]bool, w*h)
	var stack []int

	for i := range mask {
		if !mask[i] || visited[i] {
			continue
		}

		// Flood fill one component, tracking its bounding box.
		area := 0
		minX, minY := w, h
		maxX, maxY := 0, 0
		stack = append(stack[:0], i)
		visited[i] = true
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			px, py := p%w, p/w

			area++
			if px < minX {
				minX = px
			}
			if px > maxX {
				maxX = px
			}
			if py < minY {
				minY = py
			}
			if py > maxY {
				maxY = py
			}

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := px+dx, py+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					n := ny*w + nx
					if mask[n] && !visited[n] {
						visited[n] = true
						stack = append(stack, n)
					}
				}
			}
		}

		if area <= d.MinArea || area >= d.MaxArea {
			continue
		}
		bw, bh := maxX-minX+1, maxY-minY+1
		aspect := float64(bw) / float64(bh)
		if aspect <= d.MinAspect || aspect >= d.MaxAspect {
			continue
		}

		detections = append(detections, Detection{
			X:    crop.Min.X + minX + bw/2,
			Y:    crop.Min.Y + minY + bh/2,
			Area: area,
		})
	}

	return detections
}

// cluster groups vertically adjacent icons into battle candidates.
// Icons within ClusterGap pixels of the previous member share a card;
// clusters below MinCluster members are dropped entirely, trading
// recall for precision.
func (d *Detector) cluster(icons []Detection) []Candidate {
	if len(icons) == 0 {
		return nil
	}

	sorted := make([]Detection, len(icons))
	copy(sorted, icons)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Y < sorted[j].Y })

	var candidates []Candidate
	current := []Detection{sorted[0]}

	flush := func() {
		if len(current) >= d.MinCluster {
			candidates = append(candidates, Candidate{Icons: current})
		}
	}

	for _, icon := range sorted[1:] {
		if icon.Y-current[len(current)-1].Y < d.ClusterGap {
			current = append(current, icon)
		} else {
			flush()
			current = []Detection{icon}
		}
	}
	flush()

	return candidates
}

// Verify re-detects after a settle delay to suppress false positives:
// the original point is accepted only if a fresh candidate lands within
// VerifyMaxDriftPx of it. A candidate that disappears or drifts is a
// normal negative result, not an error.
func (d *Detector) Verify(dev device.Device, region image.Rectangle, click image.Point) (image.Point, bool, error) {
	for attempt := 0; attempt < constants.VerifyAttempts; attempt++ {
		time.Sleep(constants.VerifySettle)

		img, err := dev.Screenshot()
		if err != nil {
			return image.Point{}, false, err
		}

		recheck, found := d.FindBattle(img, region)
		if !found {
			continue
		}
		if dist(click, recheck) > constants.VerifyMaxDriftPx {
			continue
		}
		return recheck, true, nil
	}
	return image.Point{}, false, nil
}

func dist(a, b image.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// rgbToHSV converts to the OpenCV HSV scale: H in [0, 179], S and V in
// [0, 255]. The glyph ranges were calibrated on that scale.
func rgbToHSV(r, g, b uint8) (uint8, uint8, uint8) {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	delta := max - min

	var h float64
	switch {
	case delta == 0:
		h = 0
	case max == rf:
		h = 60 * math.Mod((gf-bf)/delta, 6)
	case max == gf:
		h = 60 * ((bf-rf)/delta + 2)
	default:
		h = 60 * ((rf-gf)/delta + 4)
	}
	if h < 0 {
		h += 360
	}

	var s float64
	if max > 0 {
		s = delta / max
	}

	return uint8(h / 2), uint8(s * 255), uint8(max * 255)
}
