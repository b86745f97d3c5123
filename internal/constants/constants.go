package constants

import "time"

// Interaction Delays (settle times after input; the game exposes no
// "UI finished animating" signal, so fixed waits substitute for one)
const (
	TapSettle        = 300 * time.Millisecond  // Standard wait after a tap
	SwipeSettle      = 500 * time.Millisecond  // Standard wait after a swipe
	BackSettle       = 300 * time.Millisecond  // Wait after pressing BACK
	MenuOpenSettle   = 2 * time.Second         // Expansions menu / difficulty screen load
	SeriesSettle     = 1500 * time.Millisecond // Series switch and list reload
	ExpansionSettle  = 3 * time.Second         // Expansion battle list load
	ScrollHoldSettle = 1200 * time.Millisecond // After a swipe-with-hold scroll gesture

	// Swipe gesture timing
	SwipeDuration     = 400 * time.Millisecond // Standard swipe travel time
	SwipeHoldTime     = 1 * time.Second        // Hold at end point to prevent flick
	FastSwipeDuration = 200 * time.Millisecond // Fast in-expansion scroll, no hold
	FastScrollPause   = 200 * time.Millisecond // Between fast scrolls
	ListSettle        = 1 * time.Second        // Let the battle list settle before detecting
)

// Detection
const (
	MinIconArea      = 150              // Connected component pixel area lower bound
	MaxIconArea      = 3000             // Upper bound, rejects full-width gradients
	MinIconAspect    = 0.5              // Bounding box w/h lower bound
	MaxIconAspect    = 2.5              // Upper bound, rejects thin UI chrome
	ClusterGapPx     = 80               // Max vertical gap between icons on one battle card
	MinClusterSize   = 2                // A lone icon is not evidence of a reward battle
	VerifyMaxDriftPx = 50.0             // Recheck position tolerance (Euclidean)
	VerifyAttempts   = 2                // Re-detection attempts before declaring false positive
	VerifySettle     = 1 * time.Second  // Wait before each verification screenshot
)

// Battle End (white flash)
const (
	FlashThreshold   = 200              // Grayscale value counted as "white"
	FlashCoverage    = 0.90             // Fraction of screen that must be white
	FlashPollPeriod  = 500 * time.Millisecond
	FlashGracePeriod = 30 * time.Second // Battles never end this fast; skip pointless polls
)

// Navigation
const (
	DifficultyScrolls   = 2  // Scrolls to reveal non-beginner difficulties
	BottomScanScrolls   = 3  // Fast scrolls to the bottom of an expansion list
	StepwiseScanScrolls = 6  // Scroll positions sampled in stepwise scan mode
	ResetBackPresses    = 30 // BACK presses in the universal reset flow
)

// Session
const (
	ErrorCooldown = 5 * time.Second // Wait before retrying a failed cycle stage
	CyclePause    = 3 * time.Second // Breather between completed cycles
)
