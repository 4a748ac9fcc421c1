package viewer

import (
	"fmt"
	"math"
)

// ProgressSource reports aggregate load progress in percent.
type ProgressSource interface {
	Progress() float32
	Active() bool
}

// Caption drawn over the scene whether or not loads are pending.
const (
	Title        = "Interactive Room"
	ControlsHint = "Drag to rotate • Scroll to zoom"
)

// LoadingIndicator formats load progress for the overlay.
type LoadingIndicator struct {
	src ProgressSource
}

// NewLoadingIndicator observes src.
func NewLoadingIndicator(src ProgressSource) *LoadingIndicator {
	return &LoadingIndicator{src: src}
}

// Percent returns progress rounded to an integer in [0, 100].
func (li *LoadingIndicator) Percent() int {
	p := float64(li.src.Progress())
	if math.IsNaN(p) {
		return 0
	}
	return int(math.Round(math.Min(math.Max(p, 0), 100)))
}

// Text is the label shown while loading, such as "42% loaded".
func (li *LoadingIndicator) Text() string {
	return fmt.Sprintf("%d%% loaded", li.Percent())
}

// Fraction returns Percent as a value in [0, 1].
func (li *LoadingIndicator) Fraction() float32 {
	return float32(li.Percent()) / 100
}

// Visible reports whether any load is still pending.
func (li *LoadingIndicator) Visible() bool {
	return li.src.Active()
}
