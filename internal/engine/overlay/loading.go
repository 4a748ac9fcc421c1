package overlay

// Rect is a screen-space rectangle, origin top-left.
type Rect struct {
	X, Y, W, H float32
}

// LoadingScale is the integer glyph scale of the progress label.
const LoadingScale = 3

// LoadingLayout centers a label of the given size on the screen and places
// a thin progress bar under it.
func LoadingLayout(screenW, screenH int, textW, textH float32) (label, bar Rect) {
	cx, cy := float32(screenW)/2, float32(screenH)/2
	label = Rect{X: cx - textW/2, Y: cy - textH/2, W: textW, H: textH}

	barW := max(textW*2, 120)
	bar = Rect{X: cx - barW/2, Y: label.Y + textH + 12, W: barW, H: 4}
	return label, bar
}

// DrawLoading queues the centered progress label and a bar filled to
// fraction (0-1).
func (r *Renderer) DrawLoading(text string, fraction float32) {
	fraction = min(max(fraction, 0), 1)

	w, h := r.MeasureText(text, LoadingScale)
	label, bar := LoadingLayout(r.screenWidth, r.screenHeight, w, h)

	r.DrawText(label.X+2, label.Y+2, text, LoadingScale, ColorTextShadow)
	r.DrawText(label.X, label.Y, text, LoadingScale, ColorText)
	r.DrawRect(bar.X, bar.Y, bar.W, bar.H, ColorBarTrack)
	r.DrawRect(bar.X, bar.Y, bar.W*fraction, bar.H, ColorBarFill)
}
