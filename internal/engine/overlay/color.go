package overlay

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Overlay palette.
var (
	ColorTransparent = Color{0, 0, 0, 0}
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}

	ColorPanelBg    = Color{0.08, 0.08, 0.12, 0.75}
	ColorBarTrack   = Color{1, 1, 1, 0.15}
	ColorBarFill    = Color{1, 1, 1, 0.85}
	ColorText       = Color{0.95, 0.95, 0.95, 1}
	ColorTextShadow = Color{0, 0, 0, 0.6}
)

// RGBA creates a color from 8-bit RGBA values (0-255).
func RGBA(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: float32(a) / 255.0,
	}
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float32) Color {
	c.A *= a
	return c
}
