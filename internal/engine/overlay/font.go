package overlay

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	firstGlyph  = ' '
	lastGlyph   = '~'
	atlasColumn = 16

	// bullet has no glyph in basicfont, it is drawn into the slot after '~'.
	bullet = '•'
)

// Atlas is a fixed-pitch glyph sheet rasterized from a font face. Runes
// outside printable ASCII and '•' render as '?'.
type Atlas struct {
	Image   *image.Alpha
	GlyphW  int
	GlyphH  int
	advance int
}

// NewAtlas rasterizes the printable ASCII range of face. A nil face uses
// basicfont.Face7x13.
func NewAtlas(face font.Face) *Atlas {
	if face == nil {
		face = basicfont.Face7x13
	}
	metrics := face.Metrics()
	adv, _ := face.GlyphAdvance('M')

	a := &Atlas{
		GlyphW:  adv.Ceil(),
		GlyphH:  (metrics.Ascent + metrics.Descent).Ceil(),
		advance: adv.Ceil(),
	}
	count := int(lastGlyph-firstGlyph) + 2
	rows := (count + atlasColumn - 1) / atlasColumn
	a.Image = image.NewAlpha(image.Rect(0, 0, atlasColumn*a.GlyphW, rows*a.GlyphH))

	d := &font.Drawer{Dst: a.Image, Src: image.Opaque, Face: face}
	for r := firstGlyph; r <= lastGlyph; r++ {
		col, row := a.cell(r)
		d.Dot = fixed.P(col*a.GlyphW, row*a.GlyphH+metrics.Ascent.Ceil())
		d.DrawString(string(r))
	}
	a.drawBullet(metrics.Ascent.Ceil())
	return a
}

// drawBullet fills a small square centered on the x-height of its cell.
func (a *Atlas) drawBullet(ascent int) {
	col, row := a.cell(bullet)
	size := max(a.GlyphW/3, 2)
	x0 := col*a.GlyphW + (a.GlyphW-size)/2
	y0 := row*a.GlyphH + ascent*2/3 - size/2
	draw.Draw(a.Image, image.Rect(x0, y0, x0+size, y0+size), image.Opaque, image.Point{}, draw.Src)
}

func (a *Atlas) cell(r rune) (col, row int) {
	var i int
	switch {
	case r == bullet:
		i = int(lastGlyph-firstGlyph) + 1
	case r < firstGlyph || r > lastGlyph:
		i = int('?' - firstGlyph)
	default:
		i = int(r - firstGlyph)
	}
	return i % atlasColumn, i / atlasColumn
}

// GlyphUV returns the texture coordinates of r in the atlas.
func (a *Atlas) GlyphUV(r rune) (u0, v0, u1, v1 float32) {
	col, row := a.cell(r)
	b := a.Image.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	u0 = float32(col*a.GlyphW) / w
	v0 = float32(row*a.GlyphH) / h
	u1 = float32((col+1)*a.GlyphW) / w
	v1 = float32((row+1)*a.GlyphH) / h
	return u0, v0, u1, v1
}

// MeasureText returns the width and height text occupies at scale.
func (a *Atlas) MeasureText(text string, scale float32) (float32, float32) {
	var widest, line, lines int
	lines = 1
	for _, r := range text {
		if r == '\n' {
			lines++
			line = 0
			continue
		}
		line++
		widest = max(widest, line)
	}
	return float32(widest*a.advance) * scale, float32(lines*a.GlyphH) * scale
}

// rgba expands the atlas into white RGBA texels carrying glyph coverage in
// alpha, the layout the text shader samples.
func (a *Atlas) rgba() *image.RGBA {
	out := image.NewRGBA(a.Image.Bounds())
	draw.DrawMask(out, out.Bounds(), image.White, image.Point{}, a.Image, image.Point{}, draw.Src)
	return out
}
