package overlay

const (
	// CaptionMargin is the distance of the caption from the top-left corner.
	CaptionMargin = 20
	// CaptionTitleScale is the glyph scale of the caption title.
	CaptionTitleScale = 2
)

// CaptionLayout stacks the title above the hint at the top-left margin.
func CaptionLayout(titleW, titleH, hintW, hintH float32) (title, hint Rect) {
	title = Rect{X: CaptionMargin, Y: CaptionMargin, W: titleW, H: titleH}
	hint = Rect{X: CaptionMargin, Y: title.Y + titleH + 4, W: hintW, H: hintH}
	return title, hint
}

// DrawCaption queues the title and the dimmed hint line under it.
func (r *Renderer) DrawCaption(titleText, hintText string) {
	tw, th := r.MeasureText(titleText, CaptionTitleScale)
	hw, hh := r.MeasureText(hintText, 1)
	title, hint := CaptionLayout(tw, th, hw, hh)

	r.DrawText(title.X+1, title.Y+1, titleText, CaptionTitleScale, ColorTextShadow)
	r.DrawText(title.X, title.Y, titleText, CaptionTitleScale, ColorText)
	r.DrawText(hint.X, hint.Y, hintText, 1, ColorText.WithAlpha(0.7))
}
