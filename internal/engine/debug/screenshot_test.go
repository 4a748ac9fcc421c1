package debug

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureWritesPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "roomview")
	fixed := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	sc.now = func() time.Time { return fixed }

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(3, 1, color.RGBA{0, 255, 0, 255})

	first, err := sc.Capture(img)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "roomview_2026-03-01_12-30-00.000.png"), first)

	second, err := sc.Capture(img)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	f, err := os.Open(first)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
	r, g, _, _ := decoded.At(3, 1).RGBA()
	assert.Zero(t, r)
	assert.Equal(t, uint32(0xffff), g)
}

func TestCaptureRejectsEmpty(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "x")
	_, err := sc.Capture(image.NewRGBA(image.Rectangle{}))
	assert.Error(t, err)
}
