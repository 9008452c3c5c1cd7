package services

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// Default layout for the comparison image.
const (
	DefaultGap          = 8
	DefaultHeaderHeight = 18
)

// Panel labels drawn above each region.
const (
	LabelSaved   = "Saved Snapshot"
	LabelNew     = "New Snapshot"
	LabelOverlay = "Both Overlayed"
)

// overlayAlpha is the opacity of the new bitmap in the overlay panel.
const overlayAlpha = 128

// Composer builds the three-panel triage image for a snapshot mismatch:
//
//	Saved Snapshot | New Snapshot
//	Both Overlayed |
//
// It never affects whether a snapshot passes.
type Composer struct {
	gap    int
	header int
	face   font.Face
}

// NewComposer creates a composer. Non-positive values fall back to defaults.
func NewComposer(gap, header int) *Composer {
	if gap <= 0 {
		gap = DefaultGap
	}
	if header <= 0 {
		header = DefaultHeaderHeight
	}
	return &Composer{gap: gap, header: header, face: basicfont.Face7x13}
}

// Size returns the canvas size for panels of w×h.
func (c *Composer) Size(w, h int) image.Point {
	return image.Pt(2*w+c.gap, 2*h+2*c.header)
}

// Compose draws saved and next into one image. Both must have the same
// dimensions; anything else is a *snapshot.CompositionError.
func (c *Composer) Compose(saved, next *snapshot.Bitmap) (*snapshot.Bitmap, error) {
	if saved == nil || next == nil {
		return nil, snapshot.ErrRenderFailure
	}
	sb, nb := saved.Bounds(), next.Bounds()
	if sb.Dx() != nb.Dx() || sb.Dy() != nb.Dy() {
		return nil, &snapshot.CompositionError{Saved: sb, New: nb}
	}

	w, h := sb.Dx(), sb.Dy()
	size := c.Size(w, h)
	canvas := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	savedAt := image.Pt(0, c.header)
	nextAt := image.Pt(w+c.gap, c.header)
	overlayAt := image.Pt(0, h+2*c.header)

	c.label(canvas, LabelSaved, image.Rect(0, 0, w, c.header))
	c.label(canvas, LabelNew, image.Rect(w+c.gap, 0, 2*w+c.gap, c.header))
	c.label(canvas, LabelOverlay, image.Rect(0, h+c.header, w, h+2*c.header))

	c.paste(canvas, saved.Image(), savedAt)
	c.paste(canvas, next.Image(), nextAt)

	c.paste(canvas, saved.Image(), overlayAt)
	mask := image.NewUniform(color.Alpha{A: overlayAlpha})
	draw.DrawMask(canvas, image.Rectangle{Min: overlayAt, Max: overlayAt.Add(image.Pt(w, h))},
		next.Image(), nb.Min, mask, image.Point{}, draw.Over)

	return snapshot.NewBitmap(canvas)
}

func (c *Composer) paste(dst draw.Image, src image.Image, at image.Point) {
	b := src.Bounds()
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(b.Size())}, src, b.Min, draw.Src)
}

// label draws text vertically centered in band, clipped to the band.
func (c *Composer) label(canvas *image.NRGBA, text string, band image.Rectangle) {
	m := c.face.Metrics()
	textHeight := (m.Ascent + m.Descent).Ceil()
	baseline := band.Min.Y + (band.Dy()-textHeight)/2 + m.Ascent.Ceil()

	d := &font.Drawer{
		Dst:  canvas.SubImage(band).(*image.NRGBA),
		Src:  image.Black,
		Face: c.face,
		Dot:  fixed.P(band.Min.X+2, baseline),
	}
	d.DrawString(text)
}
