package styles

import (
	"fmt"
	"image/color"
)

// Style is a named fill/outline combination.
type Style struct {
	ID          string
	Fill        color.NRGBA // text colour
	Stroke      color.NRGBA // outline colour, alpha blended
	StrokeWidth int         // title outline width in pixels
}

// TitleStrokeWidth returns the outline width used for title lines.
func (s Style) TitleStrokeWidth() int { return s.StrokeWidth }

// BodyStrokeWidth returns the outline width used for message lines.
func (s Style) BodyStrokeWidth() int { return max(1, s.StrokeWidth-2) + 1 }

// Validate checks that the style can be rendered.
func (s Style) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("style id cannot be empty")
	}
	if s.StrokeWidth < 0 {
		return fmt.Errorf("style %q: stroke width %d is negative", s.ID, s.StrokeWidth)
	}
	return nil
}

// RGBA builds a colour from 0–255 components.
func RGBA(r, g, b, a uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: a}
}
