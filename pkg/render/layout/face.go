package layout

// Face measures text at one fixed font size.
type Face interface {
	// Size returns the font size in pixels.
	Size() int
	// Width returns the rendered width of text in pixels.
	Width(text string) float64
}

// FaceSource produces faces of one typeface at arbitrary sizes.
type FaceSource interface {
	Face(size int) (Face, error)
}

func fits(f Face, lines []string, maxWidth int) bool {
	for _, line := range lines {
		if f.Width(line) > float64(maxWidth) {
			return false
		}
	}
	return true
}
