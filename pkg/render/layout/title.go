package layout

import "strings"

const (
	// TitleSizeStep is the decrement between candidate title sizes.
	TitleSizeStep = 4
	// TitleMinSize is the default floor of the title size search.
	TitleMinSize = 40
	// ShortTitleWords is the word count up to which titles stay on one line.
	ShortTitleWords = 3
	// MaxTitleLines bounds the number of title lines.
	MaxTitleLines = 2
)

// SplitTitle breaks title into at most two lines that fit maxWidth at face.
//
// Titles with ShortTitleWords words or fewer are returned unchanged as a
// single line. Longer titles are split at the first word boundary (scanning
// left to right) where both halves fit; if no boundary works the whole title
// is returned as one, possibly overflowing, line.
func SplitTitle(title string, face Face, maxWidth int) []string {
	words := strings.Fields(title)
	if len(words) <= ShortTitleWords {
		return []string{title}
	}

	for i := 1; i < len(words); i++ {
		pair := []string{
			strings.Join(words[:i], " "),
			strings.Join(words[i:], " "),
		}
		if fits(face, pair, maxWidth) {
			return pair
		}
	}
	return []string{title}
}

// FitTitle finds the largest title size, from start down to minSize in
// steps of TitleSizeStep, at which the title fits maxWidth in at most two
// lines. It returns the face at that size and the title lines.
//
// If no size fits, the face at minSize and the unsplit title are returned.
// That case is not an error: the title is allowed to overflow.
func FitTitle(src FaceSource, title string, maxWidth, start, minSize int) (Face, []string, error) {
	for size := start; size >= minSize; size -= TitleSizeStep {
		face, err := src.Face(size)
		if err != nil {
			return nil, nil, err
		}
		lines := SplitTitle(title, face, maxWidth)
		if len(lines) <= MaxTitleLines && fits(face, lines, maxWidth) {
			return face, lines, nil
		}
	}

	face, err := src.Face(minSize)
	if err != nil {
		return nil, nil, err
	}
	return face, []string{title}, nil
}
