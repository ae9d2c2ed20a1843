package layout

import (
	"errors"
	"unicode/utf8"
)

// monoFace measures every rune as ratio×size pixels wide.
type monoFace struct {
	size  int
	ratio float64
}

func (f monoFace) Size() int { return f.size }

func (f monoFace) Width(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * float64(f.size) * f.ratio
}

// monoSource hands out monoFaces and records the sizes requested.
type monoSource struct {
	ratio float64
	sizes []int
}

func (s *monoSource) Face(size int) (Face, error) {
	s.sizes = append(s.sizes, size)
	return monoFace{size: size, ratio: s.ratio}, nil
}

type failingSource struct{ err error }

func (s failingSource) Face(int) (Face, error) { return nil, s.err }

var errNoFont = errors.New("font unavailable")
