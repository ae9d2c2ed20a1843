package layout

import "math"

const (
	// PortraitWidthRatio is the text column share of a portrait image width.
	PortraitWidthRatio = 0.8
	// LandscapeWidthRatio is the text column share of a square or landscape image width.
	LandscapeWidthRatio = 0.55
	// TitleStartRatio is the title search start size relative to image height.
	TitleStartRatio = 0.14
	// BodySizeRatio relates the message size to the resolved title size.
	BodySizeRatio = 0.7

	// TitleLeading is added to the title size to get the title line advance.
	TitleLeading = 10
	// BodyLeading is added to the message size to get the message line advance.
	BodyLeading = 6
	// BlockGap separates the title block from the message block.
	BlockGap = 20
)

// Line is one positioned line of text. X and Y are the top-left corner of
// the line box in image pixels; Y is the top of the ascender.
type Line struct {
	Text  string
	X, Y  float64
	Width float64
}

// Layout is the computed placement of a card's text.
type Layout struct {
	Width, Height int // background dimensions
	MaxWidth      int // text column width

	TitleSize int
	Title     []Line
	BodySize  int
	Body      []Line

	BlockHeight int // height used for vertical centering
}

// Options tunes [Compute]. The zero value uses the package defaults.
type Options struct {
	MinTitleSize int // floor of the title size search (default TitleMinSize)
}

// MaxWidth returns the text column width for a width×height background.
// Portrait images (width < height) get the wider column.
func MaxWidth(width, height int) int {
	if width < height {
		return int(float64(width) * PortraitWidthRatio)
	}
	return int(float64(width) * LandscapeWidthRatio)
}

// TitleStartSize returns the first size tried by the title search.
func TitleStartSize(height int) int {
	return int(float64(height) * TitleStartRatio)
}

// BodySize returns the message font size for a resolved title size.
func BodySize(titleSize int) int {
	return int(float64(titleSize) * BodySizeRatio)
}

// Compute lays out title and message on a width×height background.
// The title is measured with faces from titleSrc and the message with a
// face from bodySrc; both may be the same source. An empty message
// produces no body lines and no gap.
func Compute(titleSrc, bodySrc FaceSource, width, height int, title, message string, opts Options) (Layout, error) {
	minSize := opts.MinTitleSize
	if minSize <= 0 {
		minSize = TitleMinSize
	}

	l := Layout{
		Width:    width,
		Height:   height,
		MaxWidth: MaxWidth(width, height),
	}

	titleFace, titleLines, err := FitTitle(titleSrc, title, l.MaxWidth, TitleStartSize(height), minSize)
	if err != nil {
		return Layout{}, err
	}
	l.TitleSize = titleFace.Size()
	l.BodySize = BodySize(l.TitleSize)

	bodyFace, err := bodySrc.Face(l.BodySize)
	if err != nil {
		return Layout{}, err
	}
	var bodyLines []string
	if message != "" {
		bodyLines = Wrap(message, bodyFace, l.MaxWidth)
	}

	titleAdvance := l.TitleSize + TitleLeading
	bodyAdvance := l.BodySize + BodyLeading
	l.BlockHeight = len(titleLines)*titleAdvance + len(bodyLines)*bodyAdvance
	if len(bodyLines) > 0 {
		l.BlockHeight += BlockGap
	}

	y := float64(int(float64(height-l.BlockHeight) / 2))
	for _, text := range titleLines {
		l.Title = append(l.Title, placeLine(titleFace, text, width, y))
		y += float64(titleAdvance)
	}
	y += BlockGap
	for _, text := range bodyLines {
		l.Body = append(l.Body, placeLine(bodyFace, text, width, y))
		y += float64(bodyAdvance)
	}
	return l, nil
}

func placeLine(f Face, text string, width int, y float64) Line {
	w := f.Width(text)
	return Line{
		Text:  text,
		X:     math.Floor((float64(width) - w) / 2),
		Y:     y,
		Width: w,
	}
}

// TitleHeight returns the vertical space taken by the title lines.
func (l Layout) TitleHeight() int {
	return len(l.Title) * (l.TitleSize + TitleLeading)
}

// BodyHeight returns the vertical space taken by the message lines.
func (l Layout) BodyHeight() int {
	return len(l.Body) * (l.BodySize + BodyLeading)
}

// TitleLines returns the text of the title lines.
func (l Layout) TitleLines() []string { return texts(l.Title) }

// BodyLines returns the text of the message lines.
func (l Layout) BodyLines() []string { return texts(l.Body) }

func texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.Text
	}
	return out
}
