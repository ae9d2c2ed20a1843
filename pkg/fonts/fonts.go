// Package fonts provides the typefaces used to measure and draw card text.
//
// A [Font] is a parsed TrueType font. Parsed fonts are immutable and shared
// freely between renders; a [Face] wraps a sized font.Face whose glyph cache
// is not safe for concurrent use, so every render creates its own faces.
//
// The Go Bold typeface ships embedded through golang.org/x/image and is used
// whenever no font file is configured.
package fonts

import (
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/matzehuels/postcard/pkg/cache"
	"github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/render/layout"
)

// DefaultName identifies the embedded Go Bold font.
const DefaultName = "go-bold"

// Font is a parsed TrueType font.
type Font struct {
	name string
	id   string
	ttf  *truetype.Font
}

var (
	defaultFont     *Font
	defaultFontErr  error
	defaultFontOnce sync.Once
)

// Default returns the embedded Go Bold font. The font is parsed once.
func Default() *Font {
	defaultFontOnce.Do(func() {
		defaultFont, defaultFontErr = Parse(DefaultName, gobold.TTF)
	})
	if defaultFontErr != nil {
		panic("fonts: embedded Go Bold does not parse: " + defaultFontErr.Error())
	}
	return defaultFont
}

// Parse parses TrueType data. name is used in logs and errors; the font's
// [Font.ID] is derived from data.
func Parse(name string, data []byte) (*Font, error) {
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "parse font %s", name)
	}
	return &Font{name: name, id: cache.Hash(data), ttf: ttf}, nil
}

// Load reads and parses a TrueType file.
func Load(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "font %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "read font %s", path)
	}
	return Parse(path, data)
}

// Name returns the name the font was loaded under.
func (f *Font) Name() string { return f.name }

// ID returns the SHA-256 of the font data. Replacing a font file changes
// its ID, so cached cards drawn with the old file stop matching.
func (f *Font) ID() string { return f.id }

// Face implements layout.FaceSource.
func (f *Font) Face(size int) (layout.Face, error) {
	return f.NewFace(size), nil
}

// NewFace returns a face at size pixels (72 DPI, so points equal pixels).
func (f *Font) NewFace(size int) *Face {
	return &Face{
		size: size,
		face: truetype.NewFace(f.ttf, &truetype.Options{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		}),
	}
}

// Face is a font at one size.
type Face struct {
	size int
	face font.Face
}

// Size returns the font size in pixels.
func (f *Face) Size() int { return f.size }

// Width returns the advance width of text in pixels.
func (f *Face) Width(text string) float64 {
	return float64(font.MeasureString(f.face, text)) / 64
}

// Ascent returns the distance from the top of the line box to the baseline.
func (f *Face) Ascent() float64 {
	return float64(f.face.Metrics().Ascent) / 64
}

// Descent returns the distance from the baseline to the bottom of the line box.
func (f *Face) Descent() float64 {
	return float64(f.face.Metrics().Descent) / 64
}

// FontFace returns the underlying font.Face for drawing.
func (f *Face) FontFace() font.Face { return f.face }

// Set pairs the title and body typefaces. Both may be the same font.
type Set struct {
	Title *Font
	Body  *Font
}

// DefaultSet uses the embedded font for both title and body.
func DefaultSet() Set {
	return Set{Title: Default(), Body: Default()}
}

// LoadSet loads the title and body fonts. An empty path selects the
// embedded font; identical paths share one parsed font.
func LoadSet(titlePath, bodyPath string) (Set, error) {
	title, err := loadOrDefault(titlePath)
	if err != nil {
		return Set{}, err
	}
	if bodyPath == titlePath {
		return Set{Title: title, Body: title}, nil
	}
	body, err := loadOrDefault(bodyPath)
	if err != nil {
		return Set{}, err
	}
	return Set{Title: title, Body: body}, nil
}

func loadOrDefault(path string) (*Font, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
