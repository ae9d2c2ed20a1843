package config

import (
	"image/color"

	"github.com/matzehuels/postcard/pkg/catalog"
	"github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/render/styles"
)

// StyleConfig is one [[styles]] entry. Colours are [r, g, b] or
// [r, g, b, a] with components 0–255; alpha defaults to 255.
type StyleConfig struct {
	ID          string `toml:"id"`
	Fill        []int  `toml:"fill"`
	Stroke      []int  `toml:"stroke"`
	StrokeWidth int    `toml:"stroke_width"`
}

// OccasionConfig is one [[occasions]] entry.
type OccasionConfig struct {
	Key   string   `toml:"key"`
	Title string   `toml:"title"`
	Texts []string `toml:"texts"`
}

// StyleTable builds the style table, falling back to the stock styles.
func (c Config) StyleTable() (*styles.Table, error) {
	if len(c.Styles) == 0 {
		return styles.Default(), nil
	}
	list := make([]styles.Style, 0, len(c.Styles))
	for _, sc := range c.Styles {
		s, err := sc.Style()
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return styles.NewTable(list...)
}

// Style converts the entry.
func (sc StyleConfig) Style() (styles.Style, error) {
	fill, err := parseColour(sc.Fill)
	if err != nil {
		return styles.Style{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "style %q fill", sc.ID)
	}
	stroke, err := parseColour(sc.Stroke)
	if err != nil {
		return styles.Style{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "style %q stroke", sc.ID)
	}
	return styles.Style{ID: sc.ID, Fill: fill, Stroke: stroke, StrokeWidth: sc.StrokeWidth}, nil
}

func parseColour(v []int) (c color.NRGBA, err error) {
	if len(v) != 3 && len(v) != 4 {
		return c, errors.New(errors.ErrCodeInvalidConfig, "want 3 or 4 components, got %d", len(v))
	}
	for _, x := range v {
		if x < 0 || x > 255 {
			return c, errors.New(errors.ErrCodeInvalidConfig, "component %d out of range 0-255", x)
		}
	}
	a := 255
	if len(v) == 4 {
		a = v[3]
	}
	return styles.RGBA(uint8(v[0]), uint8(v[1]), uint8(v[2]), uint8(a)), nil
}

// OccasionSet builds the occasions, falling back to the stock set, and
// attaches texts from TextsDir when it is set.
func (c Config) OccasionSet() (*catalog.Occasions, error) {
	set := catalog.DefaultOccasions()
	if len(c.Occasions) > 0 {
		list := make([]catalog.Occasion, len(c.Occasions))
		for i, oc := range c.Occasions {
			list[i] = catalog.Occasion{Key: oc.Key, Title: oc.Title, Texts: oc.Texts}
		}
		var err error
		if set, err = catalog.NewOccasions(list...); err != nil {
			return nil, err
		}
	}
	if c.TextsDir == "" {
		return set, nil
	}
	return set.WithTexts(c.TextsDir)
}
