package styles

import (
	"github.com/matzehuels/postcard/pkg/errors"
)

// Table is an immutable, ordered set of styles.
type Table struct {
	order []string
	byID  map[string]Style
}

// NewTable builds a table from styles in the given order.
// Duplicate or invalid styles are rejected.
func NewTable(styles ...Style) (*Table, error) {
	if len(styles) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "style table cannot be empty")
	}
	t := &Table{
		order: make([]string, 0, len(styles)),
		byID:  make(map[string]Style, len(styles)),
	}
	for _, s := range styles {
		if err := s.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid style")
		}
		if _, dup := t.byID[s.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "duplicate style %q", s.ID)
		}
		t.order = append(t.order, s.ID)
		t.byID[s.ID] = s
	}
	return t, nil
}

// Default returns the stock seven-style table.
func Default() *Table {
	t, err := NewTable(defaults...)
	if err != nil {
		panic(err)
	}
	return t
}

var defaults = []Style{
	{ID: "blue_bright_white", Fill: RGBA(9, 52, 190, 255), Stroke: RGBA(235, 235, 198, 255), StrokeWidth: 10},
	{ID: "fuchsia_white", Fill: RGBA(190, 7, 90, 255), Stroke: RGBA(245, 245, 245, 150), StrokeWidth: 10},
	{ID: "white", Fill: RGBA(255, 255, 255, 255), Stroke: RGBA(0, 0, 0, 160), StrokeWidth: 10},
	{ID: "santa_red", Fill: RGBA(200, 20, 20, 255), Stroke: RGBA(255, 255, 255, 255), StrokeWidth: 10},
	{ID: "gold", Fill: RGBA(229, 152, 35, 255), Stroke: RGBA(255, 255, 255, 200), StrokeWidth: 10},
	{ID: "red_big", Fill: RGBA(180, 0, 0, 255), Stroke: RGBA(255, 255, 255, 200), StrokeWidth: 8},
	{ID: "silver_white", Fill: RGBA(110, 39, 0, 255), Stroke: RGBA(245, 235, 119, 180), StrokeWidth: 10},
}

// Get returns the style with the given ID. An unknown ID is a caller
// contract violation and yields an INVALID_STYLE error.
func (t *Table) Get(id string) (Style, error) {
	s, ok := t.byID[id]
	if !ok {
		return Style{}, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q", id)
	}
	return s, nil
}

// IDs returns the style IDs in table order.
func (t *Table) IDs() []string {
	return append([]string(nil), t.order...)
}

// All returns the styles in table order.
func (t *Table) All() []Style {
	out := make([]Style, len(t.order))
	for i, id := range t.order {
		out[i] = t.byID[id]
	}
	return out
}

// Len returns the number of styles.
func (t *Table) Len() int { return len(t.order) }

// Select returns the styles named by ids in the given order, or every style
// when ids is empty.
func (t *Table) Select(ids []string) ([]Style, error) {
	if len(ids) == 0 {
		return t.All(), nil
	}
	out := make([]Style, 0, len(ids))
	for _, id := range ids {
		s, err := t.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
