package catalog

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/postcard/pkg/errors"
)

// Occasion is a card title with optional stock messages.
type Occasion struct {
	Key   string   `json:"key"`
	Title string   `json:"title"`
	Texts []string `json:"texts,omitempty"`
}

// Text returns stock text i. Indexes wrap around in both directions so a
// caller can page through texts with a running counter. ok is false when
// the occasion has no texts.
func (o Occasion) Text(i int) (text string, ok bool) {
	n := len(o.Texts)
	if n == 0 {
		return "", false
	}
	return o.Texts[((i%n)+n)%n], true
}

// Occasions is an immutable ordered set of occasions.
type Occasions struct {
	order []string
	byKey map[string]Occasion
}

// NewOccasions builds a set in the given order.
func NewOccasions(list ...Occasion) (*Occasions, error) {
	o := &Occasions{byKey: make(map[string]Occasion, len(list))}
	for _, oc := range list {
		if oc.Key == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "occasion key cannot be empty")
		}
		if strings.TrimSpace(oc.Title) == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "occasion %q has no title", oc.Key)
		}
		if _, dup := o.byKey[oc.Key]; dup {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "duplicate occasion %q", oc.Key)
		}
		o.order = append(o.order, oc.Key)
		o.byKey[oc.Key] = oc
	}
	return o, nil
}

// DefaultOccasions returns the stock occasions without texts.
func DefaultOccasions() *Occasions {
	o, err := NewOccasions(
		Occasion{Key: "coming", Title: "С наступающим Новым годом!"},
		Occasion{Key: "new_year", Title: "С Новым годом!"},
		Occasion{Key: "christmas", Title: "С Рождеством!"},
		Occasion{Key: "old_new_year", Title: "Со Старым Новым годом!"},
	)
	if err != nil {
		panic(err)
	}
	return o
}

// Get returns the occasion with the given key.
func (o *Occasions) Get(key string) (Occasion, error) {
	oc, ok := o.byKey[key]
	if !ok {
		return Occasion{}, errors.New(errors.ErrCodeInvalidOccasion, "unknown occasion %q", key)
	}
	return oc, nil
}

// Keys returns the occasion keys in order.
func (o *Occasions) Keys() []string {
	return append([]string(nil), o.order...)
}

// All returns the occasions in order.
func (o *Occasions) All() []Occasion {
	out := make([]Occasion, len(o.order))
	for i, k := range o.order {
		out[i] = o.byKey[k]
	}
	return out
}

// WithTexts returns a copy of the set in which every occasion without
// inline texts gets the texts stored in dir/{key}.txt. Missing files are
// skipped.
func (o *Occasions) WithTexts(dir string) (*Occasions, error) {
	list := o.All()
	for i, oc := range list {
		if len(oc.Texts) > 0 {
			continue
		}
		texts, err := LoadTexts(filepath.Join(dir, oc.Key+".txt"))
		if errors.Is(err, errors.ErrCodeFileNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		list[i].Texts = texts
	}
	return NewOccasions(list...)
}

// LoadTexts reads stock texts from a file. Texts are separated by one or
// more blank lines; lines inside a text are joined with a newline and
// surrounding whitespace is trimmed.
func LoadTexts(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "texts %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open texts %s", path)
	}
	defer f.Close()

	var (
		texts   []string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			texts = append(texts, strings.Join(current, "\n"))
			current = nil
		}
	}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read texts %s", path)
	}
	flush()
	return texts, nil
}
