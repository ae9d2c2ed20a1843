package cache

import "image/color"

// ArtifactKeyOpts lists every input that affects a rendered card.
type ArtifactKeyOpts struct {
	BackgroundHash string      `json:"bg"`
	Title          string      `json:"title"`
	Message        string      `json:"message"`
	Fill           color.NRGBA `json:"fill"`
	Stroke         color.NRGBA `json:"stroke"`
	StrokeWidth    int         `json:"stroke_width"`
	TitleFont      string      `json:"title_font"`
	BodyFont       string      `json:"body_font"`
	MinTitleSize   int         `json:"min_title_size"`
}

// Keyer builds cache keys.
type Keyer interface {
	ArtifactKey(opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the options into "card:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements Keyer. The style id is left out on purpose: two
// styles with identical colours produce identical cards.
func (DefaultKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return hashKey("card", opts)
}

// ScopedKeyer prefixes every key of an inner keyer, for example to keep
// cards of differently configured deployments apart in one Redis.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (default keyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(opts)
}
