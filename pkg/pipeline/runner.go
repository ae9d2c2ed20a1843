package pipeline

import (
	"context"
	stderrors "errors"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/postcard/pkg/cache"
	"github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/fonts"
	"github.com/matzehuels/postcard/pkg/observability"
	"github.com/matzehuels/postcard/pkg/render/layout"
	"github.com/matzehuels/postcard/pkg/render/sink"
	"github.com/matzehuels/postcard/pkg/render/styles"
	"github.com/matzehuels/postcard/pkg/storage"
)

const keyTypeCard = "card"

// Runner renders cards. It holds no per-request state; one Runner may serve
// concurrent requests.
type Runner struct {
	Store  *storage.Store
	Fonts  fonts.Set
	Styles *styles.Table
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	Concurrency  int           // parallel style renders; 0 means one per CPU
	BestEffort   bool          // default failure policy for every request
	Timeout      time.Duration // wall-clock budget per request; 0 disables
	CacheTTL     time.Duration // artifact expiry; 0 keeps entries
	MinTitleSize int           // title search floor; 0 uses the layout default
}

// NewRunner creates a runner writing to store with the stock fonts and
// styles. A nil cache disables caching; a nil logger uses log.Default().
func NewRunner(store *storage.Store, c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Store:  store,
		Fonts:  fonts.DefaultSet(),
		Styles: styles.Default(),
		Cache:  c,
		Keyer:  cache.NewDefaultKeyer(),
		Logger: logger,
	}
}

// RenderCard creates one card in styleID and returns its path.
func (r *Runner) RenderCard(ctx context.Context, req Request, styleID string) (string, error) {
	req.Styles = []string{styleID}
	req.BestEffort = false
	res, err := r.CreateCards(ctx, req)
	if err != nil {
		return "", err
	}
	return res.Cards[0].Path, nil
}

// CreateCards renders req in every requested style.
//
// On failure the returned Result is nil in fail-fast mode. In best-effort
// mode it lists the cards that were saved and the error joins one
// RENDER_FAILED entry per failed style.
func (r *Runner) CreateCards(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	selected, err := r.Styles.Select(req.Styles)
	if err != nil {
		return nil, err
	}
	bestEffort := req.BestEffort || r.BestEffort

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	start := time.Now()
	res := &Result{Requested: len(selected)}

	bg, err := loadBackground(req.Background)
	if err != nil {
		return nil, err
	}
	res.Stats.LoadTime = time.Since(start)
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	layoutStart := time.Now()
	size := bg.img.Bounds().Size()
	l, err := layout.Compute(r.Fonts.Title, r.Fonts.Body, size.X, size.Y, req.Title, req.Message,
		layout.Options{MinTitleSize: r.MinTitleSize})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "layout")
	}
	res.Layout = l
	res.Stats.LayoutTime = time.Since(layoutStart)
	observability.Render().OnLayoutComplete(ctx, l.TitleSize, len(l.Title), len(l.Body), res.Stats.LayoutTime)
	r.Logger.Debug("computed layout",
		"size", l.TitleSize,
		"title_lines", len(l.Title),
		"body_lines", len(l.Body),
		"duration", res.Stats.LayoutTime)

	renderStart := time.Now()
	cards := make([]*Card, len(selected))
	var (
		mu     sync.Mutex
		failed []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency())
	for i, style := range selected {
		g.Go(func() error {
			card, err := r.renderStyle(gctx, req, bg, l, style)
			if err != nil {
				err = errors.Wrap(errors.ErrCodeRenderFailed, err, "style %s", style.ID)
				if !bestEffort {
					return err
				}
				mu.Lock()
				failed = append(failed, err)
				mu.Unlock()
				return nil
			}
			cards[i] = card
			return nil
		})
	}
	waitErr := g.Wait()
	res.Stats.RenderTime = time.Since(renderStart)

	for _, c := range cards {
		if c != nil {
			res.Cards = append(res.Cards, *c)
			if c.Cached {
				res.Stats.CacheHits++
			}
		}
	}

	err = r.batchError(ctx, waitErr, failed, len(selected))
	observability.Render().OnBatchComplete(ctx, req.UserID, len(res.Cards), time.Since(start), err)
	if err != nil {
		if bestEffort {
			return res, err
		}
		return nil, err
	}

	r.Logger.Info("created cards",
		"user", req.UserID,
		"cards", len(res.Cards),
		"cached", res.Stats.CacheHits,
		"duration", time.Since(start))
	return res, nil
}

func (r *Runner) batchError(ctx context.Context, waitErr error, failed []error, total int) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "render budget of %s exceeded", r.Timeout)
	}
	if waitErr != nil {
		return waitErr
	}
	if len(failed) > 0 {
		return errors.Wrap(errors.ErrCodeRenderFailed, stderrors.Join(failed...),
			"%d of %d styles failed", len(failed), total)
	}
	return nil
}

// renderStyle produces and saves one card, consulting the cache first.
func (r *Runner) renderStyle(ctx context.Context, req Request, bg *background, l layout.Layout, style styles.Style) (card *Card, err error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	observability.Render().OnStyleStart(ctx, style.ID)
	defer func() {
		observability.Render().OnStyleComplete(ctx, style.ID, time.Since(start), err)
	}()

	key := r.Keyer.ArtifactKey(cache.ArtifactKeyOpts{
		BackgroundHash: bg.hash,
		Title:          req.Title,
		Message:        req.Message,
		Fill:           style.Fill,
		Stroke:         style.Stroke,
		StrokeWidth:    style.StrokeWidth,
		TitleFont:      r.Fonts.Title.ID(),
		BodyFont:       r.Fonts.Body.ID(),
		MinTitleSize:   r.MinTitleSize,
	})

	data, cached := r.cached(ctx, key)
	if !cached {
		data, err = sink.RenderPNG(bg.img, l, sink.WithStyle(style), sink.WithFonts(r.Fonts))
		if err != nil {
			return nil, err
		}
		if err := r.Cache.Set(ctx, key, data, r.CacheTTL); err != nil {
			r.Logger.Warn("cache write failed", "style", style.ID, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeCard, len(data))
		}
	}

	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	path, err := r.Store.WriteCard(req.UserID, req.Background, style.ID, data)
	if err != nil {
		return nil, err
	}
	return &Card{StyleID: style.ID, Path: path, Cached: cached}, nil
}

// cached returns a cache hit. Cache errors count as misses.
func (r *Runner) cached(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeCard)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeCard)
	return data, true
}

func (r *Runner) concurrency() int {
	if r.Concurrency > 0 {
		return r.Concurrency
	}
	return runtime.NumCPU()
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return errors.Wrap(errors.ErrCodeTimeout, err, "render budget exceeded")
		}
		return err
	}
	return nil
}
