package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/postcard/pkg/cache"
	"github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/storage"
)

// writeBackground writes a w×h gradient JPEG into dir.
func writeBackground(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 255 / w), uint8(y * 255 / h), 120, 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestRunner(t *testing.T) (*Runner, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewStore(filepath.Join(dir, "output"))
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(store, nil, log.New(&bytes.Buffer{}))
	r.Concurrency = 2
	return r, writeBackground(t, dir, "bg1.jpg", 240, 320)
}

func request(bg string) Request {
	return Request{
		UserID:     "42",
		Background: bg,
		Title:      "С Новым годом!",
		Message:    "Счастья и здоровья",
	}
}

func TestRenderCardPath(t *testing.T) {
	r, bg := newTestRunner(t)

	path, err := r.RenderCard(context.Background(), request(bg), "gold")
	if err != nil {
		t.Fatalf("RenderCard() error: %v", err)
	}
	want := filepath.Join(r.Store.Root(), "42", "bg1_gold.png")
	if path != want {
		t.Errorf("RenderCard() = %q, want %q", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("card is not a PNG: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(240, 320) {
		t.Errorf("card size = %v, want 240x320", got)
	}
}

func TestRenderCardDottedBackground(t *testing.T) {
	r, _ := newTestRunner(t)
	dir := t.TempDir()

	for _, tt := range []struct{ background, want string }{
		{"winter..v2.jpg", "winter..v2_gold.png"},
		{".hidden.jpg", ".hidden_gold.png"},
	} {
		bg := writeBackground(t, dir, tt.background, 120, 160)
		path, err := r.RenderCard(context.Background(), request(bg), "gold")
		if err != nil {
			t.Fatalf("RenderCard(%s) error: %v", tt.background, err)
		}
		if filepath.Base(path) != tt.want {
			t.Errorf("RenderCard(%s) = %s, want %s", tt.background, filepath.Base(path), tt.want)
		}
		if _, err := r.Store.Path("42", tt.want); err != nil {
			t.Errorf("Path(%s) error: %v", tt.want, err)
		}
	}
}

func TestCreateCardsAllStyles(t *testing.T) {
	r, bg := newTestRunner(t)

	res, err := r.CreateCards(context.Background(), request(bg))
	if err != nil {
		t.Fatalf("CreateCards() error: %v", err)
	}

	ids := r.Styles.IDs()
	if len(res.Cards) != len(ids) {
		t.Fatalf("got %d cards, want %d", len(res.Cards), len(ids))
	}
	for i, card := range res.Cards {
		if card.StyleID != ids[i] {
			t.Errorf("card %d style = %s, want %s", i, card.StyleID, ids[i])
		}
		if filepath.Base(card.Path) != "bg1_"+ids[i]+".png" {
			t.Errorf("card %d path = %s", i, card.Path)
		}
		if _, err := os.Stat(card.Path); err != nil {
			t.Errorf("card %d not saved: %v", i, err)
		}
	}

	images, _ := r.Store.Images("42")
	if len(images) != len(ids) {
		t.Errorf("store lists %d images, want %d", len(images), len(ids))
	}
	if res.Layout.TitleSize == 0 || len(res.Layout.Title) == 0 {
		t.Errorf("layout not reported: %+v", res.Layout)
	}
}

func TestCreateCardsSubset(t *testing.T) {
	r, bg := newTestRunner(t)
	req := request(bg)
	req.Styles = []string{"white", "gold"}

	res, err := r.CreateCards(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateCards() error: %v", err)
	}
	if len(res.Cards) != 2 || res.Cards[0].StyleID != "white" || res.Cards[1].StyleID != "gold" {
		t.Errorf("cards = %+v", res.Cards)
	}
}

func TestCreateCardsValidation(t *testing.T) {
	r, bg := newTestRunner(t)

	tests := []struct {
		name   string
		mutate func(*Request)
		code   errors.Code
	}{
		{"unknown style", func(q *Request) { q.Styles = []string{"gold", "neon"} }, errors.ErrCodeInvalidStyle},
		{"empty title", func(q *Request) { q.Title = "  " }, errors.ErrCodeInvalidInput},
		{"bad user", func(q *Request) { q.UserID = "../x" }, errors.ErrCodeInvalidInput},
		{"no background", func(q *Request) { q.Background = "" }, errors.ErrCodeInvalidInput},
		{"missing background", func(q *Request) { q.Background = filepath.Join(filepath.Dir(bg), "nope.jpg") }, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(bg)
			tt.mutate(&req)
			_, err := r.CreateCards(context.Background(), req)
			if !errors.Is(err, tt.code) {
				t.Errorf("CreateCards() error = %v, want %s", err, tt.code)
			}
		})
	}

	if images, _ := r.Store.Images("42"); len(images) != 0 {
		t.Errorf("failed requests wrote %d cards", len(images))
	}
}

func TestCreateCardsInvalidImage(t *testing.T) {
	r, bg := newTestRunner(t)
	broken := filepath.Join(filepath.Dir(bg), "broken.jpg")
	os.WriteFile(broken, []byte("not an image"), 0o644)

	_, err := r.CreateCards(context.Background(), request(broken))
	if !errors.Is(err, errors.ErrCodeInvalidImage) {
		t.Errorf("CreateCards() error = %v, want %s", err, errors.ErrCodeInvalidImage)
	}
}

func TestCreateCardsDeterministic(t *testing.T) {
	r, bg := newTestRunner(t)
	ctx := context.Background()

	a := request(bg)
	b := request(bg)
	b.UserID = "43"

	pa, err := r.RenderCard(ctx, a, "santa_red")
	if err != nil {
		t.Fatal(err)
	}
	pb, err := r.RenderCard(ctx, b, "santa_red")
	if err != nil {
		t.Fatal(err)
	}
	da, _ := os.ReadFile(pa)
	db, _ := os.ReadFile(pb)
	if !bytes.Equal(da, db) {
		t.Error("identical requests produced different cards")
	}
}

func TestCreateCardsNoMessage(t *testing.T) {
	r, bg := newTestRunner(t)
	req := request(bg)
	req.Message = ""
	req.Styles = []string{"white"}

	res, err := r.CreateCards(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateCards() error: %v", err)
	}
	if len(res.Layout.Body) != 0 {
		t.Errorf("body lines = %v, want none", res.Layout.BodyLines())
	}
	if res.Layout.BlockHeight != res.Layout.TitleHeight() {
		t.Errorf("BlockHeight = %d, want title height %d", res.Layout.BlockHeight, res.Layout.TitleHeight())
	}
}

// blockStyle makes the card path for style unwritable by putting a
// directory there.
func blockStyle(t *testing.T, r *Runner, userID, style string) {
	t.Helper()
	dir, err := r.Store.UserDir(userID)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "bg1_"+style+".png", "x"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestCreateCardsFailFast(t *testing.T) {
	r, bg := newTestRunner(t)
	blockStyle(t, r, "42", "gold")

	res, err := r.CreateCards(context.Background(), request(bg))
	if !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Fatalf("CreateCards() error = %v, want %s", err, errors.ErrCodeRenderFailed)
	}
	if res != nil {
		t.Errorf("fail-fast returned a result: %+v", res)
	}
}

func TestCreateCardsBestEffort(t *testing.T) {
	r, bg := newTestRunner(t)
	blockStyle(t, r, "42", "gold")
	req := request(bg)
	req.BestEffort = true

	res, err := r.CreateCards(context.Background(), req)
	if !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Fatalf("CreateCards() error = %v, want %s", err, errors.ErrCodeRenderFailed)
	}
	if !strings.Contains(err.Error(), "style gold") {
		t.Errorf("error does not name the failed style: %v", err)
	}
	if res == nil || len(res.Cards) != r.Styles.Len()-1 {
		t.Fatalf("best effort result = %+v", res)
	}
	if res.Requested != r.Styles.Len() {
		t.Errorf("Requested = %d, want %d", res.Requested, r.Styles.Len())
	}
	for _, c := range res.Cards {
		if c.StyleID == "gold" {
			t.Error("failed style listed as saved")
		}
	}
}

func TestCreateCardsTimeout(t *testing.T) {
	r, bg := newTestRunner(t)
	r.Timeout = time.Nanosecond

	_, err := r.CreateCards(context.Background(), request(bg))
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("CreateCards() error = %v, want %s", err, errors.ErrCodeTimeout)
	}
}

// stallingCache answers the first lookup with a miss and holds every later
// lookup until the context ends.
type stallingCache struct {
	*cache.NullCache
	calls atomic.Int32
}

func (c *stallingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.calls.Add(1) == 1 {
		return nil, false, nil
	}
	<-ctx.Done()
	return nil, false, ctx.Err()
}

func TestCreateCardsBestEffortTimeout(t *testing.T) {
	r, bg := newTestRunner(t)
	r.Cache = &stallingCache{NullCache: &cache.NullCache{}}
	r.Concurrency = 1
	r.Timeout = 2 * time.Second
	req := request(bg)
	req.Styles = []string{"gold", "white", "santa_red"}
	req.BestEffort = true

	res, err := r.CreateCards(context.Background(), req)
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Fatalf("CreateCards() error = %v, want %s", err, errors.ErrCodeTimeout)
	}
	if res == nil {
		t.Fatal("best effort timeout returned no result")
	}
	if res.Requested != 3 {
		t.Errorf("Requested = %d, want 3", res.Requested)
	}
	if len(res.Cards) != 1 || res.Cards[0].StyleID != "gold" {
		t.Errorf("cards = %+v, want only gold", res.Cards)
	}
}

func TestCreateCardsCanceled(t *testing.T) {
	r, bg := newTestRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.CreateCards(ctx, request(bg)); err == nil {
		t.Error("CreateCards() with canceled context succeeded")
	}
}

func TestCreateCardsCache(t *testing.T) {
	r, bg := newTestRunner(t)
	c, err := cache.NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	r.Cache = c
	ctx := context.Background()
	req := request(bg)
	req.Styles = []string{"gold", "white"}

	first, err := r.CreateCards(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if first.Stats.CacheHits != 0 {
		t.Errorf("first run cache hits = %d, want 0", first.Stats.CacheHits)
	}
	firstData, _ := os.ReadFile(first.Cards[0].Path)

	req.UserID = "other"
	second, err := r.CreateCards(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if second.Stats.CacheHits != 2 {
		t.Errorf("second run cache hits = %d, want 2", second.Stats.CacheHits)
	}
	secondData, _ := os.ReadFile(second.Cards[0].Path)
	if !bytes.Equal(firstData, secondData) {
		t.Error("cached card differs from rendered card")
	}

	req.Message = "другой текст"
	third, _ := r.CreateCards(ctx, req)
	if third.Stats.CacheHits != 0 {
		t.Errorf("changed message hit the cache %d times", third.Stats.CacheHits)
	}
}
