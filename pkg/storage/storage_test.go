package storage

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/matzehuels/postcard/pkg/errors"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "output"))
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	return s
}

func TestNewStoreCreatesRoot(t *testing.T) {
	s := newStore(t)
	if info, err := os.Stat(s.Root()); err != nil || !info.IsDir() {
		t.Fatalf("root not created: %v", err)
	}
	if _, err := NewStore(""); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("NewStore(\"\") error = %v", err)
	}
}

func TestCardName(t *testing.T) {
	tests := []struct {
		background, style, want string
	}{
		{"bg1.jpg", "gold", "bg1_gold.png"},
		{"assets/previews/winter.jpeg", "white", "winter_white.png"},
		{"/abs/snow.PNG", "red_big", "snow_red_big.png"},
		{"noext", "gold", "noext_gold.png"},
		{"two.dots.jpg", "gold", "two.dots_gold.png"},
	}
	for _, tt := range tests {
		if got := CardName(tt.background, tt.style); got != tt.want {
			t.Errorf("CardName(%q, %q) = %q, want %q", tt.background, tt.style, got, tt.want)
		}
	}
}

func TestCardPath(t *testing.T) {
	s := newStore(t)

	path, err := s.CardPath("42", "bg1.jpg", "gold")
	if err != nil {
		t.Fatalf("CardPath() error: %v", err)
	}
	want := filepath.Join(s.Root(), "42", "bg1_gold.png")
	if path != want {
		t.Errorf("CardPath() = %q, want %q", path, want)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("user dir not created: %v", err)
	}
}

func TestInvalidUserID(t *testing.T) {
	s := newStore(t)
	for _, id := range []string{"", "..", "../etc", "a/b", ".hidden"} {
		if _, err := s.UserDir(id); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("UserDir(%q) error = %v, want %s", id, err, errors.ErrCodeInvalidInput)
		}
		if err := s.Remove(id); err == nil {
			t.Errorf("Remove(%q) succeeded", id)
		}
	}
}

func TestWriteAndImages(t *testing.T) {
	s := newStore(t)

	for _, bg := range []string{"b.jpg", "a.jpg"} {
		if _, err := s.WriteCard("7", bg, "gold", []byte(bg)); err != nil {
			t.Fatalf("WriteCard(%s) error: %v", bg, err)
		}
	}
	dir, _ := s.UserDir("7")
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

	got, err := s.Images("7")
	if err != nil {
		t.Fatalf("Images() error: %v", err)
	}
	want := []string{filepath.Join(dir, "a_gold.png"), filepath.Join(dir, "b_gold.png")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Images() = %v, want %v", got, want)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestImagesUnknownUser(t *testing.T) {
	s := newStore(t)
	got, err := s.Images("nobody")
	if err != nil || len(got) != 0 {
		t.Errorf("Images() = %v, %v; want empty", got, err)
	}
}

func TestWriteReplaces(t *testing.T) {
	s := newStore(t)
	s.WriteCard("1", "card.jpg", "gold", []byte("old"))
	path, err := s.WriteCard("1", "card.jpg", "gold", []byte("new"))
	if err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("card content = %q, want new", data)
	}
}

func TestConcurrentWritesLastWins(t *testing.T) {
	s := newStore(t)
	payloads := []string{"one", "two", "three", "four"}

	var wg sync.WaitGroup
	for _, p := range payloads {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			if _, err := s.WriteCard("u", "card.jpg", "gold", []byte(p)); err != nil {
				t.Errorf("WriteCard() error: %v", err)
			}
		}(p)
	}
	wg.Wait()

	path, err := s.Path("u", "card_gold.png")
	if err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	found := false
	for _, p := range payloads {
		if string(data) == p {
			found = true
		}
	}
	if !found {
		t.Errorf("card content %q is not one of the written payloads", data)
	}
}

func TestClearAndRemove(t *testing.T) {
	s := newStore(t)
	s.WriteCard("9", "x.jpg", "gold", []byte("x"))

	if err := s.Clear("9"); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	imgs, _ := s.Images("9")
	if len(imgs) != 0 {
		t.Errorf("Images() after Clear = %v", imgs)
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "9")); err != nil {
		t.Errorf("Clear() removed the directory: %v", err)
	}

	if err := s.Remove("9"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "9")); !os.IsNotExist(err) {
		t.Errorf("Remove() left the directory: %v", err)
	}
	if err := s.Remove("9"); err != nil {
		t.Errorf("second Remove() error: %v", err)
	}
}

func TestOpen(t *testing.T) {
	s := newStore(t)
	s.WriteCard("3", "bg.jpg", "gold", []byte("png"))

	f, err := s.Open("3", "bg_gold.png")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if string(data) != "png" {
		t.Errorf("Open() content = %q", data)
	}

	if _, err := s.Open("3", "missing.png"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Open(missing) error = %v, want %s", err, errors.ErrCodeNotFound)
	}
	if _, err := s.Open("3", "../3/bg_gold.png"); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Open(traversal) error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
	if _, err := s.Open("3", ".."); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Open(..) error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
	if _, err := s.WriteCard("3", "bg.jpg", "a/b", nil); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("WriteCard(style a/b) error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
}

func TestWriteCardDottedBackgrounds(t *testing.T) {
	s := newStore(t)
	tests := []struct {
		background, want string
	}{
		{"winter..v2.jpg", "winter..v2_gold.png"},
		{"/bgs/.hidden.jpg", ".hidden_gold.png"},
		{"...jpg", ".._gold.png"},
	}
	for _, tt := range tests {
		path, err := s.WriteCard("5", tt.background, "gold", []byte(tt.want))
		if err != nil {
			t.Fatalf("WriteCard(%q) error: %v", tt.background, err)
		}
		if filepath.Base(path) != tt.want {
			t.Errorf("WriteCard(%q) = %q, want base %q", tt.background, path, tt.want)
		}
		f, err := s.Open("5", tt.want)
		if err != nil {
			t.Fatalf("Open(%q) error: %v", tt.want, err)
		}
		data, _ := io.ReadAll(f)
		f.Close()
		if string(data) != tt.want {
			t.Errorf("Open(%q) content = %q", tt.want, data)
		}
	}
}
