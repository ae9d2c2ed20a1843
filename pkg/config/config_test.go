package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/render/styles"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if cfg.Render.MinTitleSize != 40 {
		t.Errorf("MinTitleSize = %d, want 40", cfg.Render.MinTitleSize)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("cache backend = %q, want none", cfg.Cache.Backend)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
output_dir = "/tmp/cards"
texts_dir = "texts"

[render]
concurrency = 3
best_effort = true
timeout = "45s"

[cache]
backend = "file"
ttl = "2h"

[[styles]]
id = "mono"
fill = [0, 0, 0]
stroke = [255, 255, 255, 128]
stroke_width = 4
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.OutputDir != "/tmp/cards" || cfg.TextsDir != "texts" {
		t.Errorf("dirs = %q, %q", cfg.OutputDir, cfg.TextsDir)
	}
	if cfg.BackgroundsDir != "assets/previews" {
		t.Errorf("unset backgrounds_dir = %q, want default", cfg.BackgroundsDir)
	}
	if cfg.Render.Concurrency != 3 || !cfg.Render.BestEffort || cfg.Render.Timeout.Duration != 45*time.Second {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Render.MinTitleSize != 40 {
		t.Errorf("unset min_title_size = %d, want 40", cfg.Render.MinTitleSize)
	}
	if cfg.Cache.Backend != "file" || cfg.Cache.TTL.Duration != 2*time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}

	tbl, err := cfg.StyleTable()
	if err != nil {
		t.Fatalf("StyleTable() error: %v", err)
	}
	if got := tbl.IDs(); !reflect.DeepEqual(got, []string{"mono"}) {
		t.Errorf("style ids = %v", got)
	}
	mono, _ := tbl.Get("mono")
	if mono.Fill != styles.RGBA(0, 0, 0, 255) || mono.Stroke != styles.RGBA(255, 255, 255, 128) {
		t.Errorf("mono = %+v", mono)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", `output_dir = `},
		{"bad duration", "[render]\ntimeout = \"soon\""},
		{"negative concurrency", "[render]\nconcurrency = -1"},
		{"unknown backend", "[cache]\nbackend = \"memcached\""},
		{"redis without addr", "[cache]\nbackend = \"redis\""},
		{"empty output", `output_dir = ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestStyleTableErrors(t *testing.T) {
	tests := []struct {
		name  string
		style StyleConfig
	}{
		{"short colour", StyleConfig{ID: "a", Fill: []int{1, 2}, Stroke: []int{0, 0, 0}}},
		{"out of range", StyleConfig{ID: "a", Fill: []int{1, 2, 300}, Stroke: []int{0, 0, 0}}},
		{"missing id", StyleConfig{Fill: []int{1, 2, 3}, Stroke: []int{0, 0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Styles = []StyleConfig{tt.style}
			if _, err := cfg.StyleTable(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("StyleTable() error = %v", err)
			}
		})
	}
}

func TestDefaultTables(t *testing.T) {
	cfg := Default()
	tbl, err := cfg.StyleTable()
	if err != nil || tbl.Len() != 7 {
		t.Errorf("StyleTable() = %v styles, err %v", tbl.Len(), err)
	}
	occ, err := cfg.OccasionSet()
	if err != nil || len(occ.Keys()) != 4 {
		t.Errorf("OccasionSet() = %v, err %v", occ.Keys(), err)
	}
}

func TestOccasionSet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "birthday.txt", "Будь счастлив\n\nРасти большим")

	cfg := Default()
	cfg.TextsDir = dir
	cfg.Occasions = []OccasionConfig{
		{Key: "birthday", Title: "С днём рождения!"},
		{Key: "wedding", Title: "Совет да любовь!", Texts: []string{"Любви"}},
	}
	set, err := cfg.OccasionSet()
	if err != nil {
		t.Fatalf("OccasionSet() error: %v", err)
	}
	if got := set.Keys(); !reflect.DeepEqual(got, []string{"birthday", "wedding"}) {
		t.Errorf("Keys() = %v", got)
	}
	b, _ := set.Get("birthday")
	if len(b.Texts) != 2 {
		t.Errorf("birthday texts = %q", b.Texts)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "postcard.toml", "output_dir = \"from-file\"\n[cache]\nbackend = \"redis\"\nredis_addr = \"file:6379\"\n")

	t.Setenv(EnvOutputDir, "")
	t.Setenv(EnvRedisAddr, "env:6379")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.OutputDir != "from-file" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Cache.RedisAddr != "env:6379" {
		t.Errorf("RedisAddr = %q, environment should win", cfg.Cache.RedisAddr)
	}

	t.Setenv(EnvOutputDir, "from-env")
	cfg, _ = Load(path)
	if cfg.OutputDir != "from-env" {
		t.Errorf("OutputDir = %q, want from-env", cfg.OutputDir)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvConfig, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") without a default file error: %v", err)
	}
	if cfg.OutputDir != "output" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}

	if _, err := Load("nope.toml"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(nope.toml) error = %v", err)
	}

	t.Setenv(EnvConfig, "also-missing.toml")
	if _, err := Load(""); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load with %s pointing nowhere error = %v", EnvConfig, err)
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "POSTCARD_TEST_A=from-file\nPOSTCARD_TEST_B=from-file\n")

	t.Setenv("POSTCARD_TEST_A", "preset")
	os.Unsetenv("POSTCARD_TEST_B")
	t.Cleanup(func() { os.Unsetenv("POSTCARD_TEST_B") })

	if err := LoadEnvFiles(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnvFiles() error: %v", err)
	}
	if got := os.Getenv("POSTCARD_TEST_A"); got != "preset" {
		t.Errorf("POSTCARD_TEST_A = %q, existing value should win", got)
	}
	if got := os.Getenv("POSTCARD_TEST_B"); got != "from-file" {
		t.Errorf("POSTCARD_TEST_B = %q", got)
	}
}

func TestSummary(t *testing.T) {
	s := Default().Summary()
	m := map[string]string{}
	for _, kv := range s {
		m[kv[0]] = kv[1]
	}
	if m["fonts.title"] != "embedded" || m["render.timeout"] != "none" || m["render.concurrency"] != "cpus" {
		t.Errorf("Summary() = %v", m)
	}
}
