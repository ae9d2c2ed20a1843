package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/postcard/pkg/errors"
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// IsImage reports whether name has a background image extension.
func IsImage(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// Backgrounds is a sorted list of background image paths.
type Backgrounds struct {
	dir   string
	paths []string
}

// ScanBackgrounds lists the image files directly inside dir.
func ScanBackgrounds(dir string) (*Backgrounds, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "backgrounds dir %s not found", dir)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read backgrounds dir %s", dir)
	}
	b := &Backgrounds{dir: dir}
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		b.paths = append(b.paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(b.paths)
	return b, nil
}

// Dir returns the scanned directory.
func (b *Backgrounds) Dir() string { return b.dir }

// Len returns the number of backgrounds.
func (b *Backgrounds) Len() int { return len(b.paths) }

// Names returns the background file names in order.
func (b *Backgrounds) Names() []string {
	out := make([]string, len(b.paths))
	for i, p := range b.paths {
		out[i] = filepath.Base(p)
	}
	return out
}

// Resolve returns the path of the background named by ref, which is either
// a zero-based index or a file name.
func (b *Backgrounds) Resolve(ref string) (string, error) {
	if i, err := strconv.Atoi(ref); err == nil {
		if i < 0 || i >= len(b.paths) {
			return "", errors.New(errors.ErrCodeNotFound, "background index %d out of range (%d backgrounds)", i, len(b.paths))
		}
		return b.paths[i], nil
	}
	for _, p := range b.paths {
		if filepath.Base(p) == ref {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeNotFound, "background %q not found in %s", ref, b.dir)
}
