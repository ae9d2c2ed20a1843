// Package storage manages the per-user output directories cards are saved to.
//
// Every user gets one directory under the output root, named after the user
// id. Cards are PNG files named "{background stem}_{style id}.png", so
// re-rendering the same background and style for a user replaces the earlier
// card. Writes go through a temporary file and a rename: a reader never sees
// a half-written card, and concurrent writers of the same card resolve to
// the last rename.
//
// User ids and card names are validated before touching the filesystem.
package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/postcard/pkg/errors"
)

// Store is a file-based card store rooted at one output directory.
//
// Writes hold a shared lock and may run concurrently; Clear and Remove hold
// the exclusive lock so they never race a write into a vanishing directory.
type Store struct {
	mu   sync.RWMutex
	root string
}

// NewStore creates the output root if needed.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "output directory cannot be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create output dir %s", root)
	}
	return &Store{root: root}, nil
}

// Root returns the output root.
func (s *Store) Root() string { return s.root }

func (s *Store) userDir(userID string) (string, error) {
	if err := errors.ValidateUserID(userID); err != nil {
		return "", err
	}
	return filepath.Join(s.root, userID), nil
}

// UserDir returns the user's directory, creating it if missing.
func (s *Store) UserDir(userID string) (string, error) {
	dir, err := s.userDir(userID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create user dir")
	}
	return dir, nil
}

// Clear deletes every card of the user and leaves an empty directory.
func (s *Store) Clear(userID string) error {
	dir, err := s.userDir(userID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "clear user dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "recreate user dir")
	}
	return nil
}

// Remove deletes the user's directory. A missing directory is not an error.
func (s *Store) Remove(userID string) error {
	dir, err := s.userDir(userID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "remove user dir")
	}
	return nil
}

// Images returns the paths of the user's cards sorted by name.
// A user without a directory has no cards.
func (s *Store) Images(userID string) ([]string, error) {
	dir, err := s.userDir(userID)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read user dir")
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !isPNG(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// CardName returns the file name of a card rendered from background in
// styleID: the background's base name without extension, an underscore,
// the style id and ".png".
func CardName(background, styleID string) string {
	base := filepath.Base(background)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "_" + styleID + ".png"
}

// CardPath returns where the card for (background, styleID) is saved and
// creates the user's directory.
func (s *Store) CardPath(userID, background, styleID string) (string, error) {
	name := CardName(background, styleID)
	if err := errors.ValidateCardName(name); err != nil {
		return "", err
	}
	dir, err := s.UserDir(userID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// WriteCard saves data as the card rendered from background in styleID and
// returns its path.
func (s *Store) WriteCard(userID, background, styleID string, data []byte) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.CardPath(userID, background, styleID)
	if err != nil {
		return "", err
	}
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// Path returns the path of an existing card.
func (s *Store) Path(userID, name string) (string, error) {
	if err := errors.ValidateCardName(name); err != nil {
		return "", err
	}
	dir, err := s.userDir(userID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if os.IsNotExist(err) || (err == nil && info.IsDir()) {
		return "", errors.New(errors.ErrCodeNotFound, "card %s not found for user %s", name, userID)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "stat card")
	}
	return path, nil
}

// Open opens an existing card for reading.
func (s *Store) Open(userID, name string) (*os.File, error) {
	path, err := s.Path(userID, name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open card")
	}
	return f, nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", filepath.Base(path))
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInternal, err, "rename %s", filepath.Base(path))
	}
	return nil
}

func isPNG(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".png")
}
