package snapshot

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/elix-dev/elix/internal/errors"
)

const (
	htmlExt = ".html"
	metaExt = ".meta"
)

// DiskStore stores snapshots as files: key.html holds the markup and
// key.meta the JSON metadata.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a DiskStore rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New("E030").WithDetailf("creating %s", dir).Wrap(err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) path(key, ext string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key)+ext)
}

// Put writes snap, replacing any snapshot with the same key.
func (s *DiskStore) Put(ctx context.Context, snap Snapshot) error {
	if err := ValidateKey(snap.Key); err != nil {
		return err
	}
	htmlPath := s.path(snap.Key, htmlExt)
	if err := os.MkdirAll(filepath.Dir(htmlPath), 0755); err != nil {
		return errors.New("E030").Wrap(err)
	}

	meta, err := json.Marshal(snap)
	if err != nil {
		return errors.New("E030").Wrap(err)
	}
	if err := writeFileAtomic(htmlPath, snap.HTML); err != nil {
		return errors.New("E030").WithDetailf("writing %s", snap.Key).Wrap(err)
	}
	if err := writeFileAtomic(s.path(snap.Key, metaExt), meta); err != nil {
		return errors.New("E030").WithDetailf("writing %s metadata", snap.Key).Wrap(err)
	}
	return nil
}

// Get reads the snapshot stored under key.
func (s *DiskStore) Get(ctx context.Context, key string) (Snapshot, error) {
	if err := ValidateKey(key); err != nil {
		return Snapshot{}, err
	}
	html, err := os.ReadFile(s.path(key, htmlExt))
	if os.IsNotExist(err) {
		return Snapshot{}, errors.New("E031").WithDetailf("key %q", key)
	}
	if err != nil {
		return Snapshot{}, errors.New("E030").Wrap(err)
	}

	snap := Snapshot{Key: key}
	if data, err := os.ReadFile(s.path(key, metaExt)); err == nil {
		if err := json.Unmarshal(data, &snap); err != nil {
			return Snapshot{}, errors.New("E030").WithDetailf("metadata for %q", key).Wrap(err)
		}
	}
	snap.HTML = html
	return snap, nil
}

// List returns the stored keys in sorted order.
func (s *DiskStore) List(ctx context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, htmlExt) {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(strings.TrimSuffix(rel, htmlExt)))
		return nil
	})
	if err != nil {
		return nil, errors.New("E030").Wrap(err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes the snapshot stored under key. Deleting a missing key is
// not an error.
func (s *DiskStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	for _, ext := range []string{htmlExt, metaExt} {
		if err := os.Remove(s.path(key, ext)); err != nil && !os.IsNotExist(err) {
			return errors.New("E030").Wrap(err)
		}
	}
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
