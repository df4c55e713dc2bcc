// Package snapshot stores rendered element HTML.
//
// A Snapshot is the HTML of an element at one state generation, plus enough
// metadata to tell snapshots apart. Stores are keyed by caller-chosen names
// such as "list-box/home". Two stores are provided: DiskStore writes files
// under a directory, S3Store writes objects under a bucket prefix.
package snapshot

import (
	"context"
	"strings"
	"time"

	"github.com/elix-dev/elix/internal/errors"
)

// ContentTypeHTML is the content type snapshots are stored with.
const ContentTypeHTML = "text/html; charset=utf-8"

var (
	// ErrNotFound is matched by errors for keys with no snapshot.
	ErrNotFound = errors.New("E031")

	// ErrStore is matched by all other store errors.
	ErrStore = errors.New("E030")
)

// Snapshot is one stored render.
type Snapshot struct {
	// Key names the snapshot within its store.
	Key string `json:"key"`

	// Element is the tag name of the rendered element.
	Element string `json:"element"`

	// Generation is the state generation that was rendered.
	Generation uint64 `json:"generation"`

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `json:"created_at"`

	// HTML is the rendered markup.
	HTML []byte `json:"-"`
}

// Store persists snapshots.
type Store interface {
	Put(ctx context.Context, snap Snapshot) error
	Get(ctx context.Context, key string) (Snapshot, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// ValidateKey rejects empty keys and keys that could escape the store:
// absolute paths, ".." segments and backslashes.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return errors.New("E030").WithDetail("empty snapshot key")
	case strings.HasPrefix(key, "/"), strings.Contains(key, `\`):
		return errors.New("E030").WithDetailf("snapshot key %q must be relative", key)
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return errors.New("E030").WithDetailf("snapshot key %q has an invalid segment", key)
		}
	}
	return nil
}
