// Package snapshot stores named mind maps.
//
// A snapshot is the exported JSON of a map saved under a short name so it
// can be reopened, listed, or deleted later. [FileStore] keeps one file per
// snapshot and backs the CLI; [MongoStore] keeps one document per snapshot
// and backs shared servers.
package snapshot

import (
	"context"
	"errors"
	"strings"

	wmerrors "github.com/matzehuels/wikimap/pkg/errors"
)

// ErrNotFound is returned when no snapshot exists under a name.
var ErrNotFound = errors.New("snapshot not found")

// Store persists snapshots by name. Save overwrites an existing snapshot.
type Store interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
	Close(ctx context.Context) error
}

// ext is the suffix of snapshot files.
const ext = ".json"

// Normalize strips a trailing ".json" and validates the remaining name.
func Normalize(name string) (string, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ext)
	if err := wmerrors.ValidateSnapshotName(name); err != nil {
		return "", err
	}
	return name, nil
}

func notFound(name string) error {
	return wmerrors.Wrap(wmerrors.ErrCodeSnapshotNotFound, ErrNotFound, "no snapshot named %q", name)
}
