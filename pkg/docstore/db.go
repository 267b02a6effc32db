package docstore

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dirdoc/dirdoc/pkg/fs"
)

// Config carries everything needed to open a store. Root is required; the
// zero values of the remaining fields select sequential ids, unqualified
// field names, and the real filesystem.
type Config struct {
	// Root is the directory the whole database lives under.
	// Created if missing.
	Root string

	// IDMode selects the identifier allocation strategy.
	// Default [IDSequential].
	IDMode IDMode

	// Keywords selects the reserved field names and their qualification.
	Keywords KeywordConfig

	// FS overrides the filesystem implementation. Default [fs.Real].
	FS fs.FS
}

// DB is the database handle: the root directory plus the keyword and
// id-allocation strategies fixed at construction. A DB is immutable
// configuration; it holds no other state and no open resources.
//
// All operations are synchronous filesystem calls on the caller's
// goroutine. The store takes no locks: it assumes a single logical writer
// per collection. See [IDSequential] for the counter caveat under
// concurrent writers.
type DB struct {
	root  string
	fsys  fs.FS
	keys  Keywords
	alloc IDAllocator
	now   func() time.Time
}

// Open validates cfg, creates the root directory if missing, and returns
// the handle. Unknown id or qualification modes fail fast with
// [ErrInvalidConfig].
func Open(cfg Config) (*DB, error) {
	if cfg.Root == "" {
		return nil, errors.New("open store: root directory is empty")
	}

	fsys := cfg.FS
	if fsys == nil {
		fsys = fs.NewReal()
	}

	keys, err := NewKeywords(cfg.Keywords)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	root := filepath.Clean(cfg.Root)

	alloc, err := newIDAllocator(cfg.IDMode, fsys, root)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	err = fsys.MkdirAll(root, dirPerms)
	if err != nil {
		return nil, fmt.Errorf("open store: create root: %w", err)
	}

	return &DB{
		root:  root,
		fsys:  fsys,
		keys:  keys,
		alloc: alloc,
		now:   time.Now,
	}, nil
}

// Root returns the database root directory.
func (db *DB) Root() string {
	return db.root
}

// Keywords returns the keyword strategy fixed at construction.
func (db *DB) Keywords() Keywords {
	return db.keys
}

// DeleteCollection removes the collection's configuration (counter and
// metadata) and its data directory, recursively. Collections physically
// nested under it are removed with it. Deleting an absent collection is
// not an error.
func (db *DB) DeleteCollection(p Path) error {
	segs, err := p.normalize()
	if err != nil {
		return err
	}

	err = db.fsys.RemoveAll(configDirFor(db.root, segs))
	if err != nil {
		return fmt.Errorf("delete collection %s: config: %w", p, err)
	}

	err = db.fsys.RemoveAll(dataDirFor(db.root, segs))
	if err != nil {
		return fmt.Errorf("delete collection %s: %w", p, err)
	}

	return nil
}

// Reset deletes the entire database root recursively. Irrecoverable.
// The handle stays usable; the root is recreated on the next write.
func (db *DB) Reset() error {
	err := db.fsys.RemoveAll(db.root)
	if err != nil {
		return fmt.Errorf("reset store: %w", err)
	}

	return nil
}
