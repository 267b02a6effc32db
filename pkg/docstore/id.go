package docstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dirdoc/dirdoc/pkg/fs"
)

// IDMode selects how identifiers are allocated for documents inserted
// without one.
type IDMode string

const (
	// IDSequential allocates monotonically increasing integers per
	// collection, starting at 1, backed by a persisted counter file.
	IDSequential IDMode = "sequential"

	// IDRandom allocates random 128-bit identifiers formatted as canonical
	// hyphenated lowercase hex strings. Stateless.
	IDRandom IDMode = "random"
)

// counterFileName is the per-collection counter file, stored under the
// collection's configuration directory.
const counterFileName = "__counter__"

// IDAllocator produces a new unique identifier for a collection.
type IDAllocator interface {
	// Next returns the next identifier for the collection. Sequential
	// allocators return int64, random allocators return string.
	Next(p Path) (any, error)
}

func newIDAllocator(mode IDMode, fsys fs.FS, root string) (IDAllocator, error) {
	switch mode {
	case "", IDSequential:
		return &sequentialAllocator{fsys: fsys, root: root}, nil
	case IDRandom:
		return randomAllocator{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown id mode %q", ErrInvalidConfig, mode)
	}
}

// sequentialAllocator persists one integer counter per leaf collection.
// Nested collections keep independent counters; nothing is inherited from
// a parent.
//
// The read-increment-write sequence is intentionally unsynchronized:
// concurrent callers allocating from the same collection can race and
// receive the same identifier. Callers that need concurrent writers must
// use [IDRandom] or serialize access externally.
type sequentialAllocator struct {
	fsys fs.FS
	root string
}

func (a *sequentialAllocator) Next(p Path) (any, error) {
	segs, err := p.normalize()
	if err != nil {
		return nil, err
	}

	dir := configDirFor(a.root, segs)

	err = a.fsys.MkdirAll(dir, dirPerms)
	if err != nil {
		return nil, fmt.Errorf("next id %s: create config dir: %w", p, err)
	}

	counterPath := filepath.Join(dir, counterFileName)

	current, err := a.readCounter(counterPath)
	if err != nil {
		return nil, fmt.Errorf("next id %s: %w", p, err)
	}

	next := current + 1

	err = a.fsys.WriteFileAtomic(counterPath, []byte(strconv.FormatInt(next, 10)+"\n"), filePerms)
	if err != nil {
		return nil, fmt.Errorf("next id %s: persist counter: %w", p, err)
	}

	return next, nil
}

func (a *sequentialAllocator) readCounter(path string) (int64, error) {
	data, err := a.fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}

		return 0, fmt.Errorf("read counter: %w", err)
	}

	value, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrCorruptCounter, path, err)
	}

	return value, nil
}

// randomAllocator generates UUIDv4 identifiers. Collision probability is
// treated as negligible.
type randomAllocator struct{}

func (randomAllocator) Next(Path) (any, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate random id: %w", err)
	}

	return id.String(), nil
}
