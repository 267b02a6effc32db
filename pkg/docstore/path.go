package docstore

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// configDirName is the reserved top-level segment that mirrors the data tree
// and holds per-collection state (counters). Keeping it out of the data tree
// means enumerating a collection never has to filter out non-document files.
const configDirName = "__config__"

// Segment is one element of a collection path: either a collection name or
// a parent-document identifier. Build segments with [Name] and [ID].
type Segment struct {
	text string
	id   bool
}

// Name returns a collection-name segment.
//
// Names are normalized to their bare textual form: a qualified name such as
// "shop/users" is stripped to "users".
func Name(name string) Segment {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}

	return Segment{text: name}
}

// ID returns a parent-document identifier segment. The identifier is
// stringified verbatim; no normalization is applied.
func ID(id any) Segment {
	return Segment{text: idString(id), id: true}
}

// Path addresses a collection: a sequence of segments alternating between
// collection names (even positions) and parent-document identifiers (odd
// positions), e.g. users/<user-id>/posts.
type Path []Segment

// Col returns a single-segment path for a top-level collection.
func Col(name string) Path {
	return Path{Name(name)}
}

// Under returns a new path addressing the collection named name nested under
// the document parentID of the receiver. The receiver is not modified.
func (p Path) Under(parentID any, name string) Path {
	next := make(Path, 0, len(p)+2)
	next = append(next, p...)
	next = append(next, ID(parentID), Name(name))

	return next
}

// ParsePath parses a slash-separated collection path such as
// "users/42/posts". Segments at even positions are collection names, the
// rest are parent-document identifiers.
func ParsePath(s string) (Path, error) {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPath)
	}

	parts := strings.Split(s, "/")
	path := make(Path, 0, len(parts))

	for i, part := range parts {
		if i%2 == 0 {
			path = append(path, Name(part))
		} else {
			path = append(path, ID(part))
		}
	}

	_, err := path.normalize()
	if err != nil {
		return nil, err
	}

	return path, nil
}

// String renders the normalized path with "/" separators. Invalid paths
// render on a best-effort basis.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.text
	}

	return strings.Join(parts, "/")
}

// names returns the collection-name segments in order, identifiers dropped.
func (p Path) names() []string {
	var out []string

	for _, seg := range p {
		if !seg.id {
			out = append(out, seg.text)
		}
	}

	return out
}

// leafName returns the last collection-name segment, or "" for an empty path.
func (p Path) leafName() string {
	for i := len(p) - 1; i >= 0; i-- {
		if !p[i].id {
			return p[i].text
		}
	}

	return ""
}

// normalize validates the path and returns its segments as directory names.
//
// Rules:
//   - an odd number of segments, starting and ending with a name
//   - names and identifiers strictly alternate
//   - no segment may be empty, ".", "..", or contain a path separator
//   - the reserved config segment may not be addressed directly
func (p Path) normalize() ([]string, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPath)
	}

	if len(p)%2 == 0 {
		return nil, fmt.Errorf("%w: path addresses a document, not a collection", ErrInvalidPath)
	}

	segs := make([]string, len(p))

	for i, seg := range p {
		wantID := i%2 == 1
		if seg.id != wantID {
			kind := "name"
			if wantID {
				kind = "identifier"
			}

			return nil, fmt.Errorf("%w: segment %d must be a %s", ErrInvalidPath, i, kind)
		}

		err := validateSegmentText(seg.text)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %d: %v", ErrInvalidPath, i, err)
		}

		segs[i] = seg.text
	}

	return segs, nil
}

func validateSegmentText(text string) error {
	if text == "" {
		return fmt.Errorf("empty segment")
	}

	if text == "." || text == ".." {
		return fmt.Errorf("segment %q escapes the data directory", text)
	}

	if strings.ContainsRune(text, '/') || strings.ContainsRune(text, filepath.Separator) {
		return fmt.Errorf("segment %q contains a path separator", text)
	}

	if text == configDirName {
		return fmt.Errorf("segment %q is reserved", text)
	}

	return nil
}

// validateDocID checks that a stringified document identifier is usable as
// a directory name inside the collection. The rules are the same as for
// path segments; the data file name is reserved on top.
//
// Without this check an identifier like "../other/1" would address state
// outside the collection.
func validateDocID(key string) error {
	err := validateSegmentText(key)
	if err != nil {
		return err
	}

	if key == docFileName {
		return fmt.Errorf("identifier %q is reserved", key)
	}

	return nil
}

// dataDirFor resolves the collection's data directory under root.
func dataDirFor(root string, segs []string) string {
	return filepath.Join(root, filepath.Join(segs...))
}

// docDirFor resolves the dedicated sub-directory holding one document's
// state. Isolating each document in its own directory leaves room for
// per-document metadata without changing the addressing scheme.
func docDirFor(root string, segs []string, id string) string {
	return filepath.Join(dataDirFor(root, segs), id)
}

// configDirFor resolves the collection's configuration directory: the same
// segment chain rooted under the hidden config segment.
func configDirFor(root string, segs []string) string {
	return filepath.Join(root, configDirName, filepath.Join(segs...))
}

// idString stringifies a document identifier for use as a directory name.
// Returns "" for nil or empty identifiers, which callers treat as absent.
func idString(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		// JSON-decoded identifiers arrive as float64; keep integral values
		// aligned with their integer form.
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}

		return strconv.FormatFloat(v, 'g', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
