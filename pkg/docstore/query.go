package docstore

import (
	"sort"
	"time"
)

// Query holds the in-memory post-processing options applied to the result
// of [DB.GetAll]. The pipeline order is fixed: filter, sort, offset, limit.
type Query struct {
	// Where keeps documents the predicate accepts. nil keeps everything.
	Where func(Document) bool

	// OrderBy sorts by the natural ordering of this field's value.
	// "" leaves directory-listing order.
	OrderBy string

	// Desc reverses the sort order.
	Desc bool

	// Offset drops that many documents from the front. Never negative.
	Offset int

	// Limit caps the number of documents returned. 0 means unlimited.
	// For a single-document result use [DB.FindOne].
	Limit int
}

// Find runs the query pipeline over the collection:
// get-all, filter by Where, sort by OrderBy, drop Offset, take Limit.
func (db *DB) Find(p Path, q Query) ([]Document, error) {
	docs, err := db.GetAll(p)
	if err != nil {
		return nil, err
	}

	if q.Where != nil {
		kept := docs[:0:0]

		for _, doc := range docs {
			if q.Where(doc) {
				kept = append(kept, doc)
			}
		}

		docs = kept
	}

	if q.OrderBy != "" {
		sortDocuments(docs, q.OrderBy, q.Desc)
	}

	if q.Offset > 0 {
		if q.Offset >= len(docs) {
			return nil, nil
		}

		docs = docs[q.Offset:]
	}

	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}

	return docs, nil
}

// FindOne runs the query pipeline with a limit of one and returns the
// single matching document, or nil if nothing matches. This is the
// single-result shortcut; [DB.Find] always returns a sequence.
func (db *DB) FindOne(p Path, q Query) (Document, error) {
	q.Limit = 1

	docs, err := db.Find(p, q)
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, nil
	}

	return docs[0], nil
}

// FindBy ANDs an equality predicate per field in match, then delegates to
// [DB.Find] with the remaining options of q. A q.Where predicate, if set,
// is ANDed in as well.
func (db *DB) FindBy(p Path, match Document, q Query) ([]Document, error) {
	q.Where = andFieldEquals(match, q.Where)

	return db.Find(p, q)
}

// FindOneBy is [DB.FindBy] restricted to a single result.
func (db *DB) FindOneBy(p Path, match Document) (Document, error) {
	return db.FindOne(p, Query{Where: andFieldEquals(match, nil)})
}

// Count returns the number of documents in the collection.
func (db *DB) Count(p Path) (int, error) {
	docs, err := db.GetAll(p)
	if err != nil {
		return 0, err
	}

	return len(docs), nil
}

func andFieldEquals(match Document, extra func(Document) bool) func(Document) bool {
	return func(doc Document) bool {
		for field, want := range match {
			if !equalValues(doc[field], want) {
				return false
			}
		}

		if extra != nil {
			return extra(doc)
		}

		return true
	}
}

// sortDocuments stable-sorts by the natural ordering of the field's value.
// Documents missing the field sort first (last when descending).
func sortDocuments(docs []Document, field string, desc bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i][field], docs[j][field]

		cmp := compareValues(a, b)
		if desc {
			return cmp > 0
		}

		return cmp < 0
	})
}

// compareValues imposes a natural ordering on the value types that survive
// document serialization: nil sorts before everything; numbers compare
// numerically regardless of width; then strings, bools, and time.Time.
// Values of incomparable types are treated as equal, which keeps the sort
// stable instead of panicking on mixed collections.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}

		return 0
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0
		}

		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0
		}

		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0
		}

		return av.Compare(bv)
	default:
		return 0
	}
}

// equalValues is equality under the same normalization compareValues uses,
// so a JSON-decoded float64(3) matches a stored int64(3).
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if af, aok := asFloat(a); aok {
		bf, bok := asFloat(b)

		return bok && af == bf
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)

		return ok && av == bv
	case bool:
		bv, ok := b.(bool)

		return ok && av == bv
	case time.Time:
		bv, ok := b.(time.Time)

		return ok && av.Equal(bv)
	default:
		return false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
