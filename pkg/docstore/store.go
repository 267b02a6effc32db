package docstore

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
)

// Document is one stored record: a mapping from field name to value. Every
// stored document carries an identifier field and two timestamp fields
// whose names are decided by the store's [Keywords].
type Document map[string]any

const (
	dirPerms  = 0o750
	filePerms = 0o600
)

// Insert persists a new document in the collection and returns the stored
// (enriched) document. The input map is never mutated.
//
// If the input already contains the qualified identifier field, that
// identifier is used verbatim: no allocation happens and no existence
// check is made, so a caller-supplied identifier silently overwrites an
// existing document. Otherwise an identifier is allocated per the store's
// id mode.
//
// The creation timestamp is set only if absent; the update timestamp is
// always set to now.
func (db *DB) Insert(p Path, doc Document) (Document, error) {
	segs, err := p.normalize()
	if err != nil {
		return nil, err
	}

	stored := maps.Clone(doc)
	if stored == nil {
		stored = Document{}
	}

	idField := db.keys.IDField(p)

	id, ok := stored[idField]
	if !ok || id == nil {
		id, err = db.alloc.Next(p)
		if err != nil {
			return nil, fmt.Errorf("insert %s: %w", p, err)
		}

		stored[idField] = id
	}

	key := idString(id)
	if key == "" {
		return nil, fmt.Errorf("insert %s: empty document id", p)
	}

	err = validateDocID(key)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w: %v", p, ErrInvalidPath, err)
	}

	now := db.now()
	createdField := db.keys.CreatedField(p)

	if _, present := stored[createdField]; !present {
		stored[createdField] = now
	}

	stored[db.keys.UpdatedField(p)] = now

	err = db.writeDocument(segs, key, stored)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", p, err)
	}

	return stored, nil
}

// Get returns the document stored under id, or nil if id is empty or no
// such document exists. Absence is not an error. An identifier that could
// not name a stored document (empty, path separators, reserved names) is
// treated as absent.
func (db *DB) Get(p Path, id any) (Document, error) {
	key := idString(id)
	if key == "" || validateDocID(key) != nil {
		return nil, nil
	}

	segs, err := p.normalize()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(docDirFor(db.root, segs, key), docFileName)

	data, err := db.fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("get %s/%s: %w", p, key, err)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", p, key, err)
	}

	return doc, nil
}

// GetMany resolves each id independently and returns the documents that
// exist, in the order their ids were supplied. Missing ids are skipped.
func (db *DB) GetMany(p Path, ids []any) ([]Document, error) {
	var docs []Document

	for _, id := range ids {
		doc, err := db.Get(p, id)
		if err != nil {
			return nil, err
		}

		if doc != nil {
			docs = append(docs, doc)
		}
	}

	return docs, nil
}

// GetAll returns every document in the collection, in directory-listing
// order (platform-dependent, not guaranteed sorted). An absent collection
// yields an empty result.
//
// Only document sub-directories are enumerated; collection configuration
// lives elsewhere and never appears here.
func (db *DB) GetAll(p Path) ([]Document, error) {
	segs, err := p.normalize()
	if err != nil {
		return nil, err
	}

	dir := dataDirFor(db.root, segs)

	entries, err := db.fsys.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("get all %s: %w", p, err)
	}

	var docs []Document

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, readErr := db.fsys.ReadFile(filepath.Join(dir, entry.Name(), docFileName))
		if readErr != nil {
			// A directory without a data file is a nested collection
			// parent or a partially deleted document; neither is a
			// document of this collection.
			if os.IsNotExist(readErr) {
				continue
			}

			return nil, fmt.Errorf("get all %s: %w", p, readErr)
		}

		doc, decodeErr := decodeDocument(data)
		if decodeErr != nil {
			return nil, fmt.Errorf("get all %s/%s: %w", p, entry.Name(), decodeErr)
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

// Update applies patch to the document stored under id and persists the
// full replacement in place. Returns nil if no document exists at id.
//
// After the patch is applied, the existing creation timestamp is
// preserved, the update timestamp is refreshed, and the identifier field
// is re-asserted so a patch cannot move the document.
func (db *DB) Update(p Path, id any, patch Patch) (Document, error) {
	existing, err := db.Get(p, id)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, nil
	}

	segs, err := p.normalize()
	if err != nil {
		return nil, err
	}

	next := patch.apply(existing)

	idField := db.keys.IDField(p)
	next[idField] = existing[idField]

	createdField := db.keys.CreatedField(p)
	if created, present := existing[createdField]; present {
		next[createdField] = created
	}

	next[db.keys.UpdatedField(p)] = db.now()

	err = db.writeDocument(segs, idString(id), next)
	if err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", p, idString(id), err)
	}

	return next, nil
}

// Delete removes the document stored under id, including its whole
// per-document directory and the configuration state (counters) of any
// collections nested under it. Returns true if the document existed.
// Identifiers that could not name a stored document are treated as absent.
func (db *DB) Delete(p Path, id any) (bool, error) {
	key := idString(id)
	if key == "" || validateDocID(key) != nil {
		return false, nil
	}

	segs, err := p.normalize()
	if err != nil {
		return false, err
	}

	dir := docDirFor(db.root, segs, key)

	exists, err := db.fsys.Exists(filepath.Join(dir, docFileName))
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", p, key, err)
	}

	if !exists {
		return false, nil
	}

	err = db.fsys.RemoveAll(dir)
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", p, key, err)
	}

	// Collections nested under the document go with it; dropping their
	// config mirror keeps their counters from resuming a stale sequence
	// if the document is ever re-created.
	err = db.fsys.RemoveAll(filepath.Join(configDirFor(db.root, segs), key))
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: config: %w", p, key, err)
	}

	return true, nil
}

// writeDocument serializes doc and persists it at the resolved document
// path, creating the document directory if missing.
func (db *DB) writeDocument(segs []string, key string, doc Document) error {
	dir := docDirFor(db.root, segs, key)

	err := db.fsys.MkdirAll(dir, dirPerms)
	if err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}

	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}

	err = db.fsys.WriteFileAtomic(filepath.Join(dir, docFileName), data, filePerms)
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	return nil
}
