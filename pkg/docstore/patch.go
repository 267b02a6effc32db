package docstore

import "maps"

// Patch describes how [DB.Update] computes the replacement document:
// either a set of fields merged into the existing document, or a pure
// transform applied to it. Build patches with [Merge] or [Transform].
//
// The zero Patch is an empty merge: only the reserved timestamp fields
// change.
type Patch struct {
	merge     Document
	transform func(Document) Document
}

// Merge returns a patch that overlays fields onto the existing document.
// Fields present in both keep the patch's value; all other existing fields
// are preserved.
func Merge(fields Document) Patch {
	return Patch{merge: fields}
}

// Transform returns a patch that replaces the existing document with
// fn(existing). fn must be pure; it receives a copy and must return the
// full replacement document.
func Transform(fn func(Document) Document) Patch {
	return Patch{transform: fn}
}

// apply computes the replacement document from existing. The input is
// never mutated.
func (p Patch) apply(existing Document) Document {
	if p.transform != nil {
		next := p.transform(maps.Clone(existing))
		if next == nil {
			next = Document{}
		}

		return next
	}

	next := maps.Clone(existing)
	if next == nil {
		next = Document{}
	}

	maps.Copy(next, p.merge)

	return next
}
