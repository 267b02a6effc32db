// Package docstore is an embedded, schema-less document store that
// persists each record as its own file under a directory tree.
//
// Collections are addressed by path rather than schema: a flat name
// ("users") or a nested chain alternating collection names and
// parent-document identifiers ("users/<id>/posts"). There are no
// migrations and no fixed fields beyond an identifier and two timestamps,
// which makes the store suited to rapid prototyping.
//
// # On-disk layout
//
//	<root>/
//	  users/
//	    1/
//	      data.msgpack        -- serialized document map
//	      posts/              -- nested collection under document 1
//	        1/
//	          data.msgpack
//	  __config__/
//	    users/
//	      __counter__         -- plain integer text, next-id state
//	    users/1/posts/
//	      __counter__         -- nested collections count independently
//
// Documents are msgpack maps; time.Time fields round-trip losslessly via
// the msgpack timestamp extension.
//
// # Concurrency
//
// Operations are plain blocking filesystem calls with no locking. The
// store assumes one logical writer per collection; with [IDSequential],
// concurrent inserts into the same collection can race on the counter and
// allocate the same identifier. Use [IDRandom] or external serialization
// when multiple writers are possible.
//
// # Errors
//
// Missing documents and collections are never errors: lookups return nil
// (or false) and enumerations return empty results. Errors are reserved
// for invalid paths and configuration, I/O failures, and malformed
// on-disk data.
package docstore
