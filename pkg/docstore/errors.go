package docstore

import "errors"

// ErrInvalidPath indicates a collection path failed validation.
var ErrInvalidPath = errors.New("invalid collection path")

// ErrInvalidConfig indicates the store was constructed with an unknown
// id mode or qualification mode.
var ErrInvalidConfig = errors.New("invalid store configuration")

// ErrCorruptCounter reports a counter file whose contents are not an integer.
var ErrCorruptCounter = errors.New("corrupt counter file")
