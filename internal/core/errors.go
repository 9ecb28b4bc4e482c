package core

import "errors"

var (
	// ErrConfiguration marks fatal setup problems: an unusable seed, an
	// invalid configuration file or an empty dataset.
	ErrConfiguration = errors.New("configuration error")

	// ErrLoad marks a per-item load failure. The item is dropped.
	ErrLoad = errors.New("item load failed")

	// ErrProcess marks a per-item processing failure. The item is kept
	// with a failed outcome.
	ErrProcess = errors.New("item processing failed")
)
