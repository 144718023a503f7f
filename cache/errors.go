package cache

import "errors"

var (
	// ErrNoLoader is returned by GetOrLoad when Options.Loader is nil.
	ErrNoLoader = errors.New("cache: no Loader provided")

	// ErrClosed is returned by GetOrLoad after Close.
	ErrClosed = errors.New("cache: closed")

	// ErrInvalidOptions is returned by NewE for unusable Options.
	ErrInvalidOptions = errors.New("cache: invalid options")
)
