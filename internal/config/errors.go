package config

import "errors"

var (
	// ErrConfiguration indicates missing or invalid operator-supplied
	// configuration. It is surfaced immediately and fixed by editing the
	// configuration document, never retried at runtime.
	ErrConfiguration = errors.New("invalid configuration")
)
