package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrEmptyDBPath is returned when the snapshot path is empty.
	ErrEmptyDBPath = errors.New("invalid db path: must not be empty")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrUnknownSource is returned for a source name with no parser.
	ErrUnknownSource = errors.New("unknown source")

	// ErrDuplicateSource is returned when a source is listed twice.
	ErrDuplicateSource = errors.New("duplicate source")

	// ErrNoSourcesEnabled is returned when every source is disabled.
	ErrNoSourcesEnabled = errors.New("no sources enabled")

	// ErrUnknownNotifier is returned for an unsupported notifier type.
	ErrUnknownNotifier = errors.New("unknown notifier type")
)
