package config

import "errors"

// Configuration errors.
// All of them are fatal: the run stops before any portal request is made.
// They are sentinels so that callers and tests can match with errors.Is.
var (
	// ErrMissingCredentials is returned when USERNAME or PASSWORD is empty.
	// The message carries the remediation hint shown to the user.
	ErrMissingCredentials = errors.New("missing login credentials (USERNAME, PASSWORD)\n" +
		"TIP: create a .env file from .env.example or run 'edureport init'")

	// ErrMissingTargets is returned when SUBDOMAINS is unset or contains
	// only blank entries.
	ErrMissingTargets = errors.New("missing SUBDOMAINS variable (comma-separated school subdomains)")

	// ErrInvalidDate is returned when --date is not in DD.MM.YYYY format.
	ErrInvalidDate = errors.New("invalid date format: use DD.MM.YYYY")

	// ErrLunchRequiresDate is returned when --lunch is given without --date.
	ErrLunchRequiresDate = errors.New("--lunch requires --date DD.MM.YYYY")

	// ErrInvalidFormat is returned for an unknown --format value.
	ErrInvalidFormat = errors.New("invalid format: must be 'text' or 'markdown'")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrEnvFileNotFound is returned when an explicitly given --env-file
	// does not exist.
	ErrEnvFileNotFound = errors.New("env file not found")
)
