package config

import "errors"

// Configuration validation errors returned by Config.Validate().
// Callers can match them with errors.Is().
var (
	// ErrInvalidBaseURL is returned when the base URL is not an absolute
	// http or https URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http(s) URL")

	// ErrNoLetters is returned when the letter list is empty.
	ErrNoLetters = errors.New("no letters to crawl")

	// ErrEmptyLetter is returned when a letter is blank.
	ErrEmptyLetter = errors.New("letter must not be empty")

	// ErrDuplicateLetter is returned when a letter is listed twice.
	// The output is keyed by letter, so a repeat would overwrite results.
	ErrDuplicateLetter = errors.New("letter listed more than once")

	// ErrNoOutputFile is returned when no output path is configured.
	ErrNoOutputFile = errors.New("no output file specified")

	// ErrInvalidTimeout is returned when the timeout is negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxPages is returned when the page cap is negative.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the body size limit is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")
)
