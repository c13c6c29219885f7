package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrInvalidRequest is returned for malformed caller input, before any
	// external call is made
	ErrInvalidRequest = goerr.New("invalid request")

	// ErrGenerationFailed means the primary LLM call failed or returned
	// unusable output. Fatal to the pipeline invocation.
	ErrGenerationFailed = goerr.New("generation failed")

	// ErrSearchUnavailable is internal to the search augmenter; callers see
	// an empty search context instead
	ErrSearchUnavailable = goerr.New("search unavailable")

	// ErrPersistenceUnavailable is logged and swallowed; history is a side
	// effect, not a correctness requirement of generation
	ErrPersistenceUnavailable = goerr.New("persistence unavailable")

	// ErrTranscriptNotFound means no archived transcript exists for the
	// requested entry, including when no archive is configured at all
	ErrTranscriptNotFound = goerr.New("transcript not found")
)
