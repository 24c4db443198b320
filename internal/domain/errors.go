package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrUpstreamImage = errors.New("image provider returned no result")
	ErrUpstreamFetch = errors.New("fetching generated image failed")
	ErrComposite     = errors.New("logo compositing failed")

	// ErrGenerationFailed wraps any fatal pipeline error so transport can
	// report a stable generic failure while keeping the cause for logs.
	ErrGenerationFailed = errors.New("generation failed")
)
