package site

import "errors"

// Build pipeline error classes beyond the content errors in internal/blog.
var (
	ErrMissingTemplate = errors.New("missing template")
	ErrAssetCopy       = errors.New("asset copy failed")
	ErrFeed            = errors.New("feed generation failed")
	ErrVerification    = errors.New("output verification failed")
)
