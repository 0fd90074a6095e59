package blog

import "errors"

// Build-time content errors. All are permanent: a broken post is a content
// problem the author must fix, never something to retry.
var (
	ErrMalformedPost    = errors.New("malformed post")
	ErrUnparseableDate  = errors.New("unparseable pub_date")
	ErrDuplicateSlug    = errors.New("duplicate slug")
	ErrPostSourceAccess = errors.New("post source unreadable")
)
