package pathquery

import "errors"

var (
	// ErrEmptyPath indicates an empty path expression.
	ErrEmptyPath = errors.New("pathquery: empty path")

	// ErrEmptySegment indicates a path with an empty segment such as "a..b".
	ErrEmptySegment = errors.New("pathquery: empty segment")
)
