package pathquery

import (
	"fmt"
	"strconv"
	"strings"
)

// Wildcard is the segment that selects every child of a pool.
const Wildcard = "*"

type segment struct {
	name     string
	wildcard bool
	index    int // -1 when name is not a valid sequence index
}

// Path is a parsed dotted path expression.
type Path struct {
	raw  string
	segs []segment
}

// Parse splits expr on '.' and validates every segment.
func Parse(expr string) (Path, error) {
	if expr == "" {
		return Path{}, ErrEmptyPath
	}

	parts := strings.Split(expr, ".")
	segs := make([]segment, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			return Path{}, fmt.Errorf("%w: position %d in %q", ErrEmptySegment, i, expr)
		}
		segs = append(segs, newSegment(part))
	}

	return Path{raw: expr, segs: segs}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate reports whether expr is a usable path expression.
func Validate(expr string) error {
	_, err := Parse(expr)
	return err
}

func newSegment(part string) segment {
	if part == Wildcard {
		return segment{name: part, wildcard: true, index: -1}
	}

	index := -1
	if n, err := strconv.Atoi(part); err == nil && n >= 0 && strconv.Itoa(n) == part {
		index = n
	}
	return segment{name: part, index: index}
}

// String returns the expression the path was parsed from.
func (p Path) String() string {
	return p.raw
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segs)
}

// IsZero reports whether p was never parsed.
func (p Path) IsZero() bool {
	return len(p.segs) == 0
}
