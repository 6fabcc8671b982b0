// Package session holds the state of one fetch run: every page received and every
// projectile extracted from them. A session outlives its run so that projectiles can be
// recoiled back to the records that contain them.
package session

import (
	"slices"

	"github.com/google/uuid"
	"github.com/jacoelho/gunner/internal/pathquery"
)

// Session is owned by a single run while it executes. Once the run has returned it is
// only read, so it may be shared freely.
type Session struct {
	id          uuid.UUID
	projectile  pathquery.Path
	equal       pathquery.EqualFunc
	pages       []any
	projectiles []any
	fetches     int
}

// New starts an empty session extracting projectile from every page.
// A nil equal means pathquery.StrictEqual.
func New(projectile pathquery.Path, equal pathquery.EqualFunc) *Session {
	if equal == nil {
		equal = pathquery.StrictEqual
	}

	return &Session{
		id:          uuid.New(),
		projectile:  projectile,
		equal:       equal,
		projectiles: []any{},
	}
}

// ID identifies the run in logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Projectile returns the path used to extract values from every page.
func (s *Session) Projectile() pathquery.Path {
	return s.projectile
}

// Fetches returns the number of requests issued so far.
func (s *Session) Fetches() int {
	return s.fetches
}

// CountFetch records an issued request and returns the new total.
func (s *Session) CountFetch() int {
	s.fetches++
	return s.fetches
}

// Pages returns a copy of the page history in arrival order.
func (s *Session) Pages() []any {
	return slices.Clone(s.pages)
}

// Projectiles returns a copy of every extracted value, page by page in traversal order.
func (s *Session) Projectiles() []any {
	return slices.Clone(s.projectiles)
}

// Accumulate appends page to the history, extracts its projectiles and appends them to
// the running result. It returns the projectiles found in page.
func (s *Session) Accumulate(page any) []any {
	s.pages = append(s.pages, page)

	found := pathquery.MatchForward([]any{page}, s.projectile)
	s.projectiles = append(s.projectiles, found...)
	return found
}

// Recoil returns every record in the page history that contains target at the end of
// the projectile path. Targets need not be unique, so several records may come back.
func (s *Session) Recoil(target any) []any {
	return pathquery.MatchReverse(s.pages, s.projectile, target, s.equal)
}

// RecoilPath is Recoil along an arbitrary path.
func (s *Session) RecoilPath(path pathquery.Path, target any) []any {
	return pathquery.MatchReverse(s.pages, path, target, s.equal)
}
