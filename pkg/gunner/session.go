package gunner

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jacoelho/gunner/internal/pathquery"
	"github.com/jacoelho/gunner/internal/session"
)

// Session is the result of one run: page history, projectiles and request count.
// Only the run that created it appends to it; callers get a read-only view that
// stays usable after the run for Recoil.
type Session struct {
	state *session.Session
}

// ID identifies the run in logs.
func (s *Session) ID() uuid.UUID { return s.state.ID() }

// Projectile returns the path used to extract values from every page.
func (s *Session) Projectile() string { return s.state.Projectile().String() }

// Fetches returns the number of requests issued.
func (s *Session) Fetches() int { return s.state.Fetches() }

// Pages returns a copy of the page history in arrival order.
func (s *Session) Pages() []any { return s.state.Pages() }

// Projectiles returns a copy of every extracted value, page by page in traversal order.
func (s *Session) Projectiles() []any { return s.state.Projectiles() }

// Recoil returns every record in the page history that contains target at the end of
// the projectile path.
func (s *Session) Recoil(target any) []any {
	return s.state.Recoil(target)
}

// RecoilPath is Recoil along the dotted path expr instead of the projectile path.
func (s *Session) RecoilPath(expr string, target any) ([]any, error) {
	path, err := pathquery.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: recoil path: %w", ErrConfiguration, err)
	}
	return s.state.RecoilPath(path, target), nil
}
