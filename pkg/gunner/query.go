package gunner

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/jacoelho/gunner/internal/pathquery"
	"github.com/jacoelho/gunner/internal/reload"
)

// DefaultProjectile selects every child of the page root.
const DefaultProjectile = pathquery.Wildcard

type resourceKind uint8

const (
	resourceUnset resourceKind = iota
	resourceURL
	resourceDocument
	resourceJSON
)

// Resource is what a query reads from: a URL fetched through a Transport, or a
// document already in memory. In-memory documents are read once and never reloaded.
// The zero Resource is unset and fails validation.
type Resource struct {
	kind     resourceKind
	url      string
	document any
	raw      []byte
}

// URL is a resource fetched over the network.
func URL(rawURL string) Resource {
	return Resource{kind: resourceURL, url: rawURL}
}

// Document is an in-memory resource holding an already decoded document. A nil doc
// stands for a JSON null and simply yields no projectiles.
func Document(doc any) Resource {
	return Resource{kind: resourceDocument, document: doc}
}

// DocumentJSON is an in-memory resource decoded when the run starts. A body that is
// not JSON fails the run with ErrMalformedResponse.
func DocumentJSON(body []byte) Resource {
	return Resource{kind: resourceJSON, raw: body}
}

// Remote reports whether the resource is fetched through a Transport.
func (r Resource) Remote() bool {
	return r.kind == resourceURL
}

func (r Resource) String() string {
	if r.Remote() {
		return r.url
	}
	return "(document)"
}

func (r Resource) validate() error {
	switch r.kind {
	case resourceURL:
		if r.url == "" {
			return fmt.Errorf("%w: empty URL", ErrConfiguration)
		}
		if strings.TrimSpace(r.url) != r.url {
			return fmt.Errorf("%w: URL %q has surrounding whitespace", ErrConfiguration, r.url)
		}
	case resourceUnset:
		return fmt.Errorf("%w: resource has neither a URL nor a document", ErrConfiguration)
	}
	return nil
}

// ProgressFunc is called before every request with the number of requests already
// issued and the request limit (0 when unlimited).
type ProgressFunc func(fetches, limit int)

// Query is an immutable description of a run, produced by Builder.
type Query struct {
	resource   Resource
	projectile pathquery.Path
	reloaders  map[string]string
	resolver   *reload.Resolver
	limit      int
	delay      time.Duration
	params     map[string]string
	progress   ProgressFunc
	equal      pathquery.EqualFunc
}

// Resource returns the resource the query reads from.
func (q Query) Resource() Resource { return q.resource }

// Projectile returns the projectile path expression.
func (q Query) Projectile() string { return q.projectile.String() }

// Reloaders returns a copy of the reloader paths keyed by query parameter name.
func (q Query) Reloaders() map[string]string { return maps.Clone(q.reloaders) }

// Limit returns the request limit, 0 meaning unlimited.
func (q Query) Limit() int { return q.limit }

// Delay returns the pause between a page arriving and the next request.
func (q Query) Delay() time.Duration { return q.delay }

// Params returns a copy of the initial query parameters.
func (q Query) Params() map[string]string { return maps.Clone(q.params) }

func (q Query) validate() error {
	if err := q.resource.validate(); err != nil {
		return err
	}
	if q.projectile.IsZero() {
		return fmt.Errorf("%w: projectile path is not set", ErrConfiguration)
	}
	if q.limit < 0 {
		return fmt.Errorf("%w: request limit must be positive, got %d", ErrConfiguration, q.limit)
	}
	if q.delay < 0 {
		return fmt.Errorf("%w: delay must not be negative, got %s", ErrConfiguration, q.delay)
	}
	return nil
}

// Builder assembles a Query. Every method returns the same builder for chaining; the
// first invalid value is kept and reported by Build, later calls are ignored.
type Builder struct {
	q   Query
	err error
}

// NewQuery starts a query on resource with the default projectile "*".
func NewQuery(resource Resource) *Builder {
	b := &Builder{
		q: Query{
			resource:   resource,
			projectile: pathquery.MustParse(DefaultProjectile),
			equal:      pathquery.StrictEqual,
		},
	}
	b.err = resource.validate()
	return b
}

func (b *Builder) fail(format string, args ...any) *Builder {
	if b.err == nil {
		b.err = fmt.Errorf("%w: "+format, append([]any{ErrConfiguration}, args...)...)
	}
	return b
}

// Err returns the first configuration error recorded so far.
func (b *Builder) Err() error {
	return b.err
}

// Projectile sets the path of the values to extract from every page.
func (b *Builder) Projectile(expr string) *Builder {
	p, err := pathquery.Parse(expr)
	if err != nil {
		return b.fail("projectile: %w", err)
	}
	b.q.projectile = p
	return b
}

// Reload sets the reloaders: query parameter name to the path of its value in a page.
// Another page is requested while at least one of them resolves to a truthy value.
func (b *Builder) Reload(reloaders map[string]string) *Builder {
	r, err := reload.New(reloaders)
	if err != nil {
		return b.fail("reload: %w", err)
	}
	b.q.reloaders = maps.Clone(reloaders)
	b.q.resolver = r
	return b
}

// Limit caps the number of requests of a run.
func (b *Builder) Limit(n int) *Builder {
	if n <= 0 {
		return b.fail("request limit must be positive, got %d", n)
	}
	b.q.limit = n
	return b
}

// Delay waits d after each page before requesting the next one.
func (b *Builder) Delay(d time.Duration) *Builder {
	if d < 0 {
		return b.fail("delay must not be negative, got %s", d)
	}
	b.q.delay = d
	return b
}

// Params seeds the query string of every request. Reloaded parameters win on conflict.
func (b *Builder) Params(params map[string]string) *Builder {
	for name := range params {
		if strings.TrimSpace(name) == "" {
			return b.fail("query parameter with empty name")
		}
	}
	b.q.params = maps.Clone(params)
	return b
}

// OnFetch registers a callback invoked before every request.
func (b *Builder) OnFetch(fn ProgressFunc) *Builder {
	b.q.progress = fn
	return b
}

// LooseEquality makes Recoil match across scalar kinds, so "1" finds records holding
// the number 1 and true finds 1.
func (b *Builder) LooseEquality() *Builder {
	b.q.equal = pathquery.LooseEqual
	return b
}

// Build returns the query or the first configuration error.
func (b *Builder) Build() (Query, error) {
	if b.err != nil {
		return Query{}, b.err
	}
	if err := b.q.validate(); err != nil {
		return Query{}, err
	}
	return b.q, nil
}
