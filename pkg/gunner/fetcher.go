package gunner

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/jacoelho/gunner/internal/session"
	"github.com/jacoelho/gunner/internal/transport"
	"github.com/rs/zerolog"
)

// Transport performs one GET and returns the decoded JSON document. Empty params
// must produce a request without a query string.
type Transport interface {
	Get(ctx context.Context, rawURL string, params map[string]string) (any, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, rawURL string, params map[string]string) (any, error)

// Get calls f.
func (f TransportFunc) Get(ctx context.Context, rawURL string, params map[string]string) (any, error) {
	return f(ctx, rawURL, params)
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger used for per-run events.
func WithLogger(log zerolog.Logger) Option {
	return func(f *Fetcher) {
		f.log = log
	}
}

// Fetcher runs queries. It keeps no per-run state, so one Fetcher may run many
// queries concurrently; each run gets its own Session.
type Fetcher struct {
	transport Transport
	log       zerolog.Logger
}

// New creates a Fetcher using t for remote resources. A nil t uses an HTTP transport
// with default settings.
func New(t Transport, opts ...Option) *Fetcher {
	if t == nil {
		t = transport.NewHTTP(transport.Options{})
	}

	f := &Fetcher{
		transport: t,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fire runs q to completion and returns its session. Projectiles are available through
// Session.Projectiles. On error the session holds whatever was received before the
// failure, and is nil only for configuration errors.
func (f *Fetcher) Fire(ctx context.Context, q Query) (*Session, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	state := session.New(q.projectile, q.equal)
	s := &Session{state: state}
	log := f.log.With().
		Str("session", s.ID().String()).
		Str("resource", q.resource.String()).
		Logger()

	var reloaded map[string]string
	for {
		if q.limit > 0 && s.Fetches() >= q.limit {
			log.Debug().Int("limit", q.limit).Msg("request limit reached")
			break
		}

		if q.progress != nil {
			q.progress(s.Fetches(), q.limit)
		}

		if err := ctx.Err(); err != nil {
			return s, fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		params := mergeParams(q.params, reloaded)
		fetch := state.CountFetch()
		log.Debug().Int("fetch", fetch).Interface("params", params).Msg("requesting page")

		page, err := f.page(ctx, q.resource, params)
		if err != nil {
			return s, f.fetchError(ctx, fetch, err)
		}

		found := state.Accumulate(page)
		decision := q.resolver.Resolve(page, q.resource.Remote())
		log.Debug().
			Int("fetch", fetch).
			Int("projectiles", len(found)).
			Bool("reload", decision.Continue).
			Msg("page processed")

		if !decision.Continue {
			break
		}
		reloaded = decision.Params

		if q.limit > 0 && s.Fetches() >= q.limit {
			log.Debug().Int("limit", q.limit).Msg("request limit reached")
			break
		}

		if err := sleep(ctx, q.delay); err != nil {
			return s, fmt.Errorf("%w: %w", ErrCancelled, err)
		}
	}

	log.Info().
		Int("fetches", s.Fetches()).
		Int("projectiles", len(s.Projectiles())).
		Msg("run complete")

	return s, nil
}

// Rapidfire runs q like Fire, then calls onItem once per projectile in order.
// onItem is not called when the run fails.
func (f *Fetcher) Rapidfire(ctx context.Context, q Query, onItem func(projectile any)) (*Session, error) {
	s, err := f.Fire(ctx, q)
	if err != nil {
		return s, err
	}

	for _, p := range s.Projectiles() {
		onItem(p)
	}
	return s, nil
}

// Result is the outcome of an asynchronous run.
type Result struct {
	Session *Session
	Err     error
}

// FireAsync runs q in a new goroutine. The channel receives exactly one Result and is
// then closed.
func (f *Fetcher) FireAsync(ctx context.Context, q Query) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		s, err := f.Fire(ctx, q)
		out <- Result{Session: s, Err: err}
	}()
	return out
}

func (f *Fetcher) page(ctx context.Context, r Resource, params map[string]string) (any, error) {
	switch r.kind {
	case resourceURL:
		return f.transport.Get(ctx, r.url, params)
	case resourceJSON:
		return transport.Decode(r.raw)
	default:
		return r.document, nil
	}
}

func (f *Fetcher) fetchError(ctx context.Context, fetch int, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, ctxErr)
	}
	if errors.Is(err, ErrMalformedResponse) {
		return fmt.Errorf("fetch %d: %w", fetch, err)
	}
	return fmt.Errorf("%w: fetch %d: %w", ErrTransport, fetch, err)
}

// mergeParams overlays reloaded on initial; nil when both are empty.
func mergeParams(initial, reloaded map[string]string) map[string]string {
	if len(initial) == 0 && len(reloaded) == 0 {
		return nil
	}

	params := make(map[string]string, len(initial)+len(reloaded))
	maps.Copy(params, initial)
	maps.Copy(params, reloaded)
	return params
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
