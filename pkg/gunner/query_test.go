package gunner

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jacoelho/gunner/internal/pathquery"
)

func TestBuilder(t *testing.T) {
	t.Parallel()

	q, err := NewQuery(URL("http://example.com/r.json")).
		Projectile("data.children.*.data.title").
		Reload(map[string]string{"after": "data.after"}).
		Limit(3).
		Delay(10 * time.Millisecond).
		Params(map[string]string{"limit": "25"}).
		Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	if q.Projectile() != "data.children.*.data.title" {
		t.Errorf("Projectile() = %q", q.Projectile())
	}
	if q.Limit() != 3 {
		t.Errorf("Limit() = %d, want 3", q.Limit())
	}
	if q.Delay() != 10*time.Millisecond {
		t.Errorf("Delay() = %s, want 10ms", q.Delay())
	}
	if !q.Resource().Remote() {
		t.Error("Resource().Remote() = false, want true")
	}
	if diff := cmp.Diff(map[string]string{"after": "data.after"}, q.Reloaders()); diff != "" {
		t.Errorf("Reloaders() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"limit": "25"}, q.Params()); diff != "" {
		t.Errorf("Params() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilderDefaults(t *testing.T) {
	t.Parallel()

	q, err := NewQuery(Document(map[string]any{"a": "b"})).Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if q.Projectile() != DefaultProjectile {
		t.Errorf("Projectile() = %q, want %q", q.Projectile(), DefaultProjectile)
	}
	if q.Limit() != 0 {
		t.Errorf("Limit() = %d, want unlimited", q.Limit())
	}
	if q.Resource().Remote() {
		t.Error("in-memory document reported as remote")
	}
}

func TestBuilderParamsAreCopied(t *testing.T) {
	t.Parallel()

	params := map[string]string{"limit": "25"}
	q, err := NewQuery(URL("http://example.com")).Params(params).Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	params["limit"] = "100"
	if q.Params()["limit"] != "25" {
		t.Errorf("query params changed after caller mutation: %v", q.Params())
	}
}

func TestBuilderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func() *Builder
		cause error
	}{
		{
			name:  "empty_resource",
			build: func() *Builder { return NewQuery(Resource{}) },
		},
		{
			name:  "empty_url",
			build: func() *Builder { return NewQuery(URL("")) },
		},
		{
			name:  "url_with_spaces",
			build: func() *Builder { return NewQuery(URL(" http://example.com")) },
		},
		{
			name:  "empty_projectile",
			build: func() *Builder { return NewQuery(URL("http://example.com")).Projectile("") },
			cause: pathquery.ErrEmptyPath,
		},
		{
			name:  "bad_projectile_segment",
			build: func() *Builder { return NewQuery(URL("http://example.com")).Projectile("a..b") },
			cause: pathquery.ErrEmptySegment,
		},
		{
			name: "empty_reloader_path",
			build: func() *Builder {
				return NewQuery(URL("http://example.com")).Reload(map[string]string{"after": ""})
			},
		},
		{
			name:  "zero_limit",
			build: func() *Builder { return NewQuery(URL("http://example.com")).Limit(0) },
		},
		{
			name:  "negative_limit",
			build: func() *Builder { return NewQuery(URL("http://example.com")).Limit(-2) },
		},
		{
			name:  "negative_delay",
			build: func() *Builder { return NewQuery(URL("http://example.com")).Delay(-time.Second) },
		},
		{
			name: "empty_param_name",
			build: func() *Builder {
				return NewQuery(URL("http://example.com")).Params(map[string]string{"": "x"})
			},
		},
		{
			name: "first_error_wins",
			build: func() *Builder {
				return NewQuery(URL("http://example.com")).Projectile("").Limit(0)
			},
			cause: pathquery.ErrEmptyPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := tt.build()
			if b.Err() == nil {
				t.Fatal("Err() = nil, want eager configuration error")
			}

			_, err := b.Build()
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("Build() error = %v, want ErrConfiguration", err)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("Build() error = %v, want cause %v", err, tt.cause)
			}
		})
	}
}
