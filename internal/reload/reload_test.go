package reload

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func decode(t *testing.T, raw string) any {
	t.Helper()

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		reloaders map[string]string
		wantErr   bool
	}{
		{name: "nil", reloaders: nil},
		{name: "dotted", reloaders: map[string]string{"after": "data.after"}},
		{name: "jsonpath", reloaders: map[string]string{"after": "$.data.after"}},
		{name: "empty_path", reloaders: map[string]string{"after": ""}, wantErr: true},
		{name: "empty_name", reloaders: map[string]string{" ": "data.after"}, wantErr: true},
		{name: "bad_jsonpath", reloaders: map[string]string{"after": "$.data[?"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := New(tt.reloaders)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidReloader) {
					t.Fatalf("New() error = %v, want ErrInvalidReloader", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			if r.Len() != len(tt.reloaders) {
				t.Errorf("Len() = %d, want %d", r.Len(), len(tt.reloaders))
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		reloaders map[string]string
		page      string
		remote    bool
		want      Decision
	}{
		{
			name:      "cursor_present",
			reloaders: map[string]string{"after": "data.after"},
			page:      `{"data":{"after":"t3_x","children":[]}}`,
			remote:    true,
			want:      Decision{Continue: true, Params: map[string]string{"after": "t3_x"}},
		},
		{
			name:      "cursor_empty_string",
			reloaders: map[string]string{"after": "data.after"},
			page:      `{"data":{"after":""}}`,
			remote:    true,
			want:      Decision{Params: map[string]string{"after": ""}},
		},
		{
			name:      "cursor_absent",
			reloaders: map[string]string{"after": "data.after"},
			page:      `{"data":{}}`,
			remote:    true,
			want:      Decision{Params: map[string]string{"after": ""}},
		},
		{
			name:      "cursor_null",
			reloaders: map[string]string{"after": "data.after"},
			page:      `{"data":{"after":null}}`,
			remote:    true,
			want:      Decision{Params: map[string]string{"after": ""}},
		},
		{
			name:      "in_memory_never_continues",
			reloaders: map[string]string{"after": "data.after"},
			page:      `{"data":{"after":"t3_x"}}`,
			remote:    false,
			want:      Decision{Params: map[string]string{"after": "t3_x"}},
		},
		{
			name:      "one_truthy_is_enough",
			reloaders: map[string]string{"after": "data.after", "count": "data.count", "page": "data.page"},
			page:      `{"data":{"after":"","count":0,"page":2}}`,
			remote:    true,
			want: Decision{Continue: true, Params: map[string]string{
				"after": "", "count": "", "page": "2",
			}},
		},
		{
			name:      "first_wildcard_match",
			reloaders: map[string]string{"since": "items.*.id"},
			page:      `{"items":[{"id":"b"},{"id":"c"}]}`,
			remote:    true,
			want:      Decision{Continue: true, Params: map[string]string{"since": "b"}},
		},
		{
			name:      "jsonpath_cursor",
			reloaders: map[string]string{"cursor": "$.meta.next"},
			page:      `{"meta":{"next":"abc"}}`,
			remote:    true,
			want:      Decision{Continue: true, Params: map[string]string{"cursor": "abc"}},
		},
		{
			name:      "jsonpath_false_cursor",
			reloaders: map[string]string{"more": "$.meta.has_more"},
			page:      `{"meta":{"has_more":false}}`,
			remote:    true,
			want:      Decision{Params: map[string]string{"more": "false"}},
		},
		{
			name:   "no_reloaders",
			page:   `{"data":{"after":"t3_x"}}`,
			remote: true,
			want:   Decision{Params: map[string]string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := New(tt.reloaders)
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}

			got := r.Resolve(decode(t, tt.page), tt.remote)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value any
		want  string
	}{
		{value: nil, want: ""},
		{value: "t3_x", want: "t3_x"},
		{value: json.Number("25"), want: "25"},
		{value: float64(2), want: "2"},
		{value: 1.5, want: "1.5"},
		{value: true, want: "true"},
		{value: []any{"a", "b"}, want: `["a","b"]`},
	}

	for _, tt := range tests {
		if got := Format(tt.value); got != tt.want {
			t.Errorf("Format(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
