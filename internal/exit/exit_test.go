package exit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jacoelho/gunner/internal/queryfile"
	"github.com/jacoelho/gunner/pkg/gunner"
)

func TestFromError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: CodeOK},
		{name: "configuration", err: fmt.Errorf("%w: limit", gunner.ErrConfiguration), want: CodeUsage},
		{name: "query file", err: fmt.Errorf("query.yaml: %w", queryfile.ErrParse), want: CodeUsage},
		{name: "cancelled", err: fmt.Errorf("%w: %w", gunner.ErrCancelled, context.Canceled), want: CodeInterrupted},
		{name: "transport", err: fmt.Errorf("%w: 500", gunner.ErrTransport), want: CodeFailure},
		{name: "other", err: errors.New("boom"), want: CodeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FromError(tt.err).ExitCode; got != tt.want {
				t.Errorf("FromError(%v).ExitCode = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := FromError(errors.New("boom"))
	r.Output = &buf
	r.Print()

	if buf.String() != "Error: boom\n" {
		t.Errorf("Print() = %q, want %q", buf.String(), "Error: boom\n")
	}

	buf.Reset()
	(&Result{Output: &buf}).Print()
	if buf.Len() != 0 {
		t.Errorf("Print() with empty message wrote %q", buf.String())
	}
}
