package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// ErrUnknownFormat indicates an output format name that is not supported.
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects how values are written.
type Format int

const (
	// FormatJSON writes collections as one indented JSON array.
	FormatJSON Format = iota
	// FormatLines writes one value per line: strings raw, everything else compact JSON.
	FormatLines
	// FormatYAML writes collections as a YAML sequence.
	FormatYAML
)

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "lines", "text":
		return FormatLines, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

func (f Format) String() string {
	switch f {
	case FormatLines:
		return "lines"
	case FormatYAML:
		return "yaml"
	default:
		return "json"
	}
}

// Writer renders projectiles and containers.
type Writer struct {
	w      io.Writer
	format Format
}

// New creates a Writer; a nil w discards output.
func New(w io.Writer, format Format) *Writer {
	if w == nil {
		w = io.Discard
	}
	return &Writer{w: w, format: format}
}

// Values writes a whole collection.
func (o *Writer) Values(values []any) error {
	if values == nil {
		values = []any{}
	}
	normalized := Normalize(values)

	switch o.format {
	case FormatLines:
		for _, v := range normalized.([]any) {
			if err := o.line(v); err != nil {
				return err
			}
		}
		return nil
	case FormatYAML:
		payload, err := yaml.Marshal(normalized)
		if err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		_, err = o.w.Write(payload)
		return err
	default:
		payload, err := json.MarshalIndent(normalized, "", "  ")
		if err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		_, err = fmt.Fprintf(o.w, "%s\n", payload)
		return err
	}
}

// Value writes a single item as it is delivered.
func (o *Writer) Value(v any) error {
	normalized := Normalize(v)

	switch o.format {
	case FormatYAML:
		payload, err := yaml.Marshal(normalized)
		if err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		_, err = fmt.Fprintf(o.w, "---\n%s", payload)
		return err
	case FormatLines:
		return o.line(normalized)
	default:
		payload, err := json.Marshal(normalized)
		if err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		_, err = fmt.Fprintf(o.w, "%s\n", payload)
		return err
	}
}

func (o *Writer) line(v any) error {
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(o.w, s)
		return err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	_, err = fmt.Fprintf(o.w, "%s\n", payload)
	return err
}

// Normalize replaces json.Number with int64 or float64 throughout v so that every
// encoder renders numbers as numbers.
func Normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

// Summary describes a finished run.
type Summary struct {
	Session     string
	Resource    string
	Fetches     int
	Projectiles int
	Duration    time.Duration
	Error       error
}

// FormatSummary writes a short human readable report of a run.
func FormatSummary(w io.Writer, s Summary) error {
	status := "Success"
	if s.Error != nil {
		status = fmt.Sprintf("Failed: %v", s.Error)
	}

	if _, err := fmt.Fprintf(w, "%s: %s (%d request(s) in %d ms)\n",
		s.Resource, status, s.Fetches, s.Duration.Milliseconds()); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "--------------------------------------------------------------------------------"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Session:     %s\n", s.Session); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Requests:    %d\n", s.Fetches); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Projectiles: %d\n", s.Projectiles); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Duration:    %d ms\n", s.Duration.Milliseconds())
	return err
}
