// Package queryfile reads query definitions from YAML files.
//
//	url: https://api.reddit.com/user/unidan/comments.json
//	projectile: data.children.*.data.subreddit
//	reload:
//	  after: data.after
//	limit: 3
//	delay_ms: 100
//	query:
//	  limit: 25
//
// Instead of url, document_file names a local JSON document, resolved relative to
// the query file. Comments, unquoted keys and trailing commas are allowed in it.
package queryfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/jacoelho/gunner/pkg/gunner"
	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
)

var (
	// ErrParse indicates a query file that is not valid YAML or has unknown fields.
	ErrParse = errors.New("query file parse error")

	// ErrInvalid indicates a query file whose fields do not form a query.
	ErrInvalid = errors.New("invalid query file")
)

// File is the YAML shape of a query.
type File struct {
	URL           string            `yaml:"url"`
	DocumentFile  string            `yaml:"document_file"`
	Projectile    string            `yaml:"projectile"`
	Reload        map[string]string `yaml:"reload"`
	Limit         int               `yaml:"limit"`
	DelayMS       int               `yaml:"delay_ms"`
	Query         Params            `yaml:"query"`
	LooseEquality bool              `yaml:"loose_equality"`

	// baseDir anchors a relative DocumentFile; set by Load.
	baseDir string
}

// Parse decodes a query file, rejecting unknown fields.
func Parse(r io.Reader) (*File, error) {
	var f File
	if err := yaml.NewDecoder(r, yaml.DisallowUnknownField()).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and parses filename.
func Load(filename string) (*File, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open query file %s: %w", filename, err)
	}
	defer file.Close()

	f, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("query file %s: %w", filename, err)
	}
	f.baseDir = filepath.Dir(filename)
	return f, nil
}

// Validate checks the fields that the query builder cannot see. A file may omit both
// url and document_file when the document is supplied elsewhere.
func (f *File) Validate() error {
	hasURL := strings.TrimSpace(f.URL) != ""
	hasDoc := strings.TrimSpace(f.DocumentFile) != ""

	switch {
	case hasURL && hasDoc:
		return fmt.Errorf("%w: url and document_file are mutually exclusive", ErrInvalid)
	case f.Limit < 0:
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalid, f.Limit)
	case f.DelayMS < 0:
		return fmt.Errorf("%w: delay_ms must not be negative, got %d", ErrInvalid, f.DelayMS)
	}
	return nil
}

// Resource returns the resource the file points at, reading document_file if set.
// documentOverride, when not empty, replaces both url and document_file.
func (f *File) Resource(documentOverride string) (gunner.Resource, error) {
	var docFile string
	switch {
	case documentOverride != "":
		docFile = documentOverride
	case strings.TrimSpace(f.URL) != "":
		return gunner.URL(strings.TrimSpace(f.URL)), nil
	case strings.TrimSpace(f.DocumentFile) != "":
		docFile = ResolvePath(f.DocumentFile, f.baseDir)
	default:
		return gunner.Resource{}, fmt.Errorf("%w: one of url or document_file is required", ErrInvalid)
	}

	doc, err := ReadDocument(docFile)
	if err != nil {
		return gunner.Resource{}, err
	}
	return gunner.Document(doc), nil
}

// Builder turns the file into a query builder on resource, so callers may add
// callbacks before building.
func (f *File) Builder(resource gunner.Resource) *gunner.Builder {
	b := gunner.NewQuery(resource)
	if f.Projectile != "" {
		b.Projectile(f.Projectile)
	}
	if len(f.Reload) > 0 {
		b.Reload(f.Reload)
	}
	if f.Limit > 0 {
		b.Limit(f.Limit)
	}
	if f.DelayMS > 0 {
		b.Delay(time.Duration(f.DelayMS) * time.Millisecond)
	}
	if len(f.Query) > 0 {
		b.Params(f.Query)
	}
	if f.LooseEquality {
		b.LooseEquality()
	}
	return b
}

// ReadDocument decodes a local document. Besides plain JSON it accepts comments,
// unquoted keys and trailing commas; strings must still be double quoted.
func ReadDocument(filename string) (any, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", filename, err)
	}

	var doc any
	if err := json5.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: document %s: %v", gunner.ErrMalformedResponse, filename, err)
	}
	return doc, nil
}
