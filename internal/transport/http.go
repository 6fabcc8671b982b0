package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/jacoelho/gunner/internal/ratelimit"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	// DefaultTimeout bounds a single page request.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodyBytes caps the size of a decoded page.
	DefaultMaxBodyBytes int64 = 32 << 20
)

// Options configures an HTTP transport. The zero value is usable.
type Options struct {
	TLSConfig    *tls.Config
	Timeout      time.Duration
	UserAgent    string
	Limiter      *ratelimit.Limiter
	MaxBodyBytes int64
	Logger       *zerolog.Logger
}

// HTTP fetches JSON pages over HTTP GET. It is safe for concurrent use.
type HTTP struct {
	client       *http.Client
	userAgent    string
	limiter      *ratelimit.Limiter
	maxBodyBytes int64
	log          zerolog.Logger
}

// NewHTTP builds a transport with a tuned client.
func NewHTTP(opts Options) *HTTP {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return NewHTTPWithClient(newClient(opts.TLSConfig, timeout), opts)
}

// NewHTTPWithClient uses client as is; only the non-client options apply.
func NewHTTPWithClient(client *http.Client, opts Options) *HTTP {
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	return &HTTP{
		client:       client,
		userAgent:    opts.UserAgent,
		limiter:      opts.Limiter,
		maxBodyBytes: maxBody,
		log:          log,
	}
}

func newClient(tlsConfig *tls.Config, timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSClientConfig:       tlsConfig,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: timeout,
			IdleConnTimeout:       60 * time.Second,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			ForceAttemptHTTP2:     true,
		},
	}
}

// Get requests rawURL with params merged into its query string and decodes the JSON body.
// Numbers decode as json.Number.
func (h *HTTP) Get(ctx context.Context, rawURL string, params map[string]string) (any, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	requestURL, err := BuildURL(rawURL, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrRequest, err)
	}

	h.log.Debug().
		Str("url", requestURL).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("page received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s from %s", ErrStatus, resp.Status, requestURL)
	}
	if int64(len(body)) > h.maxBodyBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedResponse, h.maxBodyBytes)
	}

	return Decode(body)
}

// Decode parses a JSON document, reporting ErrMalformedResponse for anything else.
func Decode(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: body is empty", ErrMalformedResponse)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", ErrMalformedResponse)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return doc, nil
}

// BuildURL merges params into the query of rawURL. Params override existing keys and
// are encoded in sorted key order. Empty params leave the URL untouched.
func BuildURL(rawURL string, params map[string]string) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse URL: %w", ErrRequest, err)
	}

	query := parsed.Query()
	for name, value := range params {
		query.Set(name, value)
	}
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
