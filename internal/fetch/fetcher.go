// Package fetch retrieves HTML pages over HTTP and parses them into
// document trees.
//
// A failed request is never retried: transport errors and non-2xx
// responses are returned to the caller, which aborts the crawl.
package fetch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	"github.com/nao1215/cluescrape/internal/document"
)

// ErrUnexpectedStatus is returned for responses outside the 2xx range.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// sniffLen is how many bytes are peeked for charset detection.
const sniffLen = 1024

// Fetcher downloads pages and returns them as parsed documents.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	cookie      string
	headers     map[string]string
	maxBodySize int64
	logger      *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client. Tests use it to point at httptest servers.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithTimeout sets the per-request timeout of the default client.
// Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client = &http.Client{Timeout: d}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithCookie sets the Cookie header.
func WithCookie(cookie string) Option {
	return func(f *Fetcher) {
		f.cookie = cookie
	}
}

// WithHeaders adds extra request headers.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		for k, v := range headers {
			f.headers[k] = v
		}
	}
}

// WithMaxBodySize limits how many body bytes are read per page.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: 60 * time.Second},
		userAgent:   "cluescrape/1.0",
		headers:     make(map[string]string),
		maxBodySize: 5 * 1024 * 1024,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch downloads pageURL and parses it.
// Pages in a legacy charset such as windows-1255 are decoded to UTF-8 first.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (document.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", pageURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	f.logger.Debug("fetching page", "url", pageURL, "cookie", f.cookie)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: %w: %d", pageURL, ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := decodeBody(io.LimitReader(resp.Body, f.maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", pageURL, err)
	}

	doc, err := document.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pageURL, err)
	}

	return doc, nil
}

// decodeBody wraps r in a reader that yields UTF-8.
// The encoding comes from the Content-Type header, a BOM, or a <meta>
// declaration in the first bytes; UTF-8 input passes through untouched.
func decodeBody(r io.Reader, contentType string) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	peek, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}

	enc, name, certain := charset.DetermineEncoding(peek, contentType)
	if name == "utf-8" {
		return br, nil
	}
	// windows-1252 is only the detector's fallback guess here; an ASCII
	// prefix says nothing about the Hebrew text further down the page.
	if !certain && name == "windows-1252" && isASCII(peek) {
		return br, nil
	}
	return transform.NewReader(br, enc.NewDecoder()), nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
