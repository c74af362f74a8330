package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/charmap"
)

// TestFetch tests page retrieval against local HTTP servers.
func TestFetch(t *testing.T) {
	t.Parallel()

	t.Run("parses a UTF-8 page", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><body><h1>שלום</h1></body></html>`))
		}))
		defer server.Close()

		doc, err := New(WithHTTPClient(server.Client())).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		h1, ok := doc.Find("h1")
		if !ok || h1.Text() != "שלום" {
			t.Errorf("expected heading 'שלום', got %v", h1)
		}
	})

	t.Run("decodes a windows-1255 page", func(t *testing.T) {
		t.Parallel()

		encoded, err := charmap.Windows1255.NewEncoder().String(`<html><body><h1>פתרון</h1></body></html>`)
		if err != nil {
			t.Fatalf("failed to encode fixture: %v", err)
		}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=windows-1255")
			_, _ = w.Write([]byte(encoded))
		}))
		defer server.Close()

		doc, err := New(WithHTTPClient(server.Client())).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		h1, ok := doc.Find("h1")
		if !ok || h1.Text() != "פתרון" {
			t.Errorf("expected decoded heading, got %v", h1)
		}
	})

	t.Run("keeps UTF-8 when the prefix is plain ASCII", func(t *testing.T) {
		t.Parallel()

		page := "<html><head><title>" + strings.Repeat("x", 2000) + "</title></head><body><h1>אבא</h1></body></html>"
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(page))
		}))
		defer server.Close()

		doc, err := New(WithHTTPClient(server.Client())).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		h1, ok := doc.Find("h1")
		if !ok || h1.Text() != "אבא" {
			t.Errorf("expected heading 'אבא', got %v", h1)
		}
	})

	t.Run("sends configured headers", func(t *testing.T) {
		t.Parallel()

		var got http.Header
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Clone()
			_, _ = w.Write([]byte(`<html></html>`))
		}))
		defer server.Close()

		f := New(
			WithHTTPClient(server.Client()),
			WithUserAgent("test-agent/1.0"),
			WithCookie("session=abc"),
			WithHeaders(map[string]string{"Accept-Language": "he"}),
		)
		if _, err := f.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.Get("User-Agent") != "test-agent/1.0" {
			t.Errorf("unexpected User-Agent %q", got.Get("User-Agent"))
		}
		if got.Get("Cookie") != "session=abc" {
			t.Errorf("unexpected Cookie %q", got.Get("Cookie"))
		}
		if got.Get("Accept-Language") != "he" {
			t.Errorf("unexpected Accept-Language %q", got.Get("Accept-Language"))
		}
	})

	t.Run("non 2xx status is an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		_, err := New(WithHTTPClient(server.Client())).Fetch(context.Background(), server.URL)
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
		}
		if !strings.Contains(err.Error(), "404") {
			t.Errorf("expected status code in error, got %v", err)
		}
	})

	t.Run("transport failure is an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		addr := server.URL
		server.Close()

		if _, err := New(WithTimeout(time.Second)).Fetch(context.Background(), addr); err == nil {
			t.Error("expected error for closed server")
		}
	})

	t.Run("invalid URL is an error", func(t *testing.T) {
		t.Parallel()

		if _, err := New().Fetch(context.Background(), "http://[::1"); err == nil {
			t.Error("expected error for invalid URL")
		}
	})

	t.Run("cancelled context stops the request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html></html>`))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New(WithHTTPClient(server.Client())).Fetch(ctx, server.URL)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("body is truncated at the size limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><body><p id="a">kept</p>` + strings.Repeat(" ", 100) + `<p id="b">dropped</p></body></html>`))
		}))
		defer server.Close()

		doc, err := New(WithHTTPClient(server.Client()), WithMaxBodySize(40)).Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := doc.Find("p#b"); ok {
			t.Error("expected content past the limit to be dropped")
		}
		if _, ok := doc.Find("p#a"); !ok {
			t.Error("expected content within the limit to be kept")
		}
	})
}
