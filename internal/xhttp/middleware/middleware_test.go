package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/revhook/internal/xcontext"
	"github.com/garrettladley/revhook/internal/xhttp"
	"github.com/garrettladley/revhook/internal/xslog"
)

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls = append(calls, "handler")
	}), mark("first"), mark("second"), mark("third"))

	req := httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if diff := cmp.Diff([]string{"first", "second", "third", "handler"}, calls); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	var gotID string
	handler := RequestID(WithIDFunc(func(*http.Request) string { return "req-123" }))(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			gotID, _ = xcontext.GetRequestID(r.Context())
		}),
	)

	req := httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotID != "req-123" {
		t.Errorf("context request id = %q, want %q", gotID, "req-123")
	}
	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("X-Request-ID = %q, want %q", got, "req-123")
	}
}

func TestRequestIDDefaultIsUnique(t *testing.T) {
	t.Parallel()

	handler := RequestID()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	seen := make(map[string]bool)
	for range 10 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/", nil))
		id := rec.Header().Get("X-Request-ID")
		if id == "" || seen[id] {
			t.Fatalf("request id %q empty or repeated", id)
		}
		seen[id] = true
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), Logger(logger), Recovery)

	req := httptest.NewRequestWithContext(t.Context(), http.MethodPost, "/webhooks/revolut", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("log output missing panic entry: %s", buf.String())
	}
}

func TestLoggerAddsRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Chain(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		xslog.FromContext(r.Context()).InfoContext(r.Context(), "hello")
	}),
		RequestID(WithIDFunc(func(*http.Request) string { return "req-abc" })),
		Logger(logger),
	)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), `"request_id":"req-abc"`) {
		t.Errorf("log output missing request id: %s", buf.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	handler := SecurityHeaders(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/", nil))

	want := map[string]string{
		xhttp.XContentTypeOpts: "nosniff",
		xhttp.XFrameOpts:       "DENY",
		xhttp.ReferrerPolicy:   "strict-origin-when-cross-origin",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}
