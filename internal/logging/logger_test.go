package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("shown", "rows", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "shown" || entry["rows"] != 3.0 {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func withDefault(t *testing.T, buf *bytes.Buffer) {
	t.Helper()
	prev := slog.Default()
	slog.SetDefault(New(buf, "debug", "text"))
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestFromContext_RequestID(t *testing.T) {
	var buf bytes.Buffer
	withDefault(t, &buf)

	var ctx context.Context
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx = r.Context()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	FromContext(ctx).Info("hello")
	if !strings.Contains(buf.String(), "request_id=") {
		t.Errorf("expected request_id in %q", buf.String())
	}
}

func TestWithSession(t *testing.T) {
	var buf bytes.Buffer
	withDefault(t, &buf)

	WithSession(context.Background()).Info("no session")
	if strings.Contains(buf.String(), "session_id") {
		t.Errorf("unexpected session_id in %q", buf.String())
	}

	buf.Reset()
	ctx := ContextWithSession(context.Background(), "abc-123")
	if SessionID(ctx) != "abc-123" {
		t.Fatalf("SessionID = %q", SessionID(ctx))
	}
	WithSession(ctx).Info("with session")
	if !strings.Contains(buf.String(), "session_id=abc-123") {
		t.Errorf("expected session_id in %q", buf.String())
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	withDefault(t, &buf)

	WithFields(context.Background(), "limit", 1000, "page", 2).Info("load started")
	out := buf.String()
	if !strings.Contains(out, "limit=1000") || !strings.Contains(out, "page=2") {
		t.Errorf("expected fields in %q", out)
	}
}
