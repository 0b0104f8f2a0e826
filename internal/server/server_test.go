package server

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingHandler struct {
	ownerID int64
	body    string
}

func (h *recordingHandler) HandleMessage(_ context.Context, ownerID int64, body string) string {
	h.ownerID = ownerID
	h.body = body
	return "echo: " + body
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func postForm(router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWebhook(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		form        url.Values
		wantOwner   int64
		wantMessage string
	}{
		{
			name:        "routes message to handler",
			form:        url.Values{"From": {"whatsapp:+15551234567"}, "Body": {"/list"}},
			wantOwner:   15551234567,
			wantMessage: "echo: /list",
		},
		{
			name:        "rejects unparseable sender",
			form:        url.Values{"From": {"whatsapp:+abc"}, "Body": {"hi"}},
			wantMessage: "Sorry, I couldn't understand that request.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handler := &recordingHandler{}
			router := NewRouter(handler, NewChecker(nil), zap.NewNop())

			rec := postForm(router, "/twilio/webhook", tt.form)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
				t.Errorf("content type = %q", ct)
			}
			var resp twimlResponse
			if err := xml.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode TwiML %q: %v", rec.Body.String(), err)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
			if handler.ownerID != tt.wantOwner {
				t.Errorf("owner = %d, want %d", handler.ownerID, tt.wantOwner)
			}
		})
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	healthy := pingFunc(func(context.Context) error { return nil })
	broken := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		deps       map[string]Pinger
		wantStatus int
		wantBody   Status
	}{
		{name: "all healthy", deps: map[string]Pinger{"database": healthy}, wantStatus: http.StatusOK, wantBody: StatusHealthy},
		{name: "one failing", deps: map[string]Pinger{"database": healthy, "redis": broken}, wantStatus: http.StatusServiceUnavailable, wantBody: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			router := NewRouter(&recordingHandler{}, NewChecker(tt.deps), zap.NewNop())

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var status HealthStatus
			if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if status.Status != tt.wantBody || len(status.Checks) != len(tt.deps) {
				t.Errorf("unexpected body: %+v", status)
			}
		})
	}

	rec := httptest.NewRecorder()
	NewRouter(&recordingHandler{}, NewChecker(nil), zap.NewNop()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("live status = %d", rec.Code)
	}
}
