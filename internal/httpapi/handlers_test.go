package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"callnotify/internal/audit"
	"callnotify/internal/reporting"
	"callnotify/internal/webhook"
)

type stubIssuer struct {
	key string
	err error
}

func (s stubIssuer) CheckOpsKey(presented string) bool { return presented == s.key }

func (s stubIssuer) IssueAccess(now time.Time, operatorID, role string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "tok-" + operatorID + "-" + role, nil
}

func serve(t *testing.T, method, path, body string, register func(*gin.Engine)) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIssueToken(t *testing.T) {
	h := Handlers{Auth: stubIssuer{key: "ops-key"}}
	register := func(r *gin.Engine) { r.POST("/v1/auth/token", h.IssueToken) }

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid operator", `{"ops_api_key":"ops-key","operator_id":"op-1"}`, 200},
		{"valid admin", `{"ops_api_key":"ops-key","operator_id":"op-1","role":"admin"}`, 200},
		{"wrong key", `{"ops_api_key":"nope","operator_id":"op-1"}`, 401},
		{"missing operator", `{"ops_api_key":"ops-key"}`, 400},
		{"unknown role", `{"ops_api_key":"ops-key","operator_id":"op-1","role":"root"}`, 400},
		{"invalid json", `{`, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, http.MethodPost, "/v1/auth/token", tt.body, register)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == 200 && !strings.Contains(w.Body.String(), "access_token") {
				t.Fatalf("body = %s", w.Body.String())
			}
		})
	}
}

func TestIssueToken_IssuanceFailure(t *testing.T) {
	h := Handlers{Auth: stubIssuer{key: "ops-key", err: errors.New("hs256 broke")}}
	w := serve(t, http.MethodPost, "/v1/auth/token", `{"ops_api_key":"ops-key","operator_id":"op-1"}`,
		func(r *gin.Engine) { r.POST("/v1/auth/token", h.IssueToken) })
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRecentDecisions(t *testing.T) {
	repo := audit.NewMemoryRepo(10)
	svc := audit.NewService(repo)
	for i := 0; i < 3; i++ {
		if err := svc.Append(context.Background(), audit.Event{Outcome: audit.OutcomeSent}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	h := Handlers{Audit: repo}
	w := serve(t, http.MethodGet, "/v1/ops/decisions?limit=2", "",
		func(r *gin.Engine) { r.GET("/v1/ops/decisions", h.RecentDecisions) })
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Decisions []audit.Event `json:"decisions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if len(body.Decisions) != 2 {
		t.Fatalf("decisions = %d, want limit applied", len(body.Decisions))
	}
}

func TestCapturedPayloads(t *testing.T) {
	capture := webhook.NewCapture(5)
	capture.Add([]byte(`{"conversation_id":"c1"}`))

	h := Handlers{Capture: capture}
	w := serve(t, http.MethodGet, "/v1/ops/payloads", "",
		func(r *gin.Engine) { r.GET("/v1/ops/payloads", h.CapturedPayloads) })
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "c1") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestStats(t *testing.T) {
	repo := audit.NewMemoryRepo(10)
	svc := audit.NewService(repo)
	if err := svc.Append(context.Background(), audit.Event{Outcome: audit.OutcomeSent, Template: "REWARDS_INFO"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	h := Handlers{Reporting: reporting.NewService(repo)}
	w := serve(t, http.MethodGet, "/v1/ops/stats", "",
		func(r *gin.Engine) { r.GET("/v1/ops/stats", h.Stats) })
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var summary reporting.DecisionSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("body: %v", err)
	}
	if summary.Sent != 1 || summary.ByTemplate["REWARDS_INFO"] != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestHandlers_NotConfigured(t *testing.T) {
	h := Handlers{}
	checks := []struct {
		name string
		fn   gin.HandlerFunc
	}{
		{"token", h.IssueToken},
		{"decisions", h.RecentDecisions},
		{"payloads", h.CapturedPayloads},
		{"stats", h.Stats},
	}
	for _, tt := range checks {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, http.MethodPost, "/x", "{}", func(r *gin.Engine) { r.POST("/x", tt.fn) })
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d", w.Code)
			}
		})
	}
}
