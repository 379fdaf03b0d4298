package calls

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"callnotify/internal/voiceagent"
)

type stubDialer struct {
	configured bool
	result     *voiceagent.CallResult
	err        error
	got        voiceagent.CallRequest
	calls      int
}

func (s *stubDialer) Configured() bool { return s.configured }

func (s *stubDialer) PlaceCall(ctx context.Context, call voiceagent.CallRequest) (*voiceagent.CallResult, error) {
	s.calls++
	s.got = call
	return s.result, s.err
}

func postInitiate(t *testing.T, d Dialer, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/v1/calls", Handler{Dialer: d}.InitiateCall)

	req := httptest.NewRequest(http.MethodPost, "/v1/calls", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestInitiateCall_ForwardsToDialer(t *testing.T) {
	d := &stubDialer{
		configured: true,
		result:     &voiceagent.CallResult{Success: true, ConversationID: "conv_1", CallSID: "CA1"},
	}
	w := postInitiate(t, d, `{"to_number":"+971 50 123 4567","first_message":"Hi","language":"en"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if d.got.ToNumber != "+971501234567" {
		t.Errorf("dialed %q, want normalized number", d.got.ToNumber)
	}
	if d.got.FirstMessage != "Hi" || d.got.Language != "en" {
		t.Errorf("call request = %+v", d.got)
	}
	var res voiceagent.CallResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil || res.ConversationID != "conv_1" {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestInitiateCall_ValidationListsAllViolations(t *testing.T) {
	d := &stubDialer{configured: true}
	w := postInitiate(t, d, `{"first_message":"`+strings.Repeat("x", 501)+`"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Violations []string `json:"violations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if len(body.Violations) != 2 {
		t.Fatalf("violations = %v, want both reported", body.Violations)
	}
	if d.calls != 0 {
		t.Fatal("dialer called despite validation failure")
	}
}

func TestInitiateCall_NotConfigured(t *testing.T) {
	w := postInitiate(t, &stubDialer{configured: false}, `{"to_number":"+971501234567"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestInitiateCall_ProviderRejectionIs400(t *testing.T) {
	d := &stubDialer{
		configured: true,
		err:        errors.New("voiceagent: provider error 422: to_number is invalid"),
	}
	w := postInitiate(t, d, `{"to_number":"+971501234567"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "to_number is invalid") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestInitiateCall_ProviderOutageIs502(t *testing.T) {
	d := &stubDialer{
		configured: true,
		err:        errors.New("voiceagent: provider error 500: internal"),
	}
	w := postInitiate(t, d, `{"to_number":"+971501234567"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
}
