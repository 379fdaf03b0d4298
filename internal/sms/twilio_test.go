package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTwilioClient_SendMessage(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/Accounts/AC123/Messages.json") {
			t.Errorf("path = %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "token" {
			t.Errorf("basic auth = %q/%q", user, pass)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = map[string]string{
			"To":   r.PostFormValue("To"),
			"From": r.PostFormValue("From"),
			"Body": r.PostFormValue("Body"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM42","status":"queued"}`))
	}))
	defer srv.Close()

	c := NewTwilioClient(TwilioConfig{
		AccountSID:   "AC123",
		AuthToken:    "token",
		SenderNumber: "+971040000000",
		BaseURL:      srv.URL,
	})

	sid, err := c.SendMessage(context.Background(), "+971501234567", "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sid != "SM42" {
		t.Fatalf("sid = %q", sid)
	}
	if gotForm["To"] != "+971501234567" || gotForm["From"] != "+971040000000" || gotForm["Body"] != "hello" {
		t.Fatalf("form = %+v", gotForm)
	}
}

func TestTwilioClient_SendMessage_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"error_code":21211,"error_message":"The 'To' number is not a valid phone number."}`))
	}))
	defer srv.Close()

	c := NewTwilioClient(TwilioConfig{AccountSID: "AC123", AuthToken: "token", SenderNumber: "+971040000000", BaseURL: srv.URL})

	_, err := c.SendMessage(context.Background(), "bogus", "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "21211") || !strings.Contains(err.Error(), "not a valid phone number") {
		t.Fatalf("provider detail missing from error: %v", err)
	}
}

func TestTwilioClient_Configured(t *testing.T) {
	if NewTwilioClient(TwilioConfig{}).Configured() {
		t.Fatal("empty config reported configured")
	}
	var nilClient *TwilioClient
	if nilClient.Configured() {
		t.Fatal("nil client reported configured")
	}
	c := NewTwilioClient(TwilioConfig{AccountSID: "AC", AuthToken: "t", SenderNumber: "+1"})
	if !c.Configured() {
		t.Fatal("full config reported unconfigured")
	}
}
