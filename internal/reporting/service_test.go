package reporting

import (
	"context"
	"testing"

	"callnotify/internal/audit"
)

func seedRepo(t *testing.T) *audit.MemoryRepo {
	t.Helper()
	repo := audit.NewMemoryRepo(100)
	svc := audit.NewService(repo)
	events := []audit.Event{
		{Outcome: audit.OutcomeSent, Template: "REWARDS_TNC"},
		{Outcome: audit.OutcomeSent, Template: "OUTBOUND_CONFIRMATION"},
		{Outcome: audit.OutcomeSuppressed},
		{Outcome: audit.OutcomeFailed, Template: "COMPLAINT"},
		{Outcome: audit.OutcomeDuplicate},
	}
	for _, e := range events {
		if err := svc.Append(context.Background(), e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return repo
}

func TestSummary_Aggregates(t *testing.T) {
	svc := NewService(seedRepo(t))

	out, err := svc.Summary(context.Background(), 0)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if out.Total != 5 || out.Sent != 2 || out.Suppressed != 1 || out.Failed != 1 || out.Duplicate != 1 {
		t.Fatalf("summary = %+v", out)
	}
	if out.ByTemplate["REWARDS_TNC"] != 1 || out.ByTemplate["COMPLAINT"] != 1 {
		t.Fatalf("by_template = %v", out.ByTemplate)
	}
}

func TestSummary_WindowLimits(t *testing.T) {
	svc := NewService(seedRepo(t))

	out, err := svc.Summary(context.Background(), 2)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if out.Total != 2 {
		t.Fatalf("total = %d, want window of 2", out.Total)
	}
}

func TestSummary_NoReader(t *testing.T) {
	svc := NewService(nil)
	if _, err := svc.Summary(context.Background(), 10); err == nil {
		t.Fatal("expected error without reader")
	}
}
