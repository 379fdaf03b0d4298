package reporting

import (
	"context"
	"errors"

	"callnotify/internal/audit"
)

// DecisionSummary aggregates recent webhook decisions for the ops surface.
type DecisionSummary struct {
	Total      int `json:"total"`
	Sent       int `json:"sent"`
	Suppressed int `json:"suppressed"`
	Failed     int `json:"failed"`
	Duplicate  int `json:"duplicate"`

	ByTemplate map[string]int `json:"by_template"`
}

const defaultSummaryWindow = 500

type Service struct {
	reader audit.Reader
}

func NewService(reader audit.Reader) *Service { return &Service{reader: reader} }

// Summary aggregates the most recent decisions. window <= 0 uses a default.
func (s *Service) Summary(ctx context.Context, window int) (DecisionSummary, error) {
	if s.reader == nil {
		return DecisionSummary{}, errors.New("reporting: audit reader not configured")
	}
	if window <= 0 {
		window = defaultSummaryWindow
	}

	events, err := s.reader.ListRecent(ctx, window)
	if err != nil {
		return DecisionSummary{}, err
	}

	out := DecisionSummary{ByTemplate: map[string]int{}}
	for _, e := range events {
		out.Total++
		switch e.Outcome {
		case audit.OutcomeSent:
			out.Sent++
		case audit.OutcomeSuppressed:
			out.Suppressed++
		case audit.OutcomeFailed:
			out.Failed++
		case audit.OutcomeDuplicate:
			out.Duplicate++
		}
		if e.Template != "" {
			out.ByTemplate[e.Template]++
		}
	}
	return out, nil
}
