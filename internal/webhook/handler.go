package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"callnotify/internal/audit"
	"callnotify/internal/classify"
	"callnotify/internal/extraction"
	"callnotify/internal/sms"
	"callnotify/internal/templates"
	"callnotify/pkg/logger"
)

// maxBodyBytes bounds how much of a webhook body we read. Call transcripts
// are small; anything larger is not a payload we can use.
const maxBodyBytes = 1 << 20

const defaultDispatchTimeout = 15 * time.Second

// Response is the body of every call-ended webhook acknowledgment.
type Response struct {
	Received  bool   `json:"received"`
	SMSSent   bool   `json:"sms_sent"`
	SMSType   string `json:"sms_type,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	SMSError  string `json:"sms_error,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Classifier and Dispatcher are narrowed here so tests can inject faults.
type Classifier interface {
	Classify(transcript string, dir extraction.Direction) classify.Decision
}

type Dispatcher interface {
	Dispatch(ctx context.Context, toPhone string, tpl templates.ID) sms.Result
}

// Handler glues extraction, classification, template lookup and dispatch.
//
// Absolute invariant: every delivery is acknowledged with HTTP 200, whatever
// happens inside. The provider treats a non-200 as a delivery failure and
// retries, and a retried delivery risks a duplicate SMS to a bank customer.
type Handler struct {
	Extractor  *extraction.Extractor
	Classifier Classifier
	Dispatcher Dispatcher

	// Dedup and Audit are optional; nil disables the concern.
	Dedup Deduper
	Audit *audit.Service

	Capture *Capture

	// DispatchTimeout bounds the single gateway call so a hanging gateway
	// cannot hold the webhook connection open.
	DispatchTimeout time.Duration
}

// HandleCallEnded processes one call-ended delivery. Always 200.
func (h *Handler) HandleCallEnded(c *gin.Context) {
	log := logger.FromGin(c)
	resp := h.process(c.Request.Context(), c.Request.Body, log)
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) process(ctx context.Context, body io.Reader, log *slog.Logger) (resp Response) {
	resp = Response{Received: true}

	// Outermost boundary: any panic below becomes a reported failure in
	// the 200 body, never a 500.
	defer func() {
		if r := recover(); r != nil {
			log.Error("webhook pipeline panic", "panic", fmt.Sprint(r))
			resp = Response{Received: true, Error: fmt.Sprintf("internal error: %v", r)}
			h.appendAudit(log, audit.Event{
				Outcome:     audit.OutcomeFailed,
				ErrorDetail: fmt.Sprintf("panic: %v", r),
			})
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		log.Warn("webhook body read failed", "err", err)
	}
	h.Capture.Add(raw)

	var event map[string]any
	decodeErr := json.Unmarshal(raw, &event)
	if decodeErr != nil {
		log.Warn("webhook payload is not a JSON object", "err", decodeErr, "bytes", len(raw))
		event = nil
	}

	facts := h.Extractor.Extract(event)
	log.Info("call facts extracted",
		"conversation_id", facts.ConversationID,
		"direction", string(facts.Direction),
		"phone_found", facts.PhoneFound,
		"transcript_degraded", facts.TranscriptDegraded,
		"transcript_chars", len(facts.TranscriptText),
	)

	if dup := h.isDuplicate(ctx, facts.ConversationID, log); dup {
		resp.Reason = "duplicate delivery for conversation " + facts.ConversationID
		h.appendAudit(log, audit.Event{
			ConversationID: facts.ConversationID,
			Outcome:        audit.OutcomeDuplicate,
			Direction:      string(facts.Direction),
			Reason:         resp.Reason,
		})
		return resp
	}

	if !facts.PhoneFound {
		resp.Reason = "no phone number found in webhook payload"
		log.Info("sms suppressed", "reason", resp.Reason)
		h.appendAudit(log, audit.Event{
			ConversationID: facts.ConversationID,
			Outcome:        audit.OutcomeSuppressed,
			Direction:      string(facts.Direction),
			Reason:         resp.Reason,
			Metadata:       factsMetadata(facts, decodeErr),
		})
		return resp
	}

	decision := h.Classifier.Classify(facts.TranscriptText, facts.Direction)
	log.Info("transcript classified",
		"should_send", decision.ShouldSend,
		"template", string(decision.Template),
		"reason", decision.Reason,
	)

	if !decision.ShouldSend {
		resp.Reason = decision.Reason
		h.appendAudit(log, audit.Event{
			ConversationID: facts.ConversationID,
			Outcome:        audit.OutcomeSuppressed,
			Direction:      string(facts.Direction),
			CustomerPhone:  facts.CustomerPhone,
			PhoneFound:     true,
			Reason:         decision.Reason,
			Metadata:       factsMetadata(facts, decodeErr),
		})
		return resp
	}

	timeout := h.DispatchTimeout
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}
	dispatchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := h.Dispatcher.Dispatch(dispatchCtx, facts.CustomerPhone, decision.Template)

	ev := audit.Event{
		ConversationID: facts.ConversationID,
		Direction:      string(facts.Direction),
		CustomerPhone:  facts.CustomerPhone,
		PhoneFound:     true,
		Template:       string(decision.Template),
		Reason:         decision.Reason,
		Metadata:       factsMetadata(facts, decodeErr),
	}
	if result.Success {
		resp.SMSSent = true
		resp.SMSType = string(decision.Template)
		resp.MessageID = result.MessageID
		ev.Outcome = audit.OutcomeSent
		ev.MessageID = result.MessageID
		log.Info("sms dispatched", "template", resp.SMSType, "message_id", result.MessageID)
	} else {
		resp.SMSType = string(decision.Template)
		resp.SMSError = result.ErrorDetail
		ev.Outcome = audit.OutcomeFailed
		ev.ErrorDetail = result.ErrorDetail
		log.Error("sms dispatch failed", "template", resp.SMSType, "err", result.ErrorDetail)
	}
	h.appendAudit(log, ev)
	return resp
}

// isDuplicate claims the conversation id. Dedup failures fail open: an
// unreachable Redis must not block customer notifications.
func (h *Handler) isDuplicate(ctx context.Context, conversationID string, log *slog.Logger) bool {
	if h.Dedup == nil || conversationID == "" {
		return false
	}
	claimed, err := h.Dedup.Claim(ctx, conversationID)
	if err != nil {
		log.Warn("dedup claim failed, proceeding without dedup", "err", err)
		return false
	}
	if !claimed {
		log.Info("duplicate webhook delivery skipped", "conversation_id", conversationID)
	}
	return !claimed
}

// appendAudit writes the decision record. Best-effort: failures are logged,
// never surfaced to the provider.
func (h *Handler) appendAudit(log *slog.Logger, e audit.Event) {
	if h.Audit == nil {
		return
	}
	// Fresh context: the audit write should survive webhook ctx cancellation.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Audit.Append(ctx, e); err != nil {
		log.Error("audit append failed", "err", err)
	}
}

func factsMetadata(facts extraction.CallFacts, decodeErr error) string {
	meta := map[string]any{
		"transcript_degraded": facts.TranscriptDegraded,
		"transcript_chars":    len(facts.TranscriptText),
	}
	if decodeErr != nil {
		meta["decode_error"] = decodeErr.Error()
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(b)
}
