package calls

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"callnotify/internal/voiceagent"
	"callnotify/pkg/logger"
)

// Dialer is the slice of the voice agent client this handler needs.
type Dialer interface {
	Configured() bool
	PlaceCall(ctx context.Context, call voiceagent.CallRequest) (*voiceagent.CallResult, error)
}

// Handler exposes call initiation over HTTP. Keep it thin: parse, validate,
// forward to the agent platform, relay the acknowledgment.
type Handler struct {
	Dialer Dialer
}

func (h Handler) InitiateCall(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Dialer == nil || !h.Dialer.Configured() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "voice agent not configured"})
		return
	}

	var req InitiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if violations := req.Validate(); len(violations) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validation failed", "violations": violations})
		return
	}
	req = req.Normalized()

	result, err := h.Dialer.PlaceCall(c.Request.Context(), voiceagent.CallRequest{
		ToNumber:         req.ToNumber,
		FirstMessage:     req.FirstMessage,
		Language:         req.Language,
		DynamicVariables: req.DynamicVariables,
	})
	if err != nil {
		if errors.Is(err, voiceagent.ErrNotConfigured) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "voice agent not configured"})
			return
		}
		log.Error("call initiation failed", "to", req.ToNumber, "err", err)
		// Provider rejections carry actionable detail (bad number, quota), so
		// relay the message rather than hiding it.
		status := http.StatusBadGateway
		if strings.Contains(err.Error(), "provider error 4") {
			status = http.StatusBadRequest
		}
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}

	log.Info("call initiated", "to", req.ToNumber, "conversation_id", result.ConversationID, "call_sid", result.CallSID)
	c.JSON(http.StatusOK, result)
}
