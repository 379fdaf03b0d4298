package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"callnotify/internal/audit"
	"callnotify/internal/rbac"
	"callnotify/internal/reporting"
	"callnotify/internal/webhook"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth      TokenIssuer
	Audit     audit.Reader
	Capture   *webhook.Capture
	Reporting *reporting.Service
}

// TokenIssuer is the slice of the auth manager the token endpoint needs.
type TokenIssuer interface {
	CheckOpsKey(presented string) bool
	IssueAccess(now time.Time, operatorID, role string) (string, error)
}

// --- Auth ---

type tokenRequest struct {
	OpsAPIKey  string `json:"ops_api_key"`
	OperatorID string `json:"operator_id"`
	Role       string `json:"role"`
}

// IssueToken exchanges the shared ops API key for a short-lived JWT.
func (h Handlers) IssueToken(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.OperatorID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "operator_id required"})
		return
	}
	if req.Role == "" {
		req.Role = rbac.RoleOperator
	}
	if req.Role != rbac.RoleOperator && req.Role != rbac.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "role must be operator or admin"})
		return
	}
	if !h.Auth.CheckOpsKey(req.OpsAPIKey) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid ops api key"})
		return
	}
	tok, err := h.Auth.IssueAccess(time.Now(), req.OperatorID, req.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": tok})
}

// --- Ops ---

// RecentDecisions lists the latest audit records, newest first.
func (h Handlers) RecentDecisions(c *gin.Context) {
	if h.Audit == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "audit not configured"})
		return
	}
	limit := parseLimit(c.Query("limit"), 50, 500)
	events, err := h.Audit.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "audit lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"decisions": events})
}

// CapturedPayloads returns recent raw webhook bodies for debugging.
func (h Handlers) CapturedPayloads(c *gin.Context) {
	if h.Capture == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "capture not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payloads": h.Capture.Recent()})
}

// Stats aggregates recent decision outcomes.
func (h Handlers) Stats(c *gin.Context) {
	if h.Reporting == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reporting not configured"})
		return
	}
	window := parseLimit(c.Query("window"), 0, 5000)
	summary, err := h.Reporting.Summary(c.Request.Context(), window)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "stats lookup failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func parseLimit(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
