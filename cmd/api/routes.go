package main

import (
	"github.com/gin-gonic/gin"

	"callnotify/internal/audit"
	"callnotify/internal/auth"
	"callnotify/internal/calls"
	"callnotify/internal/httpapi"
	"callnotify/internal/rbac"
	"callnotify/internal/reporting"
	"callnotify/internal/voiceagent"
	"callnotify/internal/webhook"
)

type routeDeps struct {
	Auth      *auth.Manager
	Agent     *voiceagent.Client
	Webhook   *webhook.Handler
	Audit     audit.Reader
	Capture   *webhook.Capture
	Reporting *reporting.Service
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, deps routeDeps) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Provider webhook (public). The agent platform does not sign deliveries,
	// and the handler must answer 200 regardless, so no auth middleware here.
	r.POST("/webhooks/call-ended", deps.Webhook.HandleCallEnded)

	v1 := r.Group("/v1")

	// Token issuance (authenticates with the ops API key in the body).
	v1.POST("/auth/token", httpapi.Handlers{Auth: deps.Auth}.IssueToken)

	// Operator surface.
	protected := v1.Group("")
	protected.Use(auth.RequireAccessToken(deps.Auth))
	{
		callsGroup := protected.Group("/calls")
		callsGroup.Use(rbac.RequireAnyRole(rbac.RoleOperator, rbac.RoleAdmin))
		{
			h := calls.Handler{Dialer: deps.Agent}
			callsGroup.POST("", h.InitiateCall)
		}

		ops := protected.Group("/ops")
		ops.Use(rbac.RequireAnyRole(rbac.RoleOperator, rbac.RoleAdmin))
		{
			h := httpapi.Handlers{
				Audit:     deps.Audit,
				Capture:   deps.Capture,
				Reporting: deps.Reporting,
			}
			ops.GET("/decisions", h.RecentDecisions)
			ops.GET("/payloads", h.CapturedPayloads)
			ops.GET("/stats", h.Stats)
		}
	}
}
