package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meetingflow-team/meetingflow/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg       *config.Config
	meeting   *Meeting
	insight   *Insight
	recording *Recording
	webhook   *Webhook
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, meeting *Meeting, insight *Insight, recording *Recording, webhook *Webhook) *Router {
	return &Router{
		cfg:       cfg,
		meeting:   meeting,
		insight:   insight,
		recording: recording,
		webhook:   webhook,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/api/v1")

	rt.setupMeetingRoutes(v1)
	rt.setupInsightRoutes(v1)
	rt.setupRecordingRoutes(v1)
	rt.setupWebhookRoutes(v1)
}

// setupMeetingRoutes configures meeting and summarization routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings")

	if rt.meeting != nil {
		meetings.POST("", rt.meeting.Create)
		meetings.GET("/:id", rt.meeting.Get)
		meetings.POST("/:id/transcript", rt.meeting.UploadTranscript)
		meetings.POST("/:id/summarize", rt.meeting.Summarize)
		meetings.GET("/:id/summary", rt.meeting.GetSummary)
		meetings.GET("/:id/action-items", rt.meeting.ListActionItems)
		g.GET("/jobs/:id", rt.meeting.GetJobStatus)
	} else {
		meetings.POST("", rt.notImplemented)
		meetings.GET("/:id", rt.notImplemented)
		meetings.POST("/:id/transcript", rt.notImplemented)
		meetings.POST("/:id/summarize", rt.notImplemented)
		meetings.GET("/:id/summary", rt.notImplemented)
		meetings.GET("/:id/action-items", rt.notImplemented)
		g.GET("/jobs/:id", rt.notImplemented)
	}
}

// setupInsightRoutes configures insight extraction and template routes
func (rt *Router) setupInsightRoutes(g *echo.Group) {
	templates := g.Group("/insights/templates")

	if rt.insight != nil {
		g.POST("/meetings/:id/insights", rt.insight.Extract)
		g.POST("/meetings/:id/insights/batch", rt.insight.ExtractBatch)
		g.GET("/meetings/:id/insights", rt.insight.ListResults)
		templates.GET("", rt.insight.ListTemplates)
		templates.POST("", rt.insight.CreateTemplate)
	} else {
		g.POST("/meetings/:id/insights", rt.notImplemented)
		g.POST("/meetings/:id/insights/batch", rt.notImplemented)
		g.GET("/meetings/:id/insights", rt.notImplemented)
		templates.GET("", rt.notImplemented)
		templates.POST("", rt.notImplemented)
	}
}

// setupRecordingRoutes configures recording upload and transcription routes
func (rt *Router) setupRecordingRoutes(g *echo.Group) {
	if rt.recording != nil {
		g.POST("/meetings/:id/recordings", rt.recording.Upload)
		g.POST("/recordings/:id/transcribe", rt.recording.Transcribe)
	} else {
		g.POST("/meetings/:id/recordings", rt.notImplemented)
		g.POST("/recordings/:id/transcribe", rt.notImplemented)
	}
}

// setupWebhookRoutes configures provider callback routes
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	if rt.webhook != nil {
		g.POST("/webhooks/assemblyai", rt.webhook.HandleAssemblyAI)
	} else {
		g.POST("/webhooks/assemblyai", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	env := "development"
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": env,
	})
}
