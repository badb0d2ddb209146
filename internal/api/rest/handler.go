package rest

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marketlens/attribution-engine/internal/api/shared/dto"
	"github.com/marketlens/attribution-engine/internal/audit"
	"github.com/marketlens/attribution-engine/internal/domain"
	"github.com/marketlens/attribution-engine/internal/identity"
	"github.com/marketlens/attribution-engine/internal/tracking"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
type Handler interface {
	// TrackSession records a session beacon
	// POST /api/v1/track/session
	TrackSession(c *gin.Context)

	// TrackPageview records a pageview tick against an existing session
	// POST /api/v1/track/pageview
	TrackPageview(c *gin.Context)

	// Identify resolves an email capture to a customer identity
	// POST /api/v1/track/identify
	Identify(c *gin.Context)

	// AuditReport runs the attribution audit and returns the report (requires authentication)
	// GET /api/v1/audit/report
	AuditReport(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	tracker  *tracking.Tracker
	resolver *identity.Resolver
	engine   *audit.Engine
}

// NewHandler creates a new REST API handler
func NewHandler(tracker *tracking.Tracker, resolver *identity.Resolver, engine *audit.Engine) Handler {
	return &handler{
		tracker:  tracker,
		resolver: resolver,
		engine:   engine,
	}
}

// TrackSession records a session beacon
func (h *handler) TrackSession(c *gin.Context) {
	var req dto.BeaconRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := h.tracker.RecordBeacon(c.Request.Context(), req.ToBeacon()); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			respondBadRequest(c, "Invalid beacon", err.Error())
			return
		}
		respondInternalError(c, err, "Failed to record beacon",
			zap.String("session_id", req.SessionID))
		return
	}

	c.JSON(200, dto.TrackResponse{Success: true})
}

// TrackPageview records a pageview tick
func (h *handler) TrackPageview(c *gin.Context) {
	var req dto.PageviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := h.tracker.RecordPageview(c.Request.Context(), req.ToPageview()); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			respondBadRequest(c, "Invalid pageview", err.Error())
			return
		}
		respondInternalError(c, err, "Failed to record pageview",
			zap.String("session_id", req.SessionID))
		return
	}

	c.JSON(200, dto.TrackResponse{Success: true})
}

// Identify resolves an email capture to a customer identity
func (h *handler) Identify(c *gin.Context) {
	var req dto.IdentifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	result, err := h.resolver.Identify(c.Request.Context(), req.ToIdentification())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondBadRequest(c, "Invalid identification", err.Error())
		case errors.Is(err, domain.ErrVisitorNotFound):
			respondNotFound(c, "Visitor not found", "identify requires a prior session beacon")
		default:
			respondInternalError(c, err, "Failed to resolve identity",
				zap.String("visitor_id", req.VisitorID))
		}
		return
	}

	c.JSON(200, dto.IdentifyResponse{
		Success:       true,
		CustomerID:    result.CustomerID,
		IsNewCustomer: result.IsNewCustomer,
	})
}

// AuditReport runs the attribution audit and returns the report
func (h *handler) AuditReport(c *gin.Context) {
	report, err := h.engine.Run(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to run audit")
		return
	}

	c.JSON(200, report)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "attribution-api",
	})
}
