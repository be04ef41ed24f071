// Package handlers provides HTTP handlers for the delivery engine API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adbeam/adbeam/internal/application/overlay/dto"
	"github.com/adbeam/adbeam/internal/application/overlay/usecases"
	"github.com/adbeam/adbeam/internal/infrastructure/ratelimit"
	"github.com/adbeam/adbeam/internal/shared/errors"
	"github.com/adbeam/adbeam/internal/shared/logger"
	"github.com/adbeam/adbeam/internal/shared/utils"
)

// OverlayKeyHeader carries the overlay credential secret on ingest calls.
const OverlayKeyHeader = "X-Overlay-Key"

// EventHandler handles telemetry ingestion from overlay clients.
type EventHandler struct {
	ingestUC *usecases.IngestEventUseCase
	limiter  ratelimit.IngestLimiter
	logger   logger.Interface
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(
	ingestUC *usecases.IngestEventUseCase,
	limiter ratelimit.IngestLimiter,
	log logger.Interface,
) *EventHandler {
	return &EventHandler{
		ingestUC: ingestUC,
		limiter:  limiter,
		logger:   log,
	}
}

// Ingest accepts one telemetry event.
// POST /api/v1/events
func (h *EventHandler) Ingest(c *gin.Context) {
	overlayKey := c.GetHeader(OverlayKeyHeader)
	clientIP := c.ClientIP()

	allowed, err := h.limiter.Allow(c.Request.Context(), overlayKey, clientIP)
	if err != nil {
		// Counter backend trouble must not take the ingest path down.
		h.logger.Warn("ingest rate limiter unavailable, allowing request",
			"error", err,
			"client_ip", clientIP,
		)
	} else if !allowed {
		utils.ErrorResponseWithError(c, errors.NewRateLimitedError("telemetry rate limit exceeded"))
		return
	}

	var request dto.IngestEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	request.OverlayKey = overlayKey
	request.SourceAddr = clientIP
	request.UserAgent = c.Request.UserAgent()

	response, err := h.ingestUC.Execute(c.Request.Context(), request)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "event recorded", response)
}
