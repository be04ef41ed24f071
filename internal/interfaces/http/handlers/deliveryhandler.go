package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adbeam/adbeam/internal/application/delivery/dto"
	"github.com/adbeam/adbeam/internal/application/delivery/usecases"
	"github.com/adbeam/adbeam/internal/interfaces/http/middleware"
	"github.com/adbeam/adbeam/internal/shared/logger"
	"github.com/adbeam/adbeam/internal/shared/utils"
)

// DeliveryHandler handles operator-triggered ad dispatch.
type DeliveryHandler struct {
	triggerUC *usecases.TriggerDeliveryUseCase
	logger    logger.Interface
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(triggerUC *usecases.TriggerDeliveryUseCase, log logger.Interface) *DeliveryHandler {
	return &DeliveryHandler{
		triggerUC: triggerUC,
		logger:    log,
	}
}

// Trigger dispatches one ad to a channel's live overlay.
// POST /api/v1/deliveries
func (h *DeliveryHandler) Trigger(c *gin.Context) {
	var request dto.TriggerDeliveryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	request.ActorID = middleware.ActorID(c)
	request.ActorRole = middleware.ActorRole(c)

	response, err := h.triggerUC.Execute(c.Request.Context(), request)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "delivery dispatched", response)
}
