package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adbeam/adbeam/internal/application/overlay/dto"
	"github.com/adbeam/adbeam/internal/application/overlay/usecases"
	"github.com/adbeam/adbeam/internal/interfaces/http/middleware"
	"github.com/adbeam/adbeam/internal/shared/logger"
	"github.com/adbeam/adbeam/internal/shared/utils"
)

// CredentialHandler handles overlay credential rotation.
type CredentialHandler struct {
	rotateUC *usecases.RotateCredentialUseCase
	logger   logger.Interface
}

// NewCredentialHandler creates a new CredentialHandler.
func NewCredentialHandler(rotateUC *usecases.RotateCredentialUseCase, log logger.Interface) *CredentialHandler {
	return &CredentialHandler{
		rotateUC: rotateUC,
		logger:   log,
	}
}

// Rotate issues a fresh overlay key for a channel. The plaintext key is
// present only in this response; afterwards only its digest survives.
// POST /api/v1/credentials/rotate
func (h *CredentialHandler) Rotate(c *gin.Context) {
	var request dto.RotateCredentialRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	request.ActorID = middleware.ActorID(c)
	request.ActorRole = middleware.ActorRole(c)

	response, err := h.rotateUC.Execute(c.Request.Context(), request)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "credential rotated", response)
}
