package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sampatti/internal/errors"
	"sampatti/internal/middleware"
	"sampatti/internal/services"
)

// EmergencyHandler handles the nominee-facing emergency access gate.
type EmergencyHandler struct {
	emergencyService services.EmergencyServicer
}

// NewEmergencyHandler creates a new EmergencyHandler.
func NewEmergencyHandler(emergencyService services.EmergencyServicer) *EmergencyHandler {
	return &EmergencyHandler{emergencyService: emergencyService}
}

// EmergencyAccessRequest carries the nominee's email and access code.
type EmergencyAccessRequest struct {
	Email      string `json:"email" binding:"required,email"`
	AccessCode string `json:"access_code" binding:"required"`
}

// RequestAccess opens the emergency access gate for a nominee
// @Summary     Request emergency access
// @Description Authenticate a nominee with their email and emergency access code. On success returns a short-lived nominee token and the owner's data filtered to the nominee's access tier. Repeated failures lock the nominee out.
// @Tags        emergency
// @Accept      json
// @Produce     json
// @Param       request body EmergencyAccessRequest true "Nominee credentials"
// @Success     200 {object} map[string]interface{} "Nominee token and tier-filtered data"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid email or access code"
// @Failure     403 {object} ErrorResponse "Emergency access locked"
// @Router      /emergency/access [post]
func (h *EmergencyHandler) RequestAccess(c *gin.Context) {
	var req EmergencyAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	ip, device := clientInfo(c)
	nominee, data, err := h.emergencyService.GrantAccess(req.Email, req.AccessCode, ip, device)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateNomineeToken(nominee)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"access_level": data.AccessLevel,
		"owner":        data.Owner,
		"assets":       data.Assets,
		"documents":    data.Documents,
	})
}

// GetData returns the owner's data for an authenticated nominee
// @Summary     Fetch emergency data
// @Description Re-fetch the owner's data with a nominee token. Status and tier are re-checked on every call, so a revocation takes effect immediately.
// @Tags        emergency
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Tier-filtered owner data"
// @Failure     401 {object} ErrorResponse "Invalid token or revoked nominee"
// @Router      /emergency/data [get]
func (h *EmergencyHandler) GetData(c *gin.Context) {
	nomineeID, err := getNomineeID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ip, device := clientInfo(c)
	data, err := h.emergencyService.FetchData(nomineeID, ip, device)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_level": data.AccessLevel,
		"owner":        data.Owner,
		"assets":       data.Assets,
		"documents":    data.Documents,
	})
}
