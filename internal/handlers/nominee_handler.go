package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sampatti/internal/errors"
	"sampatti/internal/pagination"
	"sampatti/internal/services"
)

// NomineeHandler handles nominee management for the owning user.
type NomineeHandler struct {
	nomineeService services.NomineeServicer
	auditService   services.AuditServicer
}

// NewNomineeHandler creates a new NomineeHandler.
func NewNomineeHandler(nomineeService services.NomineeServicer, auditService services.AuditServicer) *NomineeHandler {
	return &NomineeHandler{nomineeService: nomineeService, auditService: auditService}
}

// CreateNomineeRequest represents the nominee designation payload.
type CreateNomineeRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Email        string `json:"email" binding:"required,email,max=255"`
	PhoneNumber  string `json:"phone_number" binding:"max=20"`
	Relationship string `json:"relationship" binding:"max=50"`
	AccessLevel  string `json:"access_level" binding:"required,access_level"`
}

// UpdateNomineeRequest represents a partial nominee update.
type UpdateNomineeRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=100"`
	PhoneNumber  *string `json:"phone_number" binding:"omitempty,max=20"`
	Relationship *string `json:"relationship" binding:"omitempty,max=50"`
	AccessLevel  *string `json:"access_level" binding:"omitempty,access_level"`
}

// CreateNominee designates a new nominee
// @Summary     Create nominee
// @Description Designate a nominee for emergency access. The emergency access code is returned exactly once.
// @Tags        nominees
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateNomineeRequest true "Nominee data"
// @Success     201 {object} map[string]interface{} "Nominee created with one-time access code"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Nominee email already used"
// @Router      /nominees [post]
func (h *NomineeHandler) CreateNominee(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateNomineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	nominee, code, err := h.nomineeService.CreateNominee(userID, services.CreateNomineeInput{
		Name:         req.Name,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Relationship: req.Relationship,
		AccessLevel:  req.AccessLevel,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	ip, _ := clientInfo(c)
	h.auditService.Log(userID, "nominee.create", "nominee", nominee.ID, ip, nil)

	c.JSON(http.StatusCreated, gin.H{
		"nominee":     nominee,
		"access_code": code,
	})
}

// GetNominees lists the user's nominees
// @Summary     List nominees
// @Tags        nominees
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated nominees"
// @Router      /nominees [get]
func (h *NomineeHandler) GetNominees(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	resp, err := h.nomineeService.GetUserNominees(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetNominee returns one nominee
// @Summary     Get nominee
// @Tags        nominees
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Nominee ID"
// @Success     200 {object} map[string]interface{} "Nominee"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /nominees/{id} [get]
func (h *NomineeHandler) GetNominee(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	nomineeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	nominee, err := h.nomineeService.GetNomineeByID(userID, nomineeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"nominee": nominee})
}

// UpdateNominee updates nominee details
// @Summary     Update nominee
// @Description Update a nominee's name, phone, relationship, or access level.
// @Tags        nominees
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Nominee ID"
// @Param       request body UpdateNomineeRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "Updated nominee"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /nominees/{id} [put]
func (h *NomineeHandler) UpdateNominee(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	nomineeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateNomineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	nominee, err := h.nomineeService.UpdateNominee(userID, nomineeID, services.UpdateNomineeInput{
		Name:         req.Name,
		PhoneNumber:  req.PhoneNumber,
		Relationship: req.Relationship,
		AccessLevel:  req.AccessLevel,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	ip, _ := clientInfo(c)
	h.auditService.Log(userID, "nominee.update", "nominee", nominee.ID, ip, nil)

	c.JSON(http.StatusOK, gin.H{"nominee": nominee})
}

// DeleteNominee removes a nominee
// @Summary     Delete nominee
// @Tags        nominees
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Nominee ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /nominees/{id} [delete]
func (h *NomineeHandler) DeleteNominee(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	nomineeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.nomineeService.DeleteNominee(userID, nomineeID); err != nil {
		respondWithError(c, err)
		return
	}

	ip, _ := clientInfo(c)
	h.auditService.Log(userID, "nominee.delete", "nominee", nomineeID, ip, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Nominee deleted"})
}

// RegenerateAccessCode issues a fresh emergency access code
// @Summary     Regenerate access code
// @Description Issue a new emergency access code, activating the nominee. The code is returned exactly once.
// @Tags        nominees
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Nominee ID"
// @Success     200 {object} map[string]string "New access code"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /nominees/{id}/access-code [post]
func (h *NomineeHandler) RegenerateAccessCode(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	nomineeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	code, err := h.nomineeService.RegenerateAccessCode(userID, nomineeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ip, _ := clientInfo(c)
	h.auditService.Log(userID, "nominee.regenerate_code", "nominee", nomineeID, ip, nil)

	c.JSON(http.StatusOK, gin.H{"access_code": code})
}

// RevokeNominee revokes a nominee's emergency access
// @Summary     Revoke nominee
// @Description Disable emergency access for a nominee. Takes effect on the next emergency request.
// @Tags        nominees
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Nominee ID"
// @Success     200 {object} map[string]string "Revoked"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /nominees/{id}/revoke [post]
func (h *NomineeHandler) RevokeNominee(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	nomineeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.nomineeService.RevokeNominee(userID, nomineeID); err != nil {
		respondWithError(c, err)
		return
	}

	ip, _ := clientInfo(c)
	h.auditService.Log(userID, "nominee.revoke", "nominee", nomineeID, ip, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Nominee access revoked"})
}

// GetAccessLogs lists the emergency access trail for the user's nominees
// @Summary     List access logs
// @Description List emergency access attempts and data fetches across all of the user's nominees.
// @Tags        nominees
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated access log entries"
// @Router      /nominees/access-logs [get]
func (h *NomineeHandler) GetAccessLogs(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	resp, err := h.nomineeService.GetAccessLogs(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
