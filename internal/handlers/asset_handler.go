package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "sampatti/internal/errors"
	"sampatti/internal/pagination"
	"sampatti/internal/services"
)

// AssetHandler handles asset tracking for the owning user.
type AssetHandler struct {
	assetService services.AssetServicer
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService services.AssetServicer) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// CreateAssetRequest represents the asset creation payload. Values are in the
// currency's smallest unit.
type CreateAssetRequest struct {
	Name          string     `json:"name" binding:"required,max=100"`
	Type          string     `json:"type" binding:"required,max=50"`
	Institution   string     `json:"institution" binding:"max=100"`
	AccountNumber string     `json:"account_number" binding:"max=50"`
	PurchaseDate  *time.Time `json:"purchase_date"`
	CurrentValue  int64      `json:"current_value" binding:"min=0"`
	Currency      string     `json:"currency" binding:"omitempty,iso4217"`
	Notes         string     `json:"notes" binding:"max=500"`
	Sensitive     bool       `json:"sensitive"`
}

// CreateAsset records a new asset
// @Summary     Create asset
// @Description Record an asset. Assets marked sensitive are hidden from Limited-tier nominees.
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAssetRequest true "Asset data"
// @Success     201 {object} map[string]interface{} "Created asset"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.assetService.CreateAsset(userID, services.CreateAssetInput{
		Name:          req.Name,
		Type:          req.Type,
		Institution:   req.Institution,
		AccountNumber: req.AccountNumber,
		PurchaseDate:  req.PurchaseDate,
		CurrentValue:  req.CurrentValue,
		Currency:      req.Currency,
		Notes:         req.Notes,
		Sensitive:     req.Sensitive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// GetAssets lists the user's assets
// @Summary     List assets
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated assets"
// @Router      /assets [get]
func (h *AssetHandler) GetAssets(c *gin.Context) {
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

	resp, err := h.assetService.GetUserAssets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAsset returns one asset
// @Summary     Get asset
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     200 {object} map[string]interface{} "Asset"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /assets/{id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.assetService.GetAssetByID(userID, assetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// DeleteAsset removes an asset
// @Summary     Delete asset
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.assetService.DeleteAsset(userID, assetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted"})
}
