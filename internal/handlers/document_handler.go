package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sampatti/internal/errors"
	"sampatti/internal/pagination"
	"sampatti/internal/services"
)

// DocumentHandler handles document metadata for the owning user.
type DocumentHandler struct {
	documentService services.DocumentServicer
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService services.DocumentServicer) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// CreateDocumentRequest represents the document metadata payload.
type CreateDocumentRequest struct {
	AssetID              *string `json:"asset_id" binding:"omitempty,uuid"`
	Title                string  `json:"title" binding:"required,max=100"`
	Type                 string  `json:"type" binding:"max=50"`
	Description          string  `json:"description" binding:"max=500"`
	Filename             string  `json:"filename" binding:"max=255"`
	MimeType             string  `json:"mime_type" binding:"max=100"`
	FileSize             int64   `json:"file_size" binding:"min=0"`
	AccessibleToNominees bool    `json:"accessible_to_nominees"`
}

// CreateDocument records document metadata
// @Summary     Create document
// @Description Record a document. Only documents flagged accessible_to_nominees are visible through emergency access.
// @Tags        documents
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDocumentRequest true "Document metadata"
// @Success     201 {object} map[string]interface{} "Created document"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Attached asset not found"
// @Router      /documents [post]
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	document, err := h.documentService.CreateDocument(userID, services.CreateDocumentInput{
		AssetID:              req.AssetID,
		Title:                req.Title,
		Type:                 req.Type,
		Description:          req.Description,
		Filename:             req.Filename,
		MimeType:             req.MimeType,
		FileSize:             req.FileSize,
		AccessibleToNominees: req.AccessibleToNominees,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"document": document})
}

// GetDocuments lists the user's documents
// @Summary     List documents
// @Tags        documents
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated documents"
// @Router      /documents [get]
func (h *DocumentHandler) GetDocuments(c *gin.Context) {
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

	resp, err := h.documentService.GetUserDocuments(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetDocument returns one document
// @Summary     Get document
// @Tags        documents
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Document ID"
// @Success     200 {object} map[string]interface{} "Document"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /documents/{id} [get]
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	documentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	document, err := h.documentService.GetDocumentByID(userID, documentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"document": document})
}

// DeleteDocument removes a document
// @Summary     Delete document
// @Tags        documents
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Document ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	documentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.documentService.DeleteDocument(userID, documentID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}
