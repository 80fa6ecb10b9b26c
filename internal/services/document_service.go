package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "sampatti/internal/errors"
	"sampatti/internal/models"
	"sampatti/internal/pagination"
)

// documentService handles document metadata.
type documentService struct {
	db *gorm.DB
}

// NewDocumentService creates a new DocumentServicer.
func NewDocumentService(db *gorm.DB) DocumentServicer {
	return &documentService{db: db}
}

// CreateDocument records document metadata for a user. When the document is
// attached to an asset, the asset must belong to the same user.
func (s *documentService) CreateDocument(userID string, input CreateDocumentInput) (*models.Document, error) {
	if input.Title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "document title is required")
	}

	if input.AssetID != nil {
		var count int64
		if err := s.db.Model(&models.Asset{}).Where("id = ? AND user_id = ?", *input.AssetID, userID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrAssetNotFound
		}
	}

	document := &models.Document{
		UserID:               userID,
		AssetID:              input.AssetID,
		Title:                input.Title,
		Type:                 input.Type,
		Description:          input.Description,
		Filename:             input.Filename,
		MimeType:             input.MimeType,
		FileSize:             input.FileSize,
		AccessibleToNominees: input.AccessibleToNominees,
	}

	if err := s.db.Create(document).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return document, nil
}

// GetUserDocuments retrieves a paginated list of the user's documents.
func (s *documentService) GetUserDocuments(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Document], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.Document{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var documents []models.Document
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&documents).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(documents, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetDocumentByID retrieves a document by ID for a specific user.
func (s *documentService) GetDocumentByID(userID, documentID string) (*models.Document, error) {
	var document models.Document
	if err := s.db.Where("id = ? AND user_id = ?", documentID, userID).First(&document).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &document, nil
}

// DeleteDocument removes a document owned by the user.
func (s *documentService) DeleteDocument(userID, documentID string) error {
	document, err := s.GetDocumentByID(userID, documentID)
	if err != nil {
		return err
	}
	if err := s.db.Unscoped().Delete(document).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetNomineeAccessibleDocuments returns the owner's documents flagged for
// nominee visibility. The flag applies at every access tier.
func (s *documentService) GetNomineeAccessibleDocuments(userID string) ([]models.Document, error) {
	var documents []models.Document
	err := s.db.
		Where("user_id = ? AND accessible_to_nominees = ?", userID, true).
		Order("created_at DESC").
		Find(&documents).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if documents == nil {
		documents = []models.Document{}
	}
	return documents, nil
}
