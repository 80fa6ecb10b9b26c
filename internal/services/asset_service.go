package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "sampatti/internal/errors"
	"sampatti/internal/models"
	"sampatti/internal/pagination"
)

// assetService handles asset-related business logic.
type assetService struct {
	db *gorm.DB
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(db *gorm.DB) AssetServicer {
	return &assetService{db: db}
}

// CreateAsset records a new asset for a user.
func (s *assetService) CreateAsset(userID string, input CreateAssetInput) (*models.Asset, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset name is required")
	}
	if input.Type == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset type is required")
	}

	currency := input.Currency
	if currency == "" {
		currency = "INR"
	}

	asset := &models.Asset{
		UserID:        userID,
		Name:          input.Name,
		Type:          input.Type,
		Institution:   input.Institution,
		AccountNumber: input.AccountNumber,
		PurchaseDate:  input.PurchaseDate,
		CurrentValue:  input.CurrentValue,
		Currency:      currency,
		Notes:         input.Notes,
		Sensitive:     input.Sensitive,
	}

	if err := s.db.Create(asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return asset, nil
}

// GetUserAssets retrieves a paginated list of the user's assets.
func (s *assetService) GetUserAssets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.Asset{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.Asset
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&assets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(assets, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetAssetByID retrieves an asset by ID for a specific user.
func (s *assetService) GetAssetByID(userID, assetID string) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.Where("id = ? AND user_id = ?", assetID, userID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}

// DeleteAsset removes an asset owned by the user.
func (s *assetService) DeleteAsset(userID, assetID string) error {
	asset, err := s.GetAssetByID(userID, assetID)
	if err != nil {
		return err
	}
	if err := s.db.Unscoped().Delete(asset).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetAssetsForAccessLevel returns the owner's assets visible at the given
// nominee tier. Full sees everything, Limited hides sensitive assets, and
// DocumentsOnly sees no assets at all.
func (s *assetService) GetAssetsForAccessLevel(userID, accessLevel string) ([]models.Asset, error) {
	query := s.db.Where("user_id = ?", userID).Order("created_at DESC")

	switch accessLevel {
	case models.AccessLevelFull:
	case models.AccessLevelLimited:
		query = query.Where("sensitive = ?", false)
	case models.AccessLevelDocumentsOnly:
		return []models.Asset{}, nil
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown access level")
	}

	var assets []models.Asset
	if err := query.Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	return assets, nil
}
