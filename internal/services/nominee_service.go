package services

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "sampatti/internal/errors"
	"sampatti/internal/models"
	"sampatti/internal/pagination"
)

// accessCodeLength is the length of the emergency access code shared with a
// nominee. Short enough to read over the phone; the lockout policy on the
// emergency path bounds guessing.
const accessCodeLength = 8

const accessCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// nomineeService handles nominee management for the owning user.
type nomineeService struct {
	db *gorm.DB
}

// NewNomineeService creates a new NomineeServicer.
func NewNomineeService(db *gorm.DB) NomineeServicer {
	return &nomineeService{db: db}
}

// CreateNominee designates a new nominee and issues their emergency access
// code. The plaintext code is returned exactly once; only its bcrypt hash is
// stored, same as a login password.
func (s *nomineeService) CreateNominee(userID string, input CreateNomineeInput) (*models.Nominee, string, error) {
	if input.Name == "" || input.Email == "" {
		return nil, "", apperrors.WithMessage(apperrors.ErrInvalidInput, "name and email are required")
	}
	if !isValidAccessLevel(input.AccessLevel) {
		return nil, "", apperrors.WithMessage(apperrors.ErrInvalidInput,
			"access level must be 'Full', 'Limited', or 'DocumentsOnly'")
	}

	email := strings.ToLower(input.Email)

	var count int64
	s.db.Model(&models.Nominee{}).Where("user_id = ? AND email = ?", userID, email).Count(&count)
	if count > 0 {
		return nil, "", apperrors.ErrDuplicateNominee
	}

	code, err := generateAccessCode()
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	hashedCode, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	nominee := &models.Nominee{
		UserID:              userID,
		Name:                input.Name,
		Email:               email,
		PhoneNumber:         input.PhoneNumber,
		Relationship:        input.Relationship,
		AccessLevel:         input.AccessLevel,
		Status:              models.NomineeStatusPending,
		EmergencyAccessCode: string(hashedCode),
	}

	if err := s.db.Create(nominee).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nominee, code, nil
}

// GetUserNominees lists the user's nominees, newest first.
func (s *nomineeService) GetUserNominees(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Nominee], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.Nominee{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var nominees []models.Nominee
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&nominees).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(nominees, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetNomineeByID retrieves a nominee, enforcing ownership.
func (s *nomineeService) GetNomineeByID(userID, nomineeID string) (*models.Nominee, error) {
	var nominee models.Nominee
	if err := s.db.Where("id = ?", nomineeID).First(&nominee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNomineeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if nominee.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return &nominee, nil
}

// UpdateNominee applies a partial update. Email, status, and the access code
// are deliberately untouchable through this path.
func (s *nomineeService) UpdateNominee(userID, nomineeID string, input UpdateNomineeInput) (*models.Nominee, error) {
	nominee, err := s.GetNomineeByID(userID, nomineeID)
	if err != nil {
		return nil, err
	}

	if input.AccessLevel != nil && !isValidAccessLevel(*input.AccessLevel) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"access level must be 'Full', 'Limited', or 'DocumentsOnly'")
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.PhoneNumber != nil {
		updates["phone_number"] = *input.PhoneNumber
	}
	if input.Relationship != nil {
		updates["relationship"] = *input.Relationship
	}
	if input.AccessLevel != nil {
		updates["access_level"] = *input.AccessLevel
	}

	if len(updates) > 0 {
		if err := s.db.Model(nominee).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetNomineeByID(userID, nomineeID)
}

// DeleteNominee removes a nominee and their access-log trail.
func (s *nomineeService) DeleteNominee(userID, nomineeID string) error {
	nominee, err := s.GetNomineeByID(userID, nomineeID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("nominee_id = ?", nominee.ID).Delete(&models.NomineeAccessLog{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Delete(nominee).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// RegenerateAccessCode issues a fresh emergency access code, activates the
// nominee, and clears any emergency-path lockout. The plaintext code is
// returned once for the owner to hand to the nominee.
func (s *nomineeService) RegenerateAccessCode(userID, nomineeID string) (string, error) {
	nominee, err := s.GetNomineeByID(userID, nomineeID)
	if err != nil {
		return "", err
	}

	code, err := generateAccessCode()
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	hashedCode, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := map[string]interface{}{
		"emergency_access_code":  string(hashedCode),
		"status":                 models.NomineeStatusActive,
		"failed_access_attempts": 0,
		"locked_until":           nil,
	}
	if err := s.db.Model(nominee).Updates(updates).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return code, nil
}

// RevokeNominee disables emergency access for a nominee.
func (s *nomineeService) RevokeNominee(userID, nomineeID string) error {
	nominee, err := s.GetNomineeByID(userID, nomineeID)
	if err != nil {
		return err
	}

	if err := s.db.Model(nominee).Update("status", models.NomineeStatusRevoked).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetAccessLogs returns the owner-visible emergency access trail across all
// of the user's nominees, newest first, with nominee names attached.
func (s *nomineeService) GetAccessLogs(userID string, page pagination.PageRequest) (*pagination.PageResponse[AccessLogEntry], error) {
	page.Defaults()

	var nominees []models.Nominee
	if err := s.db.Select("id", "name").Where("user_id = ?", userID).Find(&nominees).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	names := make(map[string]string, len(nominees))
	ids := make([]string, 0, len(nominees))
	for _, n := range nominees {
		names[n.ID] = n.Name
		ids = append(ids, n.ID)
	}

	if len(ids) == 0 {
		resp := pagination.NewPageResponse([]AccessLogEntry{}, page.Page, page.PageSize, 0)
		return &resp, nil
	}

	var total int64
	if err := s.db.Model(&models.NomineeAccessLog{}).Where("nominee_id IN ?", ids).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var logs []models.NomineeAccessLog
	err := s.db.
		Where("nominee_id IN ?", ids).
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&logs).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entries := make([]AccessLogEntry, 0, len(logs))
	for _, log := range logs {
		name, ok := names[log.NomineeID]
		if !ok {
			name = "Unknown"
		}
		entries = append(entries, AccessLogEntry{NomineeAccessLog: log, NomineeName: name})
	}

	resp := pagination.NewPageResponse(entries, page.Page, page.PageSize, total)
	return &resp, nil
}

// isValidAccessLevel reports whether level is a recognized access tier.
func isValidAccessLevel(level string) bool {
	switch level {
	case models.AccessLevelFull, models.AccessLevelLimited, models.AccessLevelDocumentsOnly:
		return true
	}
	return false
}

// generateAccessCode returns a short random code from an unambiguous
// uppercase alphabet.
func generateAccessCode() (string, error) {
	code := make([]byte, accessCodeLength)
	max := big.NewInt(int64(len(accessCodeCharset)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = accessCodeCharset[n.Int64()]
	}
	return string(code), nil
}
