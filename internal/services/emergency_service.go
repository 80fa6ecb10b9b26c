package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sampatti/internal/config"
	apperrors "sampatti/internal/errors"
	"sampatti/internal/logger"
	"sampatti/internal/models"
)

// Audit trail actions recorded for the owner.
const (
	actionAccessGranted = "Emergency Access Granted"
	actionAccessDenied  = "Emergency Access Denied"
	actionDataFetched   = "Emergency Data Fetched"
)

// emergencyService implements the nominee emergency access gate. Every grant
// and data fetch is written to the owner-visible access log.
type emergencyService struct {
	db        *gorm.DB
	assets    AssetServicer
	documents DocumentServicer
}

// NewEmergencyService creates a new EmergencyServicer.
func NewEmergencyService(db *gorm.DB, assets AssetServicer, documents DocumentServicer) EmergencyServicer {
	return &emergencyService{db: db, assets: assets, documents: documents}
}

// GrantAccess verifies a nominee's email and emergency access code and, on
// success, returns the nominee with the owner's data filtered to their tier.
// Only Active nominees are admitted; Pending and Revoked nominees get the
// same answer as a wrong code so the gate leaks nothing about status.
func (s *emergencyService) GrantAccess(email, accessCode, ipAddress, deviceInfo string) (*models.Nominee, *EmergencyData, error) {
	if email == "" || accessCode == "" {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and access code are required")
	}

	var nominee models.Nominee
	err := s.db.Where("email = ?", strings.ToLower(email)).First(&nominee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrInvalidAccessCode
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	if nominee.LockedUntil != nil && now.Before(*nominee.LockedUntil) {
		s.logAccess(nominee.ID, actionAccessDenied, ipAddress, deviceInfo)
		return nil, nil, apperrors.ErrNomineeLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(nominee.EmergencyAccessCode), []byte(accessCode)) != nil {
		if err := s.recordFailedAttempt(&nominee, now); err != nil {
			return nil, nil, err
		}
		s.logAccess(nominee.ID, actionAccessDenied, ipAddress, deviceInfo)
		return nil, nil, apperrors.ErrInvalidAccessCode
	}

	if nominee.Status != models.NomineeStatusActive {
		s.logAccess(nominee.ID, actionAccessDenied, ipAddress, deviceInfo)
		return nil, nil, apperrors.ErrInvalidAccessCode
	}

	updates := map[string]interface{}{
		"failed_access_attempts": 0,
		"locked_until":           nil,
		"last_access_date":       now,
	}
	if err := s.db.Model(&nominee).Updates(updates).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	data, err := s.collectData(&nominee)
	if err != nil {
		return nil, nil, err
	}

	s.logAccess(nominee.ID, actionAccessGranted, ipAddress, deviceInfo)
	return &nominee, data, nil
}

// FetchData returns the owner's data for an already-authenticated nominee,
// re-checking status and re-filtering on every call so a revocation takes
// effect before the nominee's token expires.
func (s *emergencyService) FetchData(nomineeID, ipAddress, deviceInfo string) (*EmergencyData, error) {
	var nominee models.Nominee
	err := s.db.Where("id = ?", nomineeID).First(&nominee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if nominee.Status != models.NomineeStatusActive {
		return nil, apperrors.ErrUnauthorized
	}

	data, err := s.collectData(&nominee)
	if err != nil {
		return nil, err
	}

	s.logAccess(nominee.ID, actionDataFetched, ipAddress, deviceInfo)
	return data, nil
}

// collectData builds the tier-filtered view of the owner's profile, assets,
// and documents for the given nominee.
func (s *emergencyService) collectData(nominee *models.Nominee) (*EmergencyData, error) {
	var owner models.User
	if err := s.db.Where("id = ?", nominee.UserID).First(&owner).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	assets, err := s.assets.GetAssetsForAccessLevel(owner.ID, nominee.AccessLevel)
	if err != nil {
		return nil, err
	}

	documents, err := s.documents.GetNomineeAccessibleDocuments(owner.ID)
	if err != nil {
		return nil, err
	}

	return &EmergencyData{
		AccessLevel: nominee.AccessLevel,
		Owner: OwnerProfile{
			ID:        owner.ID,
			FirstName: owner.FirstName,
			LastName:  owner.LastName,
			Email:     owner.Email,
		},
		Assets:    assets,
		Documents: documents,
	}, nil
}

// recordFailedAttempt escalates the nominee's failed-attempt counter under
// the same threshold and window as user login lockout.
func (s *emergencyService) recordFailedAttempt(nominee *models.Nominee, now time.Time) error {
	cfg := config.Get()
	attempts := nominee.FailedAccessAttempts + 1

	updates := map[string]interface{}{
		"failed_access_attempts": attempts,
	}
	if attempts >= cfg.LockoutThreshold {
		updates["locked_until"] = now.Add(cfg.LockoutWindow)
	}

	if err := s.db.Model(nominee).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// logAccess appends an entry to the owner-visible access trail. Logging
// failures are reported but never block the access decision itself.
func (s *emergencyService) logAccess(nomineeID, action, ipAddress, deviceInfo string) {
	entry := models.NomineeAccessLog{
		NomineeID:  nomineeID,
		Action:     action,
		IPAddress:  ipAddress,
		DeviceInfo: deviceInfo,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		logger.Get().Warnw("Failed to write nominee access log",
			"nominee_id", nomineeID,
			"action", action,
			"error", err)
	}
}
