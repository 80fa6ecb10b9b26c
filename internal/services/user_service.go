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
	"sampatti/internal/recovery"
)

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user. The user row, address, and notification
// preferences are written in a single transaction. Returns the created user
// together with the plaintext recovery words; this is the only time the
// words exist outside the caller's hands; only their hash is stored.
func (s *userService) CreateUser(input CreateUserInput) (*models.User, []string, error) {
	if input.Email == "" || input.Password == "" {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}
	if len(input.Password) < 8 {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at least 8 characters")
	}

	email := strings.ToLower(input.Email)

	var count int64
	s.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	words, err := recovery.Generate()
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	wordsHash, err := bcrypt.GenerateFromPassword([]byte(recovery.Canonical(words)), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	language := input.Language
	if language == "" {
		language = "en"
	}

	user := &models.User{
		Email:             email,
		Password:          string(hashedPassword),
		RecoveryWordsHash: string(wordsHash),
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		PhoneNumber:       input.PhoneNumber,
		DateOfBirth:       input.DateOfBirth,
		RecoveryEmail:     input.RecoveryEmail,
		Language:          language,
		Role:              models.RoleUser,
		Status:            models.StatusActive,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isDuplicateKey(err) {
				return apperrors.ErrDuplicateEmail
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if input.Address != nil {
			address := &models.Address{
				UserID:  user.ID,
				Street:  input.Address.Street,
				City:    input.Address.City,
				State:   input.Address.State,
				ZipCode: input.Address.ZipCode,
				Country: input.Address.Country,
			}
			if err := tx.Create(address).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			user.Address = address
		}

		prefs := &models.NotificationPreferences{
			UserID:             user.ID,
			EmailNotifications: boolOr(input.Notifications, func(n *NotificationsInput) *bool { return n.Email }),
			SMSNotifications:   boolOr(input.Notifications, func(n *NotificationsInput) *bool { return n.SMS }),
			AssetUpdates:       boolOr(input.Notifications, func(n *NotificationsInput) *bool { return n.AssetUpdates }),
		}
		if err := tx.Create(prefs).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		user.NotificationPreferences = prefs

		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, nil, appErr
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, words, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively, with the
// address and notification preferences preloaded.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.
		Preload("Address").
		Preload("NotificationPreferences").
		Where("email = ?", strings.ToLower(email)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID with dependent rows preloaded.
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.db.
		Preload("Address").
		Preload("NotificationPreferences").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// AttemptLogin authenticates a user by email and password, applying the
// lockout policy. LockedUntil is authoritative: an expired lock is treated
// as unlocked even if the advisory flag is still set, and no password
// comparison happens while a lock is live.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		// Same response for unknown email and bad password.
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status != models.StatusActive {
		return nil, apperrors.ErrAccountInactive
	}

	now := time.Now()
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		return nil, apperrors.ErrAccountLocked
	}

	if !s.VerifyPassword(user, password) {
		if err := s.recordFailedAttempt(user, now); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	updates := map[string]interface{}{
		"failed_login_attempts": 0,
		"account_locked":        false,
		"locked_until":          nil,
		"last_login_at":         now,
		"last_activity_at":      now,
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user.FailedLoginAttempts = 0
	user.AccountLocked = false
	user.LockedUntil = nil
	user.LastLoginAt = &now
	user.LastActivityAt = &now
	return user, nil
}

// recordFailedAttempt increments the failure counter and escalates to a
// timed lock once the threshold is reached.
func (s *userService) recordFailedAttempt(user *models.User, now time.Time) error {
	cfg := config.Get()
	attempts := user.FailedLoginAttempts + 1

	updates := map[string]interface{}{
		"failed_login_attempts": attempts,
	}
	if attempts >= cfg.LockoutThreshold {
		lockUntil := now.Add(cfg.LockoutWindow)
		updates["account_locked"] = true
		updates["locked_until"] = lockUntil
		user.AccountLocked = true
		user.LockedUntil = &lockUntil
	}
	user.FailedLoginAttempts = attempts

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// ChangePassword replaces the user's password after verifying the old one.
func (s *userService) ChangePassword(userID, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !s.VerifyPassword(user, oldPassword) {
		return apperrors.ErrInvalidCredentials
	}
	if len(newPassword) < 8 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(user).Update("password", string(hashed)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// UpdateProfile applies a partial profile update. User columns, the address
// row, and the notification preferences row are written in one transaction;
// address and preferences use upsert semantics (update if present, insert
// otherwise).
func (s *userService) UpdateProfile(userID string, input UpdateProfileInput) (*models.User, error) {
	if _, err := s.GetUserByID(userID); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if input.FirstName != nil {
			updates["first_name"] = *input.FirstName
		}
		if input.LastName != nil {
			updates["last_name"] = *input.LastName
		}
		if input.PhoneNumber != nil {
			updates["phone_number"] = *input.PhoneNumber
		}
		if input.DateOfBirth != nil {
			updates["date_of_birth"] = *input.DateOfBirth
		}
		if input.RecoveryEmail != nil {
			updates["recovery_email"] = *input.RecoveryEmail
		}
		if input.Language != nil {
			updates["language"] = *input.Language
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if input.Address != nil {
			if err := upsertAddress(tx, userID, input.Address); err != nil {
				return err
			}
		}

		if input.Notifications != nil {
			if err := upsertPreferences(tx, userID, input.Notifications); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetUserByID(userID)
}

// upsertAddress updates the user's address row, inserting it if absent.
func upsertAddress(tx *gorm.DB, userID string, input *AddressInput) error {
	var address models.Address
	err := tx.Where("user_id = ?", userID).First(&address).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		address = models.Address{
			UserID:  userID,
			Street:  input.Street,
			City:    input.City,
			State:   input.State,
			ZipCode: input.ZipCode,
			Country: input.Country,
		}
		if err := tx.Create(&address).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	case err != nil:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	default:
		updates := map[string]interface{}{
			"street":   input.Street,
			"city":     input.City,
			"state":    input.State,
			"zip_code": input.ZipCode,
			"country":  input.Country,
		}
		if err := tx.Model(&address).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

// upsertPreferences updates the notification preferences row, inserting it
// if absent. Nil flags leave the stored value untouched.
func upsertPreferences(tx *gorm.DB, userID string, input *NotificationsInput) error {
	var prefs models.NotificationPreferences
	err := tx.Where("user_id = ?", userID).First(&prefs).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		prefs = models.NotificationPreferences{
			UserID:             userID,
			EmailNotifications: input.Email == nil || *input.Email,
			SMSNotifications:   input.SMS == nil || *input.SMS,
			AssetUpdates:       input.AssetUpdates == nil || *input.AssetUpdates,
		}
		if err := tx.Create(&prefs).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	case err != nil:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	default:
		updates := map[string]interface{}{}
		if input.Email != nil {
			updates["email_notifications"] = *input.Email
		}
		if input.SMS != nil {
			updates["sms_notifications"] = *input.SMS
		}
		if input.AssetUpdates != nil {
			updates["asset_updates"] = *input.AssetUpdates
		}
		if len(updates) > 0 {
			if err := tx.Model(&prefs).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
	}
	return nil
}

// DeleteUser permanently removes the user and every dependent row.
// Children are deleted explicitly inside the transaction so the cascade
// holds on databases without foreign-key enforcement enabled.
func (s *userService) DeleteUser(userID string) error {
	if _, err := s.GetUserByID(userID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var nomineeIDs []string
		if err := tx.Model(&models.Nominee{}).Where("user_id = ?", userID).Pluck("id", &nomineeIDs).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(nomineeIDs) > 0 {
			if err := tx.Unscoped().Where("nominee_id IN ?", nomineeIDs).Delete(&models.NomineeAccessLog{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		deletions := []interface{}{
			&models.Nominee{},
			&models.Asset{},
			&models.Document{},
			&models.Address{},
			&models.NotificationPreferences{},
			&models.AuditLog{},
		}
		for _, model := range deletions {
			if err := tx.Unscoped().Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if err := tx.Unscoped().Where("id = ?", userID).Delete(&models.User{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// TouchActivity stamps the user's last-activity timestamp. Failures are
// logged and ignored; activity tracking never fails a request.
func (s *userService) TouchActivity(userID string) {
	err := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_activity_at", time.Now()).Error
	if err != nil {
		logger.Get().Warnw("failed to touch last activity", "user_id", userID, "error", err)
	}
}

// isDuplicateKey reports whether err is a unique-constraint violation.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// boolOr reads an optional flag from notification input, defaulting to true.
func boolOr(n *NotificationsInput, get func(*NotificationsInput) *bool) bool {
	if n == nil {
		return true
	}
	v := get(n)
	return v == nil || *v
}
