package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sampatti/internal/config"
	apperrors "sampatti/internal/errors"
	"sampatti/internal/models"
	"sampatti/internal/recovery"
)

// recoveryService implements the recovery-word password reset flow.
type recoveryService struct {
	db    *gorm.DB
	users UserServicer
}

// NewRecoveryService creates a new RecoveryServicer.
func NewRecoveryService(db *gorm.DB, users UserServicer) RecoveryServicer {
	return &recoveryService{db: db, users: users}
}

// VerifyRecoveryWords checks the supplied six-word phrase against the stored
// hash and, on success, issues a single-use reset token with a short expiry.
// Failed attempts count toward the same lockout counters as failed logins,
// so the recovery path cannot be brute-forced while logins are locked out.
func (s *recoveryService) VerifyRecoveryWords(email string, words []string) (string, error) {
	if email == "" || len(words) != recovery.PhraseLength {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "email and 6 recovery words are required")
	}

	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		return "", err
	}

	now := time.Now()
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		return "", apperrors.ErrAccountLocked
	}

	phrase := recovery.Canonical(words)
	if bcrypt.CompareHashAndPassword([]byte(user.RecoveryWordsHash), []byte(phrase)) != nil {
		if err := s.recordFailedAttempt(user, now); err != nil {
			return "", err
		}
		return "", apperrors.ErrInvalidRecoveryWords
	}

	token, err := generateResetToken()
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	expiresAt := now.Add(config.Get().ResetTokenTTL)
	updates := map[string]interface{}{
		"reset_token":            token,
		"reset_token_expires_at": expiresAt,
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return token, nil
}

// ResetPassword consumes a reset token and installs a new password. The
// token is single-use: both the token and its expiry are cleared on success.
// The user is not logged in; they must authenticate with the new password.
func (s *recoveryService) ResetPassword(email, token, newPassword string) error {
	if email == "" || token == "" || newPassword == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "email, token, and new password are required")
	}
	if len(newPassword) < 8 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at least 8 characters")
	}

	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		// Unknown email gets the same answer as a bad token.
		return apperrors.ErrInvalidResetToken
	}

	if user.ResetToken == "" ||
		subtle.ConstantTimeCompare([]byte(user.ResetToken), []byte(token)) != 1 ||
		user.ResetTokenExpiresAt == nil ||
		time.Now().After(*user.ResetTokenExpiresAt) {
		return apperrors.ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := map[string]interface{}{
		"password":               string(hashed),
		"reset_token":            "",
		"reset_token_expires_at": nil,
		"failed_login_attempts":  0,
		"account_locked":         false,
		"locked_until":           nil,
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// recordFailedAttempt mirrors the login lockout escalation for recovery-word
// guesses.
func (s *recoveryService) recordFailedAttempt(user *models.User, now time.Time) error {
	cfg := config.Get()
	attempts := user.FailedLoginAttempts + 1

	updates := map[string]interface{}{
		"failed_login_attempts": attempts,
	}
	if attempts >= cfg.LockoutThreshold {
		updates["account_locked"] = true
		updates["locked_until"] = now.Add(cfg.LockoutWindow)
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// generateResetToken returns 256 bits of entropy, hex-encoded.
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
