package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"sampatti/internal/models"
	"sampatti/internal/recovery"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password used by user fixtures.
const TestPassword = "password123"

// TestAccessCode is the plaintext emergency access code used by nominee fixtures.
const TestAccessCode = "WXYZ2345"

// TestRecoveryWords is the recovery phrase used by user fixtures.
var TestRecoveryWords = []string{"anchor", "breeze", "canyon", "dolphin", "ember", "falcon"}

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an active user with a hashed password, hashed
// recovery words, and a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email. The password
// is TestPassword and the recovery phrase is TestRecoveryWords.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	phrase := recovery.Canonical(TestRecoveryWords)
	wordsHash, err := bcrypt.GenerateFromPassword([]byte(phrase), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash recovery words: %v", err)
	}

	user := &models.User{
		Email:             strings.ToLower(email),
		Password:          string(passwordHash),
		RecoveryWordsHash: string(wordsHash),
		FirstName:         "Test",
		LastName:          "User",
		PhoneNumber:       "+911234567890",
		Status:            models.StatusActive,
		Role:              models.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestNominee creates an Active nominee for the user at the given
// access level. The plaintext access code is TestAccessCode.
func CreateTestNominee(t *testing.T, db *gorm.DB, userID, accessLevel string) *models.Nominee {
	t.Helper()

	codeHash, err := bcrypt.GenerateFromPassword([]byte(TestAccessCode), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash access code: %v", err)
	}

	n := nextID()
	nominee := &models.Nominee{
		UserID:              userID,
		Name:                fmt.Sprintf("Test Nominee %d", n),
		Email:               fmt.Sprintf("nominee%d@test.com", n),
		Relationship:        "Spouse",
		AccessLevel:         accessLevel,
		Status:              models.NomineeStatusActive,
		EmergencyAccessCode: string(codeHash),
	}
	if err := db.Create(nominee).Error; err != nil {
		t.Fatalf("failed to create test nominee: %v", err)
	}
	return nominee
}

// CreateTestAsset creates an asset for the user with the given sensitivity.
func CreateTestAsset(t *testing.T, db *gorm.DB, userID string, sensitive bool) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Asset %d", nextID()),
		Type:         "FixedDeposit",
		Institution:  "Test Bank",
		CurrentValue: 100000,
		Currency:     "INR",
		Sensitive:    sensitive,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestDocument creates a document for the user with the given nominee
// visibility.
func CreateTestDocument(t *testing.T, db *gorm.DB, userID string, accessible bool) *models.Document {
	t.Helper()

	document := &models.Document{
		UserID:               userID,
		Title:                fmt.Sprintf("Test Document %d", nextID()),
		Type:                 "Will",
		Filename:             "test.pdf",
		MimeType:             "application/pdf",
		FileSize:             1024,
		AccessibleToNominees: accessible,
	}
	if err := db.Create(document).Error; err != nil {
		t.Fatalf("failed to create test document: %v", err)
	}
	return document
}
