package models

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User account statuses.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusInactive  = "inactive"
)

// User represents the user model in the database. The password, the
// recovery-words phrase, and the password-reset token are stored hashed or
// opaque and are never serialized into responses.
type User struct {
	Base
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	Password          string     `gorm:"not null" json:"-"`
	RecoveryWordsHash string     `gorm:"not null" json:"-"`
	FirstName         string     `gorm:"size:100;not null" json:"first_name"`
	LastName          string     `gorm:"size:100;not null" json:"last_name"`
	PhoneNumber       string     `gorm:"size:20;not null" json:"phone_number"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	RecoveryEmail     string     `gorm:"size:255" json:"recovery_email,omitempty"`
	Language          string     `gorm:"size:10;default:en" json:"language"`
	Role              string     `gorm:"size:20;default:user" json:"role"`
	Status            string     `gorm:"size:20;default:active" json:"status"`
	IdentityVerified  bool       `gorm:"default:false" json:"identity_verified"`

	// Password-reset state. The token is single-use: cleared on a
	// successful reset and unusable past ResetTokenExpiresAt.
	ResetToken          string     `gorm:"size:64" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	// Lockout state. LockedUntil is authoritative; AccountLocked is advisory.
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	AccountLocked       bool       `gorm:"default:false" json:"-"`
	LockedUntil         *time.Time `json:"-"`

	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`

	Address                 *Address                 `gorm:"constraint:OnDelete:CASCADE" json:"address,omitempty"`
	NotificationPreferences *NotificationPreferences `gorm:"constraint:OnDelete:CASCADE" json:"notification_preferences,omitempty"`
	Nominees                []Nominee                `gorm:"constraint:OnDelete:CASCADE" json:"nominees,omitempty"`
	Assets                  []Asset                  `gorm:"constraint:OnDelete:CASCADE" json:"assets,omitempty"`
	Documents               []Document               `gorm:"constraint:OnDelete:CASCADE" json:"documents,omitempty"`
}

// Address is the user's postal address. Exactly one row per user once created.
type Address struct {
	Base
	UserID  string `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	Street  string `gorm:"size:255" json:"street"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:100" json:"state"`
	ZipCode string `gorm:"size:20" json:"zip_code"`
	Country string `gorm:"size:100" json:"country"`
}

// NotificationPreferences holds the user's notification settings.
// Created alongside the user with every channel enabled.
type NotificationPreferences struct {
	Base
	UserID             string `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	EmailNotifications bool   `gorm:"default:true" json:"email"`
	SMSNotifications   bool   `gorm:"default:true" json:"sms"`
	AssetUpdates       bool   `gorm:"default:true" json:"asset_updates"`
}
