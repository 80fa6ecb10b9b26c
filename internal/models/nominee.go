package models

import "time"

// Nominee access levels governing how much of the owner's data is visible
// through emergency access.
const (
	AccessLevelFull          = "Full"
	AccessLevelLimited       = "Limited"
	AccessLevelDocumentsOnly = "DocumentsOnly"
)

// Nominee statuses.
const (
	NomineeStatusPending = "Pending"
	NomineeStatusActive  = "Active"
	NomineeStatusRevoked = "Revoked"
)

// Nominee is a person the owning user has designated for emergency access.
// The emergency access code is bcrypt-hashed, same as a login password.
type Nominee struct {
	Base
	UserID       string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;not null;index" json:"email"`
	PhoneNumber  string `gorm:"size:20" json:"phone_number"`
	Relationship string `gorm:"size:50" json:"relationship"`
	AccessLevel  string `gorm:"size:20;not null" json:"access_level"`
	Status       string `gorm:"size:20;default:Pending" json:"status"`

	EmergencyAccessCode string `gorm:"size:255" json:"-"`

	// Lockout state for repeated failed emergency-access attempts,
	// mirroring the user login lockout policy.
	FailedAccessAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil          *time.Time `json:"-"`

	LastAccessDate *time.Time `json:"last_access_date,omitempty"`

	AccessLogs []NomineeAccessLog `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// NomineeAccessLog is an owner-visible audit trail entry. Every emergency
// data fetch is logged, not just the initial grant.
type NomineeAccessLog struct {
	Base
	NomineeID  string `gorm:"type:uuid;not null;index" json:"nominee_id"`
	Action     string `gorm:"size:100;not null" json:"action"`
	IPAddress  string `gorm:"size:45" json:"ip_address"`
	DeviceInfo string `gorm:"size:255" json:"device_info"`
}
