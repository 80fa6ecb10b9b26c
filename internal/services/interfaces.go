package services

import (
	"time"

	"sampatti/internal/models"
	"sampatti/internal/pagination"
)

// CreateUserInput holds the fields accepted at signup.
type CreateUserInput struct {
	Email         string
	Password      string
	FirstName     string
	LastName      string
	PhoneNumber   string
	DateOfBirth   *time.Time
	RecoveryEmail string
	Language      string
	Address       *AddressInput
	Notifications *NotificationsInput
}

// AddressInput holds address fields for creation or upsert.
type AddressInput struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

// NotificationsInput holds notification preference flags for upsert.
type NotificationsInput struct {
	Email        *bool
	SMS          *bool
	AssetUpdates *bool
}

// UpdateProfileInput holds the fields a user may change on their profile.
// Nil pointers leave the corresponding column untouched.
type UpdateProfileInput struct {
	FirstName     *string
	LastName      *string
	PhoneNumber   *string
	DateOfBirth   *time.Time
	RecoveryEmail *string
	Language      *string
	Address       *AddressInput
	Notifications *NotificationsInput
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(input CreateUserInput) (*models.User, []string, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	ChangePassword(userID, oldPassword, newPassword string) error
	UpdateProfile(userID string, input UpdateProfileInput) (*models.User, error)
	DeleteUser(userID string) error
	TouchActivity(userID string)
}

// RecoveryServicer defines the contract for the recovery-word password flow.
type RecoveryServicer interface {
	VerifyRecoveryWords(email string, words []string) (string, error)
	ResetPassword(email, token, newPassword string) error
}

// CreateNomineeInput holds the fields accepted when designating a nominee.
type CreateNomineeInput struct {
	Name         string
	Email        string
	PhoneNumber  string
	Relationship string
	AccessLevel  string
}

// UpdateNomineeInput holds the nominee fields the owner may change.
// Email, status, and the access code are never updated through this path.
type UpdateNomineeInput struct {
	Name         *string
	PhoneNumber  *string
	Relationship *string
	AccessLevel  *string
}

// AccessLogEntry is an access-log row enriched with the nominee's name for
// the owner-facing audit trail.
type AccessLogEntry struct {
	models.NomineeAccessLog
	NomineeName string `json:"nominee_name"`
}

// NomineeServicer defines the contract for nominee management.
type NomineeServicer interface {
	CreateNominee(userID string, input CreateNomineeInput) (*models.Nominee, string, error)
	GetUserNominees(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Nominee], error)
	GetNomineeByID(userID, nomineeID string) (*models.Nominee, error)
	UpdateNominee(userID, nomineeID string, input UpdateNomineeInput) (*models.Nominee, error)
	DeleteNominee(userID, nomineeID string) error
	RegenerateAccessCode(userID, nomineeID string) (string, error)
	RevokeNominee(userID, nomineeID string) error
	GetAccessLogs(userID string, page pagination.PageRequest) (*pagination.PageResponse[AccessLogEntry], error)
}

// OwnerProfile is the sanitized owner view returned with an emergency grant.
type OwnerProfile struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// EmergencyData is the tier-filtered owner data visible to a nominee.
type EmergencyData struct {
	AccessLevel string            `json:"access_level"`
	Owner       OwnerProfile      `json:"owner"`
	Assets      []models.Asset    `json:"assets"`
	Documents   []models.Document `json:"documents"`
}

// EmergencyServicer defines the contract for the emergency access gate.
// GrantAccess returns the authenticated nominee so the handler can mint a
// nominee-scoped token.
type EmergencyServicer interface {
	GrantAccess(email, accessCode, ipAddress, deviceInfo string) (*models.Nominee, *EmergencyData, error)
	FetchData(nomineeID, ipAddress, deviceInfo string) (*EmergencyData, error)
}

// CreateAssetInput holds the fields accepted when recording an asset.
type CreateAssetInput struct {
	Name          string
	Type          string
	Institution   string
	AccountNumber string
	PurchaseDate  *time.Time
	CurrentValue  int64
	Currency      string
	Notes         string
	Sensitive     bool
}

// AssetServicer defines the contract for asset tracking.
type AssetServicer interface {
	CreateAsset(userID string, input CreateAssetInput) (*models.Asset, error)
	GetUserAssets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	GetAssetByID(userID, assetID string) (*models.Asset, error)
	DeleteAsset(userID, assetID string) error
	GetAssetsForAccessLevel(userID, accessLevel string) ([]models.Asset, error)
}

// CreateDocumentInput holds the fields accepted when recording a document.
type CreateDocumentInput struct {
	AssetID              *string
	Title                string
	Type                 string
	Description          string
	Filename             string
	MimeType             string
	FileSize             int64
	AccessibleToNominees bool
}

// DocumentServicer defines the contract for document metadata.
type DocumentServicer interface {
	CreateDocument(userID string, input CreateDocumentInput) (*models.Document, error)
	GetUserDocuments(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Document], error)
	GetDocumentByID(userID, documentID string) (*models.Document, error)
	DeleteDocument(userID, documentID string) error
	GetNomineeAccessibleDocuments(userID string) ([]models.Document, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
