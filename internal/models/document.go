package models

// Document is file metadata attached to a user (and optionally an asset).
// Only documents flagged AccessibleToNominees are visible through emergency
// access, regardless of the nominee's tier.
type Document struct {
	Base
	UserID               string  `gorm:"type:uuid;not null;index" json:"user_id"`
	AssetID              *string `gorm:"type:uuid;index" json:"asset_id,omitempty"`
	Title                string  `gorm:"size:100;not null" json:"title"`
	Type                 string  `gorm:"size:50" json:"type"`
	Description          string  `gorm:"size:500" json:"description"`
	Filename             string  `gorm:"size:255" json:"filename"`
	MimeType             string  `gorm:"size:100" json:"mime_type"`
	FileSize             int64   `json:"file_size"`
	StorageKey           string  `gorm:"size:255" json:"-"`
	AccessibleToNominees bool    `gorm:"default:false" json:"accessible_to_nominees"`
}
