package models

import "time"

// Asset is an investment holding tracked by a user. Assets marked sensitive
// are hidden from Limited-tier nominees during emergency access.
type Asset struct {
	Base
	UserID        string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string     `gorm:"size:100;not null" json:"name"`
	Type          string     `gorm:"size:50;not null" json:"type"`
	Institution   string     `gorm:"size:100" json:"institution"`
	AccountNumber string     `gorm:"size:50" json:"account_number"`
	PurchaseDate  *time.Time `json:"purchase_date,omitempty"`
	CurrentValue  int64      `gorm:"default:0" json:"current_value"`
	Currency      string     `gorm:"size:3;default:INR" json:"currency"`
	Notes         string     `gorm:"size:500" json:"notes"`
	Sensitive     bool       `gorm:"default:false" json:"sensitive"`
}
