package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Profile carries the buyer details that get snapshotted into an order's
// Client block at initialize time.
type Profile struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	DocType   string         `gorm:"column:doc_type" json:"doc_type"`
	Document  string         `gorm:"column:document" json:"document"`
	Telephone string         `gorm:"column:telephone" json:"telephone"`
	Addresses datatypes.JSON `gorm:"type:jsonb;column:addresses" json:"addresses"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profile"
}
