package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShippingPrice maps a delivery area to a price. Narrower rows (neighborhood
// level) win over broader ones (country level) during lookup.
type ShippingPrice struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Country      string    `gorm:"not null;index;column:country" json:"country"`
	State        string    `gorm:"column:state" json:"state"`
	City         string    `gorm:"column:city" json:"city"`
	Neighborhood string    `gorm:"column:neighborhood" json:"neighborhood"`
	Price        float64   `gorm:"not null;column:price" json:"price"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (ShippingPrice) TableName() string {
	return "shipping_price"
}
