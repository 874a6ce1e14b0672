package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sale is one committed, permanent consumption of stock tied to a paid order.
type Sale struct {
	OrderID    uuid.UUID `json:"order_id"`
	Quantity   int       `json:"quantity"`
	GrossPrice float64   `json:"gross_price"`
	Date       time.Time `json:"date"`
}

// ReservationMap holds outstanding holds keyed by order id. At most one
// reservation per order per product; reserving again for the same order
// overwrites the previous entry.
type ReservationMap map[uuid.UUID]int

func (m ReservationMap) Value() (driver.Value, error) {
	if m == nil {
		m = ReservationMap{}
	}
	return json.Marshal(m)
}

func (m *ReservationMap) Scan(value interface{}) error {
	if value == nil {
		*m = ReservationMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported reservation map source: %T", value)
	}
}

// SaleLog is the append-only record of committed sales. It is audit data;
// available stock is never derived from it.
type SaleLog []Sale

func (s SaleLog) Value() (driver.Value, error) {
	if s == nil {
		s = SaleLog{}
	}
	return json.Marshal(s)
}

func (s *SaleLog) Scan(value interface{}) error {
	if value == nil {
		*s = SaleLog{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported sale log source: %T", value)
	}
}

// Product is the catalog entry together with its stock ledger. The ledger
// fields (Stock, Reservations, Sales) are mutated only through Reserve,
// Release and CommitSale so the available-stock invariant cannot be bypassed.
type Product struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID   uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	Name         string         `gorm:"not null;column:name" json:"name"`
	Description  string         `gorm:"column:description" json:"description"`
	ImageURL     string         `gorm:"column:image_url" json:"image_url"`
	GrossPrice   float64        `gorm:"not null;column:gross_price" json:"gross_price"`
	Stock        int            `gorm:"not null;default:0;column:stock" json:"stock"`
	Reservations ReservationMap `gorm:"type:jsonb;column:reservations" json:"reservations"`
	Sales        SaleLog        `gorm:"type:jsonb;column:sales" json:"sales"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}

// Available is total stock minus the sum of outstanding reservations.
func (p *Product) Available() int {
	held := 0
	for _, q := range p.Reservations {
		held += q
	}
	return p.Stock - held
}

// Reserve places a hold of qty units for orderID. It fails with
// ErrInsufficientStock when qty exceeds the currently available stock.
// An existing reservation for the same order is replaced, and its quantity
// is given back before the availability check.
func (p *Product) Reserve(orderID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: reservation quantity must be positive", ErrInsufficientStock)
	}
	available := p.Available()
	if prev, ok := p.Reservations[orderID]; ok {
		available += prev
	}
	if qty > available {
		return fmt.Errorf("%w: product %s has %d available, requested %d", ErrInsufficientStock, p.ID, available, qty)
	}
	if p.Reservations == nil {
		p.Reservations = ReservationMap{}
	}
	p.Reservations[orderID] = qty
	return nil
}

// Release drops the hold for orderID. Releasing an absent reservation is a
// no-op: the hold is treated as already released.
func (p *Product) Release(orderID uuid.UUID) {
	delete(p.Reservations, orderID)
}

// HasSale reports whether a sale for orderID is already on the log.
func (p *Product) HasSale(orderID uuid.UUID) bool {
	for _, s := range p.Sales {
		if s.OrderID == orderID {
			return true
		}
	}
	return false
}

// CommitSale converts the outstanding reservation for orderID into a
// permanent sale: stock drops by the held quantity, the hold disappears and
// a sale record is appended. Available stock is unchanged by this operation.
// grossPrice is the unit price snapshotted on the order item at initialize
// time, which is what the buyer actually paid.
func (p *Product) CommitSale(orderID uuid.UUID, grossPrice float64) (Sale, error) {
	qty, ok := p.Reservations[orderID]
	if !ok {
		return Sale{}, fmt.Errorf("%w: product %s, order %s", ErrNoReservationToCommit, p.ID, orderID)
	}
	sale := Sale{
		OrderID:    orderID,
		Quantity:   qty,
		GrossPrice: grossPrice,
		Date:       time.Now().UTC(),
	}
	p.Stock -= qty
	delete(p.Reservations, orderID)
	p.Sales = append(p.Sales, sale)
	return sale, nil
}
