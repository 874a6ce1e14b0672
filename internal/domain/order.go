package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusInitialized OrderStatus = "INITIALIZED"
	OrderStatusConfirmed   OrderStatus = "CONFIRMED"
	OrderStatusAborted     OrderStatus = "ABORTED"
	OrderStatusPaid        OrderStatus = "PAID"
)

// Client is the buyer snapshot embedded into the order. Immutable once the
// order exists: later profile edits never rewrite history.
type Client struct {
	UserID    uuid.UUID `gorm:"type:uuid;index;column:client_user_id" json:"user_id"`
	FirstName string    `gorm:"column:client_first_name" json:"first_name"`
	LastName  string    `gorm:"column:client_last_name" json:"last_name"`
	Email     string    `gorm:"column:client_email" json:"email"`
	DocType   string    `gorm:"column:client_doc_type" json:"doc_type"`
	Document  string    `gorm:"column:client_document" json:"document"`
	Telephone string    `gorm:"column:client_telephone" json:"telephone"`
}

type Address struct {
	Country      string `gorm:"column:country" json:"country"`
	State        string `gorm:"column:state" json:"state"`
	City         string `gorm:"column:city" json:"city"`
	Neighborhood string `gorm:"column:neighborhood" json:"neighborhood"`
	Street       string `gorm:"column:street" json:"street"`
	Number       string `gorm:"column:number" json:"number"`
	ZipCode      string `gorm:"column:zip_code" json:"zip_code"`
}

// Complete reports whether the address carries every field pricing needs.
func (a Address) Complete() bool {
	return strings.TrimSpace(a.Country) != "" &&
		strings.TrimSpace(a.State) != "" &&
		strings.TrimSpace(a.City) != "" &&
		strings.TrimSpace(a.Neighborhood) != ""
}

// OrderItem snapshots name and unit price at order time so catalog edits
// after initialize do not change what the buyer owes.
type OrderItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID        uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	ImageURL       string    `gorm:"column:image_url" json:"image_url"`
	Name           string    `gorm:"column:name" json:"name"`
	GrossUnitPrice float64   `gorm:"column:gross_unit_price" json:"gross_unit_price"`
	Quantity       int       `gorm:"column:quantity" json:"quantity"`
	Amount         float64   `gorm:"column:amount" json:"amount"`
}

func (OrderItem) TableName() string {
	return "order_item"
}

type Order struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Client           Client      `gorm:"embedded" json:"client"`
	Items            []OrderItem `gorm:"foreignKey:OrderID;references:ID" json:"order_items"`
	IncludesShipping bool        `gorm:"column:includes_shipping" json:"includes_shipping"`
	ShippingAddress  Address     `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	SubTotal         float64     `gorm:"column:sub_total" json:"sub_total"`
	ShippingPrice    float64     `gorm:"column:shipping_price" json:"shipping_price"`
	Total            float64     `gorm:"column:total" json:"total"`
	Status           OrderStatus `gorm:"column:status;index" json:"status"`
	CreatedAt        time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string {
	return "order"
}

// legalTransitions is the full status DAG: PAID and ABORTED are terminal.
var legalTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusInitialized: {OrderStatusConfirmed, OrderStatusAborted},
	OrderStatusConfirmed:   {OrderStatusPaid, OrderStatusAborted},
}

func (o *Order) CanTransition(to OrderStatus) bool {
	for _, next := range legalTransitions[o.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves the order to the next status or fails with
// ErrInvalidTransition. It only guards the aggregate-level status; ledger
// truth is re-derived by the workflow on every call.
func (o *Order) Transition(to OrderStatus) error {
	if !o.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	return nil
}

// OrderDraft is the plain request shape the workflow turns into an order.
type OrderDraft struct {
	Client           Client      `json:"client"`
	Items            []DraftItem `json:"order_items"`
	IncludesShipping bool        `json:"includes_shipping"`
	ShippingAddress  Address     `json:"shipping_address"`
}

type DraftItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

// Validate performs the structural checks that must pass before the workflow
// touches any ledger: non-empty item list, positive quantities, a plausible
// client email, and a complete address when shipping is requested.
func (d OrderDraft) Validate() error {
	if d.Client.UserID == uuid.Nil {
		return fmt.Errorf("%w: missing client user id", ErrMalformedOrder)
	}
	if !emailPattern.MatchString(strings.TrimSpace(d.Client.Email)) {
		return fmt.Errorf("%w: invalid client email", ErrMalformedOrder)
	}
	if len(d.Items) == 0 {
		return fmt.Errorf("%w: order has no items", ErrMalformedOrder)
	}
	for i, it := range d.Items {
		if it.ProductID == uuid.Nil {
			return fmt.Errorf("%w: item %d missing product id", ErrMalformedOrder, i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity must be positive", ErrMalformedOrder, i)
		}
	}
	if d.IncludesShipping && !d.ShippingAddress.Complete() {
		return fmt.Errorf("%w: incomplete shipping address", ErrMalformedOrder)
	}
	return nil
}
