package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one product-and-quantity entry within an order. Name,
// image and price are copied from the catalog when the order is created
// and never change afterwards, even if the catalog entry does.
type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36)" validate:"required"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty" validate:"required,gt=0"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
}

// ShippingAddress is embedded into Order.
type ShippingAddress struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// PaymentResult captures the gateway's view of a settled transaction.
// It is populated exactly once, when the order transitions to paid.
// The partial unique index on the transaction id is the storage-level
// backstop for the reuse check in the payment verifier: two concurrent
// payments with the same transaction id can both pass the scan, but
// only one write can land. Unpaid orders store an empty transaction id,
// which the index ignores.
type PaymentResult struct {
	TransactionID string `json:"id" gorm:"index:idx_orders_payment_txn,unique,where:payment_transaction_id <> ''"`
	Status        string `json:"status"`
	UpdateTime    string `json:"update_time"`
	EmailAddress  string `json:"email_address"`
}

// Order is the persisted aggregate for a customer purchase. The two
// completion flags are monotonic: there is no operation that reverts
// isPaid or isDelivered to false.
type Order struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string          `json:"user_id" gorm:"index;type:varchar(36)"`
	Items         []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	Shipping      ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod string          `json:"payment_method"`

	ItemsPrice    decimal.Decimal `json:"items_price" gorm:"type:decimal(12,2)"`
	TaxPrice      decimal.Decimal `json:"tax_price" gorm:"type:decimal(12,2)"`
	ShippingPrice decimal.Decimal `json:"shipping_price" gorm:"type:decimal(12,2)"`
	TotalPrice    decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2)"`

	IsPaid        bool           `json:"is_paid" gorm:"default:false"`
	PaidAt        *time.Time     `json:"paid_at,omitempty"`
	PaymentResult *PaymentResult `json:"payment_result,omitempty" gorm:"embedded;embeddedPrefix:payment_"`

	IsDelivered bool       `json:"is_delivered" gorm:"default:false"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
