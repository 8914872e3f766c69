package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog entry. Its price is the single source of
// truth for order pricing; client-submitted prices are always discarded.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID      string          `json:"user_id" gorm:"type:varchar(36)"` // admin who created the entry
	Name        string          `json:"name" validate:"required,min=3,max=100"`
	Image       string          `json:"image" validate:"omitempty,max=255"`
	Brand       string          `json:"brand" validate:"omitempty,max=100"`
	Category    string          `json:"category" validate:"omitempty,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Rating      decimal.Decimal `json:"rating" gorm:"type:decimal(3,2)"`
	NumReviews  int             `json:"num_reviews"`
	Reviews     []Review        `json:"reviews,omitempty" gorm:"foreignKey:ProductID"`
	gorm.Model  `json:"-"`
}

// Review is a single customer review attached to a product. A user may
// review a product at most once.
type Review struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID  string `json:"product_id" gorm:"index;type:varchar(36)"`
	UserID     string `json:"user_id" gorm:"type:varchar(36)"`
	Name       string `json:"name"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"required,max=500"`
	gorm.Model `json:"-"`
}
