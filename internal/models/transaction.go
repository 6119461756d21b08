package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single monetary entry tied to one category and one
// owner. CreatedAt is the transaction timestamp, stored in UTC; it is
// caller-supplied and may differ from the row's insertion time.
type Transaction struct {
	ID         uint            `gorm:"primaryKey"`
	UserID     uint            `gorm:"index;not null"`
	CategoryID uint            `gorm:"index;not null"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Note       string          `gorm:"size:255"`
	CreatedAt  time.Time       `gorm:"index;not null"`
	UpdatedAt  time.Time
}
