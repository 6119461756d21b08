package models

import "time"

// Category kinds. A category is either an income or an expense bucket;
// there is no third value.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// Category is a named income/expense bucket under one owner.
// Names are unique per owner, not globally.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_categories_owner_name"`
	Name      string `gorm:"size:100;not null;uniqueIndex:idx_categories_owner_name"`
	Kind      string `gorm:"size:10;index;not null"` // income / expense
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidKind reports whether kind is one of the two allowed values.
func ValidKind(kind string) bool {
	return kind == KindIncome || kind == KindExpense
}
