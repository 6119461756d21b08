package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pocketbook/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// amount guard, matching the 12,2 column: positive and below ten million.
var maxAmount = decimal.NewFromInt(10_000_000)

// Store owns Category and Transaction rows, scoped and validated against
// an owner. Uniqueness and reference checks run inside the same database
// transaction as the write, so two concurrent creates cannot both pass
// the conflict check.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStore returns a store using the real clock (UTC).
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// TransactionInput carries the mutable fields of a transaction.
// A nil CreatedAt means "stamp with now", on update as well as create;
// this is full-replace semantics, not a partial patch.
type TransactionInput struct {
	Amount     decimal.Decimal
	CategoryID uint
	Note       string
	CreatedAt  *time.Time
}

func (in *TransactionInput) validate() error {
	if in.Amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}
	if in.Amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("%w: amount too large", ErrInvalidArgument)
	}
	if len(in.Note) > 255 {
		return fmt.Errorf("%w: note too long", ErrInvalidArgument)
	}
	return nil
}

func validateCategoryArgs(name, kind string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: category name is empty", ErrInvalidArgument)
	}
	if len(name) > 100 {
		return fmt.Errorf("%w: category name too long", ErrInvalidArgument)
	}
	if !models.ValidKind(kind) {
		return fmt.Errorf("%w: kind must be income or expense", ErrInvalidArgument)
	}
	return nil
}

// ---------- categories ----------

// CreateCategory creates a category for ownerID. The name must be unique
// among that owner's categories; other owners may reuse it freely.
func (s *Store) CreateCategory(ownerID uint, name, kind string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryArgs(name, kind); err != nil {
		return nil, err
	}

	cat := models.Category{UserID: ownerID, Name: name, Kind: kind}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).
			Where("user_id = ? AND name = ?", ownerID, name).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("category %q: %w", name, ErrConflict)
		}
		return tx.Create(&cat).Error
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// ListCategories returns all of the owner's categories, name ascending.
func (s *Store) ListCategories(ownerID uint) ([]models.Category, error) {
	var cats []models.Category
	if err := s.db.
		Where("user_id = ?", ownerID).
		Order("name ASC").
		Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

// UpdateCategory overwrites name and kind of the owner's category in place.
func (s *Store) UpdateCategory(ownerID, id uint, name, kind string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryArgs(name, kind); err != nil {
		return nil, err
	}

	var cat models.Category
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, ownerID).
			First(&cat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("category %d: %w", id, ErrNotFound)
			}
			return err
		}

		// another category of this owner may not already hold the new name
		var count int64
		if err := tx.Model(&models.Category{}).
			Where("user_id = ? AND name = ? AND id <> ?", ownerID, name, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("category %q: %w", name, ErrConflict)
		}

		cat.Name = name
		cat.Kind = kind
		return tx.Save(&cat).Error
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory deletes the owner's category and every transaction
// referencing it, in one commit. The category exclusively owns its
// transactions, so nothing may survive the sweep.
func (s *Store) DeleteCategory(ownerID, id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, ownerID).
			Delete(&models.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return tx.Where("category_id = ? AND user_id = ?", id, ownerID).
			Delete(&models.Transaction{}).Error
	})
}

// ---------- transactions ----------

// CreateTransaction records a transaction for ownerID. The referenced
// category must belong to the same owner. An omitted timestamp is
// replaced with the store clock's now.
func (s *Store) CreateTransaction(ownerID uint, in TransactionInput) (*models.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	ts := s.now()
	if in.CreatedAt != nil {
		ts = in.CreatedAt.UTC()
	}

	txn := models.Transaction{
		UserID:     ownerID,
		CategoryID: in.CategoryID,
		Amount:     in.Amount.Round(2),
		Note:       in.Note,
		CreatedAt:  ts,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.checkCategoryRef(tx, ownerID, in.CategoryID); err != nil {
			return err
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListTransactions returns all of the owner's transactions, newest first;
// equal timestamps are broken by insertion order, newest first.
func (s *Store) ListTransactions(ownerID uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := s.db.
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// UpdateTransaction replaces every mutable field of the owner's
// transaction. An omitted timestamp is stamped with now, not kept.
func (s *Store) UpdateTransaction(ownerID, id uint, in TransactionInput) (*models.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	ts := s.now()
	if in.CreatedAt != nil {
		ts = in.CreatedAt.UTC()
	}

	var txn models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, ownerID).
			First(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
			}
			return err
		}
		if err := s.checkCategoryRef(tx, ownerID, in.CategoryID); err != nil {
			return err
		}

		txn.CategoryID = in.CategoryID
		txn.Amount = in.Amount.Round(2)
		txn.Note = in.Note
		txn.CreatedAt = ts
		return tx.Save(&txn).Error
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// DeleteTransaction deletes the owner's transaction.
func (s *Store) DeleteTransaction(ownerID, id uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return nil
}

// checkCategoryRef verifies the category exists and belongs to ownerID.
func (s *Store) checkCategoryRef(tx *gorm.DB, ownerID, categoryID uint) error {
	var count int64
	if err := tx.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", categoryID, ownerID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("category %d: %w", categoryID, ErrInvalidReference)
	}
	return nil
}

// ---------- seeding and account teardown ----------

// SeedDefaultCategories creates the default category set for ownerID,
// skipping any name the owner already has. Idempotent: calling it
// repeatedly never duplicates a category.
func (s *Store) SeedDefaultCategories(ownerID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing []string
		if err := tx.Model(&models.Category{}).
			Where("user_id = ?", ownerID).
			Pluck("name", &existing).Error; err != nil {
			return err
		}

		taken := make(map[string]bool, len(existing))
		for _, name := range existing {
			taken[name] = true
		}

		for _, d := range defaultCategories {
			if taken[d.Name] {
				continue
			}
			cat := models.Category{UserID: ownerID, Name: d.Name, Kind: d.Kind}
			if err := tx.Create(&cat).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteOwner removes the owner's account and everything it owns:
// transactions, categories, sessions and the user row, in one commit.
func (s *Store) DeleteOwner(ownerID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", ownerID).
			Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", ownerID).
			Delete(&models.Category{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", ownerID).
			Delete(&models.Session{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, ownerID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %d: %w", ownerID, ErrNotFound)
		}
		return nil
	})
}
