package report

import (
	"sort"
	"time"

	"pocketbook/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Engine computes sums over one owner's transactions joined to their
// categories. It only reads; all writes go through the ledger store.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Balance is the owner's all-time totals. All values are 2dp decimals.
type Balance struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// Row is one line of a period report: the per-category total inside the
// window.
type Row struct {
	Category string
	Kind     string
	Total    decimal.Decimal
}

// ExportRow is one transaction joined with its category, shaped for
// tabular serialization.
type ExportRow struct {
	ID        uint
	CreatedAt time.Time
	Amount    decimal.Decimal
	Note      string
	Category  string
	Kind      string
}

// joined is the scan target for transaction-category joins.
type joined struct {
	ID        uint
	CreatedAt time.Time
	Amount    decimal.Decimal
	Note      string
	Name      string
	Kind      string
}

func (e *Engine) joinQuery(ownerID uint) *gorm.DB {
	return e.db.Model(&models.Transaction{}).
		Select("transactions.id, transactions.created_at, transactions.amount, transactions.note, categories.name, categories.kind").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ?", ownerID)
}

// Balance sums the owner's income and expense transactions. No matching
// rows means zeros, not an error.
func (e *Engine) Balance(ownerID uint) (Balance, error) {
	var rows []joined
	if err := e.joinQuery(ownerID).Scan(&rows).Error; err != nil {
		return Balance{}, err
	}

	income := decimal.Zero
	expense := decimal.Zero
	for _, r := range rows {
		if r.Kind == models.KindIncome {
			income = income.Add(r.Amount)
		} else {
			expense = expense.Add(r.Amount)
		}
	}
	return Balance{
		Income:  income.Round(2),
		Expense: expense.Round(2),
		Net:     income.Sub(expense).Round(2),
	}, nil
}

// PeriodReport groups the owner's transactions inside the window by
// category and sums per category. kindFilter narrows to income or
// expense categories when set to one of those values; anything else
// means no filter. Rows come back sorted by total descending.
func (e *Engine) PeriodReport(ownerID uint, w Window, kindFilter string) ([]Row, error) {
	q := e.joinQuery(ownerID).
		Where("transactions.created_at BETWEEN ? AND ?", w.Start, w.End)
	if models.ValidKind(kindFilter) {
		q = q.Where("categories.kind = ?", kindFilter)
	}

	var found []joined
	if err := q.Scan(&found).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]*Row)
	order := make([]string, 0, len(found))
	for _, r := range found {
		row, ok := totals[r.Name]
		if !ok {
			row = &Row{Category: r.Name, Kind: r.Kind, Total: decimal.Zero}
			totals[r.Name] = row
			order = append(order, r.Name)
		}
		row.Total = row.Total.Add(r.Amount)
	}

	out := make([]Row, 0, len(order))
	for _, name := range order {
		row := totals[name]
		row.Total = row.Total.Round(2)
		out = append(out, *row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out, nil
}

// ExportRows returns every transaction of the owner joined with its
// category, newest first, in the same order as the transaction list.
func (e *Engine) ExportRows(ownerID uint) ([]ExportRow, error) {
	var rows []joined
	if err := e.joinQuery(ownerID).
		Order("transactions.created_at DESC, transactions.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ExportRow{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Amount:    r.Amount,
			Note:      r.Note,
			Category:  r.Name,
			Kind:      r.Kind,
		})
	}
	return out, nil
}
