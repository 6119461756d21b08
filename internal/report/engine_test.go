package report

import (
	"path/filepath"
	"testing"
	"time"

	"pocketbook/internal/ledger"
	"pocketbook/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Category{},
		&models.Transaction{},
	))
	return db
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedTxn inserts a transaction through the store so the test data goes
// through the same validation as production writes.
func seedTxn(t *testing.T, s *ledger.Store, owner, catID uint, amount string, ts time.Time) {
	t.Helper()
	_, err := s.CreateTransaction(owner, ledger.TransactionInput{
		Amount:     amt(amount),
		CategoryID: catID,
		CreatedAt:  &ts,
	})
	require.NoError(t, err)
}

func TestBalance_Empty(t *testing.T) {
	e := NewEngine(openTestDB(t))

	bal, err := e.Balance(1)
	require.NoError(t, err)
	assert.Equal(t, "0.00", bal.Income.StringFixed(2))
	assert.Equal(t, "0.00", bal.Expense.StringFixed(2))
	assert.Equal(t, "0.00", bal.Net.StringFixed(2))
}

func TestBalance_SumsByCategoryKind(t *testing.T) {
	db := openTestDB(t)
	s := ledger.NewStore(db)
	e := NewEngine(db)

	salary, err := s.CreateCategory(1, "Salary", models.KindIncome)
	require.NoError(t, err)
	food, err := s.CreateCategory(1, "Food", models.KindExpense)
	require.NoError(t, err)

	ts := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	seedTxn(t, s, 1, salary.ID, "600.00", ts)
	seedTxn(t, s, 1, salary.ID, "400.00", ts)
	seedTxn(t, s, 1, food.ID, "650.50", ts)

	// another owner's ledger must not leak into the sums
	otherCat, err := s.CreateCategory(2, "Salary", models.KindIncome)
	require.NoError(t, err)
	seedTxn(t, s, 2, otherCat.ID, "9999.99", ts)

	bal, err := e.Balance(1)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", bal.Income.StringFixed(2))
	assert.Equal(t, "650.50", bal.Expense.StringFixed(2))
	assert.Equal(t, "349.50", bal.Net.StringFixed(2))
}

func TestPeriodReport_GroupsAndSortsByTotalDesc(t *testing.T) {
	db := openTestDB(t)
	s := ledger.NewStore(db)
	e := NewEngine(db)

	food, err := s.CreateCategory(1, "Food", models.KindExpense)
	require.NoError(t, err)
	travel, err := s.CreateCategory(1, "Travel", models.KindExpense)
	require.NoError(t, err)
	salary, err := s.CreateCategory(1, "Salary", models.KindIncome)
	require.NoError(t, err)

	ts := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	seedTxn(t, s, 1, food.ID, "20.00", ts)
	seedTxn(t, s, 1, food.ID, "15.00", ts)
	seedTxn(t, s, 1, travel.ID, "500.00", ts)
	seedTxn(t, s, 1, salary.ID, "100.00", ts)
	// outside the window
	seedTxn(t, s, 1, food.ID, "77.00", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	w, err := MonthWindow(2024, 5, "UTC")
	require.NoError(t, err)

	rows, err := e.PeriodReport(1, w, "")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Travel", rows[0].Category)
	assert.Equal(t, "500.00", rows[0].Total.StringFixed(2))
	assert.Equal(t, "Salary", rows[1].Category)
	assert.Equal(t, "Food", rows[2].Category)
	assert.Equal(t, "35.00", rows[2].Total.StringFixed(2))

	// strictly descending
	for i := 1; i < len(rows); i++ {
		assert.False(t, rows[i].Total.GreaterThan(rows[i-1].Total))
	}
}

func TestPeriodReport_KindFilter(t *testing.T) {
	db := openTestDB(t)
	s := ledger.NewStore(db)
	e := NewEngine(db)

	food, err := s.CreateCategory(1, "Food", models.KindExpense)
	require.NoError(t, err)
	salary, err := s.CreateCategory(1, "Salary", models.KindIncome)
	require.NoError(t, err)

	ts := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	seedTxn(t, s, 1, food.ID, "20.00", ts)
	seedTxn(t, s, 1, salary.ID, "100.00", ts)

	w, err := MonthWindow(2024, 5, "UTC")
	require.NoError(t, err)

	rows, err := e.PeriodReport(1, w, models.KindIncome)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Salary", rows[0].Category)

	// an unrecognized filter means no filter
	rows, err = e.PeriodReport(1, w, "everything")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestPeriodReport_LeapFebruaryBoundaries(t *testing.T) {
	db := openTestDB(t)
	s := ledger.NewStore(db)
	e := NewEngine(db)

	food, err := s.CreateCategory(1, "Food", models.KindExpense)
	require.NoError(t, err)

	seedTxn(t, s, 1, food.ID, "10.00", time.Date(2024, 2, 29, 18, 0, 0, 0, time.UTC))
	seedTxn(t, s, 1, food.ID, "99.00", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	w, err := MonthWindow(2024, 2, "UTC")
	require.NoError(t, err)

	rows, err := e.PeriodReport(1, w, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "10.00", rows[0].Total.StringFixed(2))
}

func TestPeriodReport_LocalMonthEndInNamedTimezone(t *testing.T) {
	db := openTestDB(t)
	s := ledger.NewStore(db)
	e := NewEngine(db)

	food, err := s.CreateCategory(1, "Food", models.KindExpense)
	require.NoError(t, err)

	// local 2024-01-31 23:30 in New York is 2024-02-01 04:30 UTC; the
	// stored absolute timestamp falls in the next UTC day but must still
	// count towards the local January.
	seedTxn(t, s, 1, food.ID, "42.00", time.Date(2024, 2, 1, 4, 30, 0, 0, time.UTC))

	w, err := MonthWindow(2024, 1, "America/New_York")
	require.NoError(t, err)
	rows, err := e.PeriodReport(1, w, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "42.00", rows[0].Total.StringFixed(2))

	// and it must not also show up in the local February
	w, err = MonthWindow(2024, 2, "America/New_York")
	require.NoError(t, err)
	rows, err = e.PeriodReport(1, w, "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExportRows_JoinedAndOrdered(t *testing.T) {
	db := openTestDB(t)
	s := ledger.NewStore(db)
	e := NewEngine(db)

	food, err := s.CreateCategory(1, "Food", models.KindExpense)
	require.NoError(t, err)
	salary, err := s.CreateCategory(1, "Salary", models.KindIncome)
	require.NoError(t, err)

	seedTxn(t, s, 1, food.ID, "12.34", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	seedTxn(t, s, 1, salary.ID, "1000.00", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	rows, err := e.ExportRows(1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// newest first, joined with category name and kind
	assert.Equal(t, "Salary", rows[0].Category)
	assert.Equal(t, models.KindIncome, rows[0].Kind)
	assert.Equal(t, "Food", rows[1].Category)
	assert.Equal(t, "12.34", rows[1].Amount.StringFixed(2))
}
