package ledger

import "pocketbook/internal/models"

// defaultCategory is one entry of the seed list applied to new owners.
type defaultCategory struct {
	Name string
	Kind string
}

// defaultCategories is seeded once per new owner, in this order.
// Loaded at process start, never mutated.
var defaultCategories = []defaultCategory{
	// income (5)
	{"Salary", models.KindIncome},
	{"Business", models.KindIncome},
	{"Dividends", models.KindIncome},
	{"Gifts", models.KindIncome},
	{"Other income", models.KindIncome},
	// expenses (25)
	{"Food", models.KindExpense},
	{"Eating Out", models.KindExpense},
	{"Clothes", models.KindExpense},
	{"Sport", models.KindExpense},
	{"Car", models.KindExpense},
	{"Household", models.KindExpense},
	{"Relaxation", models.KindExpense},
	{"Mobile", models.KindExpense},
	{"Internet", models.KindExpense},
	{"Insurance", models.KindExpense},
	{"Finance", models.KindExpense},
	{"DM", models.KindExpense},
	{"Home", models.KindExpense},
	{"Personal care", models.KindExpense},
	{"Electronics", models.KindExpense},
	{"Travel", models.KindExpense},
	{"Sharing", models.KindExpense},
	{"Charity", models.KindExpense},
	{"Medication", models.KindExpense},
	{"Education", models.KindExpense},
	{"Investing", models.KindExpense},
	{"Pets", models.KindExpense},
	{"Hobbys", models.KindExpense},
	{"Other", models.KindExpense},
	{"Children", models.KindExpense},
}
