package models

// Transaction directions reported by the interpretation service when a statement
// prints unsigned magnitudes in separate debit/credit columns.
const (
	DirectionDebit  = "debit"
	DirectionCredit = "credit"
)

// DefaultCategories is the taxonomy used when no categories file is configured.
var DefaultCategories = []string{
	"Groceries",
	"Utilities",
	"Rent",
	"Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Healthcare",
	"Income",
	"Transfers",
	"Other",
}

// File permissions
const (
	PermissionExportFile = 0644
	PermissionDirectory  = 0750
)
