package domain

import (
	"time"
)

// Category is reference data: seeded by migration, immutable at runtime.
type Category struct {
	ID   int
	Name string
}

type Transaction struct {
	ID          int
	Description string
	Amount      float64
	Date        time.Time
	CategoryID  int
}

// NewTransaction builds a transaction dated now (UTC). The ID is assigned by
// the store when the session commits.
func NewTransaction(description string, amount float64, categoryID int) Transaction {
	return Transaction{
		Description: description,
		Amount:      amount,
		CategoryID:  categoryID,
		Date:        time.Now().UTC(),
	}
}
