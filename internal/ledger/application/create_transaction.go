package application

import (
	"context"

	"github.com/sebuszqo/BudgetKeeper/internal/ledger/domain"
)

// CreateTransactionCommand records one transaction against a category.
// Validated by ValidateCreateTransaction before it ever reaches the handler.
type CreateTransactionCommand struct {
	Name       string
	Amount     float64
	CategoryID int
}

type CreateTransactionHandler struct {
	sessions domain.SessionFactory
}

func NewCreateTransactionHandler(sessions domain.SessionFactory) *CreateTransactionHandler {
	return &CreateTransactionHandler{sessions: sessions}
}

// Handle stages and commits the new transaction, returning the generated id.
// No business rules beyond the validator live here yet; this is the extension
// point for future domain checks.
func (h *CreateTransactionHandler) Handle(ctx context.Context, cmd CreateTransactionCommand) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	session, err := h.sessions.NewSession(ctx)
	if err != nil {
		return 0, err
	}
	defer session.Close()

	transaction := domain.NewTransaction(cmd.Name, cmd.Amount, cmd.CategoryID)
	session.AddTransaction(&transaction)

	if _, err := session.SaveChanges(ctx); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return transaction.ID, nil
}
