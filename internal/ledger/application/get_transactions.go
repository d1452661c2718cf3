package application

import (
	"context"
	"time"

	"github.com/sebuszqo/BudgetKeeper/internal/ledger/domain"
)

// unknownCategoryName is projected when a transaction's category reference
// cannot be resolved.
const unknownCategoryName = "Unknown"

type GetTransactionsQuery struct{}

type TransactionResponse struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Amount       float64   `json:"amount"`
	Date         time.Time `json:"date"`
	CategoryID   int       `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
}

type GetTransactionsHandler struct {
	sessions domain.SessionFactory
}

func NewGetTransactionsHandler(sessions domain.SessionFactory) *GetTransactionsHandler {
	return &GetTransactionsHandler{sessions: sessions}
}

// Handle lists every transaction with its category name resolved in memory.
// Rows keep the order the store returned them in; no sort is imposed.
func (h *GetTransactionsHandler) Handle(ctx context.Context, _ GetTransactionsQuery) ([]TransactionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session, err := h.sessions.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	transactions, err := session.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := session.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	categoryNames := make(map[int]string, len(categories))
	for _, category := range categories {
		categoryNames[category.ID] = category.Name
	}

	responses := make([]TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		categoryName, exists := categoryNames[transaction.CategoryID]
		if !exists {
			categoryName = unknownCategoryName
		}
		responses = append(responses, TransactionResponse{
			ID:           transaction.ID,
			Name:         transaction.Description,
			Amount:       transaction.Amount,
			Date:         transaction.Date,
			CategoryID:   transaction.CategoryID,
			CategoryName: categoryName,
		})
	}
	return responses, nil
}
