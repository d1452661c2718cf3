package interfaces

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/sebuszqo/BudgetKeeper/internal/dispatch"
	"github.com/sebuszqo/BudgetKeeper/internal/ledger/application"
)

type TransactionHandler struct {
	dispatcher   *dispatch.Dispatcher
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewTransactionHandler(
	dispatcher *dispatch.Dispatcher,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *TransactionHandler {
	return &TransactionHandler{
		dispatcher:   dispatcher,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *TransactionHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string  `json:"name"`
		Amount     float64 `json:"amount"`
		CategoryID int     `json:"categoryId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := dispatch.Send[int](r.Context(), h.dispatcher, application.CreateTransactionCommand{
		Name:       req.Name,
		Amount:     req.Amount,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		var validationErrors *dispatch.ValidationErrors
		if errors.As(err, &validationErrors) {
			h.respondJSON(w, http.StatusBadRequest, map[string]interface{}{
				"status":  "error",
				"message": "Validation failed",
				"errors":  validationErrors.Messages(),
				"code":    http.StatusBadRequest,
			})
			return
		}
		log.Printf("error creating transaction: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      id,
		"message": "Transaction created successfully!",
	})
}

func (h *TransactionHandler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := dispatch.Send[[]application.TransactionResponse](r.Context(), h.dispatcher, application.GetTransactionsQuery{})
	if err != nil {
		log.Printf("error listing transactions: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.respondJSON(w, http.StatusOK, transactions)
}
