package application

import (
	"strings"

	"github.com/sebuszqo/BudgetKeeper/internal/dispatch"
)

const maxDescriptionLength = 200

// ValidateCreateTransaction is the pure rule set for CreateTransactionCommand.
// Every failing rule contributes a violation; nothing short-circuits.
//
// The categoryId rule only rejects the literal zero value — it does not check
// that the category exists. That lookup stays out of the validator on purpose.
func ValidateCreateTransaction(cmd CreateTransactionCommand) []dispatch.Violation {
	var violations []dispatch.Violation

	if strings.TrimSpace(cmd.Name) == "" {
		violations = append(violations, dispatch.Violation{
			Field:   "name",
			Message: "Name is required.",
		})
	}
	if len(cmd.Name) > maxDescriptionLength {
		violations = append(violations, dispatch.Violation{
			Field:   "name",
			Message: "Name must not exceed 200 characters.",
		})
	}
	if cmd.Amount <= 0 {
		violations = append(violations, dispatch.Violation{
			Field:   "amount",
			Message: "Amount must be greater than 0.",
		})
	}
	if cmd.CategoryID == 0 {
		violations = append(violations, dispatch.Violation{
			Field:   "categoryId",
			Message: "Category is required.",
		})
	}
	return violations
}
