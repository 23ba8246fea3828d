package expense

import "context"

// Payload is the ledger-API-compliant expense. The participant list always
// ends with the bot's own net-zero entry.
type Payload struct {
	Cost         string
	Description  string
	Details      string
	CurrencyCode string
	CategoryID   int
	Users        []PayloadUser
}

// PayloadUser is one flattened participant entry keyed by ledger email.
type PayloadUser struct {
	Email     string
	PaidShare string
	OwedShare string
}

// Gateway executes expense operations against the external ledger API.
// Success messages carry the external id and description; every failure
// shape is normalized into the returned error's message, which callers
// surface as plain text.
type Gateway interface {
	CreateExpense(ctx context.Context, payload Payload) (string, error)
	UpdateExpense(ctx context.Context, expenseID string, payload Payload) (string, error)
	DeleteExpense(ctx context.Context, expenseID string) (string, error)
}
