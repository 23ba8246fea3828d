package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"split-server/internal/domain/expense"
	"split-server/internal/infrastructure/metrics"
)

// Client implements expense.Gateway against the Splitwise-style ledger API.
// Every failure comes back as an error whose text is safe to relay to the
// group verbatim.
type Client struct {
	httpClient *resty.Client
	log        zerolog.Logger
}

// NewClient creates a Resty-backed ledger client.
func NewClient(baseURL, token string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetAuthToken(token).
			SetTimeout(timeout),
		log: log.With().Str("infra", "ledger").Logger(),
	}
}

type ledgerResponse struct {
	Expenses []struct {
		ID          json.Number `json:"id"`
		Description string      `json:"description"`
	} `json:"expenses"`
	Errors  map[string][]string `json:"errors"`
	Success *bool               `json:"success"`
}

// CreateExpense posts the payload to create_expense.
func (c *Client) CreateExpense(ctx context.Context, payload expense.Payload) (string, error) {
	result, err := c.post(ctx, "create", "/create_expense", flatten(payload))
	if err != nil {
		return "", err
	}
	return c.expenseOutcome(result, "added", "adding", "created")
}

// UpdateExpense posts the payload to update_expense/{id}.
func (c *Client) UpdateExpense(ctx context.Context, expenseID string, payload expense.Payload) (string, error) {
	result, err := c.post(ctx, "update", "/update_expense/"+expenseID, flatten(payload))
	if err != nil {
		return "", err
	}
	return c.expenseOutcome(result, "updated", "updating", "updated")
}

// DeleteExpense posts to delete_expense/{id}.
func (c *Client) DeleteExpense(ctx context.Context, expenseID string) (string, error) {
	result, err := c.post(ctx, "delete", "/delete_expense/"+expenseID, nil)
	if err != nil {
		return "", err
	}
	if msg, failed := baseError(result); failed {
		if msg == "" {
			return "", fmt.Errorf("Error: Unknown error occurred while deleting expense")
		}
		return "", fmt.Errorf("%s", msg)
	}
	if result.Success == nil || !*result.Success {
		return "", fmt.Errorf("Error: Expense deletion failed - success flag not returned")
	}
	return fmt.Sprintf("Successfully deleted expense with ID: %s", expenseID), nil
}

func (c *Client) post(ctx context.Context, operation, path string, body map[string]any) (*ledgerResponse, error) {
	started := time.Now()

	var result ledgerResponse
	request := c.httpClient.R().SetContext(ctx).SetResult(&result)
	if body != nil {
		request.SetBody(body)
	}

	resp, err := request.Post(path)

	status := "success"
	if err != nil || (resp != nil && resp.IsError()) {
		status = "failure"
	}
	metrics.LedgerCallsTotal.WithLabelValues(operation, status).Inc()
	metrics.LedgerCallDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())

	if err != nil {
		c.log.Error().Err(err).Str("operation", operation).Msg("ledger call failed")
		return nil, fmt.Errorf("Error: %v", err)
	}
	if resp.IsError() {
		c.log.Error().Int("status", resp.StatusCode()).Str("operation", operation).Msg("ledger api error")
		return nil, fmt.Errorf("Error: HTTP %d - %s", resp.StatusCode(), resp.String())
	}
	return &result, nil
}

func (c *Client) expenseOutcome(result *ledgerResponse, verb, gerund, failedVerb string) (string, error) {
	if msg, failed := baseError(result); failed {
		if msg == "" {
			return "", fmt.Errorf("Error: Unknown error occurred while %s expense", gerund)
		}
		return "", fmt.Errorf("%s", msg)
	}

	if len(result.Expenses) == 0 {
		return "", fmt.Errorf("Error: Expense was %s but no expense ID was returned", failedVerb)
	}

	created := result.Expenses[0]
	description := created.Description
	if description == "" {
		description = "Unknown"
	}
	return fmt.Sprintf("Successfully %s expense '%s' with expense ID: %s", verb, description, created.ID.String()), nil
}

func baseError(result *ledgerResponse) (string, bool) {
	if len(result.Errors) == 0 {
		return "", false
	}
	if base := result.Errors["base"]; len(base) > 0 {
		return base[0], true
	}
	return "", true
}

// flatten renders the payload in the ledger's flattened user-entry form:
// scalar expense fields plus users__{i}__email, users__{i}__paid_share and
// users__{i}__owed_share per participant.
func flatten(payload expense.Payload) map[string]any {
	body := map[string]any{
		"cost":          payload.Cost,
		"description":   payload.Description,
		"currency_code": payload.CurrencyCode,
		"category_id":   payload.CategoryID,
	}
	if payload.Details != "" {
		body["details"] = payload.Details
	}
	for i, user := range payload.Users {
		body[fmt.Sprintf("users__%d__email", i)] = user.Email
		body[fmt.Sprintf("users__%d__paid_share", i)] = user.PaidShare
		body[fmt.Sprintf("users__%d__owed_share", i)] = user.OwedShare
	}
	return body
}

// Ensure interface compliance.
var _ expense.Gateway = (*Client)(nil)
