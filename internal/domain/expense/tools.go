package expense

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"split-server/internal/domain/tool"
)

const requestSchemaDoc = `JSON object with fields: cost (string, total before the bot's share), description (the restaurant or item being split), details (optional free text of who owes what), currency_code (optional), category_id (optional), users (array of {sender_id, owed_share, paid_share}).`

// Tools builds the three ledger tools plus nothing else; the calculator
// lives in the tool package. Every outcome is text because the oracle's
// calling convention for tools is "always return a string".
type Tools struct {
	builder           *Builder
	gateway           Gateway
	defaultCurrency   string
	defaultCategoryID int
}

// NewTools wires the ledger tool set.
func NewTools(builder *Builder, gateway Gateway, defaultCurrency string, defaultCategoryID int) *Tools {
	return &Tools{
		builder:           builder,
		gateway:           gateway,
		defaultCurrency:   defaultCurrency,
		defaultCategoryID: defaultCategoryID,
	}
}

// Definitions returns the ledger tool definitions for the registry.
func (t *Tools) Definitions() []tool.Definition {
	return []tool.Definition{
		{
			Name:        "add_expense",
			Description: "Add an expense to the ledger. Argument: " + requestSchemaDoc,
			Parameters:  requestParameters(false),
			Run:         t.runAdd,
		},
		{
			Name:        "update_expense",
			Description: "Update an existing ledger expense by id. Arguments: expense_id plus " + requestSchemaDoc,
			Parameters:  requestParameters(true),
			Run:         t.runUpdate,
		},
		{
			Name:        "delete_expense",
			Description: "Delete an existing ledger expense by id.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"expense_id": map[string]any{
						"type":        "string",
						"description": "The id of the expense to delete",
					},
				},
				"required": []string{"expense_id"},
			},
			Run: t.runDelete,
		},
	}
}

func (t *Tools) runAdd(ctx context.Context, args json.RawMessage) string {
	payload, errText := t.buildPayload(ctx, args)
	if errText != "" {
		return errText
	}
	return t.outcome(t.gateway.CreateExpense(ctx, *payload))
}

func (t *Tools) runUpdate(ctx context.Context, args json.RawMessage) string {
	expenseID, errText := extractExpenseID(args)
	if errText != "" {
		return errText
	}
	payload, errText := t.buildPayload(ctx, args)
	if errText != "" {
		return errText
	}
	return t.outcome(t.gateway.UpdateExpense(ctx, expenseID, *payload))
}

func (t *Tools) runDelete(ctx context.Context, args json.RawMessage) string {
	expenseID, errText := extractExpenseID(args)
	if errText != "" {
		return errText
	}
	return t.outcome(t.gateway.DeleteExpense(ctx, expenseID))
}

// buildPayload is front-loaded and total: no gateway call happens once any
// validation or resolution error has been detected.
func (t *Tools) buildPayload(ctx context.Context, args json.RawMessage) (*Payload, string) {
	request, errText := ParseRequest(args, t.defaultCurrency, t.defaultCategoryID)
	if errText != "" {
		return nil, errText
	}
	return t.builder.Build(ctx, request)
}

func (t *Tools) outcome(message string, err error) string {
	if err != nil {
		return err.Error()
	}
	return message
}

func extractExpenseID(args json.RawMessage) (string, string) {
	var parsed struct {
		ExpenseID *json.RawMessage `json:"expense_id"`
	}
	if err := json.Unmarshal(args, &parsed); err != nil {
		return "", fmt.Sprintf("Error: Invalid JSON format - %v. Please check that your JSON is properly formatted.", err)
	}
	if parsed.ExpenseID == nil {
		return "", "Error: Missing required field(s): expense_id"
	}
	expenseID := strings.TrimSpace(scalarString(*parsed.ExpenseID))
	if expenseID == "" {
		return "", "Error: Missing required field(s): expense_id"
	}
	return expenseID, ""
}

func requestParameters(withExpenseID bool) map[string]any {
	properties := map[string]any{
		"cost": map[string]any{
			"type":        "string",
			"description": "Total cost of the expense, e.g. \"26\"",
		},
		"description": map[string]any{
			"type":        "string",
			"description": "The name of the restaurant or the item being split",
		},
		"details": map[string]any{
			"type":        "string",
			"description": "The details of who owes how much and for what",
		},
		"currency_code": map[string]any{
			"type": "string",
		},
		"category_id": map[string]any{
			"type": "integer",
		},
		"users": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"sender_id":  map[string]any{"type": "string"},
					"owed_share": map[string]any{"type": "number"},
					"paid_share": map[string]any{"type": "number"},
				},
				"required": []string{"sender_id", "owed_share", "paid_share"},
			},
		},
	}
	required := []string{"cost", "description", "users"}
	if withExpenseID {
		properties["expense_id"] = map[string]any{
			"type":        "string",
			"description": "The id of the expense to update",
		}
		required = append([]string{"expense_id"}, required...)
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
