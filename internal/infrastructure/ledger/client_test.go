package ledger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"split-server/internal/domain/expense"
	"split-server/internal/infrastructure/ledger"
)

func testPayload() expense.Payload {
	return expense.Payload{
		Cost:         "27.0",
		Description:  "Sushi Palace",
		CurrencyCode: "SGD",
		CategoryID:   25,
		Users: []expense.PayloadUser{
			{Email: "alice@example.com", PaidShare: "26.0", OwedShare: "13.0"},
			{Email: "bob@example.com", PaidShare: "0.0", OwedShare: "13.0"},
			{Email: "bot@example.com", PaidShare: "1", OwedShare: "1"},
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*ledger.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return ledger.NewClient(server.URL, "test-token", 5*time.Second, zerolog.Nop()), server
}

func TestCreateExpenseSuccess(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/create_expense" {
			t.Errorf("path = %q, want /create_expense", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"expenses": [{"id": 314159, "description": "Sushi Palace"}], "errors": {}}`))
	})

	msg, err := client.CreateExpense(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if msg != "Successfully added expense 'Sushi Palace' with expense ID: 314159" {
		t.Errorf("message = %q", msg)
	}

	if gotBody["cost"] != "27.0" {
		t.Errorf("body cost = %v, want 27.0", gotBody["cost"])
	}
	if gotBody["users__0__email"] != "alice@example.com" {
		t.Errorf("users__0__email = %v", gotBody["users__0__email"])
	}
	if gotBody["users__2__paid_share"] != "1" || gotBody["users__2__owed_share"] != "1" {
		t.Errorf("bot shares = %v/%v, want 1/1", gotBody["users__2__paid_share"], gotBody["users__2__owed_share"])
	}
	if _, present := gotBody["details"]; present {
		t.Errorf("empty details should be omitted")
	}
}

func TestCreateExpenseBaseError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors": {"base": ["You cannot add an expense with a total of 0"]}}`))
	})

	_, err := client.CreateExpense(context.Background(), testPayload())
	if err == nil || err.Error() != "You cannot add an expense with a total of 0" {
		t.Errorf("err = %v, want base error passthrough", err)
	}
}

func TestCreateExpenseUnknownError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors": {"cost": ["is invalid"]}}`))
	})

	_, err := client.CreateExpense(context.Background(), testPayload())
	if err == nil || err.Error() != "Error: Unknown error occurred while adding expense" {
		t.Errorf("err = %v", err)
	}
}

func TestCreateExpenseMissingID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"expenses": [], "errors": {}}`))
	})

	_, err := client.CreateExpense(context.Background(), testPayload())
	if err == nil || err.Error() != "Error: Expense was created but no expense ID was returned" {
		t.Errorf("err = %v", err)
	}
}

func TestCreateExpenseHTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusInternalServerError)
	})

	_, err := client.CreateExpense(context.Background(), testPayload())
	if err == nil || err.Error() != "Error: HTTP 500 - upstream unavailable\n" {
		t.Errorf("err = %v", err)
	}
}

func TestUpdateExpenseSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/update_expense/314159" {
			t.Errorf("path = %q, want /update_expense/314159", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"expenses": [{"id": 314159, "description": "Sushi Palace"}], "errors": {}}`))
	})

	msg, err := client.UpdateExpense(context.Background(), "314159", testPayload())
	if err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	if msg != "Successfully updated expense 'Sushi Palace' with expense ID: 314159" {
		t.Errorf("message = %q", msg)
	}
}

func TestDeleteExpense(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
		wantErr string
	}{
		{
			name:    "success",
			body:    `{"success": true, "errors": {}}`,
			wantMsg: "Successfully deleted expense with ID: 314159",
		},
		{
			name:    "success flag missing",
			body:    `{"errors": {}}`,
			wantErr: "Error: Expense deletion failed - success flag not returned",
		},
		{
			name:    "success flag false",
			body:    `{"success": false, "errors": {}}`,
			wantErr: "Error: Expense deletion failed - success flag not returned",
		},
		{
			name:    "base error",
			body:    `{"errors": {"base": ["Expense not found"]}}`,
			wantErr: "Expense not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/delete_expense/314159" {
					t.Errorf("path = %q, want /delete_expense/314159", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			msg, err := client.DeleteExpense(context.Background(), "314159")
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Errorf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DeleteExpense: %v", err)
			}
			if msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestDescriptionFallback(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"expenses": [{"id": 7}], "errors": {}}`))
	})

	msg, err := client.CreateExpense(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if msg != "Successfully added expense 'Unknown' with expense ID: 7" {
		t.Errorf("message = %q", msg)
	}
}
