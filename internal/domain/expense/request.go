package expense

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Request is the transient, strongly-typed form of one ledger tool
// invocation. It lives for the duration of the call and is never persisted.
type Request struct {
	Cost         string
	Description  string
	Details      string
	CurrencyCode string
	CategoryID   int
	Users        []RequestUser
}

// RequestUser is one participant entry as named by the oracle.
type RequestUser struct {
	SenderID  string
	OwedShare string
	PaidShare string
}

type rawRequest struct {
	Cost         *json.RawMessage `json:"cost"`
	Description  *string          `json:"description"`
	Details      string           `json:"details"`
	CurrencyCode string           `json:"currency_code"`
	CategoryID   *int             `json:"category_id"`
	Users        *[]rawUser       `json:"users"`
}

type rawUser struct {
	SenderID  *json.RawMessage `json:"sender_id"`
	OwedShare *json.RawMessage `json:"owed_share"`
	PaidShare *json.RawMessage `json:"paid_share"`
}

// scalarString coerces a JSON string or number into its string form. The
// oracle is inconsistent about quoting handles and shares.
func scalarString(raw json.RawMessage) string {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber.String()
	}
	return strings.TrimSpace(string(raw))
}

// ParseRequest validates the oracle's JSON argument and converts it into a
// Request. Validation is total: every field presence check runs before any
// downstream use, and failures come back as user-facing text (second return
// value) rather than errors, because they are relayed verbatim by the
// oracle.
func ParseRequest(raw json.RawMessage, defaultCurrency string, defaultCategoryID int) (*Request, string) {
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	decoder.UseNumber()

	var parsed rawRequest
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Sprintf("Error: Invalid JSON format - %v. Please check that your JSON is properly formatted.", err)
	}

	var missing []string
	if parsed.Cost == nil {
		missing = append(missing, "cost")
	}
	if parsed.Description == nil {
		missing = append(missing, "description")
	}
	if parsed.Users == nil {
		missing = append(missing, "users")
	}
	if len(missing) > 0 {
		return nil, fmt.Sprintf("Error: Missing required field(s): %s", strings.Join(missing, ", "))
	}

	if len(*parsed.Users) == 0 {
		return nil, "Error: 'users' array cannot be empty. At least one user is required."
	}

	var userErrors []string
	for idx, user := range *parsed.Users {
		var userMissing []string
		if user.SenderID == nil {
			userMissing = append(userMissing, "sender_id")
		}
		if user.OwedShare == nil {
			userMissing = append(userMissing, "owed_share")
		}
		if user.PaidShare == nil {
			userMissing = append(userMissing, "paid_share")
		}
		if len(userMissing) > 0 {
			userErrors = append(userErrors,
				fmt.Sprintf("users[%d] missing required field(s): %s", idx, strings.Join(userMissing, ", ")))
		}
	}
	if len(userErrors) > 0 {
		return nil, fmt.Sprintf("Error: %s", strings.Join(userErrors, ". "))
	}

	cost := scalarString(*parsed.Cost)
	if _, err := strconv.ParseFloat(cost, 64); err != nil {
		return nil, fmt.Sprintf("Error: Invalid value - 'cost' must be a number, got %q.", cost)
	}

	users := make([]RequestUser, 0, len(*parsed.Users))
	for _, user := range *parsed.Users {
		owed, err := decimalString(scalarString(*user.OwedShare))
		if err != nil {
			return nil, fmt.Sprintf("Error: Invalid value type in user data - %v. 'owed_share' and 'paid_share' must be numbers.", err)
		}
		paid, err := decimalString(scalarString(*user.PaidShare))
		if err != nil {
			return nil, fmt.Sprintf("Error: Invalid value type in user data - %v. 'owed_share' and 'paid_share' must be numbers.", err)
		}
		users = append(users, RequestUser{
			SenderID:  strings.TrimSpace(scalarString(*user.SenderID)),
			OwedShare: owed,
			PaidShare: paid,
		})
	}

	request := &Request{
		Cost:         cost,
		Description:  *parsed.Description,
		Details:      parsed.Details,
		CurrencyCode: parsed.CurrencyCode,
		CategoryID:   defaultCategoryID,
		Users:        users,
	}
	if request.CurrencyCode == "" {
		request.CurrencyCode = defaultCurrency
	}
	if parsed.CategoryID != nil {
		request.CategoryID = *parsed.CategoryID
	}
	return request, ""
}

// decimalString validates that raw parses as a real number and returns its
// canonical decimal string form.
func decimalString(raw string) (string, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", fmt.Errorf("%q is not a number", raw)
	}
	return FormatDecimal(value), nil
}
