package expense

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"split-server/internal/domain/identity"
)

// Directory resolves platform handles into ledger identities.
type Directory interface {
	FindByHandle(ctx context.Context, handle string) ([]identity.User, error)
}

// Builder turns a validated Request into a ledger Payload. The external
// ledger requires the acting agent to be a party to every expense, so the
// builder adds one currency unit to the cost and appends the bot's own
// entry with owed = paid = 1: the group's net balances are untouched.
type Builder struct {
	directory Directory
	botEmail  string
}

// NewBuilder constructs a payload builder.
func NewBuilder(directory Directory, botEmail string) *Builder {
	return &Builder{directory: directory, botEmail: botEmail}
}

// Build resolves every participant and assembles the payload. The second
// return value is user-facing text: non-empty means the build was aborted
// and nothing may be submitted.
func (b *Builder) Build(ctx context.Context, req *Request) (*Payload, string) {
	resolved := make(map[string]identity.User, len(req.Users))
	var missing []string

	for _, user := range req.Users {
		if _, done := resolved[user.SenderID]; done {
			continue
		}
		matches, err := b.directory.FindByHandle(ctx, user.SenderID)
		if err != nil {
			return nil, fmt.Sprintf("Error: %v", err)
		}
		if len(matches) == 0 {
			missing = append(missing, user.SenderID)
			continue
		}
		resolved[user.SenderID] = matches[0]
	}

	if len(missing) > 0 {
		return nil, fmt.Sprintf("These users dont exist in the db (%s)", strings.Join(missing, ","))
	}

	cost, err := strconv.ParseFloat(req.Cost, 64)
	if err != nil {
		return nil, fmt.Sprintf("Error: Invalid value - 'cost' must be a number, got %q.", req.Cost)
	}

	payload := &Payload{
		// One unit is reserved for the agent's own net-zero entry.
		Cost:         FormatDecimal(cost + 1.0),
		Description:  req.Description,
		Details:      rewriteDetails(req.Details, resolved),
		CurrencyCode: req.CurrencyCode,
		CategoryID:   req.CategoryID,
	}

	for _, user := range req.Users {
		payload.Users = append(payload.Users, PayloadUser{
			Email:     resolved[user.SenderID].Email,
			PaidShare: user.PaidShare,
			OwedShare: user.OwedShare,
		})
	}
	payload.Users = append(payload.Users, PayloadUser{
		Email:     b.botEmail,
		PaidShare: "1",
		OwedShare: "1",
	})

	return payload, ""
}

// rewriteDetails substitutes every resolved handle (with or without a
// leading "@") with the participant's display name. Longest handle first,
// so "alice_w" never half-matches inside "alice_work"; word-boundary
// anchored for the same reason.
func rewriteDetails(details string, resolved map[string]identity.User) string {
	if details == "" {
		return ""
	}

	handles := make([]string, 0, len(resolved))
	for handle := range resolved {
		handles = append(handles, handle)
	}
	sort.Slice(handles, func(i, j int) bool {
		return len(handles[i]) > len(handles[j])
	})

	for _, handle := range handles {
		pattern := regexp.MustCompile(`@?\b` + regexp.QuoteMeta(handle) + `\b`)
		details = pattern.ReplaceAllString(details, resolved[handle].Name)
	}
	return details
}
