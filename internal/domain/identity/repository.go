package identity

import "context"

// Repository persists identity records. Lookup methods return (nil, nil)
// when no record matches; the service layer decides whether absence is an
// error.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// SearchByHandle matches any record whose telegram username, whatsapp
	// number or whatsapp LID exactly equals handle.
	SearchByHandle(ctx context.Context, handle string) ([]User, error)
	List(ctx context.Context, limit, offset int) ([]User, error)
	// UpdateFields applies the given column map to the record and returns
	// the updated row.
	UpdateFields(ctx context.Context, id int, fields map[string]any) (*User, error)
	Delete(ctx context.Context, id int) (bool, error)
}
