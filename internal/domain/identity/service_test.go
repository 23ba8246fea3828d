package identity_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"split-server/internal/domain/identity"
	"split-server/internal/utils/platformerrors"
)

type MockRepository struct {
	CreateFunc         func(ctx context.Context, user *identity.User) error
	GetByIDFunc        func(ctx context.Context, id int) (*identity.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*identity.User, error)
	SearchByHandleFunc func(ctx context.Context, handle string) ([]identity.User, error)
	ListFunc           func(ctx context.Context, limit, offset int) ([]identity.User, error)
	UpdateFieldsFunc   func(ctx context.Context, id int, fields map[string]any) (*identity.User, error)
	DeleteFunc         func(ctx context.Context, id int) (bool, error)
}

func (m *MockRepository) Create(ctx context.Context, user *identity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*identity.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockRepository) SearchByHandle(ctx context.Context, handle string) ([]identity.User, error) {
	if m.SearchByHandleFunc != nil {
		return m.SearchByHandleFunc(ctx, handle)
	}
	return nil, nil
}

func (m *MockRepository) List(ctx context.Context, limit, offset int) ([]identity.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *MockRepository) UpdateFields(ctx context.Context, id int, fields map[string]any) (*identity.User, error) {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil, nil
}

func (m *MockRepository) Delete(ctx context.Context, id int) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

func strPtr(s string) *string { return &s }

func errorType(t *testing.T, err error) platformerrors.ErrorType {
	t.Helper()
	var platformErr *platformerrors.PlatformError
	if !errors.As(err, &platformErr) {
		t.Fatalf("expected platform error, got %v", err)
	}
	return platformErr.Type
}

func TestCreateValidation(t *testing.T) {
	service := identity.NewService(&MockRepository{}, zerolog.Nop())

	tests := []struct {
		name   string
		params identity.CreateParams
	}{
		{name: "missing name", params: identity.CreateParams{Email: "a@example.com"}},
		{name: "missing email", params: identity.CreateParams{Name: "Alice"}},
		{name: "blank name", params: identity.CreateParams{Name: "   ", Email: "a@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tt.params)
			if got := errorType(t, err); got != platformerrors.ErrorTypeValidation {
				t.Errorf("error type = %s, want VALIDATION", got)
			}
		})
	}
}

func TestCreateNormalizesEmail(t *testing.T) {
	var created *identity.User
	repo := &MockRepository{
		CreateFunc: func(ctx context.Context, user *identity.User) error {
			user.ID = 7
			created = user
			return nil
		},
	}
	service := identity.NewService(repo, zerolog.Nop())

	user, err := service.Create(context.Background(), identity.CreateParams{
		Name:             "Alice",
		Email:            "  Alice@Example.COM ",
		TelegramUsername: "alice_tan",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.Email != "alice@example.com" {
		t.Errorf("stored email = %q, want normalized", created.Email)
	}
	if user.ID != 7 {
		t.Errorf("ID = %d, want 7", user.ID)
	}
	if user.TelegramUsername == nil || *user.TelegramUsername != "alice_tan" {
		t.Errorf("TelegramUsername = %v", user.TelegramUsername)
	}
	if user.WhatsappNumber != nil {
		t.Errorf("blank handle should stay nil, got %q", *user.WhatsappNumber)
	}
}

func TestFindByHandleBlank(t *testing.T) {
	repo := &MockRepository{
		SearchByHandleFunc: func(ctx context.Context, handle string) ([]identity.User, error) {
			t.Fatalf("repository searched for blank handle")
			return nil, nil
		},
	}
	service := identity.NewService(repo, zerolog.Nop())

	users, err := service.FindByHandle(context.Background(), "   ")
	if err != nil {
		t.Fatalf("FindByHandle: %v", err)
	}
	if users != nil {
		t.Errorf("users = %v, want nil", users)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	service := identity.NewService(&MockRepository{}, zerolog.Nop())

	_, err := service.GetByID(context.Background(), 42)
	if got := errorType(t, err); got != platformerrors.ErrorTypeNotFound {
		t.Errorf("error type = %s, want NOT_FOUND", got)
	}
}

func TestUpdateClearSemantics(t *testing.T) {
	existing := &identity.User{ID: 1, Name: "Alice", Email: "alice@example.com"}

	t.Run("name cannot be cleared", func(t *testing.T) {
		repo := &MockRepository{
			GetByIDFunc: func(ctx context.Context, id int) (*identity.User, error) { return existing, nil },
		}
		service := identity.NewService(repo, zerolog.Nop())

		_, err := service.Update(context.Background(), 1, identity.Patch{Name: strPtr("")})
		if got := errorType(t, err); got != platformerrors.ErrorTypeValidation {
			t.Errorf("error type = %s, want VALIDATION", got)
		}
	})

	t.Run("handles are nullable", func(t *testing.T) {
		var gotFields map[string]any
		repo := &MockRepository{
			GetByIDFunc: func(ctx context.Context, id int) (*identity.User, error) { return existing, nil },
			UpdateFieldsFunc: func(ctx context.Context, id int, fields map[string]any) (*identity.User, error) {
				gotFields = fields
				return existing, nil
			},
		}
		service := identity.NewService(repo, zerolog.Nop())

		_, err := service.Update(context.Background(), 1, identity.Patch{TelegramUsername: strPtr("")})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		value, present := gotFields["telegram_username"]
		if !present || value != nil {
			t.Errorf("telegram_username field = (%v, %t), want explicit nil", value, present)
		}
	})

	t.Run("empty patch is a no-op", func(t *testing.T) {
		repo := &MockRepository{
			GetByIDFunc: func(ctx context.Context, id int) (*identity.User, error) { return existing, nil },
			UpdateFieldsFunc: func(ctx context.Context, id int, fields map[string]any) (*identity.User, error) {
				t.Fatalf("UpdateFields called for empty patch")
				return nil, nil
			},
		}
		service := identity.NewService(repo, zerolog.Nop())

		user, err := service.Update(context.Background(), 1, identity.Patch{})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if user != existing {
			t.Errorf("expected existing record returned unchanged")
		}
	})
}

func TestUpsertByEmailCreates(t *testing.T) {
	var created *identity.User
	repo := &MockRepository{
		CreateFunc: func(ctx context.Context, user *identity.User) error {
			user.ID = 3
			created = user
			return nil
		},
	}
	service := identity.NewService(repo, zerolog.Nop())

	user, err := service.UpsertByEmail(context.Background(), "Bob@Example.com", identity.Patch{
		Name:           strPtr("Bob"),
		WhatsappNumber: strPtr("6598765432"),
	})
	if err != nil {
		t.Fatalf("UpsertByEmail: %v", err)
	}
	if created == nil || created.Email != "bob@example.com" {
		t.Fatalf("created = %+v, want normalized email", created)
	}
	if user.ID != 3 {
		t.Errorf("ID = %d, want 3", user.ID)
	}
}

func TestUpsertByEmailRequiresNameOnCreate(t *testing.T) {
	service := identity.NewService(&MockRepository{}, zerolog.Nop())

	_, err := service.UpsertByEmail(context.Background(), "bob@example.com", identity.Patch{
		WhatsappNumber: strPtr("6598765432"),
	})
	if got := errorType(t, err); got != platformerrors.ErrorTypeValidation {
		t.Errorf("error type = %s, want VALIDATION", got)
	}
}

func TestUpsertByEmailRetriesAfterUniqueRace(t *testing.T) {
	existing := &identity.User{ID: 9, Name: "Bob", Email: "bob@example.com"}
	lookups := 0
	repo := &MockRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*identity.User, error) {
			lookups++
			if lookups == 1 {
				return nil, nil
			}
			return existing, nil
		},
		CreateFunc: func(ctx context.Context, user *identity.User) error {
			return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeConflict, "user with this email already exists", nil)
		},
		UpdateFieldsFunc: func(ctx context.Context, id int, fields map[string]any) (*identity.User, error) {
			if id != 9 {
				t.Errorf("update targeted id %d, want 9", id)
			}
			return existing, nil
		},
	}
	service := identity.NewService(repo, zerolog.Nop())

	user, err := service.UpsertByEmail(context.Background(), "bob@example.com", identity.Patch{
		Name: strPtr("Bob"),
	})
	if err != nil {
		t.Fatalf("UpsertByEmail: %v", err)
	}
	if user.ID != 9 {
		t.Errorf("ID = %d, want the surviving record", user.ID)
	}
	if lookups != 2 {
		t.Errorf("lookups = %d, want 2", lookups)
	}
}

func TestDeleteNotFound(t *testing.T) {
	service := identity.NewService(&MockRepository{}, zerolog.Nop())

	err := service.Delete(context.Background(), 42)
	if got := errorType(t, err); got != platformerrors.ErrorTypeNotFound {
		t.Errorf("error type = %s, want NOT_FOUND", got)
	}
	if !strings.Contains(err.Error(), "user 42 not found") {
		t.Errorf("error = %q", err.Error())
	}
}
