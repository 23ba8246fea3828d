package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"split-server/internal/domain/identity"
	"split-server/internal/interfaces/httpserver/handlers"
	"split-server/internal/interfaces/httpserver/responses"
	"split-server/internal/utils/platformerrors"
)

type MockIdentityRepository struct {
	CreateFunc         func(ctx context.Context, user *identity.User) error
	GetByIDFunc        func(ctx context.Context, id int) (*identity.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*identity.User, error)
	SearchByHandleFunc func(ctx context.Context, handle string) ([]identity.User, error)
	ListFunc           func(ctx context.Context, limit, offset int) ([]identity.User, error)
	UpdateFieldsFunc   func(ctx context.Context, id int, fields map[string]any) (*identity.User, error)
	DeleteFunc         func(ctx context.Context, id int) (bool, error)
}

func (m *MockIdentityRepository) Create(ctx context.Context, user *identity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockIdentityRepository) GetByID(ctx context.Context, id int) (*identity.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockIdentityRepository) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockIdentityRepository) SearchByHandle(ctx context.Context, handle string) ([]identity.User, error) {
	if m.SearchByHandleFunc != nil {
		return m.SearchByHandleFunc(ctx, handle)
	}
	return nil, nil
}

func (m *MockIdentityRepository) List(ctx context.Context, limit, offset int) ([]identity.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *MockIdentityRepository) UpdateFields(ctx context.Context, id int, fields map[string]any) (*identity.User, error) {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil, nil
}

func (m *MockIdentityRepository) Delete(ctx context.Context, id int) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

func newUserRouter(repo identity.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := handlers.NewUserHandler(identity.NewService(repo, zerolog.Nop()), zerolog.Nop())
	router := gin.New()
	router.POST("/v1/users", handler.Create)
	router.GET("/v1/users", handler.List)
	router.GET("/v1/users/search", handler.Search)
	router.GET("/v1/users/:id", handler.Get)
	router.PATCH("/v1/users/:id", handler.Update)
	router.DELETE("/v1/users/:id", handler.Delete)
	return router
}

func TestCreateUser(t *testing.T) {
	repo := &MockIdentityRepository{
		CreateFunc: func(ctx context.Context, user *identity.User) error {
			user.ID = 5
			return nil
		},
	}
	router := newUserRouter(repo)

	body := `{"name": "Alice", "email": "alice@example.com", "telegram_username": "alice_tan"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", recorder.Code, recorder.Body.String())
	}
	var payload responses.UserPayload
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if payload.ID != 5 || payload.Email != "alice@example.com" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestCreateUserConflict(t *testing.T) {
	repo := &MockIdentityRepository{
		CreateFunc: func(ctx context.Context, user *identity.User) error {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict, "user with this email already exists", nil)
		},
	}
	router := newUserRouter(repo)

	body := `{"name": "Alice", "email": "alice@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", recorder.Code)
	}
}

func TestCreateUserMissingFields(t *testing.T) {
	router := newUserRouter(&MockIdentityRepository{})

	req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewBufferString(`{"name": "Alice"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestGetUserNotFound(t *testing.T) {
	router := newUserRouter(&MockIdentityRepository{})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/42", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
}

func TestGetUserBadID(t *testing.T) {
	router := newUserRouter(&MockIdentityRepository{})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/abc", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestSearchUsersByHandle(t *testing.T) {
	repo := &MockIdentityRepository{
		SearchByHandleFunc: func(ctx context.Context, handle string) ([]identity.User, error) {
			if handle != "alice_tan" {
				t.Errorf("handle = %q, want alice_tan", handle)
			}
			return []identity.User{{ID: 1, Name: "Alice", Email: "alice@example.com"}}, nil
		},
	}
	router := newUserRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/search?handle=alice_tan", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var resp responses.UserListResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Name != "Alice" {
		t.Errorf("data = %+v", resp.Data)
	}
}

func TestSearchUsersRequiresHandle(t *testing.T) {
	router := newUserRouter(&MockIdentityRepository{})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/search", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestDeleteUser(t *testing.T) {
	repo := &MockIdentityRepository{
		DeleteFunc: func(ctx context.Context, id int) (bool, error) {
			return id == 5, nil
		},
	}
	router := newUserRouter(repo)

	req := httptest.NewRequest(http.MethodDelete, "/v1/users/5", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", recorder.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/v1/users/6", nil)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
}
