package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"split-server/internal/domain/identity"
	"split-server/internal/interfaces/httpserver/requests"
	"split-server/internal/interfaces/httpserver/responses"
	"split-server/internal/utils/platformerrors"
)

// UserHandler exposes admin CRUD for ledger identities.
type UserHandler struct {
	service *identity.Service
	log     zerolog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(service *identity.Service, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With().Str("handler", "user").Logger(),
	}
}

// Create handles POST /v1/users
// @Summary Create a user
// @Tags Users
// @Accept json
// @Produce json
// @Param request body requests.CreateUserRequest true "User"
// @Success 201 {object} responses.UserPayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req requests.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error())
		return
	}

	user, err := h.service.Create(c.Request.Context(), identity.CreateParams{
		Name:             req.Name,
		Email:            req.Email,
		TelegramUsername: req.TelegramUsername,
		WhatsappNumber:   req.WhatsappNumber,
		WhatsappLID:      req.WhatsappLID,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to create user")
		return
	}
	c.JSON(http.StatusCreated, responses.UserFromDomain(user))
}

// List handles GET /v1/users
// @Summary List users
// @Tags Users
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} responses.UserListResponse
// @Router /v1/users [get]
func (h *UserHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		responses.HandleError(c, err, "failed to list users")
		return
	}

	payload := make([]responses.UserPayload, 0, len(users))
	for i := range users {
		payload = append(payload, responses.UserFromDomain(&users[i]))
	}
	c.JSON(http.StatusOK, responses.UserListResponse{Data: payload})
}

// Get handles GET /v1/users/:id
// @Summary Get a user by ID
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} responses.UserPayload
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "id must be an integer")
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "failed to get user")
		return
	}
	c.JSON(http.StatusOK, responses.UserFromDomain(user))
}

// Search handles GET /v1/users/search?handle=...
// @Summary Search users by platform handle
// @Tags Users
// @Produce json
// @Param handle query string true "Platform handle"
// @Success 200 {object} responses.UserListResponse
// @Router /v1/users/search [get]
func (h *UserHandler) Search(c *gin.Context) {
	handle := c.Query("handle")
	if handle == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "handle query parameter is required")
		return
	}

	users, err := h.service.FindByHandle(c.Request.Context(), handle)
	if err != nil {
		responses.HandleError(c, err, "failed to search users")
		return
	}

	payload := make([]responses.UserPayload, 0, len(users))
	for i := range users {
		payload = append(payload, responses.UserFromDomain(&users[i]))
	}
	c.JSON(http.StatusOK, responses.UserListResponse{Data: payload})
}

// Update handles PATCH /v1/users/:id
// @Summary Patch a user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body requests.UpdateUserRequest true "Fields to update"
// @Success 200 {object} responses.UserPayload
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/users/{id} [patch]
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "id must be an integer")
		return
	}

	var req requests.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error())
		return
	}

	user, err := h.service.Update(c.Request.Context(), id, identity.Patch{
		Name:             req.Name,
		Email:            req.Email,
		TelegramUsername: req.TelegramUsername,
		WhatsappNumber:   req.WhatsappNumber,
		WhatsappLID:      req.WhatsappLID,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to update user")
		return
	}
	c.JSON(http.StatusOK, responses.UserFromDomain(user))
}

// Upsert handles POST /v1/users/upsert
// @Summary Upsert a user by email
// @Tags Users
// @Accept json
// @Produce json
// @Param request body requests.UpsertUserRequest true "User"
// @Success 200 {object} responses.UserPayload
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/users/upsert [post]
func (h *UserHandler) Upsert(c *gin.Context) {
	var req requests.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error())
		return
	}

	user, err := h.service.UpsertByEmail(c.Request.Context(), req.Email, identity.Patch{
		Name:             req.Name,
		TelegramUsername: req.TelegramUsername,
		WhatsappNumber:   req.WhatsappNumber,
		WhatsappLID:      req.WhatsappLID,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to upsert user")
		return
	}
	c.JSON(http.StatusOK, responses.UserFromDomain(user))
}

// Delete handles DELETE /v1/users/:id
// @Summary Delete a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 204 "No Content"
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "id must be an integer")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		responses.HandleError(c, err, "failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
