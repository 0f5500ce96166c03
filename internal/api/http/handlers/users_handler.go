package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/api/dto"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/auth"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/service"
)

// UsersHandler exposes administrative account endpoints.
type UsersHandler struct {
	accounts *service.AccountService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accountService *service.AccountService) *UsersHandler {
	return &UsersHandler{accounts: accountService}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	var query dto.PageQuery
	if err := parseQuery(c, &query); err != nil {
		return err
	}
	page, limit := query.Values()

	result, err := h.accounts.List(c.UserContext(), page, limit)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Users fetched successfully",
		dto.NewUserListResponse(result.Items, result.Total, result.Page, result.Limit))
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "User")
	if err != nil {
		return err
	}
	user, err := h.accounts.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User fetched successfully", dto.NewUserResponse(user))
}

// Update handles PATCH /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "User")
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	identity, _ := auth.IdentityFromContext(c)

	user, err := h.accounts.Update(c.UserContext(), id, service.AccountUpdateInput{
		Name:     req.Name,
		IsBanned: req.IsBanned,
	}, identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User updated successfully", dto.NewUserResponse(user))
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "User")
	if err != nil {
		return err
	}
	identity, _ := auth.IdentityFromContext(c)

	if err := h.accounts.Delete(c.UserContext(), id, identity); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User deleted successfully", nil)
}

// Ban handles POST /users/:id/ban.
func (h *UsersHandler) Ban(c *fiber.Ctx) error {
	id, err := pathID(c, "User")
	if err != nil {
		return err
	}
	identity, _ := auth.IdentityFromContext(c)

	user, err := h.accounts.Ban(c.UserContext(), id, identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User banned successfully", dto.NewUserResponse(user))
}

// Unban handles POST /users/:id/unban.
func (h *UsersHandler) Unban(c *fiber.Ctx) error {
	id, err := pathID(c, "User")
	if err != nil {
		return err
	}
	identity, _ := auth.IdentityFromContext(c)

	user, err := h.accounts.Unban(c.UserContext(), id, identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User unbanned successfully", dto.NewUserResponse(user))
}
