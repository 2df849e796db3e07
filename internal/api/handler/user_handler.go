package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mci/portal-api/internal/core/domain"
	"github.com/mci/portal-api/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// userSummary is the public projection of a user; it has no password field.
type userSummary struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active *bool  `json:"active,omitempty"`
}

type usersResponse struct {
	Users []userSummary `json:"users"`
}

func toUserSummaries(users []*domain.User, withActive bool) []userSummary {
	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		s := userSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
		if withActive {
			active := u.Active
			s.Active = &active
		}
		out = append(out, s)
	}
	return out
}

// List handles GET /api/users. Access is restricted by the route's role check.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  usersResponse
// @Failure      403  {object}  errorResponse
// @Failure      405  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersResponse{Users: toUserSummaries(users, true)})
}

// ListActive handles GET /api/mci/users.
//
// @Summary      List active users
// @Tags         mci
// @Produce      json
// @Security     SessionCookie
// @Success      200  {array}   userSummary
// @Failure      500  {object}  errorResponse
// @Router       /api/mci/users [get]
func (h *UserHandler) ListActive(c echo.Context) error {
	users, err := h.service.ListActiveUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserSummaries(users, false))
}
