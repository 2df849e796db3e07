package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mci/portal-api/internal/core/domain"
	"github.com/mci/portal-api/internal/core/ports"
)

type InviteHandler struct {
	service ports.InvitationService
}

func NewInviteHandler(service ports.InvitationService) *InviteHandler {
	return &InviteHandler{service: service}
}

type verifyInviteRequest struct {
	Token string `json:"token"`
}

type verifyInviteResponse struct {
	Invitation *domain.Invitation `json:"invitation"`
}

// Verify handles POST /api/verify-invite.
//
// @Summary      Check an invitation token
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        body  body      verifyInviteRequest  true  "Invitation token"
// @Success      200   {object}  verifyInviteResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/verify-invite [post]
func (h *InviteHandler) Verify(c echo.Context) error {
	var req verifyInviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Token) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}

	inv, err := h.service.Verify(c.Request().Context(), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, verifyInviteResponse{Invitation: inv})
}
