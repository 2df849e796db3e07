package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mci/portal-api/internal/api/metrics"
	"github.com/mci/portal-api/internal/core/ports"
)

type EmailHandler struct {
	service ports.MailService
}

func NewEmailHandler(service ports.MailService) *EmailHandler {
	return &EmailHandler{service: service}
}

type sendEmailRequest struct {
	To      string `json:"to"      validate:"required,email_list"`
	Subject string `json:"subject" validate:"required"`
	Text    string `json:"text"    validate:"required_without=HTML"`
	HTML    string `json:"html"`
}

// recipients splits a comma separated "to" field.
func recipients(to string) []string {
	var out []string
	for _, r := range strings.Split(to, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// Send handles POST /api/send-email.
//
// @Summary      Send a transactional e-mail
// @Tags         email
// @Accept       json
// @Produce      json
// @Param        body  body      sendEmailRequest  true  "Message"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      405   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/send-email [post]
func (h *EmailHandler) Send(c echo.Context) error {
	var req sendEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.service.Send(c.Request().Context(), ports.MailMessage{
		To:      recipients(req.To),
		Subject: req.Subject,
		Text:    req.Text,
		HTML:    req.HTML,
	})
	if err != nil {
		metrics.EmailsSentTotal.WithLabelValues("failed").Inc()
		return err
	}

	metrics.EmailsSentTotal.WithLabelValues("sent").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "email sent"})
}
