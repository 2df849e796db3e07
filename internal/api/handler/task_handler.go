package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mci/portal-api/internal/core/ports"
)

type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List handles GET /api/mci/tasks.
//
// @Summary      List tasks
// @Tags         mci
// @Produce      json
// @Security     SessionCookie
// @Param        meta  query     string  false  "Only tasks with this meta tag"
// @Success      200   {array}   domain.Task
// @Failure      500   {object}  errorResponse
// @Router       /api/mci/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	tasks, err := h.service.ListTasks(c.Request().Context(), c.QueryParam("meta"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}
