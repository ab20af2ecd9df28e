package handlers

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/SubashG45/Task-Management/internal/application"
	"github.com/SubashG45/Task-Management/internal/domain/entity"
	"github.com/SubashG45/Task-Management/internal/interface/middleware"
	"github.com/SubashG45/Task-Management/pkg/response"
	"github.com/SubashG45/Task-Management/pkg/validation"
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,taskpriority"`
	Status      string     `json:"status" binding:"omitempty,taskstatus"`
	DueDate     *time.Time `json:"dueDate"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority" binding:"omitempty,taskpriority"`
	Status      *string    `json:"status" binding:"omitempty,taskstatus"`
	Completed   *bool      `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,taskstatus"`
}

type listTasksQuery struct {
	Status   string `form:"status" binding:"omitempty,taskstatus"`
	Priority string `form:"priority" binding:"omitempty,taskpriority"`
	Search   string `form:"search"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	t, err := h.Svc.Create(c.Request.Context(), uid, application.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t, "task created")
}

func (h *TaskHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var q listTasksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid filters", validation.ToDetails(err))
		return
	}

	tasks, err := h.Svc.List(c.Request.Context(), uid, application.ListTasksInput{
		Status:   q.Status,
		Priority: q.Priority,
		Search:   q.Search,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, tasks, "tasks fetched")
}

func (h *TaskHandler) Update(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	t, err := h.Svc.Update(c.Request.Context(), uid, c.Param("id"), application.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, t, "task updated")
}

func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	t, err := h.Svc.UpdateStatus(c.Request.Context(), uid, c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, t, "task status updated")
}

func (h *TaskHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "task deleted successfully")
}

// ExportCSV streams the caller's full task set as a CSV attachment. The
// record set comes from the service already scoped and ordered; this handler
// only serializes it.
func (h *TaskHandler) ExportCSV(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	tasks, err := h.Svc.Export(c.Request.Context(), uid)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=tasks.csv")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"title", "description", "priority", "dueDate", "completed"})
	for _, t := range tasks {
		_ = w.Write(csvRecord(t))
	}
	w.Flush()
	if err := w.Error(); err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("csv export write failed")
	}
}

func (h *TaskHandler) Search(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.Search(c.Request.Context(), uid, q, size)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results")
}

func csvRecord(t entity.Task) []string {
	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Format(time.RFC3339)
	}
	return []string{t.Title, t.Description, t.Priority, due, strconv.FormatBool(t.Completed)}
}

// fail maps service errors onto transport codes. Store faults stay generic
// in the body; detail goes to the server log only.
func (h *TaskHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrTaskNotFound):
		response.Error[any](c, http.StatusNotFound, "task not found", nil)
	case errors.Is(err, application.ErrNoTasksToExport):
		response.Error[any](c, http.StatusNotFound, "no tasks to export", nil)
	case errors.Is(err, application.ErrTitleRequired),
		errors.Is(err, application.ErrInvalidPriority),
		errors.Is(err, application.ErrInvalidStatus):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("path", c.FullPath()).Error("task operation failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}
