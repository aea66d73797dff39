package handlers

import (
	"context"
	"net/http"
	"strconv"

	dom "taskflow/internal/domain"
	"taskflow/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TaskService is what the handlers need from the service layer.
type TaskService interface {
	List(ctx context.Context, f dom.TaskFilter) ([]dom.Task, error)
	Get(ctx context.Context, id int64) (dom.Task, error)
	Create(ctx context.Context, in dom.NewTask) (dom.Task, error)
	Update(ctx context.Context, id int64, in dom.NewTask) (dom.Task, error)
	Delete(ctx context.Context, id int64) error
}

type TaskHandler struct {
	svc    TaskService
	paging dto.Pagination
	log    logrus.FieldLogger
}

func NewTaskHandler(svc TaskService, paging dto.Pagination, log logrus.FieldLogger) *TaskHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TaskHandler{svc: svc, paging: paging, log: log}
}

// List godoc
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Param        done    query     bool    false  "Filter by completion"
// @Param        limit   query     int     false  "Max results"
// @Param        offset  query     int     false  "Rows to skip"
// @Param        page    query     int     false  "0-based page, used when offset is absent"
// @Param        sort    query     string  false  "id, title or done"
// @Param        order   query     string  false  "asc or desc"
// @Success      200  {object}  dto.ListTasksResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	f, err := dto.ParseListQuery(c.Request.URL.Query(), h.paging)
	if err != nil {
		h.writeError(c, err)
		return
	}
	list, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Tasks: tasksToResponses(list)})
}

// GetByID godoc
// @Summary      Get a task by ID
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.GetTaskResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	t, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GetTaskResponse{Task: taskToResponse(t)})
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	in, ok := h.bindTask(c)
	if !ok {
		return
	}
	t, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TaskMutationResponse{Status: "success", Task: taskToResponse(t)})
}

// Update godoc
// @Summary      Replace a task's title and done flag
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "Task ID"
// @Param        body  body      dto.TaskRequest  true  "Task body"
// @Success      200   {object}  dto.TaskMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	in, ok := h.bindTask(c)
	if !ok {
		return
	}
	t, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskMutationResponse{Status: "success", Task: taskToResponse(t)})
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.DeleteTaskResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteTaskResponse{Status: "success", Deleted: id})
}

func (h *TaskHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(c, dom.InvalidInput("id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (h *TaskHandler) bindTask(c *gin.Context) (dom.NewTask, bool) {
	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, bindError(err))
		return dom.NewTask{}, false
	}
	in, err := req.NewTask()
	if err != nil {
		h.writeError(c, err)
		return dom.NewTask{}, false
	}
	return in, true
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{ID: t.ID, Title: t.Title, Done: t.Done}
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}
