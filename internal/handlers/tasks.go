package handlers

import (
	"net/http"

	"taskmanager-api/internal/models"
	"taskmanager-api/internal/storage"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles task operations. Every route is nested under a list
// and every lookup is scoped to it.
type TaskHandler struct {
	store          storage.TaskStore
	strictNotFound bool
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(store storage.TaskStore, strictNotFound bool) *TaskHandler {
	return &TaskHandler{store: store, strictNotFound: strictNotFound}
}

// GetTasksByList handles GET /lists/:listId/tasks
func (h *TaskHandler) GetTasksByList(c *gin.Context) {
	tasks, err := h.store.GetTasksByList(c.Request.Context(), c.Param("listId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// GetTaskByID handles GET /lists/:listId/tasks/:taskId
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	task, err := h.store.GetTaskByID(c.Request.Context(), c.Param("listId"), c.Param("taskId"))
	respondDocument(c, task, err, h.strictNotFound)
}

// CreateTask handles POST /lists/:listId/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req models.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.store.CreateTask(c.Request.Context(), c.Param("listId"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask handles PATCH /lists/:listId/tasks/:taskId
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req models.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.store.UpdateTask(c.Request.Context(), c.Param("listId"), c.Param("taskId"), req)
	respondUpdated(c, err, h.strictNotFound)
}

// DeleteTask handles DELETE /lists/:listId/tasks/:taskId
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, err := h.store.DeleteTask(c.Request.Context(), c.Param("listId"), c.Param("taskId"))
	respondDocument(c, task, err, h.strictNotFound)
}
