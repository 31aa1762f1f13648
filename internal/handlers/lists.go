package handlers

import (
	"net/http"

	"taskmanager-api/internal/models"
	"taskmanager-api/internal/storage"

	"github.com/gin-gonic/gin"
)

// ListHandler handles list operations
type ListHandler struct {
	store          storage.ListStore
	strictNotFound bool
}

// NewListHandler creates a new list handler. With strictNotFound set,
// lookups that match nothing answer 404 instead of 200.
func NewListHandler(store storage.ListStore, strictNotFound bool) *ListHandler {
	return &ListHandler{store: store, strictNotFound: strictNotFound}
}

// GetAllLists handles GET /lists
func (h *ListHandler) GetAllLists(c *gin.Context) {
	lists, err := h.store.GetAllLists(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lists)
}

// GetListByID handles GET /lists/:listId
func (h *ListHandler) GetListByID(c *gin.Context) {
	list, err := h.store.GetListByID(c.Request.Context(), c.Param("listId"))
	respondDocument(c, list, err, h.strictNotFound)
}

// CreateList handles POST /lists
func (h *ListHandler) CreateList(c *gin.Context) {
	var req models.CreateListRequest
	if !bindJSON(c, &req) {
		return
	}

	list, err := h.store.CreateList(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// UpdateList handles PATCH /lists/:listId
func (h *ListHandler) UpdateList(c *gin.Context) {
	var req models.UpdateListRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.store.UpdateList(c.Request.Context(), c.Param("listId"), req)
	respondUpdated(c, err, h.strictNotFound)
}

// DeleteList handles DELETE /lists/:listId. The list's tasks are left in place.
func (h *ListHandler) DeleteList(c *gin.Context) {
	list, err := h.store.DeleteList(c.Request.Context(), c.Param("listId"))
	respondDocument(c, list, err, h.strictNotFound)
}
