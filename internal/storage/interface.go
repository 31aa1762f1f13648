package storage

import (
	"context"
	"errors"
	"fmt"

	"taskmanager-api/internal/models"
)

var (
	ErrListNotFound     = errors.New("list not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrInvalidID        = errors.New("invalid identifier")
	ErrStoreUnavailable = errors.New("storage unavailable")
)

// unavailable wraps a driver failure so callers can match ErrStoreUnavailable
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// IDValidator reports whether an identifier has the format the backend generates
type IDValidator interface {
	ValidID(id string) bool
}

// ListStore owns list documents
type ListStore interface {
	IDValidator

	GetAllLists(ctx context.Context) ([]models.List, error)
	GetListByID(ctx context.Context, listID string) (*models.List, error)
	CreateList(ctx context.Context, req models.CreateListRequest) (*models.List, error)
	UpdateList(ctx context.Context, listID string, req models.UpdateListRequest) error
	DeleteList(ctx context.Context, listID string) (*models.List, error)
}

// TaskStore owns task documents. Every single-task operation matches on
// both the task ID and the owning list ID.
type TaskStore interface {
	IDValidator

	GetTasksByList(ctx context.Context, listID string) ([]models.Task, error)
	GetTaskByID(ctx context.Context, listID, taskID string) (*models.Task, error)
	CreateTask(ctx context.Context, listID string, req models.CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, listID, taskID string, req models.UpdateTaskRequest) error
	DeleteTask(ctx context.Context, listID, taskID string) (*models.Task, error)
}

// Store is a complete backend with its connection lifecycle
type Store interface {
	ListStore
	TaskStore

	// Init creates tables or indexes the backend needs
	Init(ctx context.Context) error
	Ping(ctx context.Context) error
	Driver() string
	Close() error
}
