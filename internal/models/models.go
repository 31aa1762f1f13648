package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// List represents a named container of tasks
type List struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// BeforeCreate hook to generate UUID if not set
func (l *List) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Task represents a titled unit of work scoped to a list.
// ListID is a soft reference: nothing enforces that the list exists.
type Task struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	ListID    string    `gorm:"type:varchar(36);not null;index" json:"listId"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// BeforeCreate hook to generate UUID if not set
func (t *Task) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// CreateListRequest represents the request to create a list
type CreateListRequest struct {
	Title string `json:"title"`
}

// UpdateListRequest represents a partial list update
type UpdateListRequest struct {
	Title *string `json:"title,omitempty"`
}

// CreateTaskRequest represents the request to create a task
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// UpdateTaskRequest represents a partial task update.
// The owning list cannot be changed.
type UpdateTaskRequest struct {
	Title *string `json:"title,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationError reports a request field that failed validation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ErrTitleRequired is returned when a title is missing or blank
var ErrTitleRequired = &ValidationError{Field: "title", Message: "title is required and must not be blank"}

// NormalizeTitle trims surrounding whitespace and rejects blank titles
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrTitleRequired
	}
	return trimmed, nil
}

// NormalizeTitlePtr is NormalizeTitle for optional fields; nil means "leave unchanged"
func NormalizeTitlePtr(title *string) (*string, error) {
	if title == nil {
		return nil, nil
	}
	trimmed, err := NormalizeTitle(*title)
	if err != nil {
		return nil, err
	}
	return &trimmed, nil
}
