package storage

import (
	"context"
	"errors"
	"time"

	"taskmanager-api/internal/models"

	"gorm.io/gorm"
)

// SQLStorage implements storage on a relational database through GORM
type SQLStorage struct {
	db     *gorm.DB
	driver string
}

// NewSQLStorage creates a new SQL storage instance on an open connection
func NewSQLStorage(db *gorm.DB, driver string) *SQLStorage {
	return &SQLStorage{db: db, driver: driver}
}

// Driver returns the dialect name
func (s *SQLStorage) Driver() string { return s.driver }

// ValidID reports whether id is a UUID
func (s *SQLStorage) ValidID(id string) bool { return validUUID(id) }

// Init creates or updates the lists and tasks tables
func (s *SQLStorage) Init(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.List{}, &models.Task{}); err != nil {
		return unavailable("init schema", err)
	}
	return nil
}

// Ping checks that the database answers
func (s *SQLStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return unavailable("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Close closes the underlying connection pool
func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetAllLists returns every list in creation order
func (s *SQLStorage) GetAllLists(ctx context.Context) ([]models.List, error) {
	lists := make([]models.List, 0)
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&lists).Error; err != nil {
		return nil, unavailable("get lists", err)
	}
	return lists, nil
}

// GetListByID retrieves a list by ID
func (s *SQLStorage) GetListByID(ctx context.Context, listID string) (*models.List, error) {
	if !validUUID(listID) {
		return nil, ErrInvalidID
	}

	var list models.List
	if err := s.db.WithContext(ctx).First(&list, "id = ?", listID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, unavailable("get list", err)
	}
	return &list, nil
}

// CreateList creates a new list
func (s *SQLStorage) CreateList(ctx context.Context, req models.CreateListRequest) (*models.List, error) {
	title, err := models.NormalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}

	list := &models.List{Title: title}
	if err := s.db.WithContext(ctx).Create(list).Error; err != nil {
		return nil, unavailable("create list", err)
	}
	return list, nil
}

// UpdateList applies a partial update to a list
func (s *SQLStorage) UpdateList(ctx context.Context, listID string, req models.UpdateListRequest) error {
	if !validUUID(listID) {
		return ErrInvalidID
	}
	title, err := models.NormalizeTitlePtr(req.Title)
	if err != nil {
		return err
	}

	query := s.db.WithContext(ctx).Model(&models.List{}).Where("id = ?", listID)
	return applyUpdate(query, title, ErrListNotFound, "update list")
}

// DeleteList removes a list and returns it. Tasks of the list are kept.
func (s *SQLStorage) DeleteList(ctx context.Context, listID string) (*models.List, error) {
	if !validUUID(listID) {
		return nil, ErrInvalidID
	}

	var list models.List
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", listID).First(&list).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", listID).Delete(&models.List{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, unavailable("delete list", err)
	}
	return &list, nil
}

// GetTasksByList returns the tasks of a list in creation order
func (s *SQLStorage) GetTasksByList(ctx context.Context, listID string) ([]models.Task, error) {
	if !validUUID(listID) {
		return nil, ErrInvalidID
	}

	tasks := make([]models.Task, 0)
	if err := s.db.WithContext(ctx).Where("list_id = ?", listID).Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, unavailable("get tasks", err)
	}
	return tasks, nil
}

// GetTaskByID retrieves a task scoped to its list
func (s *SQLStorage) GetTaskByID(ctx context.Context, listID, taskID string) (*models.Task, error) {
	if !validUUID(listID) || !validUUID(taskID) {
		return nil, ErrInvalidID
	}

	var task models.Task
	if err := s.db.WithContext(ctx).Where("id = ? AND list_id = ?", taskID, listID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, unavailable("get task", err)
	}
	return &task, nil
}

// CreateTask creates a task under listID without checking that the list exists
func (s *SQLStorage) CreateTask(ctx context.Context, listID string, req models.CreateTaskRequest) (*models.Task, error) {
	if !validUUID(listID) {
		return nil, ErrInvalidID
	}
	title, err := models.NormalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:  title,
		ListID: listID,
	}
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, unavailable("create task", err)
	}
	return task, nil
}

// UpdateTask applies a partial update to a task scoped to its list
func (s *SQLStorage) UpdateTask(ctx context.Context, listID, taskID string, req models.UpdateTaskRequest) error {
	if !validUUID(listID) || !validUUID(taskID) {
		return ErrInvalidID
	}
	title, err := models.NormalizeTitlePtr(req.Title)
	if err != nil {
		return err
	}

	query := s.db.WithContext(ctx).Model(&models.Task{}).Where("id = ? AND list_id = ?", taskID, listID)
	return applyUpdate(query, title, ErrTaskNotFound, "update task")
}

// DeleteTask removes a task scoped to its list and returns it
func (s *SQLStorage) DeleteTask(ctx context.Context, listID, taskID string) (*models.Task, error) {
	if !validUUID(listID) || !validUUID(taskID) {
		return nil, ErrInvalidID
	}

	var task models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND list_id = ?", taskID, listID).First(&task).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND list_id = ?", taskID, listID).Delete(&models.Task{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, unavailable("delete task", err)
	}
	return &task, nil
}

// applyUpdate sets the title on the row selected by query, or only checks
// that the row exists when there is nothing to change
func applyUpdate(query *gorm.DB, title *string, notFound error, op string) error {
	if title == nil {
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return unavailable(op, err)
		}
		if count == 0 {
			return notFound
		}
		return nil
	}

	// updated_at is always written so RowsAffected counts matched rows on MySQL too
	result := query.Updates(map[string]interface{}{
		"title":      *title,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return unavailable(op, result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}
