package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskmanager-api/internal/config"
	"taskmanager-api/internal/models"

	"github.com/google/uuid"
)

type listEntry struct {
	list models.List
	seq  uint64
}

type taskEntry struct {
	task models.Task
	seq  uint64
}

// MemoryStorage provides in-memory storage for lists and tasks
type MemoryStorage struct {
	mu    sync.RWMutex
	seq   uint64                // insertion counter, keeps reads in creation order
	lists map[string]*listEntry // maps list ID to list
	tasks map[string]*taskEntry // maps task ID to task
}

// NewMemoryStorage creates a new in-memory storage instance
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		lists: make(map[string]*listEntry),
		tasks: make(map[string]*taskEntry),
	}
}

// Driver returns the backend name
func (s *MemoryStorage) Driver() string { return config.DriverMemory }

// Init is a no-op for the memory backend
func (s *MemoryStorage) Init(_ context.Context) error { return nil }

// Ping always succeeds for the memory backend
func (s *MemoryStorage) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory backend
func (s *MemoryStorage) Close() error { return nil }

// ValidID reports whether id is a UUID
func (s *MemoryStorage) ValidID(id string) bool { return validUUID(id) }

// nextSeq returns the next insertion number (must be called with lock held)
func (s *MemoryStorage) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// GetAllLists returns every list in creation order
func (s *MemoryStorage) GetAllLists(_ context.Context) ([]models.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*listEntry, 0, len(s.lists))
	for _, e := range s.lists {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	result := make([]models.List, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.list)
	}
	return result, nil
}

// GetListByID retrieves a list by ID
func (s *MemoryStorage) GetListByID(_ context.Context, listID string) (*models.List, error) {
	if !validUUID(listID) {
		return nil, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.lists[listID]
	if !exists {
		return nil, ErrListNotFound
	}
	listCopy := e.list
	return &listCopy, nil
}

// CreateList creates a new list
func (s *MemoryStorage) CreateList(_ context.Context, req models.CreateListRequest) (*models.List, error) {
	title, err := models.NormalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	e := &listEntry{
		list: models.List{
			ID:        uuid.NewString(),
			Title:     title,
			CreatedAt: now,
			UpdatedAt: now,
		},
		seq: s.nextSeq(),
	}
	s.lists[e.list.ID] = e

	listCopy := e.list
	return &listCopy, nil
}

// UpdateList applies a partial update to a list
func (s *MemoryStorage) UpdateList(_ context.Context, listID string, req models.UpdateListRequest) error {
	if !validUUID(listID) {
		return ErrInvalidID
	}
	title, err := models.NormalizeTitlePtr(req.Title)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.lists[listID]
	if !exists {
		return ErrListNotFound
	}
	if title != nil {
		e.list.Title = *title
		e.list.UpdatedAt = time.Now()
	}
	return nil
}

// DeleteList removes a list and returns it. Tasks of the list are kept.
func (s *MemoryStorage) DeleteList(_ context.Context, listID string) (*models.List, error) {
	if !validUUID(listID) {
		return nil, ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.lists[listID]
	if !exists {
		return nil, ErrListNotFound
	}
	delete(s.lists, listID)

	listCopy := e.list
	return &listCopy, nil
}

// GetTasksByList returns the tasks of a list in creation order
func (s *MemoryStorage) GetTasksByList(_ context.Context, listID string) ([]models.Task, error) {
	if !validUUID(listID) {
		return nil, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*taskEntry, 0)
	for _, e := range s.tasks {
		if e.task.ListID == listID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	result := make([]models.Task, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.task)
	}
	return result, nil
}

// GetTaskByID retrieves a task scoped to its list
func (s *MemoryStorage) GetTaskByID(_ context.Context, listID, taskID string) (*models.Task, error) {
	if !validUUID(listID) || !validUUID(taskID) {
		return nil, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.scopedTask(listID, taskID)
	if err != nil {
		return nil, err
	}
	taskCopy := e.task
	return &taskCopy, nil
}

// CreateTask creates a task under listID without checking that the list exists
func (s *MemoryStorage) CreateTask(_ context.Context, listID string, req models.CreateTaskRequest) (*models.Task, error) {
	if !validUUID(listID) {
		return nil, ErrInvalidID
	}
	title, err := models.NormalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	e := &taskEntry{
		task: models.Task{
			ID:        uuid.NewString(),
			Title:     title,
			ListID:    listID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		seq: s.nextSeq(),
	}
	s.tasks[e.task.ID] = e

	taskCopy := e.task
	return &taskCopy, nil
}

// UpdateTask applies a partial update to a task scoped to its list
func (s *MemoryStorage) UpdateTask(_ context.Context, listID, taskID string, req models.UpdateTaskRequest) error {
	if !validUUID(listID) || !validUUID(taskID) {
		return ErrInvalidID
	}
	title, err := models.NormalizeTitlePtr(req.Title)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.scopedTask(listID, taskID)
	if err != nil {
		return err
	}
	if title != nil {
		e.task.Title = *title
		e.task.UpdatedAt = time.Now()
	}
	return nil
}

// DeleteTask removes a task scoped to its list and returns it
func (s *MemoryStorage) DeleteTask(_ context.Context, listID, taskID string) (*models.Task, error) {
	if !validUUID(listID) || !validUUID(taskID) {
		return nil, ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.scopedTask(listID, taskID)
	if err != nil {
		return nil, err
	}
	delete(s.tasks, taskID)

	taskCopy := e.task
	return &taskCopy, nil
}

// scopedTask looks up a task by ID and list ID (must be called with lock held)
func (s *MemoryStorage) scopedTask(listID, taskID string) (*taskEntry, error) {
	e, exists := s.tasks[taskID]
	if !exists || e.task.ListID != listID {
		return nil, ErrTaskNotFound
	}
	return e, nil
}

// validUUID reports whether id is a canonical 36-character UUID
func validUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
