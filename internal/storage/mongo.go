package storage

import (
	"context"
	"errors"

	"taskmanager-api/internal/config"
	"taskmanager-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	listsCollection = "lists"
	tasksCollection = "tasks"
)

// listDocument is the stored shape of a list
type listDocument struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Title string             `bson:"title"`
}

func (d listDocument) toModel() models.List {
	return models.List{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		CreatedAt: d.ID.Timestamp(),
	}
}

// taskDocument is the stored shape of a task; the owner is kept as an
// ObjectID under _listId
type taskDocument struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Title  string             `bson:"title"`
	ListID primitive.ObjectID `bson:"_listId"`
}

func (d taskDocument) toModel() models.Task {
	return models.Task{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		ListID:    d.ListID.Hex(),
		CreatedAt: d.ID.Timestamp(),
	}
}

// MongoStorage implements storage on MongoDB collections
type MongoStorage struct {
	client *mongo.Client
	lists  *mongo.Collection
	tasks  *mongo.Collection
}

// NewMongoStorage creates a storage instance on a connected client
func NewMongoStorage(client *mongo.Client, database string) *MongoStorage {
	db := client.Database(database)
	return &MongoStorage{
		client: client,
		lists:  db.Collection(listsCollection),
		tasks:  db.Collection(tasksCollection),
	}
}

// Driver returns the backend name
func (s *MongoStorage) Driver() string { return config.DriverMongo }

// ValidID reports whether id is a 24-character hex ObjectID
func (s *MongoStorage) ValidID(id string) bool { return primitive.IsValidObjectID(id) }

// Init creates the index used by list-scoped task queries
func (s *MongoStorage) Init(ctx context.Context) error {
	_, err := s.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "_listId", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("listId_id"),
	})
	if err != nil {
		return unavailable("init indexes", err)
	}
	return nil
}

// Ping checks that the primary answers
func (s *MongoStorage) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Close disconnects the client
func (s *MongoStorage) Close() error {
	return s.client.Disconnect(context.Background())
}

// GetAllLists returns every list in creation order
func (s *MongoStorage) GetAllLists(ctx context.Context) ([]models.List, error) {
	var docs []listDocument
	if err := s.findAll(ctx, s.lists, bson.M{}, &docs); err != nil {
		return nil, unavailable("get lists", err)
	}

	lists := make([]models.List, 0, len(docs))
	for _, d := range docs {
		lists = append(lists, d.toModel())
	}
	return lists, nil
}

// GetListByID retrieves a list by ID
func (s *MongoStorage) GetListByID(ctx context.Context, listID string) (*models.List, error) {
	id, err := primitive.ObjectIDFromHex(listID)
	if err != nil {
		return nil, ErrInvalidID
	}

	var doc listDocument
	if err := s.lists.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListNotFound
		}
		return nil, unavailable("get list", err)
	}
	list := doc.toModel()
	return &list, nil
}

// CreateList creates a new list
func (s *MongoStorage) CreateList(ctx context.Context, req models.CreateListRequest) (*models.List, error) {
	title, err := models.NormalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}

	doc := listDocument{ID: primitive.NewObjectID(), Title: title}
	if _, err := s.lists.InsertOne(ctx, doc); err != nil {
		return nil, unavailable("create list", err)
	}
	list := doc.toModel()
	return &list, nil
}

// UpdateList applies a partial update to a list
func (s *MongoStorage) UpdateList(ctx context.Context, listID string, req models.UpdateListRequest) error {
	id, err := primitive.ObjectIDFromHex(listID)
	if err != nil {
		return ErrInvalidID
	}
	title, err := models.NormalizeTitlePtr(req.Title)
	if err != nil {
		return err
	}

	return s.updateOne(ctx, s.lists, bson.M{"_id": id}, title, ErrListNotFound, "update list")
}

// DeleteList removes a list and returns it. Tasks of the list are kept.
func (s *MongoStorage) DeleteList(ctx context.Context, listID string) (*models.List, error) {
	id, err := primitive.ObjectIDFromHex(listID)
	if err != nil {
		return nil, ErrInvalidID
	}

	var doc listDocument
	if err := s.lists.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListNotFound
		}
		return nil, unavailable("delete list", err)
	}
	list := doc.toModel()
	return &list, nil
}

// GetTasksByList returns the tasks of a list in creation order
func (s *MongoStorage) GetTasksByList(ctx context.Context, listID string) ([]models.Task, error) {
	id, err := primitive.ObjectIDFromHex(listID)
	if err != nil {
		return nil, ErrInvalidID
	}

	var docs []taskDocument
	if err := s.findAll(ctx, s.tasks, bson.M{"_listId": id}, &docs); err != nil {
		return nil, unavailable("get tasks", err)
	}

	tasks := make([]models.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.toModel())
	}
	return tasks, nil
}

// GetTaskByID retrieves a task scoped to its list
func (s *MongoStorage) GetTaskByID(ctx context.Context, listID, taskID string) (*models.Task, error) {
	filter, err := taskFilter(listID, taskID)
	if err != nil {
		return nil, err
	}

	var doc taskDocument
	if err := s.tasks.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTaskNotFound
		}
		return nil, unavailable("get task", err)
	}
	task := doc.toModel()
	return &task, nil
}

// CreateTask creates a task under listID without checking that the list exists
func (s *MongoStorage) CreateTask(ctx context.Context, listID string, req models.CreateTaskRequest) (*models.Task, error) {
	owner, err := primitive.ObjectIDFromHex(listID)
	if err != nil {
		return nil, ErrInvalidID
	}
	title, err := models.NormalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}

	doc := taskDocument{ID: primitive.NewObjectID(), Title: title, ListID: owner}
	if _, err := s.tasks.InsertOne(ctx, doc); err != nil {
		return nil, unavailable("create task", err)
	}
	task := doc.toModel()
	return &task, nil
}

// UpdateTask applies a partial update to a task scoped to its list
func (s *MongoStorage) UpdateTask(ctx context.Context, listID, taskID string, req models.UpdateTaskRequest) error {
	filter, err := taskFilter(listID, taskID)
	if err != nil {
		return err
	}
	title, err := models.NormalizeTitlePtr(req.Title)
	if err != nil {
		return err
	}

	return s.updateOne(ctx, s.tasks, filter, title, ErrTaskNotFound, "update task")
}

// DeleteTask removes a task scoped to its list and returns it
func (s *MongoStorage) DeleteTask(ctx context.Context, listID, taskID string) (*models.Task, error) {
	filter, err := taskFilter(listID, taskID)
	if err != nil {
		return nil, err
	}

	var doc taskDocument
	if err := s.tasks.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTaskNotFound
		}
		return nil, unavailable("delete task", err)
	}
	task := doc.toModel()
	return &task, nil
}

// findAll decodes every document matching filter, oldest first
func (s *MongoStorage) findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}) error {
	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

// updateOne sets the title on the document matching filter, or only checks
// that it exists when there is nothing to change
func (s *MongoStorage) updateOne(ctx context.Context, coll *mongo.Collection, filter bson.M, title *string, notFound error, op string) error {
	if title == nil {
		count, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
		if err != nil {
			return unavailable(op, err)
		}
		if count == 0 {
			return notFound
		}
		return nil
	}

	result, err := coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"title": *title}})
	if err != nil {
		return unavailable(op, err)
	}
	if result.MatchedCount == 0 {
		return notFound
	}
	return nil
}

// taskFilter builds the scoped predicate: task ID and owning list ID together
func taskFilter(listID, taskID string) (bson.M, error) {
	owner, err := primitive.ObjectIDFromHex(listID)
	if err != nil {
		return nil, ErrInvalidID
	}
	id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, ErrInvalidID
	}
	return bson.M{"_id": id, "_listId": owner}, nil
}
