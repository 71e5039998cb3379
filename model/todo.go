package model

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/groundline/todoserv"
	"github.com/groundline/todoserv/db"
	"github.com/mongodb/anser/bsonutil"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const Collection = "todos"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Todo is the sole entity this service stores. The store assigns Id
// and CreatedAt at insert time; neither is ever mutated afterwards.
type Todo struct {
	Id          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      string             `bson:"status,omitempty" json:"status,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

var (
	IdKey          = bsonutil.MustHaveTag(Todo{}, "Id")
	TitleKey       = bsonutil.MustHaveTag(Todo{}, "Title")
	DescriptionKey = bsonutil.MustHaveTag(Todo{}, "Description")
	StatusKey      = bsonutil.MustHaveTag(Todo{}, "Status")
	CreatedAtKey   = bsonutil.MustHaveTag(Todo{}, "CreatedAt")
)

// IsValidStatus reports whether the given string is one of the
// enumerated todo statuses.
func IsValidStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}

// Validate checks the schema rules for a todo: title is required and
// non-empty, and status, when present, must be one of the enumerated
// values.
func (t *Todo) Validate() error {
	catcher := grip.NewBasicCatcher()

	catcher.NewWhen(strings.TrimSpace(t.Title) == "", "title is required")
	catcher.ErrorfWhen(t.Status != "" && !IsValidStatus(t.Status),
		"status '%s' is not valid, must be one of '%s' or '%s'", t.Status, StatusActive, StatusInactive)

	return catcher.Resolve()
}

// Insert writes the todo to the database, assigning its Id and
// CreatedAt if unset. Callers are expected to have validated the todo.
func (t *Todo) Insert(ctx context.Context, env todoserv.Environment) error {
	if t.Id.IsZero() {
		t.Id = primitive.NewObjectID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	return errors.Wrap(db.Insert(ctx, env, Collection, t), "inserting todo")
}

// InsertMany writes all of the given todos in one ordered operation,
// assigning ids and creation times, and returns the inserted todos.
func InsertMany(ctx context.Context, env todoserv.Environment, todos []Todo) ([]Todo, error) {
	if len(todos) == 0 {
		return todos, nil
	}

	now := time.Now()
	docs := make([]any, 0, len(todos))
	for i := range todos {
		if todos[i].Id.IsZero() {
			todos[i].Id = primitive.NewObjectID()
		}
		if todos[i].CreatedAt.IsZero() {
			todos[i].CreatedAt = now
		}
		docs = append(docs, todos[i])
	}

	if err := db.InsertMany(ctx, env, Collection, docs...); err != nil {
		return nil, errors.Wrap(err, "inserting todos")
	}

	return todos, nil
}

// FindOneId returns the todo with the given id, or nil if there is no
// such todo.
func FindOneId(ctx context.Context, env todoserv.Environment, id primitive.ObjectID) (*Todo, error) {
	t := &Todo{}
	err := db.FindOneId(ctx, env, Collection, id, t)
	if db.ResultsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "finding todo '%s'", id.Hex())
	}

	return t, nil
}

// PageSkip returns the number of documents to skip for a 1-indexed
// page of the given size. Page and limit values whose product would
// overflow yield a skip past any possible collection, so the page
// comes back empty instead of wrapping around to negative.
func PageSkip(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}

	return (page - 1) * limit
}

// FindPage returns one page of todos in insertion order along with the
// total number of todos across all pages. Page numbers start at 1.
func FindPage(ctx context.Context, env todoserv.Environment, page, limit int) ([]Todo, int, error) {
	todos := []Todo{}
	sort := bson.D{
		{Key: CreatedAtKey, Value: 1},
		{Key: IdKey, Value: 1},
	}

	if err := db.FindAll(ctx, env, Collection, bson.M{}, sort, PageSkip(page, limit), limit, &todos); err != nil {
		return nil, 0, errors.Wrap(err, "finding page of todos")
	}

	total, err := db.Count(ctx, env, Collection, bson.M{})
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting todos")
	}

	return todos, total, nil
}

// TodoUpdate describes a partial update to a todo. Nil fields are left
// unchanged; Id and CreatedAt can never be updated.
type TodoUpdate struct {
	Title       *string
	Description *string
	Status      *string
}

// Validate checks the schema rules for each field included in the
// update.
func (u *TodoUpdate) Validate() error {
	catcher := grip.NewBasicCatcher()

	catcher.NewWhen(u.Title != nil && strings.TrimSpace(*u.Title) == "", "title cannot be empty")
	if u.Status != nil && !IsValidStatus(*u.Status) {
		catcher.Errorf("status '%s' is not valid, must be one of '%s' or '%s'", *u.Status, StatusActive, StatusInactive)
	}

	return catcher.Resolve()
}

// HasChanges reports whether the update includes any field at all.
func (u *TodoUpdate) HasChanges() bool {
	return u.Title != nil || u.Description != nil || u.Status != nil
}

// SetDocument returns the $set document for the included fields.
func (u *TodoUpdate) SetDocument() bson.M {
	set := bson.M{}
	if u.Title != nil {
		set[TitleKey] = *u.Title
	}
	if u.Description != nil {
		set[DescriptionKey] = *u.Description
	}
	if u.Status != nil {
		set[StatusKey] = *u.Status
	}

	return set
}

// UpdateOneId applies the partial update to the todo with the given id
// and returns the post-update todo, or nil if there is no such todo.
func UpdateOneId(ctx context.Context, env todoserv.Environment, id primitive.ObjectID, update TodoUpdate) (*Todo, error) {
	if update.HasChanges() {
		err := db.UpdateId(ctx, env, Collection, id, bson.M{"$set": update.SetDocument()})
		if db.ResultsNotFound(err) {
			return nil, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "updating todo '%s'", id.Hex())
		}
	}

	return FindOneId(ctx, env, id)
}

// RemoveOneId removes the todo with the given id, reporting whether a
// todo was actually removed.
func RemoveOneId(ctx context.Context, env todoserv.Environment, id primitive.ObjectID) (bool, error) {
	err := db.RemoveId(ctx, env, Collection, id)
	if db.ResultsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "removing todo '%s'", id.Hex())
	}

	return true, nil
}
