package data

import (
	"context"
	"fmt"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/groundline/todoserv"
	"github.com/groundline/todoserv/model"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DBTodoConnector is the database backed Connector implementation. It
// holds the environment it was constructed with; nothing in this
// package reaches for global state.
type DBTodoConnector struct {
	env todoserv.Environment
}

func NewDBTodoConnector(env todoserv.Environment) *DBTodoConnector {
	return &DBTodoConnector{env: env}
}

// parseTodoId checks the id syntactically before any store lookup.
func parseTodoId(todoId string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(todoId)
	if err != nil {
		return primitive.NilObjectID, gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("todo id '%s' is not a valid id", todoId),
		}
	}

	return id, nil
}

func todoNotFound(todoId string) gimlet.ErrorResponse {
	return gimlet.ErrorResponse{
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("todo '%s' not found", todoId),
	}
}

func validationFailed(err error) gimlet.ErrorResponse {
	return gimlet.ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    err.Error(),
	}
}

func (tc *DBTodoConnector) FindTodos(ctx context.Context, page, limit int) ([]model.Todo, int, error) {
	todos, total, err := model.FindPage(ctx, tc.env, page, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "finding todos")
	}

	return todos, total, nil
}

func (tc *DBTodoConnector) FindTodoById(ctx context.Context, todoId string) (*model.Todo, error) {
	id, err := parseTodoId(todoId)
	if err != nil {
		return nil, err
	}

	todo, err := model.FindOneId(ctx, tc.env, id)
	if err != nil {
		return nil, errors.Wrapf(err, "finding todo '%s'", todoId)
	}
	if todo == nil {
		return nil, todoNotFound(todoId)
	}

	return todo, nil
}

func (tc *DBTodoConnector) InsertTodo(ctx context.Context, todo model.Todo) (*model.Todo, error) {
	if err := todo.Validate(); err != nil {
		return nil, validationFailed(err)
	}

	if err := todo.Insert(ctx, tc.env); err != nil {
		return nil, errors.Wrap(err, "inserting todo")
	}

	return &todo, nil
}

func (tc *DBTodoConnector) InsertTodos(ctx context.Context, todos []model.Todo) ([]model.Todo, error) {
	catcher := grip.NewBasicCatcher()
	for i := range todos {
		catcher.Wrapf(todos[i].Validate(), "todo at index %d", i)
	}
	if catcher.HasErrors() {
		return nil, validationFailed(catcher.Resolve())
	}

	inserted, err := model.InsertMany(ctx, tc.env, todos)
	if err != nil {
		return nil, errors.Wrap(err, "inserting todos")
	}

	return inserted, nil
}

func (tc *DBTodoConnector) UpdateTodoById(ctx context.Context, todoId string, update model.TodoUpdate) (*model.Todo, error) {
	id, err := parseTodoId(todoId)
	if err != nil {
		return nil, err
	}

	if err := update.Validate(); err != nil {
		return nil, validationFailed(err)
	}

	todo, err := model.UpdateOneId(ctx, tc.env, id, update)
	if err != nil {
		return nil, errors.Wrapf(err, "updating todo '%s'", todoId)
	}
	if todo == nil {
		return nil, todoNotFound(todoId)
	}

	return todo, nil
}

func (tc *DBTodoConnector) RemoveTodoById(ctx context.Context, todoId string) error {
	id, err := parseTodoId(todoId)
	if err != nil {
		return err
	}

	removed, err := model.RemoveOneId(ctx, tc.env, id)
	if err != nil {
		return errors.Wrapf(err, "removing todo '%s'", todoId)
	}
	if !removed {
		return todoNotFound(todoId)
	}

	return nil
}
