package data

import (
	"context"
	"time"

	"github.com/groundline/todoserv/model"
	"github.com/mongodb/grip"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockTodoConnector is an in-memory Connector for testing route
// handlers without a database. Todos are kept in insertion order.
type MockTodoConnector struct {
	Todos []model.Todo

	// StoredError, when set, is returned from every method to
	// simulate a store failure.
	StoredError error
}

func (mc *MockTodoConnector) FindTodos(_ context.Context, page, limit int) ([]model.Todo, int, error) {
	if mc.StoredError != nil {
		return nil, 0, mc.StoredError
	}

	total := len(mc.Todos)
	start := model.PageSkip(page, limit)
	if start >= total {
		return []model.Todo{}, total, nil
	}

	end := start + limit
	if end > total {
		end = total
	}

	return mc.Todos[start:end], total, nil
}

func (mc *MockTodoConnector) FindTodoById(_ context.Context, todoId string) (*model.Todo, error) {
	id, err := parseTodoId(todoId)
	if err != nil {
		return nil, err
	}

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}

	for i := range mc.Todos {
		if mc.Todos[i].Id == id {
			return &mc.Todos[i], nil
		}
	}

	return nil, todoNotFound(todoId)
}

func (mc *MockTodoConnector) InsertTodo(_ context.Context, todo model.Todo) (*model.Todo, error) {
	if mc.StoredError != nil {
		return nil, mc.StoredError
	}

	if err := todo.Validate(); err != nil {
		return nil, validationFailed(err)
	}

	todo.Id = primitive.NewObjectID()
	todo.CreatedAt = time.Now()
	mc.Todos = append(mc.Todos, todo)

	return &todo, nil
}

func (mc *MockTodoConnector) InsertTodos(_ context.Context, todos []model.Todo) ([]model.Todo, error) {
	if mc.StoredError != nil {
		return nil, mc.StoredError
	}

	catcher := grip.NewBasicCatcher()
	for i := range todos {
		catcher.Wrapf(todos[i].Validate(), "todo at index %d", i)
	}
	if catcher.HasErrors() {
		return nil, validationFailed(catcher.Resolve())
	}

	now := time.Now()
	for i := range todos {
		todos[i].Id = primitive.NewObjectID()
		todos[i].CreatedAt = now
	}
	mc.Todos = append(mc.Todos, todos...)

	return todos, nil
}

func (mc *MockTodoConnector) UpdateTodoById(_ context.Context, todoId string, update model.TodoUpdate) (*model.Todo, error) {
	id, err := parseTodoId(todoId)
	if err != nil {
		return nil, err
	}

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}

	if err := update.Validate(); err != nil {
		return nil, validationFailed(err)
	}

	for i := range mc.Todos {
		if mc.Todos[i].Id != id {
			continue
		}

		if update.Title != nil {
			mc.Todos[i].Title = *update.Title
		}
		if update.Description != nil {
			mc.Todos[i].Description = *update.Description
		}
		if update.Status != nil {
			mc.Todos[i].Status = *update.Status
		}

		return &mc.Todos[i], nil
	}

	return nil, todoNotFound(todoId)
}

func (mc *MockTodoConnector) RemoveTodoById(_ context.Context, todoId string) error {
	id, err := parseTodoId(todoId)
	if err != nil {
		return err
	}

	if mc.StoredError != nil {
		return mc.StoredError
	}

	for i := range mc.Todos {
		if mc.Todos[i].Id == id {
			mc.Todos = append(mc.Todos[:i], mc.Todos[i+1:]...)
			return nil
		}
	}

	return todoNotFound(todoId)
}

var (
	_ Connector = (*MockTodoConnector)(nil)
	_ Connector = (*DBTodoConnector)(nil)
)
