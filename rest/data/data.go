/*
Package data abstracts the link between the REST route handlers and the
service layer. Route handlers only see the Connector interface, so they
can run against the database backed implementation in production and
the in-memory mock in tests.

Connector methods classify the failures a client can correct into
gimlet.ErrorResponse values carrying the right status code: a
syntactically invalid id or a schema violation is a 400, a well-formed
id with no matching todo is a 404. Any other error is an internal
failure and is returned wrapped for the route to log and map to a 500.
*/
package data

import (
	"context"

	"github.com/groundline/todoserv/model"
)

// Connector is the interface through which route handlers reach the
// todo store.
type Connector interface {
	// FindTodos returns one page of todos and the total count of all
	// todos.
	FindTodos(ctx context.Context, page, limit int) ([]model.Todo, int, error)
	// FindTodoById returns the todo with the given id.
	FindTodoById(ctx context.Context, todoId string) (*model.Todo, error)
	// InsertTodo validates and inserts a single todo.
	InsertTodo(ctx context.Context, todo model.Todo) (*model.Todo, error)
	// InsertTodos validates and inserts a batch of todos as a single
	// all-or-nothing operation.
	InsertTodos(ctx context.Context, todos []model.Todo) ([]model.Todo, error)
	// UpdateTodoById applies a partial update and returns the
	// post-update todo.
	UpdateTodoById(ctx context.Context, todoId string, update model.TodoUpdate) (*model.Todo, error)
	// RemoveTodoById permanently removes the todo with the given id.
	RemoveTodoById(ctx context.Context, todoId string) error
}
