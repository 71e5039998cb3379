package route

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"testing"

	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/groundline/todoserv/model"
	"github.com/groundline/todoserv/rest/data"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TodoRouteSuite struct {
	sc *data.MockTodoConnector
	suite.Suite
}

func TestTodoRouteSuite(t *testing.T) {
	suite.Run(t, new(TodoRouteSuite))
}

func (s *TodoRouteSuite) SetupTest() {
	s.sc = &data.MockTodoConnector{}
}

func (s *TodoRouteSuite) insertTodo(title, status string) model.Todo {
	todo, err := s.sc.InsertTodo(context.Background(), model.Todo{Title: title, Status: status})
	s.Require().NoError(err)
	return *todo
}

func (s *TodoRouteSuite) TestFetchTodosEmptyCollection() {
	ctx := context.Background()
	route := makeFetchTodos(s.sc).(*todosGetHandler)

	req, err := http.NewRequest(http.MethodGet, "http://example.com/todo", nil)
	s.Require().NoError(err)
	s.NoError(route.Parse(ctx, req))
	s.Equal(1, route.page)
	s.Equal(10, route.limit)

	resp := route.Run(ctx)
	s.Equal(http.StatusOK, resp.Status())

	payload := resp.Data().(todosGetResponse)
	s.True(payload.Success)
	s.Empty(payload.Data.AllTodos)
	s.Equal(0, payload.Data.Pagination.TotalItems)
	s.Equal(0, payload.Data.Pagination.TotalPages)
	s.Equal(false, payload.Data.Pagination.PreviousPage)
	s.Equal(false, payload.Data.Pagination.NextPage)
}

func (s *TodoRouteSuite) TestFetchTodosSecondPage() {
	ctx := context.Background()
	s.insertTodo("first", model.StatusActive)
	second := s.insertTodo("second", model.StatusActive)

	route := makeFetchTodos(s.sc).(*todosGetHandler)
	req, err := http.NewRequest(http.MethodGet, "http://example.com/todo?page=2&limit=1", nil)
	s.Require().NoError(err)
	s.NoError(route.Parse(ctx, req))

	resp := route.Run(ctx)
	s.Equal(http.StatusOK, resp.Status())

	payload := resp.Data().(todosGetResponse)
	s.Require().Len(payload.Data.AllTodos, 1)
	s.Equal(second.Id.Hex(), utility.FromStringPtr(payload.Data.AllTodos[0].Id))
	s.Equal("second", utility.FromStringPtr(payload.Data.AllTodos[0].Title))

	pagination := payload.Data.Pagination
	s.Equal(2, pagination.Page)
	s.Equal(1, pagination.Limit)
	s.Equal(2, pagination.TotalPages)
	s.Equal(1, pagination.PreviousPage)
	s.Equal(false, pagination.NextPage)
	s.Equal(2, pagination.TotalItems)
	s.Equal(1, pagination.CurrentPageItems)
}

func (s *TodoRouteSuite) TestFetchTodosFallsBackToDefaults() {
	ctx := context.Background()
	route := makeFetchTodos(s.sc).(*todosGetHandler)

	req, err := http.NewRequest(http.MethodGet, "http://example.com/todo?page=-1&limit=abc", nil)
	s.Require().NoError(err)
	s.NoError(route.Parse(ctx, req))
	s.Equal(1, route.page)
	s.Equal(10, route.limit)
}

func (s *TodoRouteSuite) TestFetchTodosHugePageIsEmpty() {
	ctx := context.Background()
	s.insertTodo("first", model.StatusActive)
	s.insertTodo("second", model.StatusActive)

	route := makeFetchTodos(s.sc).(*todosGetHandler)
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("http://example.com/todo?page=%d&limit=10", math.MaxInt), nil)
	s.Require().NoError(err)
	s.NoError(route.Parse(ctx, req))

	resp := route.Run(ctx)
	s.Equal(http.StatusOK, resp.Status())

	payload := resp.Data().(todosGetResponse)
	s.Empty(payload.Data.AllTodos)
	s.Equal(2, payload.Data.Pagination.TotalItems)
	s.Equal(0, payload.Data.Pagination.CurrentPageItems)
}

func (s *TodoRouteSuite) TestFetchTodosStoreErrorIsInternal() {
	ctx := context.Background()
	s.sc.StoredError = errors.New("store is down")

	route := makeFetchTodos(s.sc).(*todosGetHandler)
	route.page = 1
	route.limit = 10

	resp := route.Run(ctx)
	s.Equal(http.StatusInternalServerError, resp.Status())
}

func (s *TodoRouteSuite) TestFetchTodoById() {
	ctx := context.Background()
	todo := s.insertTodo("buy milk", model.StatusActive)

	route := makeFetchTodoById(s.sc).(*todoGetByIdHandler)
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("http://example.com/todo/%s", todo.Id.Hex()), nil)
	s.Require().NoError(err)
	req = gimlet.SetURLVars(req, map[string]string{"todo_id": todo.Id.Hex()})
	s.NoError(route.Parse(ctx, req))

	resp := route.Run(ctx)
	s.Equal(http.StatusOK, resp.Status())

	payload := resp.Data().(singleTodoResponse)
	s.Equal(todo.Id.Hex(), utility.FromStringPtr(payload.SingleTodo.Id))
	s.Equal("buy milk", utility.FromStringPtr(payload.SingleTodo.Title))
	s.Equal(model.StatusActive, utility.FromStringPtr(payload.SingleTodo.Status))
}

func (s *TodoRouteSuite) TestFetchTodoByIdRejectsMalformedId() {
	ctx := context.Background()
	route := makeFetchTodoById(s.sc).(*todoGetByIdHandler)
	route.todoId = "not-an-id"

	resp := route.Run(ctx)
	s.Equal(http.StatusBadRequest, resp.Status())
}

func (s *TodoRouteSuite) TestFetchTodoByIdNotFound() {
	ctx := context.Background()
	route := makeFetchTodoById(s.sc).(*todoGetByIdHandler)
	route.todoId = primitive.NewObjectID().Hex()

	resp := route.Run(ctx)
	s.Equal(http.StatusNotFound, resp.Status())
}

func (s *TodoRouteSuite) TestInsertTodo() {
	ctx := context.Background()
	route := makeInsertTodo(s.sc).(*todoPostHandler)

	req, err := http.NewRequest(http.MethodPost, "http://example.com/todo", bytes.NewBufferString(`{"title":"Buy milk"}`))
	s.Require().NoError(err)
	s.NoError(route.Parse(ctx, req))

	resp := route.Run(ctx)
	s.Equal(http.StatusCreated, resp.Status())

	payload := resp.Data().(todoResponse)
	s.Equal("Buy milk", utility.FromStringPtr(payload.Todo.Title))
	s.Nil(payload.Todo.Status)
	s.NotNil(payload.Todo.Id)
	s.NotNil(payload.Todo.CreatedAt)

	// the created todo is retrievable by the returned id
	getRoute := makeFetchTodoById(s.sc).(*todoGetByIdHandler)
	getRoute.todoId = utility.FromStringPtr(payload.Todo.Id)
	getResp := getRoute.Run(ctx)
	s.Equal(http.StatusOK, getResp.Status())
	s.Equal("Buy milk", utility.FromStringPtr(getResp.Data().(singleTodoResponse).SingleTodo.Title))
}

func (s *TodoRouteSuite) TestInsertTodoRequiresTitle() {
	ctx := context.Background()
	route := makeInsertTodo(s.sc).(*todoPostHandler)

	req, err := http.NewRequest(http.MethodPost, "http://example.com/todo", bytes.NewBufferString(`{}`))
	s.Require().NoError(err)
	s.NoError(route.Parse(ctx, req))

	resp := route.Run(ctx)
	s.Equal(http.StatusBadRequest, resp.Status())
	s.Empty(s.sc.Todos)
}

func (s *TodoRouteSuite) TestInsertTodoRejectsUnknownStatus() {
	ctx := context.Background()
	route := makeInsertTodo(s.sc).(*todoPostHandler)

	req, err := http.NewRequest(http.MethodPost, "http://example.com/todo", bytes.NewBufferString(`{"title":"Buy milk","status":"archived"}`))
	s.Require().NoError(err)
	s.NoError(route.Parse(ctx, req))

	resp := route.Run(ctx)
	s.Equal(http.StatusBadRequest, resp.Status())
	s.Empty(s.sc.Todos)
}

func (s *TodoRouteSuite) TestInsertManyTodos() {
	ctx := context.Background()
	route := makeInsertManyTodos(s.sc).(*todoBulkPostHandler)

	body := `[{"title":"first"},{"title":"second","status":"inactive"}]`
	req, err := http.NewRequest(http.MethodPost, "http://example.com/todo/all", bytes.NewBufferString(body))
	s.Require().NoError(err)
	s.NoError(route.Parse(ctx, req))

	resp := route.Run(ctx)
	s.Equal(http.StatusCreated, resp.Status())

	payload := resp.Data().(todoBulkResponse)
	s.Require().Len(payload.Todo, 2)
	s.Equal("first", utility.FromStringPtr(payload.Todo[0].Title))
	s.Equal("second", utility.FromStringPtr(payload.Todo[1].Title))
	s.NotNil(payload.Todo[0].Id)
	s.NotNil(payload.Todo[1].Id)
	s.Len(s.sc.Todos, 2)
}

func (s *TodoRouteSuite) TestInsertManyTodosRejectsNonArrayBody() {
	ctx := context.Background()
	route := makeInsertManyTodos(s.sc).(*todoBulkPostHandler)

	req, err := http.NewRequest(http.MethodPost, "http://example.com/todo/all", bytes.NewBufferString(`{"title":"first"}`))
	s.Require().NoError(err)

	err = route.Parse(ctx, req)
	s.Require().Error(err)

	respErr, ok := err.(gimlet.ErrorResponse)
	s.Require().True(ok)
	s.Equal(http.StatusBadRequest, respErr.StatusCode)
	s.Empty(s.sc.Todos)
}

func (s *TodoRouteSuite) TestInsertManyTodosRejectsNullBody() {
	ctx := context.Background()
	route := makeInsertManyTodos(s.sc).(*todoBulkPostHandler)

	req, err := http.NewRequest(http.MethodPost, "http://example.com/todo/all", bytes.NewBufferString(`null`))
	s.Require().NoError(err)

	err = route.Parse(ctx, req)
	s.Require().Error(err)

	respErr, ok := err.(gimlet.ErrorResponse)
	s.Require().True(ok)
	s.Equal(http.StatusBadRequest, respErr.StatusCode)
	s.Empty(s.sc.Todos)
}

func (s *TodoRouteSuite) TestInsertManyTodosIsAllOrNothing() {
	ctx := context.Background()
	route := makeInsertManyTodos(s.sc).(*todoBulkPostHandler)

	body := `[{"title":"first"},{"description":"no title here"}]`
	req, err := http.NewRequest(http.MethodPost, "http://example.com/todo/all", bytes.NewBufferString(body))
	s.Require().NoError(err)
	s.NoError(route.Parse(ctx, req))

	resp := route.Run(ctx)
	s.Equal(http.StatusBadRequest, resp.Status())
	s.Empty(s.sc.Todos)
}

func (s *TodoRouteSuite) TestUpdateTodoStatus() {
	ctx := context.Background()
	todo := s.insertTodo("buy milk", model.StatusActive)

	route := makeUpdateTodoById(s.sc).(*todoPutHandler)
	req, err := http.NewRequest(http.MethodPut, fmt.Sprintf("http://example.com/todo/%s", todo.Id.Hex()), bytes.NewBufferString(`{"status":"inactive"}`))
	s.Require().NoError(err)
	req = gimlet.SetURLVars(req, map[string]string{"todo_id": todo.Id.Hex()})
	s.NoError(route.Parse(ctx, req))

	resp := route.Run(ctx)
	s.Equal(http.StatusOK, resp.Status())

	payload := resp.Data().(todoResponse)
	s.Equal(model.StatusInactive, utility.FromStringPtr(payload.Todo.Status))
	s.Equal("buy milk", utility.FromStringPtr(payload.Todo.Title))
}

func (s *TodoRouteSuite) TestUpdateTodoRejectsEmptyTitle() {
	ctx := context.Background()
	todo := s.insertTodo("buy milk", model.StatusActive)

	route := makeUpdateTodoById(s.sc).(*todoPutHandler)
	req, err := http.NewRequest(http.MethodPut, fmt.Sprintf("http://example.com/todo/%s", todo.Id.Hex()), bytes.NewBufferString(`{"title":""}`))
	s.Require().NoError(err)
	req = gimlet.SetURLVars(req, map[string]string{"todo_id": todo.Id.Hex()})
	s.NoError(route.Parse(ctx, req))

	resp := route.Run(ctx)
	s.Equal(http.StatusBadRequest, resp.Status())
	s.Equal("buy milk", s.sc.Todos[0].Title)
}

func (s *TodoRouteSuite) TestUpdateTodoNotFound() {
	ctx := context.Background()
	route := makeUpdateTodoById(s.sc).(*todoPutHandler)
	route.todoId = primitive.NewObjectID().Hex()

	resp := route.Run(ctx)
	s.Equal(http.StatusNotFound, resp.Status())
}

func (s *TodoRouteSuite) TestUpdateTodoRejectsMalformedId() {
	ctx := context.Background()
	route := makeUpdateTodoById(s.sc).(*todoPutHandler)
	route.todoId = "not-an-id"

	resp := route.Run(ctx)
	s.Equal(http.StatusBadRequest, resp.Status())
}

func (s *TodoRouteSuite) TestRemoveTodoThenFetchIsNotFound() {
	ctx := context.Background()
	todo := s.insertTodo("buy milk", model.StatusActive)

	route := makeRemoveTodoById(s.sc).(*todoDeleteHandler)
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("http://example.com/todo/%s", todo.Id.Hex()), nil)
	s.Require().NoError(err)
	req = gimlet.SetURLVars(req, map[string]string{"todo_id": todo.Id.Hex()})
	s.NoError(route.Parse(ctx, req))

	resp := route.Run(ctx)
	s.Equal(http.StatusOK, resp.Status())
	s.Empty(s.sc.Todos)

	getRoute := makeFetchTodoById(s.sc).(*todoGetByIdHandler)
	getRoute.todoId = todo.Id.Hex()
	s.Equal(http.StatusNotFound, getRoute.Run(ctx).Status())
}

func (s *TodoRouteSuite) TestRemoveTodoNotFound() {
	ctx := context.Background()
	route := makeRemoveTodoById(s.sc).(*todoDeleteHandler)
	route.todoId = primitive.NewObjectID().Hex()

	resp := route.Run(ctx)
	s.Equal(http.StatusNotFound, resp.Status())
}

func (s *TodoRouteSuite) TestRemoveTodoRejectsMalformedId() {
	ctx := context.Background()
	route := makeRemoveTodoById(s.sc).(*todoDeleteHandler)
	route.todoId = "not-an-id"

	resp := route.Run(ctx)
	s.Equal(http.StatusBadRequest, resp.Status())
}
