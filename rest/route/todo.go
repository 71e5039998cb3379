package route

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/groundline/todoserv/model"
	"github.com/groundline/todoserv/rest/data"
	restModel "github.com/groundline/todoserv/rest/model"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// mapServiceError translates a connector failure into a responder. The
// connector signals client-correctable failures with
// gimlet.ErrorResponse; everything else is logged and surfaced as a
// generic 500 so internal error text never reaches the wire.
func mapServiceError(err error, operation string) gimlet.Responder {
	if respErr, ok := errors.Cause(err).(gimlet.ErrorResponse); ok {
		return gimlet.MakeJSONErrorResponder(respErr)
	}

	grip.Error(message.WrapError(err, message.Fields{
		"operation": operation,
	}))

	return gimlet.MakeJSONInternalErrorResponder(errors.New("internal server error"))
}

///////////////////////////////////////////////////////////////////////
//
// GET /todo

type todosGetHandler struct {
	page  int
	limit int
	sc    data.Connector
}

func makeFetchTodos(sc data.Connector) gimlet.RouteHandler {
	return &todosGetHandler{sc: sc}
}

func (h *todosGetHandler) Factory() gimlet.RouteHandler {
	return &todosGetHandler{sc: h.sc}
}

// Parse reads the page and limit query parameters, falling back to
// page 1 and limit 10 when either is absent or not a positive number.
func (h *todosGetHandler) Parse(ctx context.Context, r *http.Request) error {
	vals := r.URL.Query()
	h.page = getPage(vals)
	h.limit = getLimit(vals)

	return nil
}

type todosGetData struct {
	AllTodos   []restModel.APITodo             `json:"allTodos"`
	Pagination restModel.APIPaginationMetadata `json:"pagination"`
}

type todosGetResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    todosGetData `json:"data"`
}

func (h *todosGetHandler) Run(ctx context.Context) gimlet.Responder {
	todos, total, err := h.sc.FindTodos(ctx, h.page, h.limit)
	if err != nil {
		return mapServiceError(err, "finding todos")
	}

	apiTodos := make([]restModel.APITodo, 0, len(todos))
	for i := range todos {
		apiTodo := restModel.APITodo{}
		apiTodo.BuildFromService(todos[i])
		apiTodos = append(apiTodos, apiTodo)
	}

	return gimlet.NewJSONResponse(todosGetResponse{
		Success: true,
		Message: "todos retrieved successfully",
		Data: todosGetData{
			AllTodos:   apiTodos,
			Pagination: restModel.NewPaginationMetadata(h.page, h.limit, total, len(apiTodos)),
		},
	})
}

///////////////////////////////////////////////////////////////////////
//
// GET /todo/{todo_id}

type todoGetByIdHandler struct {
	todoId string
	sc     data.Connector
}

func makeFetchTodoById(sc data.Connector) gimlet.RouteHandler {
	return &todoGetByIdHandler{sc: sc}
}

func (h *todoGetByIdHandler) Factory() gimlet.RouteHandler {
	return &todoGetByIdHandler{sc: h.sc}
}

func (h *todoGetByIdHandler) Parse(ctx context.Context, r *http.Request) error {
	h.todoId = gimlet.GetVars(r)["todo_id"]

	return nil
}

type singleTodoResponse struct {
	Message    string            `json:"message"`
	SingleTodo restModel.APITodo `json:"singleTodo"`
}

func (h *todoGetByIdHandler) Run(ctx context.Context) gimlet.Responder {
	todo, err := h.sc.FindTodoById(ctx, h.todoId)
	if err != nil {
		return mapServiceError(err, "finding todo by id")
	}

	apiTodo := restModel.APITodo{}
	apiTodo.BuildFromService(*todo)

	return gimlet.NewJSONResponse(singleTodoResponse{
		Message:    "todo retrieved successfully",
		SingleTodo: apiTodo,
	})
}

///////////////////////////////////////////////////////////////////////
//
// POST /todo

type todoPostHandler struct {
	apiTodo restModel.APITodo
	sc      data.Connector
}

func makeInsertTodo(sc data.Connector) gimlet.RouteHandler {
	return &todoPostHandler{sc: sc}
}

func (h *todoPostHandler) Factory() gimlet.RouteHandler {
	return &todoPostHandler{sc: h.sc}
}

func (h *todoPostHandler) Parse(ctx context.Context, r *http.Request) error {
	body := utility.NewRequestReader(r)
	defer body.Close()

	if err := utility.ReadJSON(body, &h.apiTodo); err != nil {
		return gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    errors.Wrap(err, "reading todo from request body").Error(),
		}
	}

	return nil
}

type todoResponse struct {
	Message string            `json:"message"`
	Todo    restModel.APITodo `json:"todo"`
}

func (h *todoPostHandler) Run(ctx context.Context) gimlet.Responder {
	inserted, err := h.sc.InsertTodo(ctx, h.apiTodo.ToService())
	if err != nil {
		return mapServiceError(err, "inserting todo")
	}

	apiTodo := restModel.APITodo{}
	apiTodo.BuildFromService(*inserted)

	responder := gimlet.NewJSONResponse(todoResponse{
		Message: "todo was inserted successfully",
		Todo:    apiTodo,
	})
	if err := responder.SetStatus(http.StatusCreated); err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "setting HTTP status code to %d", http.StatusCreated))
	}

	return responder
}

///////////////////////////////////////////////////////////////////////
//
// POST /todo/all

type todoBulkPostHandler struct {
	apiTodos []restModel.APITodo
	sc       data.Connector
}

func makeInsertManyTodos(sc data.Connector) gimlet.RouteHandler {
	return &todoBulkPostHandler{sc: sc}
}

func (h *todoBulkPostHandler) Factory() gimlet.RouteHandler {
	return &todoBulkPostHandler{sc: h.sc}
}

// Parse requires the request body to be a JSON array of todos.
func (h *todoBulkPostHandler) Parse(ctx context.Context, r *http.Request) error {
	body := utility.NewRequestReader(r)
	defer body.Close()

	if err := utility.ReadJSON(body, &h.apiTodos); err != nil {
		return gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "request body should be an array of todos",
		}
	}
	// a JSON null unmarshals into a nil slice without error
	if h.apiTodos == nil {
		return gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "request body should be an array of todos",
		}
	}

	return nil
}

type todoBulkResponse struct {
	Message string              `json:"message"`
	Todo    []restModel.APITodo `json:"todo"`
}

func (h *todoBulkPostHandler) Run(ctx context.Context) gimlet.Responder {
	todos := make([]model.Todo, 0, len(h.apiTodos))
	for i := range h.apiTodos {
		todos = append(todos, h.apiTodos[i].ToService())
	}

	inserted, err := h.sc.InsertTodos(ctx, todos)
	if err != nil {
		return mapServiceError(err, "inserting todos")
	}

	apiTodos := make([]restModel.APITodo, 0, len(inserted))
	for i := range inserted {
		apiTodo := restModel.APITodo{}
		apiTodo.BuildFromService(inserted[i])
		apiTodos = append(apiTodos, apiTodo)
	}

	responder := gimlet.NewJSONResponse(todoBulkResponse{
		Message: "todos were inserted successfully",
		Todo:    apiTodos,
	})
	if err := responder.SetStatus(http.StatusCreated); err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "setting HTTP status code to %d", http.StatusCreated))
	}

	return responder
}

///////////////////////////////////////////////////////////////////////
//
// PUT /todo/{todo_id}

type todoPutHandler struct {
	todoId  string
	apiTodo restModel.APITodo
	sc      data.Connector
}

func makeUpdateTodoById(sc data.Connector) gimlet.RouteHandler {
	return &todoPutHandler{sc: sc}
}

func (h *todoPutHandler) Factory() gimlet.RouteHandler {
	return &todoPutHandler{sc: h.sc}
}

func (h *todoPutHandler) Parse(ctx context.Context, r *http.Request) error {
	h.todoId = gimlet.GetVars(r)["todo_id"]

	body := utility.NewRequestReader(r)
	defer body.Close()

	if err := utility.ReadJSON(body, &h.apiTodo); err != nil {
		return gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    errors.Wrap(err, "reading todo update from request body").Error(),
		}
	}

	return nil
}

func (h *todoPutHandler) Run(ctx context.Context) gimlet.Responder {
	updated, err := h.sc.UpdateTodoById(ctx, h.todoId, h.apiTodo.ToUpdate())
	if err != nil {
		return mapServiceError(err, "updating todo")
	}

	apiTodo := restModel.APITodo{}
	apiTodo.BuildFromService(*updated)

	return gimlet.NewJSONResponse(todoResponse{
		Message: "todo was updated successfully",
		Todo:    apiTodo,
	})
}

///////////////////////////////////////////////////////////////////////
//
// DELETE /todo/{todo_id}

type todoDeleteHandler struct {
	todoId string
	sc     data.Connector
}

func makeRemoveTodoById(sc data.Connector) gimlet.RouteHandler {
	return &todoDeleteHandler{sc: sc}
}

func (h *todoDeleteHandler) Factory() gimlet.RouteHandler {
	return &todoDeleteHandler{sc: h.sc}
}

func (h *todoDeleteHandler) Parse(ctx context.Context, r *http.Request) error {
	h.todoId = gimlet.GetVars(r)["todo_id"]

	return nil
}

type todoDeleteResponse struct {
	Message string `json:"message"`
}

func (h *todoDeleteHandler) Run(ctx context.Context) gimlet.Responder {
	if err := h.sc.RemoveTodoById(ctx, h.todoId); err != nil {
		return mapServiceError(err, "removing todo")
	}

	return gimlet.NewJSONResponse(todoDeleteResponse{
		Message: "todo was deleted successfully",
	})
}
