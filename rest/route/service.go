package route

import (
	"github.com/evergreen-ci/gimlet"
	"github.com/groundline/todoserv/rest/data"
)

// AttachHandler builds each of the route handlers this API implements
// and registers them on a new gimlet application, which the caller
// turns into an http.Handler.
func AttachHandler(sc data.Connector) *gimlet.APIApp {
	app := gimlet.NewApp()

	app.AddRoute("/todo").Get().RouteHandler(makeFetchTodos(sc))
	app.AddRoute("/todo").Post().RouteHandler(makeInsertTodo(sc))
	app.AddRoute("/todo/all").Post().RouteHandler(makeInsertManyTodos(sc))
	app.AddRoute("/todo/{todo_id}").Get().RouteHandler(makeFetchTodoById(sc))
	app.AddRoute("/todo/{todo_id}").Put().RouteHandler(makeUpdateTodoById(sc))
	app.AddRoute("/todo/{todo_id}").Delete().RouteHandler(makeRemoveTodoById(sc))

	return app
}
