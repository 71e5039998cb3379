package model

import (
	"time"

	"github.com/evergreen-ci/utility"
	dbModel "github.com/groundline/todoserv/model"
)

// APITodo is the API-facing projection of a todo. The same projection
// is used on every read path: id, title, description, status, and
// creation time.
type APITodo struct {
	Id          *string    `json:"id,omitempty"`
	Title       *string    `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// BuildFromService converts a service layer todo to an APITodo.
func (t *APITodo) BuildFromService(todo dbModel.Todo) {
	t.Id = utility.ToStringPtr(todo.Id.Hex())
	t.Title = utility.ToStringPtr(todo.Title)
	if todo.Description != "" {
		t.Description = utility.ToStringPtr(todo.Description)
	}
	if todo.Status != "" {
		t.Status = utility.ToStringPtr(todo.Status)
	}
	if !todo.CreatedAt.IsZero() {
		t.CreatedAt = utility.ToTimePtr(todo.CreatedAt)
	}
}

// ToService converts an APITodo from a request body to a service layer
// todo. Id and CreatedAt are store-assigned and ignored here.
func (t *APITodo) ToService() dbModel.Todo {
	return dbModel.Todo{
		Title:       utility.FromStringPtr(t.Title),
		Description: utility.FromStringPtr(t.Description),
		Status:      utility.FromStringPtr(t.Status),
	}
}

// ToUpdate converts an APITodo from a request body to a partial
// update, preserving which fields the client actually sent.
func (t *APITodo) ToUpdate() dbModel.TodoUpdate {
	return dbModel.TodoUpdate{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
	}
}

// APIPaginationMetadata is the pagination block returned with the todo
// collection. PreviousPage and NextPage hold a page number, or the
// JSON literal false when there is no such page.
type APIPaginationMetadata struct {
	Page             int `json:"page"`
	Limit            int `json:"limit"`
	TotalPages       int `json:"totalPages"`
	PreviousPage     any `json:"previousPage"`
	NextPage         any `json:"nextPage"`
	TotalItems       int `json:"totalItems"`
	CurrentPageItems int `json:"currentPageItems"`
}

// NewPaginationMetadata builds the pagination block for one page of
// results. totalPages is the ceiling of totalItems over limit.
func NewPaginationMetadata(page, limit, totalItems, currentPageItems int) APIPaginationMetadata {
	totalPages := 0
	if limit > 0 {
		totalPages = (totalItems + limit - 1) / limit
	}

	metadata := APIPaginationMetadata{
		Page:             page,
		Limit:            limit,
		TotalPages:       totalPages,
		PreviousPage:     false,
		NextPage:         false,
		TotalItems:       totalItems,
		CurrentPageItems: currentPageItems,
	}

	if page > 1 {
		metadata.PreviousPage = page - 1
	}
	if page < totalPages {
		metadata.NextPage = page + 1
	}

	return metadata
}
