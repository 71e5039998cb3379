package db

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned by the helpers in this package when an
// operation matches no document.
var ErrNotFound = errors.New("document not found")

// ResultsNotFound reports whether the error, at any level of wrapping,
// indicates that no document matched.
func ResultsNotFound(err error) bool {
	if err == nil {
		return false
	}

	cause := errors.Cause(err)
	return cause == ErrNotFound || cause == mongo.ErrNoDocuments
}
