package db

import (
	"context"

	"github.com/groundline/todoserv"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// This package contains thin wrappers around the driver's collection
// operations. Every helper takes the environment explicitly; the
// caller owns the connection lifecycle.

// Insert inserts the specified item into the specified collection.
func Insert(ctx context.Context, env todoserv.Environment, collection string, item any) error {
	_, err := env.DB().Collection(collection).InsertOne(ctx, item)
	return errors.Wrap(err, "inserting document")
}

// InsertMany inserts all of the specified items into the specified
// collection as a single ordered operation.
func InsertMany(ctx context.Context, env todoserv.Environment, collection string, items ...any) error {
	if len(items) == 0 {
		return nil
	}

	_, err := env.DB().Collection(collection).InsertMany(ctx, items)
	return errors.Wrap(err, "inserting documents")
}

// FindOneId finds the document with the given _id and unmarshals it
// into out, returning ErrNotFound when no document matches.
func FindOneId(ctx context.Context, env todoserv.Environment, collection string, id, out any) error {
	res := env.DB().Collection(collection).FindOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err := res.Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		return errors.Wrap(err, "finding document")
	}

	return errors.Wrap(res.Decode(out), "decoding document")
}

// FindAll finds all documents matching the query with the given sort,
// skip, and limit applied, and unmarshals them into out. Zero skip and
// limit values are passed through, which the driver treats as no skip
// and no limit.
func FindAll(ctx context.Context, env todoserv.Environment, collection string, query, sort any, skip, limit int, out any) error {
	opts := options.Find()
	if sort != nil {
		opts.SetSort(sort)
	}
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := env.DB().Collection(collection).Find(ctx, query, opts)
	if err != nil {
		return errors.Wrap(err, "finding documents")
	}

	return errors.Wrap(cursor.All(ctx, out), "iterating and decoding documents")
}

// Count returns the number of documents matching the query.
func Count(ctx context.Context, env todoserv.Environment, collection string, query any) (int, error) {
	count, err := env.DB().Collection(collection).CountDocuments(ctx, query)
	return int(count), errors.Wrap(err, "counting documents")
}

// UpdateId updates the one _id-matching document in the collection,
// returning ErrNotFound when no document matches.
func UpdateId(ctx context.Context, env todoserv.Environment, collection string, id, update any) error {
	res, err := env.DB().Collection(collection).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		update,
	)
	if err != nil {
		return errors.Wrap(err, "updating document")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// RemoveId removes the one _id-matching document from the collection,
// returning ErrNotFound when no document matches.
func RemoveId(ctx context.Context, env todoserv.Environment, collection string, id any) error {
	res, err := env.DB().Collection(collection).DeleteOne(ctx,
		bson.D{{Key: "_id", Value: id}},
	)
	if err != nil {
		return errors.Wrap(err, "deleting document")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
