package repository

import (
	"context"
	"time"

	"pubreview/internal/pubreview/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (r *MongoRepository) FindBookmark(ctx context.Context, user, publication primitive.ObjectID) (*model.Bookmark, error) {
	return findOne[model.Bookmark](ctx, r.Bookmarks, bson.M{"user": user, "publication": publication})
}

func (r *MongoRepository) CreateBookmark(ctx context.Context, bookmark *model.Bookmark) error {
	bookmark.CreatedAt = time.Now()
	if bookmark.ID.IsZero() {
		bookmark.ID = primitive.NewObjectID()
	}

	_, err := r.Bookmarks.InsertOne(ctx, bookmark)
	return insertErr(err)
}

func (r *MongoRepository) DeleteBookmark(ctx context.Context, user, publication primitive.ObjectID) error {
	res, err := r.Bookmarks.DeleteOne(ctx, bson.M{"user": user, "publication": publication})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) ListBookmarkers(ctx context.Context, publication primitive.ObjectID, limit int64) ([]primitive.ObjectID, error) {
	return linkedIDs(ctx, r.Bookmarks, bson.M{"publication": publication}, "user", limit)
}

func (r *MongoRepository) ListBookmarks(ctx context.Context, user primitive.ObjectID, limit int64) ([]primitive.ObjectID, error) {
	return linkedIDs(ctx, r.Bookmarks, bson.M{"user": user}, "publication", limit)
}
