package repository

import (
	"context"
	"time"

	"pubreview/internal/pubreview/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoRepository) FindFollow(ctx context.Context, follower, following primitive.ObjectID) (*model.Follow, error) {
	return findOne[model.Follow](ctx, r.Follows, bson.M{"follower": follower, "following": following})
}

func (r *MongoRepository) CreateFollow(ctx context.Context, follow *model.Follow) error {
	follow.CreatedAt = time.Now()
	if follow.ID.IsZero() {
		follow.ID = primitive.NewObjectID()
	}

	_, err := r.Follows.InsertOne(ctx, follow)
	return insertErr(err)
}

func (r *MongoRepository) DeleteFollow(ctx context.Context, follower, following primitive.ObjectID) error {
	res, err := r.Follows.DeleteOne(ctx, bson.M{"follower": follower, "following": following})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) ListFollowers(ctx context.Context, user primitive.ObjectID, limit int64) ([]primitive.ObjectID, error) {
	return linkedIDs(ctx, r.Follows, bson.M{"following": user}, "follower", limit)
}

func (r *MongoRepository) ListFollowing(ctx context.Context, user primitive.ObjectID, limit int64) ([]primitive.ObjectID, error) {
	return linkedIDs(ctx, r.Follows, bson.M{"follower": user}, "following", limit)
}

// linkedIDs reads one id field out of the link documents matching filter,
// newest link first.
func linkedIDs(ctx context.Context, coll *mongo.Collection, filter bson.M, field string, limit int64) ([]primitive.ObjectID, error) {
	opts := options.Find().
		SetProjection(bson.M{field: 1}).
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	docs, err := findMany[bson.M](ctx, coll, filter, opts)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		if id, ok := (*doc)[field].(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
