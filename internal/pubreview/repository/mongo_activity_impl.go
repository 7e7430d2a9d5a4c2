package repository

import (
	"context"
	"time"

	"pubreview/internal/pubreview/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoRepository) CreateActivity(ctx context.Context, activity *model.Activity) error {
	now := time.Now()
	activity.CreatedAt = now
	activity.UpdatedAt = now
	activity.Live = false
	activity.CommittedAt = nil
	if activity.ID.IsZero() {
		activity.ID = primitive.NewObjectID()
	}

	_, err := r.Activities.InsertOne(ctx, activity)
	return insertErr(err)
}

func (r *MongoRepository) CommitActivity(ctx context.Context, id primitive.ObjectID, commit ActivityCommit) error {
	now := time.Now()
	set := bson.M{
		"live":         commit.Live,
		"committed_at": now,
		"updated_at":   now,
	}
	if commit.Metadata != nil {
		set["metadata"] = commit.Metadata
	}
	if commit.Document != nil {
		set["document"] = *commit.Document
	}

	res, err := r.Activities.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) DeleteActivity(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Activities.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) FindActivityByID(ctx context.Context, id primitive.ObjectID) (*model.Activity, error) {
	return findOne[model.Activity](ctx, r.Activities, bson.M{"_id": id})
}

func (r *MongoRepository) ListActivities(ctx context.Context, filter model.ActivityFilter) ([]*model.Activity, int64, error) {
	query := bson.M{"live": true}
	switch {
	case filter.Owner != nil:
		query["owner"] = *filter.Owner
	case len(filter.Owners) > 0:
		query["owner"] = bson.M{"$in": filter.Owners}
	}
	if len(filter.Visibility) > 0 {
		query["visibility"] = bson.M{"$in": filter.Visibility}
	}

	total, err := r.Activities.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(filter.Skip).
		SetLimit(filter.Take)
	activities, err := findMany[model.Activity](ctx, r.Activities, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

func (r *MongoRepository) ActivatePending(ctx context.Context, document primitive.ObjectID) (int64, error) {
	res, err := r.Activities.UpdateMany(ctx,
		bson.M{
			"document":     document,
			"live":         false,
			"committed_at": bson.M{"$ne": nil},
		},
		bson.M{"$set": bson.M{"live": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *MongoRepository) DeleteStaleProvisional(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.Activities.DeleteMany(ctx, bson.M{
		"live":         false,
		"committed_at": nil,
		"created_at":   bson.M{"$lt": before},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
