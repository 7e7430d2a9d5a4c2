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

func (r *MongoRepository) FindReviewByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error) {
	return findOne[model.Review](ctx, r.Reviews, bson.M{"_id": id})
}

func (r *MongoRepository) FindReviewByOwner(ctx context.Context, publication, owner primitive.ObjectID) (*model.Review, error) {
	return findOne[model.Review](ctx, r.Reviews, bson.M{"publication": publication, "owner": owner})
}

func (r *MongoRepository) CountCompletedReviews(ctx context.Context, publication primitive.ObjectID) (int64, error) {
	return r.Reviews.CountDocuments(ctx, bson.M{
		"publication": publication,
		"status":      model.ReviewCompleted,
	})
}

func (r *MongoRepository) ListReviewsByOwner(ctx context.Context, owner primitive.ObjectID, includeStarted bool) ([]*model.Review, error) {
	filter := bson.M{"owner": owner}
	if !includeStarted {
		filter["status"] = model.ReviewCompleted
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[model.Review](ctx, r.Reviews, filter, opts)
}

func (r *MongoRepository) CreateReview(ctx context.Context, review *model.Review) error {
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	if review.Status == "" {
		review.Status = model.ReviewStarted
	}

	_, err := r.Reviews.InsertOne(ctx, review)
	return insertErr(err)
}

func (r *MongoRepository) CompleteReview(ctx context.Context, id primitive.ObjectID) (*model.Review, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": model.ReviewCompleted, "updated_at": time.Now()}}

	var review model.Review
	err := r.Reviews.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *MongoRepository) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	return r.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		res, err := r.Reviews.DeleteOne(sessCtx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return ErrNotFound
		}
		_, err = r.Comments.DeleteMany(sessCtx, bson.M{"review": id})
		return err
	})
}
