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

func (r *MongoRepository) FindCommentByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	return findOne[model.Comment](ctx, r.Comments, bson.M{"_id": id, "deleted": false})
}

func (r *MongoRepository) FindCommentsByReview(ctx context.Context, review primitive.ObjectID) ([]*model.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return findMany[model.Comment](ctx, r.Comments, bson.M{"review": review, "deleted": false}, opts)
}

func (r *MongoRepository) FindThreadRoot(ctx context.Context, thread primitive.ObjectID) (*model.Comment, error) {
	return findOne[model.Comment](ctx, r.Comments, bson.M{"_id": thread, "replying": nil})
}

func (r *MongoRepository) FindCommentsByThread(ctx context.Context, thread primitive.ObjectID) ([]*model.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return findMany[model.Comment](ctx, r.Comments, bson.M{"thread": thread, "deleted": false}, opts)
}

func (r *MongoRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	// A comment that replies to nothing opens its own thread
	if comment.Thread.IsZero() {
		comment.Thread = comment.ID
	}

	_, err := r.Comments.InsertOne(ctx, comment)
	return insertErr(err)
}

func (r *MongoRepository) UpdateCommentContents(ctx context.Context, id primitive.ObjectID, contents string) (*model.Comment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{
		"contents":   contents,
		"edited":     true,
		"updated_at": time.Now(),
	}}

	var comment model.Comment
	err := r.Comments.FindOneAndUpdate(ctx, bson.M{"_id": id, "deleted": false}, update, opts).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment. A comment that opens a thread with replies
// is only marked deleted so the thread stays intact.
func (r *MongoRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	replies, err := r.Comments.CountDocuments(ctx, bson.M{"replying": id, "deleted": false}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}

	if replies > 0 {
		res, err := r.Comments.UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"deleted": true, "contents": "", "updated_at": time.Now()}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	}

	res, err := r.Comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
