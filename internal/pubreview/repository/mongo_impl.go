package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection        = "users"
	publicationsCollection = "publications"
	reviewsCollection      = "reviews"
	commentsCollection     = "comments"
	activitiesCollection   = "activities"
	followsCollection      = "follows"
	bookmarksCollection    = "bookmarks"
)

// MongoRepository implements every repository interface on a single database.
type MongoRepository struct {
	Users        *mongo.Collection
	Publications *mongo.Collection
	Reviews      *mongo.Collection
	Comments     *mongo.Collection
	Activities   *mongo.Collection
	Follows      *mongo.Collection
	Bookmarks    *mongo.Collection
	Client       *mongo.Client // cascading deletes and revisions run in transactions
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		Users:        db.Collection(usersCollection),
		Publications: db.Collection(publicationsCollection),
		Reviews:      db.Collection(reviewsCollection),
		Comments:     db.Collection(commentsCollection),
		Activities:   db.Collection(activitiesCollection),
		Follows:      db.Collection(followsCollection),
		Bookmarks:    db.Collection(bookmarksCollection),
		Client:       db.Client(),
	}
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_user_email"),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_user_username"),
		},
	})
	if err != nil {
		return err
	}

	// One document per revision, and at most one current revision per name
	_, err = r.Publications.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "owner", Value: 1},
				{Key: "name", Value: 1},
				{Key: "revision", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_publication_revision"),
		},
		{
			Keys: bson.D{
				{Key: "owner", Value: 1},
				{Key: "name", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_publication_current").
				SetPartialFilterExpression(bson.M{"current": true}),
		},
	})
	if err != nil {
		return err
	}

	// A reviewer holds one review per publication revision
	_, err = r.Reviews.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "publication", Value: 1},
			{Key: "owner", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_review_owner"),
	})
	if err != nil {
		return err
	}

	_, err = r.Comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "review", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("idx_comment_review"),
	})
	if err != nil {
		return err
	}

	_, err = r.Activities.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "live", Value: 1},
				{Key: "visibility", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_activity_feed"),
		},
		{
			Keys:    bson.D{{Key: "document", Value: 1}},
			Options: options.Index().SetName("idx_activity_document"),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().
				SetName("idx_activity_provisional").
				SetPartialFilterExpression(bson.M{"live": false}),
		},
	})
	if err != nil {
		return err
	}

	_, err = r.Follows.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "follower", Value: 1}, {Key: "following", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_follow"),
		},
		{
			Keys:    bson.D{{Key: "following", Value: 1}},
			Options: options.Index().SetName("idx_follow_following"),
		},
	})
	if err != nil {
		return err
	}

	_, err = r.Bookmarks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "publication", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_bookmark"),
		},
		{
			Keys:    bson.D{{Key: "publication", Value: 1}},
			Options: options.Index().SetName("idx_bookmark_publication"),
		},
	})
	return err
}

// withTransaction runs fn inside a session transaction.
func (r *MongoRepository) withTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) error) error {
	session, err := r.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOneOptions) (*T, error) {
	var out T
	err := coll.FindOne(ctx, filter, opts...).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []*T{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func insertErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}
