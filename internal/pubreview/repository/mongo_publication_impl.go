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

func (r *MongoRepository) FindPublicationByID(ctx context.Context, id primitive.ObjectID) (*model.Publication, error) {
	return findOne[model.Publication](ctx, r.Publications, bson.M{"_id": id})
}

func (r *MongoRepository) FindPublication(ctx context.Context, owner primitive.ObjectID, name, revision string) (*model.Publication, error) {
	filter := bson.M{"owner": owner, "name": name}
	if revision == "" {
		filter["current"] = true
	} else {
		filter["revision"] = revision
	}
	return findOne[model.Publication](ctx, r.Publications, filter)
}

func (r *MongoRepository) FindRevisions(ctx context.Context, owner primitive.ObjectID, name string) ([]*model.Publication, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[model.Publication](ctx, r.Publications, bson.M{"owner": owner, "name": name}, opts)
}

func (r *MongoRepository) FindPublicationsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Publication, error) {
	if len(ids) == 0 {
		return []*model.Publication{}, nil
	}
	return findMany[model.Publication](ctx, r.Publications, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoRepository) CountPublicationsByName(ctx context.Context, owner primitive.ObjectID, name string) (int64, error) {
	opts := options.Count().SetLimit(1)
	return r.Publications.CountDocuments(ctx, bson.M{"owner": owner, "name": name}, opts)
}

func (r *MongoRepository) ListPublications(ctx context.Context, filter PublicationFilter) ([]*model.Publication, int64, error) {
	query := bson.M{}
	if filter.Owner != nil {
		query["owner"] = *filter.Owner
	}
	if filter.Current != nil {
		query["current"] = *filter.Current
	}
	if !filter.Drafts {
		query["draft"] = false
	}

	total, err := r.Publications.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "pinned", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(filter.Skip).
		SetLimit(filter.Take)
	publications, err := findMany[model.Publication](ctx, r.Publications, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return publications, total, nil
}

func (r *MongoRepository) CreatePublication(ctx context.Context, publication *model.Publication) error {
	now := time.Now()
	publication.CreatedAt = now
	publication.UpdatedAt = now
	if publication.ID.IsZero() {
		publication.ID = primitive.NewObjectID()
	}
	if publication.Collaborators == nil {
		publication.Collaborators = []primitive.ObjectID{}
	}

	_, err := r.Publications.InsertOne(ctx, publication)
	return insertErr(err)
}

func (r *MongoRepository) UpdatePublication(ctx context.Context, id primitive.ObjectID, patch model.PublicationPatch) (*model.Publication, error) {
	set := bson.M{"updated_at": time.Now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Introduction != nil {
		set["introduction"] = *patch.Introduction
	}
	if patch.About != nil {
		set["about"] = *patch.About
	}
	if patch.Changelog != nil {
		set["changelog"] = *patch.Changelog
	}
	if patch.Pinned != nil {
		set["pinned"] = *patch.Pinned
	}
	if patch.Collaborators != nil {
		set["collaborators"] = *patch.Collaborators
	}
	return r.updatePublication(ctx, id, bson.M{"$set": set})
}

func (r *MongoRepository) PublishPublication(ctx context.Context, id primitive.ObjectID) (*model.Publication, error) {
	return r.updatePublication(ctx, id, bson.M{"$set": bson.M{"draft": false, "updated_at": time.Now()}})
}

func (r *MongoRepository) updatePublication(ctx context.Context, id primitive.ObjectID, update bson.M) (*model.Publication, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var publication model.Publication
	err := r.Publications.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&publication)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &publication, nil
}

func (r *MongoRepository) RevisePublication(ctx context.Context, previous, next *model.Publication) error {
	now := time.Now()
	next.CreatedAt = now
	next.UpdatedAt = now
	next.Current = true
	if next.ID.IsZero() {
		next.ID = primitive.NewObjectID()
	}

	return r.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		res, err := r.Publications.UpdateOne(sessCtx,
			bson.M{"_id": previous.ID, "current": true},
			bson.M{"$set": bson.M{"current": false, "updated_at": now}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}

		_, err = r.Publications.InsertOne(sessCtx, next)
		return insertErr(err)
	})
}

func (r *MongoRepository) DeletePublication(ctx context.Context, id primitive.ObjectID) error {
	return r.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var publication model.Publication
		err := r.Publications.FindOneAndDelete(sessCtx, bson.M{"_id": id}).Decode(&publication)
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if err = r.deleteDependentsOf(sessCtx, []primitive.ObjectID{id}); err != nil {
			return err
		}
		if !publication.Current {
			return nil
		}

		// Promote the most recent remaining revision
		opts := options.FindOneAndUpdate().SetSort(bson.D{{Key: "created_at", Value: -1}})
		err = r.Publications.FindOneAndUpdate(sessCtx,
			bson.M{"owner": publication.Owner, "name": publication.Name},
			bson.M{"$set": bson.M{"current": true, "updated_at": time.Now()}},
			opts,
		).Err()
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return err
	})
}

func (r *MongoRepository) DeletePublicationsByName(ctx context.Context, owner primitive.ObjectID, name string) (int64, error) {
	var deleted int64
	err := r.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		filter := bson.M{"owner": owner, "name": name}
		ids, err := r.publicationIDs(sessCtx, filter)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return ErrNotFound
		}

		res, err := r.Publications.DeleteMany(sessCtx, filter)
		if err != nil {
			return err
		}
		deleted = res.DeletedCount
		return r.deleteDependentsOf(sessCtx, ids)
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// deleteDependentsOf removes the reviews, comments and bookmarks of the given
// publications.
func (r *MongoRepository) deleteDependentsOf(ctx context.Context, publications []primitive.ObjectID) error {
	filter := bson.M{"publication": bson.M{"$in": publications}}
	if _, err := r.Comments.DeleteMany(ctx, filter); err != nil {
		return err
	}
	if _, err := r.Reviews.DeleteMany(ctx, filter); err != nil {
		return err
	}
	_, err := r.Bookmarks.DeleteMany(ctx, filter)
	return err
}

func (r *MongoRepository) publicationIDs(ctx context.Context, filter bson.M) ([]primitive.ObjectID, error) {
	return r.distinctIDs(ctx, r.Publications, filter)
}

func (r *MongoRepository) reviewIDs(ctx context.Context, filter bson.M) ([]primitive.ObjectID, error) {
	return r.distinctIDs(ctx, r.Reviews, filter)
}

func (r *MongoRepository) distinctIDs(ctx context.Context, coll *mongo.Collection, filter bson.M) ([]primitive.ObjectID, error) {
	values, err := coll.Distinct(ctx, "_id", filter)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
