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

func (r *MongoRepository) FindUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return findOne[model.User](ctx, r.Users, bson.M{"_id": id})
}

func (r *MongoRepository) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return findOne[model.User](ctx, r.Users, bson.M{"username": username})
}

func (r *MongoRepository) FindUserByLogin(ctx context.Context, login string) (*model.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": login},
		bson.M{"email": login},
	}}
	return findOne[model.User](ctx, r.Users, filter)
}

func (r *MongoRepository) FindUsersByUsernames(ctx context.Context, usernames []string) ([]*model.User, error) {
	if len(usernames) == 0 {
		return []*model.User{}, nil
	}
	return findMany[model.User](ctx, r.Users, bson.M{"username": bson.M{"$in": usernames}})
}

func (r *MongoRepository) FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	return findMany[model.User](ctx, r.Users, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoRepository) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	_, err := r.Users.InsertOne(ctx, user)
	return insertErr(err)
}

func (r *MongoRepository) UpdateUser(ctx context.Context, id primitive.ObjectID, patch model.UserPatch) (*model.User, error) {
	set := bson.M{"updated_at": time.Now()}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Username != nil {
		set["username"] = *patch.Username
	}
	if patch.FirstName != nil {
		set["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		set["last_name"] = *patch.LastName
	}
	if patch.About != nil {
		set["about"] = *patch.About
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	return r.updateUser(ctx, id, bson.M{"$set": set})
}

func (r *MongoRepository) UpdateUserRole(ctx context.Context, id primitive.ObjectID, role model.Role) (*model.User, error) {
	return r.updateUser(ctx, id, bson.M{"$set": bson.M{"role": role, "updated_at": time.Now()}})
}

func (r *MongoRepository) updateUser(ctx context.Context, id primitive.ObjectID, update bson.M) (*model.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user model.User
	err := r.Users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &user, nil
}

func (r *MongoRepository) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	return r.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		res, err := r.Users.DeleteOne(sessCtx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return ErrNotFound
		}

		pubIDs, err := r.publicationIDs(sessCtx, bson.M{"owner": id})
		if err != nil {
			return err
		}
		if _, err = r.Publications.DeleteMany(sessCtx, bson.M{"owner": id}); err != nil {
			return err
		}

		reviewFilter := bson.M{"$or": bson.A{
			bson.M{"owner": id},
			bson.M{"publication": bson.M{"$in": pubIDs}},
		}}
		reviewIDs, err := r.reviewIDs(sessCtx, reviewFilter)
		if err != nil {
			return err
		}
		if _, err = r.Reviews.DeleteMany(sessCtx, reviewFilter); err != nil {
			return err
		}

		commentFilter := bson.M{"$or": bson.A{
			bson.M{"owner": id},
			bson.M{"review": bson.M{"$in": reviewIDs}},
		}}
		if _, err = r.Comments.DeleteMany(sessCtx, commentFilter); err != nil {
			return err
		}

		followFilter := bson.M{"$or": bson.A{
			bson.M{"follower": id},
			bson.M{"following": id},
		}}
		if _, err = r.Follows.DeleteMany(sessCtx, followFilter); err != nil {
			return err
		}
		bookmarkFilter := bson.M{"$or": bson.A{
			bson.M{"user": id},
			bson.M{"publication": bson.M{"$in": pubIDs}},
		}}
		if _, err = r.Bookmarks.DeleteMany(sessCtx, bookmarkFilter); err != nil {
			return err
		}

		// Drop the user from every collaborator list
		_, err = r.Publications.UpdateMany(sessCtx,
			bson.M{"collaborators": id},
			bson.M{"$pull": bson.M{"collaborators": id}},
		)
		return err
	})
}
