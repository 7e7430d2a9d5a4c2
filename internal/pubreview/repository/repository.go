package repository

import (
	"context"
	"errors"
	"time"

	"pubreview/internal/pubreview/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrDuplicate = errors.New("duplicate record")
	ErrNotFound  = errors.New("record not found")
)

// Find* methods return (nil, nil) when no document matches.

type UserRepository interface {
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	// Match either the username or the email address
	FindUserByLogin(ctx context.Context, login string) (*model.User, error)
	FindUsersByUsernames(ctx context.Context, usernames []string) ([]*model.User, error)
	FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, id primitive.ObjectID, patch model.UserPatch) (*model.User, error)
	UpdateUserRole(ctx context.Context, id primitive.ObjectID, role model.Role) (*model.User, error)
	// Remove the account and every document it owns
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

// PublicationFilter selects publications for listing.
type PublicationFilter struct {
	Owner   *primitive.ObjectID
	Current *bool
	Drafts  bool
	Skip    int64
	Take    int64
}

type PublicationRepository interface {
	FindPublicationByID(ctx context.Context, id primitive.ObjectID) (*model.Publication, error)
	// An empty revision selects the current revision
	FindPublication(ctx context.Context, owner primitive.ObjectID, name, revision string) (*model.Publication, error)
	FindRevisions(ctx context.Context, owner primitive.ObjectID, name string) ([]*model.Publication, error)
	FindPublicationsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Publication, error)
	CountPublicationsByName(ctx context.Context, owner primitive.ObjectID, name string) (int64, error)
	ListPublications(ctx context.Context, filter PublicationFilter) ([]*model.Publication, int64, error)
	CreatePublication(ctx context.Context, publication *model.Publication) error
	UpdatePublication(ctx context.Context, id primitive.ObjectID, patch model.PublicationPatch) (*model.Publication, error)
	// Insert next as the current revision and demote previous
	RevisePublication(ctx context.Context, previous, next *model.Publication) error
	PublishPublication(ctx context.Context, id primitive.ObjectID) (*model.Publication, error)
	// Delete one revision with its reviews and comments
	DeletePublication(ctx context.Context, id primitive.ObjectID) error
	// Delete all revisions with their reviews and comments
	DeletePublicationsByName(ctx context.Context, owner primitive.ObjectID, name string) (int64, error)
}

type ReviewRepository interface {
	FindReviewByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error)
	FindReviewByOwner(ctx context.Context, publication, owner primitive.ObjectID) (*model.Review, error)
	CountCompletedReviews(ctx context.Context, publication primitive.ObjectID) (int64, error)
	// Newest first. Started reviews are left out unless includeStarted is set
	ListReviewsByOwner(ctx context.Context, owner primitive.ObjectID, includeStarted bool) ([]*model.Review, error)
	CreateReview(ctx context.Context, review *model.Review) error
	CompleteReview(ctx context.Context, id primitive.ObjectID) (*model.Review, error)
	// Delete a review with its comments
	DeleteReview(ctx context.Context, id primitive.ObjectID) error
}

type CommentRepository interface {
	FindCommentByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error)
	FindCommentsByReview(ctx context.Context, review primitive.ObjectID) ([]*model.Comment, error)
	// The comment that opened the thread
	FindThreadRoot(ctx context.Context, thread primitive.ObjectID) (*model.Comment, error)
	FindCommentsByThread(ctx context.Context, thread primitive.ObjectID) ([]*model.Comment, error)
	CreateComment(ctx context.Context, comment *model.Comment) error
	UpdateCommentContents(ctx context.Context, id primitive.ObjectID, contents string) (*model.Comment, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
}

// ActivityCommit carries the values written when a provisional activity is
// finalised.
type ActivityCommit struct {
	Live     bool
	Metadata *model.ActivityMetadata
	Document *primitive.ObjectID
}

type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity *model.Activity) error
	CommitActivity(ctx context.Context, id primitive.ObjectID, commit ActivityCommit) error
	DeleteActivity(ctx context.Context, id primitive.ObjectID) error
	FindActivityByID(ctx context.Context, id primitive.ObjectID) (*model.Activity, error)
	ListActivities(ctx context.Context, filter model.ActivityFilter) ([]*model.Activity, int64, error)
	// Make committed but not yet live activities on document visible
	ActivatePending(ctx context.Context, document primitive.ObjectID) (int64, error)
	// Remove provisional (never committed) activities created before the cutoff
	DeleteStaleProvisional(ctx context.Context, before time.Time) (int64, error)
}

// A limit of zero lists every match.

type FollowRepository interface {
	FindFollow(ctx context.Context, follower, following primitive.ObjectID) (*model.Follow, error)
	CreateFollow(ctx context.Context, follow *model.Follow) error
	DeleteFollow(ctx context.Context, follower, following primitive.ObjectID) error
	// Ids of the users following user
	ListFollowers(ctx context.Context, user primitive.ObjectID, limit int64) ([]primitive.ObjectID, error)
	// Ids of the users user follows
	ListFollowing(ctx context.Context, user primitive.ObjectID, limit int64) ([]primitive.ObjectID, error)
}

type BookmarkRepository interface {
	FindBookmark(ctx context.Context, user, publication primitive.ObjectID) (*model.Bookmark, error)
	CreateBookmark(ctx context.Context, bookmark *model.Bookmark) error
	DeleteBookmark(ctx context.Context, user, publication primitive.ObjectID) error
	// Ids of the users who bookmarked publication
	ListBookmarkers(ctx context.Context, publication primitive.ObjectID, limit int64) ([]primitive.ObjectID, error)
	// Ids of the publications user bookmarked, newest bookmark first
	ListBookmarks(ctx context.Context, user primitive.ObjectID, limit int64) ([]primitive.ObjectID, error)
}
