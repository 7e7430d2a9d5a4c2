package testutil

import (
	"context"
	"time"

	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/repository"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockRepository is a shared mock of every repository interface.
type MockRepository struct {
	mock.Mock
}

var (
	_ repository.UserRepository        = (*MockRepository)(nil)
	_ repository.PublicationRepository = (*MockRepository)(nil)
	_ repository.ReviewRepository      = (*MockRepository)(nil)
	_ repository.CommentRepository     = (*MockRepository)(nil)
	_ repository.ActivityRepository    = (*MockRepository)(nil)
	_ repository.FollowRepository      = (*MockRepository)(nil)
	_ repository.BookmarkRepository    = (*MockRepository)(nil)
)

// Users

func (m *MockRepository) FindUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockRepository) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockRepository) FindUserByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockRepository) FindUsersByUsernames(ctx context.Context, usernames []string) ([]*model.User, error) {
	args := m.Called(ctx, usernames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockRepository) FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) UpdateUser(ctx context.Context, id primitive.ObjectID, patch model.UserPatch) (*model.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockRepository) UpdateUserRole(ctx context.Context, id primitive.ObjectID, role model.Role) (*model.User, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockRepository) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Publications

func (m *MockRepository) FindPublicationByID(ctx context.Context, id primitive.ObjectID) (*model.Publication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Publication), args.Error(1)
}

func (m *MockRepository) FindPublication(ctx context.Context, owner primitive.ObjectID, name, revision string) (*model.Publication, error) {
	args := m.Called(ctx, owner, name, revision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Publication), args.Error(1)
}

func (m *MockRepository) FindRevisions(ctx context.Context, owner primitive.ObjectID, name string) ([]*model.Publication, error) {
	args := m.Called(ctx, owner, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Publication), args.Error(1)
}

func (m *MockRepository) FindPublicationsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Publication, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Publication), args.Error(1)
}

func (m *MockRepository) CountPublicationsByName(ctx context.Context, owner primitive.ObjectID, name string) (int64, error) {
	args := m.Called(ctx, owner, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListPublications(ctx context.Context, filter repository.PublicationFilter) ([]*model.Publication, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Publication), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) CreatePublication(ctx context.Context, publication *model.Publication) error {
	args := m.Called(ctx, publication)
	return args.Error(0)
}

func (m *MockRepository) UpdatePublication(ctx context.Context, id primitive.ObjectID, patch model.PublicationPatch) (*model.Publication, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Publication), args.Error(1)
}

func (m *MockRepository) RevisePublication(ctx context.Context, previous, next *model.Publication) error {
	args := m.Called(ctx, previous, next)
	return args.Error(0)
}

func (m *MockRepository) PublishPublication(ctx context.Context, id primitive.ObjectID) (*model.Publication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Publication), args.Error(1)
}

func (m *MockRepository) DeletePublication(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) DeletePublicationsByName(ctx context.Context, owner primitive.ObjectID, name string) (int64, error) {
	args := m.Called(ctx, owner, name)
	return args.Get(0).(int64), args.Error(1)
}

// Reviews

func (m *MockRepository) FindReviewByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockRepository) FindReviewByOwner(ctx context.Context, publication, owner primitive.ObjectID) (*model.Review, error) {
	args := m.Called(ctx, publication, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockRepository) CountCompletedReviews(ctx context.Context, publication primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, publication)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListReviewsByOwner(ctx context.Context, owner primitive.ObjectID, includeStarted bool) ([]*model.Review, error) {
	args := m.Called(ctx, owner, includeStarted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Review), args.Error(1)
}

func (m *MockRepository) CreateReview(ctx context.Context, review *model.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockRepository) CompleteReview(ctx context.Context, id primitive.ObjectID) (*model.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockRepository) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Comments

func (m *MockRepository) FindCommentByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockRepository) FindCommentsByReview(ctx context.Context, review primitive.ObjectID) ([]*model.Comment, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *MockRepository) FindThreadRoot(ctx context.Context, thread primitive.ObjectID) (*model.Comment, error) {
	args := m.Called(ctx, thread)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockRepository) FindCommentsByThread(ctx context.Context, thread primitive.ObjectID) ([]*model.Comment, error) {
	args := m.Called(ctx, thread)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *MockRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockRepository) UpdateCommentContents(ctx context.Context, id primitive.ObjectID, contents string) (*model.Comment, error) {
	args := m.Called(ctx, id, contents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Activities

func (m *MockRepository) CreateActivity(ctx context.Context, activity *model.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockRepository) CommitActivity(ctx context.Context, id primitive.ObjectID, commit repository.ActivityCommit) error {
	args := m.Called(ctx, id, commit)
	return args.Error(0)
}

func (m *MockRepository) DeleteActivity(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) FindActivityByID(ctx context.Context, id primitive.ObjectID) (*model.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Activity), args.Error(1)
}

func (m *MockRepository) ListActivities(ctx context.Context, filter model.ActivityFilter) ([]*model.Activity, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Activity), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ActivatePending(ctx context.Context, document primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, document)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) DeleteStaleProvisional(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// Follows

func (m *MockRepository) FindFollow(ctx context.Context, follower, following primitive.ObjectID) (*model.Follow, error) {
	args := m.Called(ctx, follower, following)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Follow), args.Error(1)
}

func (m *MockRepository) CreateFollow(ctx context.Context, follow *model.Follow) error {
	args := m.Called(ctx, follow)
	return args.Error(0)
}

func (m *MockRepository) DeleteFollow(ctx context.Context, follower, following primitive.ObjectID) error {
	args := m.Called(ctx, follower, following)
	return args.Error(0)
}

func (m *MockRepository) ListFollowers(ctx context.Context, user primitive.ObjectID, limit int64) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, user, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

func (m *MockRepository) ListFollowing(ctx context.Context, user primitive.ObjectID, limit int64) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, user, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

// Bookmarks

func (m *MockRepository) FindBookmark(ctx context.Context, user, publication primitive.ObjectID) (*model.Bookmark, error) {
	args := m.Called(ctx, user, publication)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bookmark), args.Error(1)
}

func (m *MockRepository) CreateBookmark(ctx context.Context, bookmark *model.Bookmark) error {
	args := m.Called(ctx, bookmark)
	return args.Error(0)
}

func (m *MockRepository) DeleteBookmark(ctx context.Context, user, publication primitive.ObjectID) error {
	args := m.Called(ctx, user, publication)
	return args.Error(0)
}

func (m *MockRepository) ListBookmarkers(ctx context.Context, publication primitive.ObjectID, limit int64) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, publication, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

func (m *MockRepository) ListBookmarks(ctx context.Context, user primitive.ObjectID, limit int64) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, user, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}
