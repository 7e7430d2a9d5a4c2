package handler

import (
	"net/http"
	"testing"

	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFollowUser(t *testing.T) {
	apiPath := "/user/bob/follow"

	t.Run("first follow success and return 201", func(t *testing.T) {
		s := setupServer(t)
		alice := testutil.NewUser("alice", model.RoleDefault)
		bob := testutil.NewUser("bob", model.RoleDefault)
		headers := s.signIn(t, alice)

		s.repo.On("FindUserByUsername", mock.Anything, "bob").Return(bob, nil)
		s.repo.On("FindFollow", mock.Anything, alice.ID, bob.ID).Return(nil, nil)
		s.repo.On("CreateFollow", mock.Anything, mock.Anything).Return(nil)

		rec := testutil.PerformRequest(s.e, http.MethodPost, apiPath, nil, headers)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, true, testutil.DecodeBody(rec)["following"])
	})

	t.Run("already following return 200", func(t *testing.T) {
		s := setupServer(t)
		alice := testutil.NewUser("alice", model.RoleDefault)
		bob := testutil.NewUser("bob", model.RoleDefault)
		headers := s.signIn(t, alice)

		s.repo.On("FindUserByUsername", mock.Anything, "bob").Return(bob, nil)
		s.repo.On("FindFollow", mock.Anything, alice.ID, bob.ID).Return(&model.Follow{Follower: alice.ID, Following: bob.ID}, nil)

		rec := testutil.PerformRequest(s.e, http.MethodPost, apiPath, nil, headers)

		assert.Equal(t, http.StatusOK, rec.Code)
		s.repo.AssertNotCalled(t, "CreateFollow", mock.Anything, mock.Anything)
	})

	t.Run("follow yourself return 400", func(t *testing.T) {
		s := setupServer(t)
		bob := testutil.NewUser("bob", model.RoleDefault)
		headers := s.signIn(t, bob)

		s.repo.On("FindUserByUsername", mock.Anything, "bob").Return(bob, nil)

		rec := testutil.PerformRequest(s.e, http.MethodPost, apiPath, nil, headers)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Users can't follow themselves", testutil.DecodeBody(rec)["message"])
	})

	t.Run("unknown user return 404", func(t *testing.T) {
		s := setupServer(t)
		alice := testutil.NewUser("alice", model.RoleDefault)
		headers := s.signIn(t, alice)

		s.repo.On("FindUserByUsername", mock.Anything, "bob").Return(nil, nil)

		rec := testutil.PerformRequest(s.e, http.MethodPost, apiPath, nil, headers)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unfollow return 200", func(t *testing.T) {
		s := setupServer(t)
		alice := testutil.NewUser("alice", model.RoleDefault)
		bob := testutil.NewUser("bob", model.RoleDefault)
		headers := s.signIn(t, alice)

		s.repo.On("FindUserByUsername", mock.Anything, "bob").Return(bob, nil)
		s.repo.On("DeleteFollow", mock.Anything, alice.ID, bob.ID).Return(nil)

		rec := testutil.PerformRequest(s.e, http.MethodDelete, apiPath, nil, headers)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, testutil.DecodeBody(rec)["following"])
	})
}

func TestFollowers(t *testing.T) {
	t.Run("list followers return 200", func(t *testing.T) {
		s := setupServer(t)
		reader := testutil.NewUser("reader", model.RoleDefault)
		bob := testutil.NewUser("bob", model.RoleDefault)
		fan := testutil.NewUser("fan", model.RoleDefault)
		headers := s.signIn(t, reader)

		s.repo.On("FindUserByUsername", mock.Anything, "bob").Return(bob, nil)
		s.repo.On("ListFollowers", mock.Anything, bob.ID, mock.Anything).Return([]primitive.ObjectID{fan.ID}, nil)
		s.repo.On("FindUsersByIDs", mock.Anything, []primitive.ObjectID{fan.ID}).Return([]*model.User{fan}, nil)

		rec := testutil.PerformRequest(s.e, http.MethodGet, "/user/bob/followers", nil, headers)

		assert.Equal(t, http.StatusOK, rec.Code)
		followers := testutil.DecodeBody(rec)["followers"].([]any)
		if assert.Len(t, followers, 1) {
			assert.Equal(t, "fan", followers[0].(map[string]any)["username"])
		}
	})
}

func TestUserFeed(t *testing.T) {
	t.Run("feed covers followed users at requester visibility", func(t *testing.T) {
		s := setupServer(t)
		moderator := testutil.NewUser("mod", model.RoleModerator)
		bob := testutil.NewUser("bob", model.RoleDefault)
		followed := primitive.NewObjectID()
		headers := s.signIn(t, moderator)

		s.repo.On("FindUserByUsername", mock.Anything, "bob").Return(bob, nil)
		s.repo.On("ListFollowing", mock.Anything, bob.ID, int64(0)).Return([]primitive.ObjectID{followed}, nil)
		s.repo.On("ListActivities", mock.Anything, mock.MatchedBy(func(f model.ActivityFilter) bool {
			return assert.ObjectsAreEqual([]primitive.ObjectID{bob.ID, followed}, f.Owners) &&
				assert.ObjectsAreEqual([]model.Role{model.RoleDefault, model.RoleModerator}, f.Visibility) &&
				f.Take == 20
		})).Return([]*model.Activity{}, int64(0), nil)
		s.repo.On("FindUsersByIDs", mock.Anything, mock.Anything).Return([]*model.User{}, nil)

		rec := testutil.PerformRequest(s.e, http.MethodGet, "/user/bob/feed?take=20", nil, headers)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(0), testutil.DecodeBody(rec)["total"])
		s.repo.AssertExpectations(t)
	})

	t.Run("negative skip return 400", func(t *testing.T) {
		s := setupServer(t)
		reader := testutil.NewUser("reader", model.RoleDefault)
		headers := s.signIn(t, reader)

		rec := testutil.PerformRequest(s.e, http.MethodGet, "/user/bob/feed?skip=-1", nil, headers)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserReviews(t *testing.T) {
	t.Run("other user sees completed reviews only", func(t *testing.T) {
		s := setupServer(t)
		reader := testutil.NewUser("reader", model.RoleDefault)
		author := testutil.NewUser("author", model.RoleDefault)
		headers := s.signIn(t, reader)

		pub := testutil.NewPublication(author, "paper", "v1")
		review := testutil.NewReview(author, pub, model.ReviewCompleted)
		s.repo.On("FindUserByUsername", mock.Anything, "author").Return(author, nil)
		s.repo.On("ListReviewsByOwner", mock.Anything, author.ID, false).Return([]*model.Review{review}, nil)

		rec := testutil.PerformRequest(s.e, http.MethodGet, "/user/author/reviews", nil, headers)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, testutil.DecodeBody(rec)["reviews"], 1)
	})

	t.Run("author sees started reviews", func(t *testing.T) {
		s := setupServer(t)
		author := testutil.NewUser("author", model.RoleDefault)
		headers := s.signIn(t, author)

		s.repo.On("FindUserByUsername", mock.Anything, "author").Return(author, nil)
		s.repo.On("ListReviewsByOwner", mock.Anything, author.ID, true).Return([]*model.Review{}, nil)

		rec := testutil.PerformRequest(s.e, http.MethodGet, "/user/author/reviews", nil, headers)

		assert.Equal(t, http.StatusOK, rec.Code)
		s.repo.AssertExpectations(t)
	})
}
