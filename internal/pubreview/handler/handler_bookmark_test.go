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

func TestBookmarkPublication(t *testing.T) {
	apiPath := "/publication/author/paper/bookmark"

	t.Run("first bookmark success and return 201", func(t *testing.T) {
		s := setupServer(t)
		owner := testutil.NewUser("author", model.RoleDefault)
		reader := testutil.NewUser("reader", model.RoleDefault)
		headers := s.signIn(t, reader)

		pub := testutil.NewPublication(owner, "paper", "v1")
		s.repo.On("FindUserByUsername", mock.Anything, "author").Return(owner, nil)
		s.repo.On("FindPublication", mock.Anything, owner.ID, "paper", "").Return(pub, nil)
		s.repo.On("FindBookmark", mock.Anything, reader.ID, pub.ID).Return(nil, nil)
		s.repo.On("CreateBookmark", mock.Anything, mock.MatchedBy(func(b *model.Bookmark) bool {
			return b.User == reader.ID && b.Publication == pub.ID
		})).Return(nil)

		rec := testutil.PerformRequest(s.e, http.MethodPost, apiPath, nil, headers)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, true, testutil.DecodeBody(rec)["bookmarked"])
	})

	t.Run("bookmark twice return 200", func(t *testing.T) {
		s := setupServer(t)
		owner := testutil.NewUser("author", model.RoleDefault)
		reader := testutil.NewUser("reader", model.RoleDefault)
		headers := s.signIn(t, reader)

		pub := testutil.NewPublication(owner, "paper", "v1")
		s.repo.On("FindUserByUsername", mock.Anything, "author").Return(owner, nil)
		s.repo.On("FindPublication", mock.Anything, owner.ID, "paper", "").Return(pub, nil)
		s.repo.On("FindBookmark", mock.Anything, reader.ID, pub.ID).Return(&model.Bookmark{User: reader.ID, Publication: pub.ID}, nil)

		rec := testutil.PerformRequest(s.e, http.MethodPost, apiPath, nil, headers)

		assert.Equal(t, http.StatusOK, rec.Code)
		s.repo.AssertNotCalled(t, "CreateBookmark", mock.Anything, mock.Anything)
	})

	t.Run("bookmark hidden draft return 401", func(t *testing.T) {
		s := setupServer(t)
		owner := testutil.NewUser("author", model.RoleDefault)
		reader := testutil.NewUser("reader", model.RoleDefault)
		headers := s.signIn(t, reader)

		pub := testutil.NewPublication(owner, "paper", "v1")
		pub.Draft = true
		s.repo.On("FindUserByUsername", mock.Anything, "author").Return(owner, nil)
		s.repo.On("FindPublication", mock.Anything, owner.ID, "paper", "").Return(pub, nil)

		rec := testutil.PerformRequest(s.e, http.MethodPost, apiPath, nil, headers)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		s.repo.AssertNotCalled(t, "CreateBookmark", mock.Anything, mock.Anything)
	})
}

func TestUserBookmarks(t *testing.T) {
	apiPath := "/user/reader/bookmarks"

	t.Run("owner lists bookmarks return 200", func(t *testing.T) {
		s := setupServer(t)
		owner := testutil.NewUser("author", model.RoleDefault)
		reader := testutil.NewUser("reader", model.RoleDefault)
		headers := s.signIn(t, reader)

		pub := testutil.NewPublication(owner, "paper", "v1")
		s.repo.On("FindUserByUsername", mock.Anything, "reader").Return(reader, nil)
		s.repo.On("ListBookmarks", mock.Anything, reader.ID, mock.Anything).Return([]primitive.ObjectID{pub.ID}, nil)
		s.repo.On("FindPublicationsByIDs", mock.Anything, []primitive.ObjectID{pub.ID}).Return([]*model.Publication{pub}, nil)
		s.repo.On("FindUsersByIDs", mock.Anything, []primitive.ObjectID{owner.ID}).Return([]*model.User{owner}, nil)
		s.repo.On("CountCompletedReviews", mock.Anything, pub.ID).Return(int64(0), nil)

		rec := testutil.PerformRequest(s.e, http.MethodGet, apiPath, nil, headers)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, testutil.DecodeBody(rec)["bookmarks"], 1)
	})

	t.Run("default user lists bookmarks of someone else return 401", func(t *testing.T) {
		s := setupServer(t)
		reader := testutil.NewUser("reader", model.RoleDefault)
		other := testutil.NewUser("other", model.RoleDefault)
		headers := s.signIn(t, other)

		s.repo.On("FindUserByUsername", mock.Anything, "reader").Return(reader, nil)

		rec := testutil.PerformRequest(s.e, http.MethodGet, apiPath, nil, headers)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		s.repo.AssertNotCalled(t, "ListBookmarks", mock.Anything, mock.Anything, mock.Anything)
	})
}
