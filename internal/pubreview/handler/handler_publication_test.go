package handler

import (
	"net/http"
	"testing"

	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/repository"
	"pubreview/internal/pubreview/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPostPublication(t *testing.T) {
	apiPath := "/publication"

	t.Run("create publication success and return 201", func(t *testing.T) {
		s := setupServer(t)
		owner := testutil.NewUser("author", model.RoleDefault)
		headers := s.signIn(t, owner)

		s.repo.On("CreateActivity", mock.Anything, mock.Anything).Return(nil)
		s.repo.On("CountPublicationsByName", mock.Anything, owner.ID, "test-name").Return(int64(0), nil)
		s.repo.On("CreatePublication", mock.Anything, mock.MatchedBy(func(p *model.Publication) bool {
			return p.Owner == owner.ID && p.Draft && p.Current && p.Revision == "v1"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Publication).ID = primitive.NewObjectID()
		}).Return(nil)
		// Drafts stay out of feeds until they are published
		s.repo.On("CommitActivity", mock.Anything, mock.Anything, mock.MatchedBy(func(c repository.ActivityCommit) bool {
			return !c.Live && c.Metadata.Name == "test-name" && c.Document != nil
		})).Return(nil)

		body := model.CreatePublicationReq{Name: "test-name", Revision: "v1", Title: "Test"}
		rec := testutil.PerformRequest(s.e, http.MethodPost, apiPath, body, headers)

		assert.Equal(t, http.StatusCreated, rec.Code)
		res := testutil.DecodeBody(rec)
		assert.Equal(t, "ok", res["status"])
		publication := res["publication"].(map[string]any)
		assert.Equal(t, "test-name", publication["name"])
		assert.Equal(t, true, publication["draft"])
		s.repo.AssertExpectations(t)
	})

	t.Run("create publication with taken name return 400 and discard activity", func(t *testing.T) {
		s := setupServer(t)
		owner := testutil.NewUser("author", model.RoleDefault)
		headers := s.signIn(t, owner)

		var activityID primitive.ObjectID
		s.repo.On("CreateActivity", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { activityID = args.Get(1).(*model.Activity).ID }).
			Return(nil)
		s.repo.On("CountPublicationsByName", mock.Anything, owner.ID, "test-name").Return(int64(1), nil)
		s.repo.On("DeleteActivity", mock.Anything, mock.MatchedBy(func(id primitive.ObjectID) bool {
			return id == activityID
		})).Return(nil)

		body := model.CreatePublicationReq{Name: "test-name", Revision: "v2", Title: "Test"}
		rec := testutil.PerformRequest(s.e, http.MethodPost, apiPath, body, headers)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		res := testutil.DecodeBody(rec)
		assert.Equal(t, "Publication with the same name already exists", res["message"])
		assert.Equal(t, "Publication name already taken", res["errors"].(map[string]any)["name"].(map[string]any)["message"])
		s.repo.AssertNotCalled(t, "CreatePublication", mock.Anything, mock.Anything)
		s.repo.AssertNotCalled(t, "CommitActivity", mock.Anything, mock.Anything, mock.Anything)
		s.repo.AssertExpectations(t)
	})

	t.Run("create publication with unknown collaborator return 400", func(t *testing.T) {
		s := setupServer(t)
		owner := testutil.NewUser("author", model.RoleDefault)
		headers := s.signIn(t, owner)

		s.repo.On("CreateActivity", mock.Anything, mock.Anything).Return(nil)
		s.repo.On("DeleteActivity", mock.Anything, mock.Anything).Return(nil)
		s.repo.On("CountPublicationsByName", mock.Anything, owner.ID, "paper").Return(int64(0), nil)
		s.repo.On("FindUsersByUsernames", mock.Anything, []string{"ghost"}).Return([]*model.User{}, nil)

		body := model.CreatePublicationReq{Name: "paper", Revision: "v1", Title: "Paper", Collaborators: []string{" ghost "}}
		rec := testutil.PerformRequest(s.e, http.MethodPost, apiPath, body, headers)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, testutil.DecodeBody(rec)["errors"], "collaborators")
	})

	t.Run("create publication without token return 401", func(t *testing.T) {
		s := setupServer(t)

		body := model.CreatePublicationReq{Name: "paper", Revision: "v1", Title: "Paper"}
		rec := testutil.PerformRequest(s.e, http.MethodPost, apiPath, body, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		s.repo.AssertNotCalled(t, "CreateActivity", mock.Anything, mock.Anything)
	})
}

func TestGetPublication(t *testing.T) {
	t.Run("draft is hidden from default users", func(t *testing.T) {
		s := setupServer(t)
		owner := testutil.NewUser("author", model.RoleDefault)
		reader := testutil.NewUser("reader", model.RoleDefault)
		headers := s.signIn(t, reader)

		pub := testutil.NewPublication(owner, "paper", "v1")
		pub.Draft = true
		s.repo.On("FindUserByUsername", mock.Anything, "author").Return(owner, nil)
		s.repo.On("FindPublication", mock.Anything, owner.ID, "paper", "").Return(pub, nil)

		rec := testutil.PerformRequest(s.e, http.MethodGet, "/publication/author/paper", nil, headers)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("collaborator sees the draft", func(t *testing.T) {
		s := setupServer(t)
		owner := testutil.NewUser("author", model.RoleDefault)
		collaborator := testutil.NewUser("helper", model.RoleDefault)
		headers := s.signIn(t, collaborator)

		pub := testutil.NewPublication(owner, "paper", "v1")
		pub.Draft = true
		pub.Collaborators = []primitive.ObjectID{collaborator.ID}
		s.repo.On("FindUserByUsername", mock.Anything, "author").Return(owner, nil)
		s.repo.On("FindPublication", mock.Anything, owner.ID, "paper", "").Return(pub, nil)
		s.repo.On("CountCompletedReviews", mock.Anything, pub.ID).Return(int64(3), nil)

		rec := testutil.PerformRequest(s.e, http.MethodGet, "/publication/author/paper", nil, headers)

		assert.Equal(t, http.StatusOK, rec.Code)
		publication := testutil.DecodeBody(rec)["publication"].(map[string]any)
		assert.Equal(t, float64(3), publication["reviews"])
	})

	t.Run("unknown owner return 404", func(t *testing.T) {
		s := setupServer(t)
		reader := testutil.NewUser("reader", model.RoleDefault)
		headers := s.signIn(t, reader)
		s.repo.On("FindUserByUsername", mock.Anything, "nobody").Return(nil, nil)

		rec := testutil.PerformRequest(s.e, http.MethodGet, "/publication/nobody/paper", nil, headers)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRevisePublication(t *testing.T) {
	t.Run("owner revise below administrator success and return 201", func(t *testing.T) {
		s := setupServer(t)
		owner := testutil.NewUser("author", model.RoleDefault)
		headers := s.signIn(t, owner)

		pub := testutil.NewPublication(owner, "paper", "v1")
		s.repo.On("FindUserByUsername", mock.Anything, "author").Return(owner, nil)
		s.repo.On("FindPublication", mock.Anything, owner.ID, "paper", "").Return(pub, nil)
		s.repo.On("FindPublication", mock.Anything, owner.ID, "paper", "v2").Return(nil, nil)
		s.repo.On("CreateActivity", mock.Anything, mock.Anything).Return(nil)
		s.repo.On("RevisePublication", mock.Anything, mock.Anything, mock.MatchedBy(func(next *model.Publication) bool {
			return next.Revision == "v2" && next.Draft && next.Name == "paper"
		})).Run(func(args mock.Arguments) {
			args.Get(2).(*model.Publication).ID = primitive.NewObjectID()
		}).Return(nil)
		s.repo.On("CommitActivity", mock.Anything, mock.Anything, mock.MatchedBy(func(c repository.ActivityCommit) bool {
			return !c.Live && c.Metadata.PreviousRevision == "v1" && c.Metadata.Revision == "v2"
		})).Return(nil)

		body := model.RevisePublicationReq{Revision: "v2", Changelog: "Fixed typos"}
		rec := testutil.PerformRequest(s.e, http.MethodPost, "/publication/author/paper/revise", body, headers)

		assert.Equal(t, http.StatusCreated, rec.Code)
		s.repo.AssertExpectations(t)
	})

	t.Run("collaborator cannot revise and return 401", func(t *testing.T) {
		s := setupServer(t)
		owner := testutil.NewUser("author", model.RoleDefault)
		collaborator := testutil.NewUser("helper", model.RoleDefault)
		headers := s.signIn(t, collaborator)

		pub := testutil.NewPublication(owner, "paper", "v1")
		pub.Collaborators = []primitive.ObjectID{collaborator.ID}
		s.repo.On("FindUserByUsername", mock.Anything, "author").Return(owner, nil)
		s.repo.On("FindPublication", mock.Anything, owner.ID, "paper", "").Return(pub, nil)

		body := model.RevisePublicationReq{Revision: "v2"}
		rec := testutil.PerformRequest(s.e, http.MethodPost, "/publication/author/paper/revise", body, headers)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		s.repo.AssertNotCalled(t, "RevisePublication", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPublishPublication(t *testing.T) {
	s := setupServer(t)
	owner := testutil.NewUser("author", model.RoleDefault)
	headers := s.signIn(t, owner)

	pub := testutil.NewPublication(owner, "paper", "v1")
	pub.Draft = true
	published := *pub
	published.Draft = false

	s.repo.On("FindUserByUsername", mock.Anything, "author").Return(owner, nil)
	s.repo.On("FindPublication", mock.Anything, owner.ID, "paper", "").Return(pub, nil)
	s.repo.On("PublishPublication", mock.Anything, pub.ID).Return(&published, nil)
	s.repo.On("ActivatePending", mock.Anything, pub.ID).Return(int64(1), nil)

	rec := testutil.PerformRequest(s.e, http.MethodPost, "/publication/author/paper/publish", nil, headers)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, testutil.DecodeBody(rec)["publication"].(map[string]any)["draft"])
	s.repo.AssertExpectations(t)
}

func TestDeletePublicationFamily(t *testing.T) {
	t.Run("owner below administrator is denied", func(t *testing.T) {
		s := setupServer(t)
		owner := testutil.NewUser("author", model.RoleModerator)
		headers := s.signIn(t, owner)

		pub := testutil.NewPublication(owner, "paper", "v1")
		s.repo.On("FindUserByUsername", mock.Anything, "author").Return(owner, nil)
		s.repo.On("FindPublication", mock.Anything, owner.ID, "paper", "").Return(pub, nil)

		rec := testutil.PerformRequest(s.e, http.MethodDelete, "/publication/author/paper/all", nil, headers)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		s.repo.AssertNotCalled(t, "DeletePublicationsByName", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("administrator deletes every revision", func(t *testing.T) {
		s := setupServer(t)
		owner := testutil.NewUser("author", model.RoleDefault)
		admin := testutil.NewUser("admin", model.RoleAdministrator)
		headers := s.signIn(t, admin)

		pub := testutil.NewPublication(owner, "paper", "v3")
		s.repo.On("FindUserByUsername", mock.Anything, "author").Return(owner, nil)
		s.repo.On("FindPublication", mock.Anything, owner.ID, "paper", "").Return(pub, nil)
		s.repo.On("CreateActivity", mock.Anything, mock.MatchedBy(func(a *model.Activity) bool {
			return a.Visibility == model.RoleAdministrator
		})).Return(nil)
		s.repo.On("DeletePublicationsByName", mock.Anything, owner.ID, "paper").Return(int64(3), nil)
		s.repo.On("CommitActivity", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		rec := testutil.PerformRequest(s.e, http.MethodDelete, "/publication/author/paper/all", nil, headers)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(3), testutil.DecodeBody(rec)["deleted"])
		s.repo.AssertExpectations(t)
	})
}
