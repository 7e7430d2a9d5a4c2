package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/repository"
	"pubreview/internal/pubreview/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestService() (*Service, *testutil.MockRepository) {
	repo := new(testutil.MockRepository)
	return NewService(repo, nil, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func populated(p *model.Publication, owner *model.User) *model.PopulatedPublication {
	return &model.PopulatedPublication{Publication: *p, OwnerUser: owner}
}

func TestListPublications(t *testing.T) {
	ctx := context.Background()

	t.Run("attaches owners and review counts", func(t *testing.T) {
		s, repo := newTestService()
		alice := testutil.NewUser("alice", model.RoleDefault)
		bob := testutil.NewUser("bob", model.RoleDefault)
		pubs := []*model.Publication{
			testutil.NewPublication(alice, "first", "v1"),
			testutil.NewPublication(bob, "second", "v1"),
			testutil.NewPublication(alice, "third", "v2"),
		}

		repo.On("ListPublications", ctx, mock.MatchedBy(func(f repository.PublicationFilter) bool {
			return !f.Drafts && f.Current == nil && f.Take == 50
		})).Return(pubs, int64(3), nil)
		repo.On("FindUsersByIDs", ctx, []primitive.ObjectID{alice.ID, bob.ID}).Return([]*model.User{alice, bob}, nil)
		for i, p := range pubs {
			repo.On("CountCompletedReviews", mock.Anything, p.ID).Return(int64(i+1), nil)
		}

		q := model.PublicationListQuery{}
		q.Normalize()
		res, err := s.ListPublications(ctx, q)

		require.NoError(t, err)
		assert.Equal(t, int64(3), res.Total)
		require.Len(t, res.Publications, 3)
		for i, view := range res.Publications {
			assert.Equal(t, pubs[i].Name, view.Name)
			assert.Equal(t, int64(i+1), view.Reviews)
		}
		assert.Equal(t, "bob", res.Publications[1].Owner.Username)
	})

	t.Run("count failure fails the listing", func(t *testing.T) {
		s, repo := newTestService()
		alice := testutil.NewUser("alice", model.RoleDefault)
		pub := testutil.NewPublication(alice, "first", "v1")
		boom := errors.New("count failed")

		repo.On("ListPublications", ctx, mock.Anything).Return([]*model.Publication{pub}, int64(1), nil)
		repo.On("FindUsersByIDs", ctx, mock.Anything).Return([]*model.User{alice}, nil)
		repo.On("CountCompletedReviews", mock.Anything, pub.ID).Return(int64(0), boom)

		_, err := s.ListPublications(ctx, model.PublicationListQuery{})
		assert.ErrorIs(t, err, boom)
	})
}

func TestCreatePublication_Collaborators(t *testing.T) {
	ctx := context.Background()
	owner := testutil.NewUser("owner", model.RoleDefault)
	helper := testutil.NewUser("helper", model.RoleDefault)

	t.Run("duplicates collapse to one lookup", func(t *testing.T) {
		s, repo := newTestService()
		repo.On("CountPublicationsByName", ctx, owner.ID, "paper").Return(int64(0), nil)
		repo.On("FindUsersByUsernames", ctx, []string{"helper"}).Return([]*model.User{helper}, nil)
		repo.On("CreatePublication", ctx, mock.MatchedBy(func(p *model.Publication) bool {
			return len(p.Collaborators) == 1 && p.Collaborators[0] == helper.ID
		})).Return(nil)

		res, err := s.CreatePublication(ctx, owner, model.CreatePublicationReq{
			Name: "paper", Revision: "v1", Title: "Paper", Collaborators: []string{"helper", "helper"},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{helper.ID.Hex()}, res.Publication.Collaborators)
		repo.AssertExpectations(t)
	})

	t.Run("owner cannot collaborate on own publication", func(t *testing.T) {
		s, repo := newTestService()
		repo.On("CountPublicationsByName", ctx, owner.ID, "paper").Return(int64(0), nil)
		repo.On("FindUsersByUsernames", ctx, []string{"owner"}).Return([]*model.User{owner}, nil)

		_, err := s.CreatePublication(ctx, owner, model.CreatePublicationReq{
			Name: "paper", Revision: "v1", Title: "Paper", Collaborators: []string{"owner"},
		})
		assert.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("duplicate key from store maps to taken name", func(t *testing.T) {
		s, repo := newTestService()
		repo.On("CountPublicationsByName", ctx, owner.ID, "paper").Return(int64(0), nil)
		repo.On("CreatePublication", ctx, mock.Anything).Return(repository.ErrDuplicate)

		_, err := s.CreatePublication(ctx, owner, model.CreatePublicationReq{Name: "paper", Revision: "v1", Title: "Paper"})
		assert.ErrorIs(t, err, ErrNameTaken)
	})
}

func TestRevisePublication(t *testing.T) {
	ctx := context.Background()
	owner := testutil.NewUser("owner", model.RoleDefault)

	t.Run("only the current revision can be revised", func(t *testing.T) {
		s, _ := newTestService()
		pub := testutil.NewPublication(owner, "paper", "v1")
		pub.Current = false

		_, err := s.RevisePublication(ctx, populated(pub, owner), model.RevisePublicationReq{Revision: "v2"})
		assert.ErrorIs(t, err, ErrNotCurrent)
	})

	t.Run("existing revision is rejected", func(t *testing.T) {
		s, repo := newTestService()
		pub := testutil.NewPublication(owner, "paper", "v2")
		repo.On("FindPublication", ctx, owner.ID, "paper", "v1").Return(testutil.NewPublication(owner, "paper", "v1"), nil)

		_, err := s.RevisePublication(ctx, populated(pub, owner), model.RevisePublicationReq{Revision: "v1"})
		assert.ErrorIs(t, err, ErrRevisionTaken)
	})

	t.Run("new revision is a draft copy", func(t *testing.T) {
		s, repo := newTestService()
		pub := testutil.NewPublication(owner, "paper", "v1")
		pub.Pinned = true
		repo.On("FindPublication", ctx, owner.ID, "paper", "v2").Return(nil, nil)
		repo.On("RevisePublication", ctx, mock.MatchedBy(func(prev *model.Publication) bool {
			return prev.ID == pub.ID
		}), mock.MatchedBy(func(next *model.Publication) bool {
			return next.ID.IsZero() && next.Draft && !next.Pinned && next.Title == pub.Title && next.Changelog == "typos"
		})).Return(nil)

		res, err := s.RevisePublication(ctx, populated(pub, owner), model.RevisePublicationReq{Revision: "v2", Changelog: "typos"})

		require.NoError(t, err)
		assert.Equal(t, "v1", res.PreviousRevision)
		assert.Equal(t, "v2", res.Publication.Revision)
	})
}

func TestPublishPublication(t *testing.T) {
	ctx := context.Background()
	owner := testutil.NewUser("owner", model.RoleDefault)

	t.Run("already published", func(t *testing.T) {
		s, _ := newTestService()
		pub := testutil.NewPublication(owner, "paper", "v1")

		_, err := s.PublishPublication(ctx, populated(pub, owner))
		assert.ErrorIs(t, err, ErrAlreadyPublished)
	})

	t.Run("activation failure does not fail publishing", func(t *testing.T) {
		s, repo := newTestService()
		pub := testutil.NewPublication(owner, "paper", "v1")
		pub.Draft = true
		published := *pub
		published.Draft = false

		repo.On("PublishPublication", ctx, pub.ID).Return(&published, nil)
		repo.On("ActivatePending", ctx, pub.ID).Return(int64(0), errors.New("timeout"))

		res, err := s.PublishPublication(ctx, populated(pub, owner))
		require.NoError(t, err)
		assert.False(t, res.Publication.Draft)
	})
}

func TestListActivities(t *testing.T) {
	ctx := context.Background()

	t.Run("moderator feed excludes administrator records", func(t *testing.T) {
		s, repo := newTestService()
		mod := testutil.NewUser("mod", model.RoleModerator)
		repo.On("ListActivities", ctx, mock.MatchedBy(func(f model.ActivityFilter) bool {
			return assert.ObjectsAreEqual([]model.Role{model.RoleDefault, model.RoleModerator}, f.Visibility) && f.Owner == nil
		})).Return([]*model.Activity{}, int64(0), nil)
		repo.On("FindUsersByIDs", ctx, []primitive.ObjectID{}).Return([]*model.User{}, nil)

		res, err := s.ListActivities(ctx, mod, model.ActivityListQuery{})
		require.NoError(t, err)
		assert.Empty(t, res.Activities)
		repo.AssertExpectations(t)
	})

	t.Run("owner filter", func(t *testing.T) {
		s, repo := newTestService()
		reader := testutil.NewUser("reader", model.RoleDefault)
		author := testutil.NewUser("author", model.RoleDefault)
		record := &model.Activity{ID: primitive.NewObjectID(), Owner: author.ID, Kind: model.ActivityCreate, Type: model.SubjectPublication, Live: true}

		repo.On("ListActivities", ctx, mock.MatchedBy(func(f model.ActivityFilter) bool {
			return f.Owner != nil && *f.Owner == author.ID && len(f.Visibility) == 1
		})).Return([]*model.Activity{record}, int64(1), nil)
		repo.On("FindUsersByIDs", ctx, []primitive.ObjectID{author.ID}).Return([]*model.User{author}, nil)

		res, err := s.ListActivities(ctx, reader, model.ActivityListQuery{Owner: author.ID.Hex()})
		require.NoError(t, err)
		require.Len(t, res.Activities, 1)
		assert.Equal(t, int64(1), res.Total)
	})
}

func TestChangeRole(t *testing.T) {
	ctx := context.Background()

	t.Run("same role is a no-op", func(t *testing.T) {
		s, repo := newTestService()
		admin := testutil.NewUser("admin", model.RoleAdministrator)
		target := testutil.NewUser("target", model.RoleModerator)

		res, err := s.ChangeRole(ctx, admin, target, model.RoleModerator)

		require.NoError(t, err)
		assert.Equal(t, model.RoleModerator, res.Role)
		repo.AssertNotCalled(t, "UpdateUserRole", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cannot grant above own role", func(t *testing.T) {
		s, _ := newTestService()
		mod := testutil.NewUser("mod", model.RoleModerator)
		target := testutil.NewUser("target", model.RoleDefault)

		_, err := s.ChangeRole(ctx, mod, target, model.RoleAdministrator)
		assert.ErrorIs(t, err, ErrRoleElevation)
	})
}

func TestGetThread(t *testing.T) {
	ctx := context.Background()
	author := testutil.NewUser("author", model.RoleDefault)
	pub := testutil.NewPublication(author, "paper", "v1")
	review := testutil.NewReview(author, pub, model.ReviewCompleted)
	root := testutil.NewComment(author, review, "root")

	s, repo := newTestService()
	reply := testutil.NewComment(author, review, "reply")
	reply.Thread = root.Thread
	reply.Replying = &root.ID

	repo.On("FindCommentsByThread", ctx, root.Thread).Return([]*model.Comment{root, reply}, nil)
	repo.On("FindUsersByIDs", ctx, []primitive.ObjectID{author.ID, author.ID}).Return([]*model.User{author}, nil)

	res, err := s.GetThread(ctx, root)

	require.NoError(t, err)
	require.Len(t, res.Comments, 2)
	assert.Equal(t, root.ID.Hex(), res.Comments[1].Replying)
	assert.Equal(t, "author", res.Comments[0].Owner.Username)
}
