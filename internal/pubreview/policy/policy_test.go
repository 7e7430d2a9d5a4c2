package policy

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type idTarget = Target[model.IDParams, model.None]

func idParams(id primitive.ObjectID) idTarget {
	return idTarget{Params: model.IDParams{ID: id.Hex()}}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("operation without permission is denied for every role", func(t *testing.T) {
		for _, role := range model.Roles {
			repo := new(testutil.MockRepository)
			user := testutil.NewUser("someone", role)

			res, err := Resolve(ctx, nil, user.ID.Hex(), repo, idTarget{}, Default[model.IDParams, model.None]())
			require.NoError(t, err)
			assert.False(t, res.Valid, role)
			assert.Equal(t, http.StatusUnauthorized, res.Status())
			repo.AssertNotCalled(t, "FindUserByID", mock.Anything, mock.Anything)
		}
	})

	t.Run("permission without verifier is denied", func(t *testing.T) {
		repo := new(testutil.MockRepository)
		res, err := Resolve[model.IDParams, model.None, model.None](ctx, Requires(model.RoleDefault), primitive.NewObjectID().Hex(), repo, idTarget{}, nil)
		require.NoError(t, err)
		assert.False(t, res.Valid)
	})

	t.Run("requester that no longer exists is denied", func(t *testing.T) {
		repo := new(testutil.MockRepository)
		id := primitive.NewObjectID()
		repo.On("FindUserByID", mock.Anything, id).Return(nil, nil)

		res, err := Resolve(ctx, Requires(model.RoleDefault), id.Hex(), repo, idTarget{}, Default[model.IDParams, model.None]())
		require.NoError(t, err)
		assert.False(t, res.Valid)
		repo.AssertExpectations(t)
	})

	t.Run("malformed requester id is denied without a lookup", func(t *testing.T) {
		repo := new(testutil.MockRepository)
		res, err := Resolve(ctx, Requires(model.RoleDefault), "not-an-id", repo, idTarget{}, Default[model.IDParams, model.None]())
		require.NoError(t, err)
		assert.False(t, res.Valid)
		repo.AssertNotCalled(t, "FindUserByID", mock.Anything, mock.Anything)
	})

	t.Run("lookup failure is returned as an error", func(t *testing.T) {
		repo := new(testutil.MockRepository)
		id := primitive.NewObjectID()
		repo.On("FindUserByID", mock.Anything, id).Return(nil, errors.New("db down"))

		_, err := Resolve(ctx, Requires(model.RoleDefault), id.Hex(), repo, idTarget{}, Default[model.IDParams, model.None]())
		assert.Error(t, err)
	})

	t.Run("context compares requester role with the minimum", func(t *testing.T) {
		repo := new(testutil.MockRepository)
		user := testutil.NewUser("mod", model.RoleModerator)
		repo.On("FindUserByID", mock.Anything, user.ID).Return(user, nil)

		var seen Context
		verify := func(_ context.Context, _ *model.User, _ idTarget, pc Context) (Resolved[model.None], error) {
			seen = pc
			return Deny[model.None](), nil
		}

		_, err := Resolve(ctx, RequiresDestructive(model.RoleAdministrator), user.ID.Hex(), repo, idTarget{}, verify)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdministrator, seen.Minimum)
		assert.False(t, seen.Satisfied)
		assert.True(t, seen.Destructive)
	})

	t.Run("default verifier grants requesters meeting the minimum", func(t *testing.T) {
		repo := new(testutil.MockRepository)
		user := testutil.NewUser("admin", model.RoleAdministrator)
		repo.On("FindUserByID", mock.Anything, user.ID).Return(user, nil)

		res, err := Resolve(ctx, Requires(model.RoleModerator), user.ID.Hex(), repo, idTarget{}, Default[model.IDParams, model.None]())
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, user, res.Requester)
	})
}

func TestEvaluate(t *testing.T) {
	owner := testutil.NewUser("owner", model.RoleDefault)
	collaborator := testutil.NewUser("collab", model.RoleDefault)
	stranger := testutil.NewUser("stranger", model.RoleDefault)
	moderator := testutil.NewUser("mod", model.RoleModerator)
	admin := testutil.NewUser("admin", model.RoleAdministrator)

	subject := Subject{OwnerID: owner.ID, OwnerRole: owner.Role, Collaborators: []primitive.ObjectID{collaborator.ID}}
	ctxFor := func(u *model.User, min model.Role) Context {
		return Context{Minimum: min, Satisfied: model.MeetsOrExceeds(u.Role, min)}
	}

	t.Run("owner below the minimum is granted", func(t *testing.T) {
		for _, min := range model.Roles {
			d := Evaluate(owner, subject, ctxFor(owner, min))
			assert.True(t, d.Granted, min)
		}
	})

	t.Run("owner of a destructive operation below the minimum is denied", func(t *testing.T) {
		pc := ctxFor(owner, model.RoleAdministrator)
		pc.Destructive = true
		d := Evaluate(owner, subject, pc)
		assert.False(t, d.Granted)
		assert.Zero(t, d.Code)
	})

	t.Run("administrator passes a destructive operation on someone else's resource", func(t *testing.T) {
		pc := ctxFor(admin, model.RoleAdministrator)
		pc.Destructive = true
		assert.True(t, Evaluate(admin, subject, pc).Granted)
	})

	t.Run("collaborator is granted below the top tier only", func(t *testing.T) {
		assert.True(t, Evaluate(collaborator, subject, ctxFor(collaborator, model.RoleModerator)).Granted)
		assert.False(t, Evaluate(collaborator, subject, ctxFor(collaborator, model.RoleAdministrator)).Granted)
	})

	t.Run("stranger below the minimum is denied", func(t *testing.T) {
		assert.False(t, Evaluate(stranger, subject, ctxFor(stranger, model.RoleModerator)).Granted)
	})

	t.Run("stranger meeting a default minimum is granted", func(t *testing.T) {
		assert.True(t, Evaluate(stranger, subject, ctxFor(stranger, model.RoleDefault)).Granted)
	})

	t.Run("moderator cannot moderate an administrator's resource", func(t *testing.T) {
		s := Subject{OwnerID: admin.ID, OwnerRole: admin.Role}
		assert.False(t, Evaluate(moderator, s, ctxFor(moderator, model.RoleModerator)).Granted)
		// Reading is not moderation
		assert.True(t, Evaluate(moderator, s, ctxFor(moderator, model.RoleDefault)).Granted)
	})

	t.Run("floor denies with 401 unless concealed", func(t *testing.T) {
		s := subject
		s.Floor = model.RoleModerator
		d := Evaluate(stranger, s, ctxFor(stranger, model.RoleDefault))
		assert.False(t, d.Granted)
		assert.Zero(t, d.Code)

		s.Conceal = true
		d = Evaluate(stranger, s, ctxFor(stranger, model.RoleDefault))
		assert.False(t, d.Granted)
		assert.Equal(t, http.StatusNotFound, d.Code)

		assert.True(t, Evaluate(moderator, s, ctxFor(moderator, model.RoleDefault)).Granted)
		assert.True(t, Evaluate(owner, s, ctxFor(owner, model.RoleDefault)).Granted)
	})
}

func TestVerifyUser(t *testing.T) {
	ctx := context.Background()
	verify := VerifyUser[model.UsernameParams, model.ModeQuery]

	t.Run("moderator patching a default user is granted with the user as data", func(t *testing.T) {
		repo := new(testutil.MockRepository)
		mod := testutil.NewUser("mod", model.RoleModerator)
		target := testutil.NewUser("target", model.RoleDefault)
		repo.On("FindUserByUsername", mock.Anything, "target").Return(target, nil)

		res, err := verify(repo)(ctx, mod, Target[model.UsernameParams, model.ModeQuery]{
			Params: model.UsernameParams{Username: "target"},
		}, Context{Minimum: model.RoleModerator, Satisfied: true})
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, target, res.Data)
	})

	t.Run("default user patching someone else is denied with 401", func(t *testing.T) {
		repo := new(testutil.MockRepository)
		requester := testutil.NewUser("plain", model.RoleDefault)
		target := testutil.NewUser("target", model.RoleDefault)
		repo.On("FindUserByUsername", mock.Anything, "target").Return(target, nil)

		res, err := verify(repo)(ctx, requester, Target[model.UsernameParams, model.ModeQuery]{
			Params: model.UsernameParams{Username: "target"},
		}, Context{Minimum: model.RoleModerator, Satisfied: false})
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, http.StatusUnauthorized, res.Status())
	})

	t.Run("lookup by id uses the id finder", func(t *testing.T) {
		repo := new(testutil.MockRepository)
		requester := testutil.NewUser("plain", model.RoleDefault)
		repo.On("FindUserByID", mock.Anything, requester.ID).Return(requester, nil)

		res, err := verify(repo)(ctx, requester, Target[model.UsernameParams, model.ModeQuery]{
			Params: model.UsernameParams{Username: requester.ID.Hex()},
			Query:  model.ModeQuery{Mode: "id"},
		}, Context{Minimum: model.RoleDefault, Satisfied: true})
		require.NoError(t, err)
		assert.True(t, res.Valid)
	})

	t.Run("unknown user returns 404", func(t *testing.T) {
		repo := new(testutil.MockRepository)
		repo.On("FindUserByUsername", mock.Anything, "ghost").Return(nil, nil)

		res, err := verify(repo)(ctx, testutil.NewUser("plain", model.RoleDefault), Target[model.UsernameParams, model.ModeQuery]{
			Params: model.UsernameParams{Username: "ghost"},
		}, Context{Minimum: model.RoleDefault, Satisfied: true})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.Status())
	})
}

func TestVerifyPublication(t *testing.T) {
	ctx := context.Background()
	owner := testutil.NewUser("owner", model.RoleDefault)
	type target = Target[model.PublicationParams, model.PublicationQuery]
	params := model.PublicationParams{Username: "owner", Name: "paper"}

	t.Run("draft is hidden from default users with 401", func(t *testing.T) {
		repo := new(testutil.MockRepository)
		pub := testutil.NewPublication(owner, "paper", "v1")
		pub.Draft = true
		repo.On("FindUserByUsername", mock.Anything, "owner").Return(owner, nil)
		repo.On("FindPublication", mock.Anything, owner.ID, "paper", "").Return(pub, nil)

		stranger := testutil.NewUser("stranger", model.RoleDefault)
		res, err := VerifyPublication[model.PublicationParams, model.PublicationQuery](repo, repo)(ctx, stranger, target{Params: params},
			Context{Minimum: model.RoleDefault, Satisfied: true})
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, http.StatusUnauthorized, res.Status())
	})

	t.Run("revision query selects that revision", func(t *testing.T) {
		repo := new(testutil.MockRepository)
		pub := testutil.NewPublication(owner, "paper", "v1")
		repo.On("FindUserByUsername", mock.Anything, "owner").Return(owner, nil)
		repo.On("FindPublication", mock.Anything, owner.ID, "paper", "v1").Return(pub, nil)

		res, err := VerifyPublication[model.PublicationParams, model.PublicationQuery](repo, repo)(ctx, owner,
			target{Params: params, Query: model.PublicationQuery{Revision: "v1"}},
			Context{Minimum: model.RoleAdministrator})
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, pub.ID, res.Data.ID)
		assert.Equal(t, owner, res.Data.OwnerUser)
	})

	t.Run("missing publication returns 404", func(t *testing.T) {
		repo := new(testutil.MockRepository)
		repo.On("FindUserByUsername", mock.Anything, "owner").Return(owner, nil)
		repo.On("FindPublication", mock.Anything, owner.ID, "paper", "").Return(nil, nil)

		res, err := VerifyPublication[model.PublicationParams, model.PublicationQuery](repo, repo)(ctx, owner, target{Params: params},
			Context{Minimum: model.RoleDefault, Satisfied: true})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.Status())
	})
}

func TestVerifyReview(t *testing.T) {
	ctx := context.Background()
	owner := testutil.NewUser("author", model.RoleDefault)
	reviewer := testutil.NewUser("reviewer", model.RoleDefault)
	pub := testutil.NewPublication(owner, "paper", "v1")

	setup := func(status model.ReviewStatus) (*testutil.MockRepository, *model.Review) {
		repo := new(testutil.MockRepository)
		review := testutil.NewReview(reviewer, pub, status)
		repo.On("FindReviewByID", mock.Anything, review.ID).Return(review, nil)
		repo.On("FindUserByID", mock.Anything, reviewer.ID).Return(reviewer, nil)
		repo.On("FindPublicationByID", mock.Anything, pub.ID).Return(pub, nil)
		return repo, review
	}

	t.Run("incomplete review is reported missing to a default non-owner", func(t *testing.T) {
		repo, review := setup(model.ReviewStarted)
		stranger := testutil.NewUser("stranger", model.RoleDefault)

		res, err := VerifyReview[model.IDParams, model.None](repo, repo, repo)(ctx, stranger, idParams(review.ID),
			Context{Minimum: model.RoleDefault, Satisfied: true})
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, http.StatusNotFound, res.Status())
	})

	t.Run("incomplete review is visible to its owner", func(t *testing.T) {
		repo, review := setup(model.ReviewStarted)

		res, err := VerifyReview[model.IDParams, model.None](repo, repo, repo)(ctx, reviewer, idParams(review.ID),
			Context{Minimum: model.RoleDefault, Satisfied: true})
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, pub, res.Data.Publication)
	})

	t.Run("completed review is visible to everyone", func(t *testing.T) {
		repo, review := setup(model.ReviewCompleted)
		stranger := testutil.NewUser("stranger", model.RoleDefault)

		res, err := VerifyReview[model.IDParams, model.None](repo, repo, repo)(ctx, stranger, idParams(review.ID),
			Context{Minimum: model.RoleDefault, Satisfied: true})
		require.NoError(t, err)
		assert.True(t, res.Valid)
	})
}

func TestVerifyActivity(t *testing.T) {
	ctx := context.Background()
	actor := testutil.NewUser("actor", model.RoleModerator)

	t.Run("activity that is not live is reported missing", func(t *testing.T) {
		repo := new(testutil.MockRepository)
		activity := &model.Activity{ID: primitive.NewObjectID(), Owner: actor.ID, Visibility: model.RoleDefault}
		repo.On("FindActivityByID", mock.Anything, activity.ID).Return(activity, nil)

		res, err := VerifyActivity[model.IDParams, model.None](repo, repo)(ctx, actor, idParams(activity.ID),
			Context{Minimum: model.RoleDefault, Satisfied: true})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.Status())
	})

	t.Run("activity above the viewer's role is reported missing", func(t *testing.T) {
		repo := new(testutil.MockRepository)
		activity := &model.Activity{ID: primitive.NewObjectID(), Owner: actor.ID, Visibility: model.RoleModerator, Live: true}
		repo.On("FindActivityByID", mock.Anything, activity.ID).Return(activity, nil)
		repo.On("FindUserByID", mock.Anything, actor.ID).Return(actor, nil)

		viewer := testutil.NewUser("viewer", model.RoleDefault)
		res, err := VerifyActivity[model.IDParams, model.None](repo, repo)(ctx, viewer, idParams(activity.ID),
			Context{Minimum: model.RoleDefault, Satisfied: true})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.Status())
	})
}
