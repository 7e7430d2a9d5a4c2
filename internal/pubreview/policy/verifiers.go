package policy

import (
	"context"

	"pubreview/internal/pubreview/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PublicationFinder interface {
	FindPublicationByID(ctx context.Context, id primitive.ObjectID) (*model.Publication, error)
	FindPublication(ctx context.Context, owner primitive.ObjectID, name, revision string) (*model.Publication, error)
}

type ReviewFinder interface {
	FindReviewByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error)
}

type CommentFinder interface {
	FindCommentByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error)
	FindThreadRoot(ctx context.Context, thread primitive.ObjectID) (*model.Comment, error)
}

type ActivityFinder interface {
	FindActivityByID(ctx context.Context, id primitive.ObjectID) (*model.Activity, error)
}

// Request parts the verifiers know how to read.
type (
	UserLocator interface{ UserKey() string }
	ModeLocator interface{ LookupByID() bool }
	IDLocator   interface{ ObjectID() primitive.ObjectID }

	PublicationLocator interface {
		UserLocator
		PublicationName() string
	}
	RevisionLocator interface {
		ModeLocator
		PublicationRevision() string
	}
)

// PublicationFamily is the data resolved for operations on every revision of
// a publication at once.
type PublicationFamily struct {
	Owner   *model.User
	Name    string
	Current *model.Publication
	// IncludeDrafts is set when the requester may see draft revisions.
	IncludeDrafts bool
}

// Default grants requesters that meet the minimum role.
func Default[P, Q any]() Verifier[P, Q, model.None] {
	return func(_ context.Context, requester *model.User, _ Target[P, Q], pc Context) (Resolved[model.None], error) {
		if !pc.Satisfied {
			return Deny[model.None](), nil
		}
		return Grant(requester, model.None{}), nil
	}
}

func VerifyUser[P UserLocator, Q ModeLocator](users UserFinder) Verifier[P, Q, *model.User] {
	return func(ctx context.Context, requester *model.User, target Target[P, Q], pc Context) (Resolved[*model.User], error) {
		user, err := lookupUser(ctx, users, target.Params.UserKey(), target.Query.LookupByID())
		if err != nil || user == nil {
			return NotFound[*model.User](), err
		}

		d := Evaluate(requester, Subject{OwnerID: user.ID, OwnerRole: user.Role}, pc)
		return Apply(requester, d, user), nil
	}
}

func VerifyPublication[P PublicationLocator, Q RevisionLocator](users UserFinder, publications PublicationFinder) Verifier[P, Q, *model.PopulatedPublication] {
	return func(ctx context.Context, requester *model.User, target Target[P, Q], pc Context) (Resolved[*model.PopulatedPublication], error) {
		owner, err := lookupUser(ctx, users, target.Params.UserKey(), target.Query.LookupByID())
		if err != nil || owner == nil {
			return NotFound[*model.PopulatedPublication](), err
		}
		publication, err := publications.FindPublication(ctx, owner.ID, target.Params.PublicationName(), target.Query.PublicationRevision())
		if err != nil || publication == nil {
			return NotFound[*model.PopulatedPublication](), err
		}

		d := Evaluate(requester, publicationSubject(publication, owner), pc)
		return Apply(requester, d, &model.PopulatedPublication{Publication: *publication, OwnerUser: owner}), nil
	}
}

// VerifyPublicationFamily resolves a publication by name without picking a
// revision. Drafts do not hide the family; IncludeDrafts tells the handler
// whether to filter them.
func VerifyPublicationFamily[P PublicationLocator, Q ModeLocator](users UserFinder, publications PublicationFinder) Verifier[P, Q, *PublicationFamily] {
	return func(ctx context.Context, requester *model.User, target Target[P, Q], pc Context) (Resolved[*PublicationFamily], error) {
		owner, err := lookupUser(ctx, users, target.Params.UserKey(), target.Query.LookupByID())
		if err != nil || owner == nil {
			return NotFound[*PublicationFamily](), err
		}
		current, err := publications.FindPublication(ctx, owner.ID, target.Params.PublicationName(), "")
		if err != nil || current == nil {
			return NotFound[*PublicationFamily](), err
		}

		s := Subject{OwnerID: owner.ID, OwnerRole: owner.Role, Collaborators: current.Collaborators}
		d := Evaluate(requester, s, pc)

		family := &PublicationFamily{
			Owner:   owner,
			Name:    current.Name,
			Current: current,
			IncludeDrafts: requester.ID == owner.ID ||
				current.HasCollaborator(requester.ID) ||
				model.MeetsOrExceeds(requester.Role, model.RoleModerator),
		}
		return Apply(requester, d, family), nil
	}
}

func VerifyPublicationID[P IDLocator, Q any](users UserFinder, publications PublicationFinder) Verifier[P, Q, *model.PopulatedPublication] {
	return func(ctx context.Context, requester *model.User, target Target[P, Q], pc Context) (Resolved[*model.PopulatedPublication], error) {
		publication, err := publications.FindPublicationByID(ctx, target.Params.ObjectID())
		if err != nil || publication == nil {
			return NotFound[*model.PopulatedPublication](), err
		}
		owner, err := users.FindUserByID(ctx, publication.Owner)
		if err != nil {
			return NotFound[*model.PopulatedPublication](), err
		}

		d := Evaluate(requester, publicationSubject(publication, owner), pc)
		return Apply(requester, d, &model.PopulatedPublication{Publication: *publication, OwnerUser: owner}), nil
	}
}

// VerifyReview hides reviews that are still in progress from requesters below
// moderator by reporting them as missing.
func VerifyReview[P IDLocator, Q any](users UserFinder, publications PublicationFinder, reviews ReviewFinder) Verifier[P, Q, *model.PopulatedReview] {
	return func(ctx context.Context, requester *model.User, target Target[P, Q], pc Context) (Resolved[*model.PopulatedReview], error) {
		review, err := reviews.FindReviewByID(ctx, target.Params.ObjectID())
		if err != nil || review == nil {
			return NotFound[*model.PopulatedReview](), err
		}
		owner, err := users.FindUserByID(ctx, review.Owner)
		if err != nil {
			return NotFound[*model.PopulatedReview](), err
		}
		publication, err := publications.FindPublicationByID(ctx, review.Publication)
		if err != nil {
			return NotFound[*model.PopulatedReview](), err
		}

		d := Evaluate(requester, reviewSubject(review, owner), pc)
		return Apply(requester, d, &model.PopulatedReview{Review: *review, OwnerUser: owner, Publication: publication}), nil
	}
}

// VerifyComment applies the review's visibility to its comments.
func VerifyComment[P IDLocator, Q any](users UserFinder, reviews ReviewFinder, comments CommentFinder) Verifier[P, Q, *model.PopulatedComment] {
	return func(ctx context.Context, requester *model.User, target Target[P, Q], pc Context) (Resolved[*model.PopulatedComment], error) {
		comment, err := comments.FindCommentByID(ctx, target.Params.ObjectID())
		if err != nil || comment == nil {
			return NotFound[*model.PopulatedComment](), err
		}
		s, owner, err := commentSubject(ctx, users, reviews, comment)
		if err != nil {
			return NotFound[*model.PopulatedComment](), err
		}

		d := Evaluate(requester, s, pc)
		return Apply(requester, d, &model.PopulatedComment{Comment: *comment, OwnerUser: owner}), nil
	}
}

// VerifyCommentThread resolves the comment that opened the thread with the
// given id and applies the comment rules to it.
func VerifyCommentThread[P IDLocator, Q any](users UserFinder, reviews ReviewFinder, comments CommentFinder) Verifier[P, Q, *model.Comment] {
	return func(ctx context.Context, requester *model.User, target Target[P, Q], pc Context) (Resolved[*model.Comment], error) {
		root, err := comments.FindThreadRoot(ctx, target.Params.ObjectID())
		if err != nil || root == nil {
			return NotFound[*model.Comment](), err
		}
		s, _, err := commentSubject(ctx, users, reviews, root)
		if err != nil {
			return NotFound[*model.Comment](), err
		}

		return Apply(requester, Evaluate(requester, s, pc), root), nil
	}
}

// VerifyActivity only resolves live activities; the activity's visibility is
// its floor.
func VerifyActivity[P IDLocator, Q any](users UserFinder, activities ActivityFinder) Verifier[P, Q, *model.PopulatedActivity] {
	return func(ctx context.Context, requester *model.User, target Target[P, Q], pc Context) (Resolved[*model.PopulatedActivity], error) {
		activity, err := activities.FindActivityByID(ctx, target.Params.ObjectID())
		if err != nil || activity == nil || !activity.Live {
			return NotFound[*model.PopulatedActivity](), err
		}
		owner, err := users.FindUserByID(ctx, activity.Owner)
		if err != nil {
			return NotFound[*model.PopulatedActivity](), err
		}

		s := Subject{
			OwnerID:   activity.Owner,
			OwnerRole: roleOf(owner),
			Floor:     activity.Visibility,
			Conceal:   true,
		}
		d := Evaluate(requester, s, pc)
		return Apply(requester, d, &model.PopulatedActivity{Activity: *activity, OwnerUser: owner}), nil
	}
}

func publicationSubject(p *model.Publication, owner *model.User) Subject {
	s := Subject{OwnerID: p.Owner, OwnerRole: roleOf(owner), Collaborators: p.Collaborators}
	if p.Draft {
		s.Floor = model.RoleModerator
	}
	return s
}

func reviewSubject(r *model.Review, owner *model.User) Subject {
	s := Subject{OwnerID: r.Owner, OwnerRole: roleOf(owner)}
	if r.Status != model.ReviewCompleted {
		s.Floor = model.RoleModerator
		s.Conceal = true
	}
	return s
}

func commentSubject(ctx context.Context, users UserFinder, reviews ReviewFinder, c *model.Comment) (Subject, *model.User, error) {
	owner, err := users.FindUserByID(ctx, c.Owner)
	if err != nil {
		return Subject{}, nil, err
	}
	s := Subject{OwnerID: c.Owner, OwnerRole: roleOf(owner)}

	review, err := reviews.FindReviewByID(ctx, c.Review)
	if err != nil {
		return Subject{}, nil, err
	}
	if review == nil || review.Status != model.ReviewCompleted {
		s.Floor = model.RoleModerator
		s.Conceal = true
	}
	return s, owner, nil
}

func lookupUser(ctx context.Context, users UserFinder, key string, byID bool) (*model.User, error) {
	if !byID {
		return users.FindUserByUsername(ctx, key)
	}
	id, err := primitive.ObjectIDFromHex(key)
	if err != nil {
		return nil, nil
	}
	return users.FindUserByID(ctx, id)
}

// roleOf treats a missing owner as holding the default role.
func roleOf(u *model.User) model.Role {
	if u == nil {
		return model.RoleDefault
	}
	return u.Role
}
