package activity

import (
	"errors"
	"fmt"

	"pubreview/internal/pubreview/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrUnexpectedResponse = errors.New("unexpected handler response")

// Event is what a transformer sees once the handler has succeeded.
type Event struct {
	Requester  *model.User
	Kind       model.ActivityKind
	Request    any
	Permission any
	Response   any
}

// Outcome is written onto the record when it is committed.
type Outcome struct {
	Metadata *model.ActivityMetadata
	Document *primitive.ObjectID
	Live     bool
}

type Transformer func(Event) (Outcome, error)

func DefaultTransformers() map[model.SubjectType]Transformer {
	return map[model.SubjectType]Transformer{
		model.SubjectPublication: transformPublication,
		model.SubjectReview:      transformReview,
		model.SubjectComment:     transformComment,
		model.SubjectUser:        transformUser,
	}
}

// Publications stay hidden from feeds while they are drafts; publishing makes
// the pending records live.
func transformPublication(e Event) (Outcome, error) {
	switch res := deref(e.Response).(type) {
	case model.PublicationResponse:
		p := res.Publication
		doc, err := objectID(p.ID)
		if err != nil {
			return Outcome{}, err
		}
		meta := &model.ActivityMetadata{
			Name:          p.Name,
			Revision:      p.Revision,
			Collaborators: len(p.Collaborators),
		}
		if e.Kind == model.ActivityRevise {
			meta.PreviousRevision = res.PreviousRevision
		}
		if e.Kind == model.ActivityUpdate {
			meta.Fields = patchedFields(e.Request)
		}
		return Outcome{Metadata: meta, Document: doc, Live: !p.Draft}, nil

	case model.PublicationDeletion:
		return Outcome{
			Metadata: &model.ActivityMetadata{Name: res.Name, Revision: res.Revision},
			Live:     true,
		}, nil
	}
	return Outcome{}, fmt.Errorf("%w: %T for publication activity", ErrUnexpectedResponse, e.Response)
}

func transformReview(e Event) (Outcome, error) {
	res, ok := deref(e.Response).(model.ReviewResponse)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %T for review activity", ErrUnexpectedResponse, e.Response)
	}
	meta := &model.ActivityMetadata{
		Review:      res.Review.ID,
		Publication: res.Review.Publication,
	}
	if e.Kind == model.ActivityDelete {
		return Outcome{Metadata: meta, Live: true}, nil
	}
	doc, err := objectID(res.Review.ID)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Metadata: meta, Document: doc, Live: true}, nil
}

func transformComment(e Event) (Outcome, error) {
	res, ok := deref(e.Response).(model.CommentResponse)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %T for comment activity", ErrUnexpectedResponse, e.Response)
	}
	meta := &model.ActivityMetadata{Review: res.Comment.Review, Comments: 1}
	if e.Kind == model.ActivityDelete {
		return Outcome{Metadata: meta, Live: true}, nil
	}
	doc, err := objectID(res.Comment.ID)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Metadata: meta, Document: doc, Live: true}, nil
}

func transformUser(e Event) (Outcome, error) {
	var user model.UserView
	switch res := deref(e.Response).(type) {
	case model.UserResponse:
		user = res.User
	case model.RoleResponse:
		// The target of a role change is the resolved user
		target, ok := e.Permission.(*model.User)
		if !ok || target == nil {
			return Outcome{}, fmt.Errorf("%w: role change without a target user", ErrUnexpectedResponse)
		}
		id := target.ID
		return Outcome{
			Metadata: &model.ActivityMetadata{Username: target.Username, Fields: []string{"role"}},
			Document: &id,
			Live:     true,
		}, nil
	default:
		return Outcome{}, fmt.Errorf("%w: %T for user activity", ErrUnexpectedResponse, e.Response)
	}

	meta := &model.ActivityMetadata{Username: user.Username}
	if e.Kind == model.ActivityDelete {
		return Outcome{Metadata: meta, Live: true}, nil
	}
	meta.Fields = patchedFields(e.Request)
	doc, err := objectID(user.ID)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Metadata: meta, Document: doc, Live: true}, nil
}

// patchedFields lists the fields a patch request touched.
func patchedFields(request any) []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}

	switch req := deref(request).(type) {
	case model.PatchUserReq:
		add(req.Email != nil, "email")
		add(req.Username != nil, "username")
		add(req.FirstName != nil, "firstName")
		add(req.LastName != nil, "lastName")
		add(req.About != nil, "about")
		add(req.Status != nil, "status")
	case model.PatchPublicationReq:
		add(req.Title != nil, "title")
		add(req.Introduction != nil, "introduction")
		add(req.About != nil, "about")
		add(req.Changelog != nil, "changelog")
		add(req.Pinned != nil, "pinned")
		add(req.Collaborators != nil, "collaborators")
	}
	return fields
}

func deref(v any) any {
	switch t := v.(type) {
	case *model.PublicationResponse:
		return *t
	case *model.PublicationDeletion:
		return *t
	case *model.ReviewResponse:
		return *t
	case *model.CommentResponse:
		return *t
	case *model.UserResponse:
		return *t
	case *model.RoleResponse:
		return *t
	case *model.PatchUserReq:
		return *t
	case *model.PatchPublicationReq:
		return *t
	}
	return v
}

func objectID(hex string) (*primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, fmt.Errorf("%w: bad document id %q", ErrUnexpectedResponse, hex)
	}
	return &id, nil
}
