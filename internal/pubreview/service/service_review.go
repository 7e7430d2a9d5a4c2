package service

import (
	"context"

	"pubreview/internal/pubreview/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StartReview returns the requester's review of p, creating it when there is
// none yet. created reports which of the two happened.
func (s *Service) StartReview(ctx context.Context, requester *model.User, p *model.PopulatedPublication) (resp *model.ReviewResponse, created bool, err error) {
	if p.Draft {
		return nil, false, ErrDraftReview
	}

	existing, err := s.Repo.FindReviewByOwner(ctx, p.ID, requester.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return &model.ReviewResponse{Review: existing.View(requester)}, false, nil
	}

	review := &model.Review{
		Publication: p.ID,
		Owner:       requester.ID,
		Status:      model.ReviewStarted,
	}
	if err := s.Repo.CreateReview(ctx, review); err != nil {
		return nil, false, mapRepoErr(err, nil)
	}
	return &model.ReviewResponse{Review: review.View(requester)}, true, nil
}

// ListUserReviews lists the reviews written by target. Reviews still in
// progress are only listed for their author and for moderators.
func (s *Service) ListUserReviews(ctx context.Context, requester, target *model.User) (*model.ReviewListResponse, error) {
	includeStarted := requester.ID == target.ID || model.MeetsOrExceeds(requester.Role, model.RoleModerator)
	reviews, err := s.Repo.ListReviewsByOwner(ctx, target.ID, includeStarted)
	if err != nil {
		return nil, err
	}

	views := make([]model.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, r.View(target))
	}
	return &model.ReviewListResponse{Reviews: views}, nil
}

// CompleteReview publishes a started review. Only its author may do so.
func (s *Service) CompleteReview(ctx context.Context, requester *model.User, r *model.PopulatedReview) (*model.ReviewResponse, error) {
	if r.Owner != requester.ID {
		return nil, ErrForbidden
	}
	if r.Status == model.ReviewCompleted {
		return nil, ErrReviewCompleted
	}

	completed, err := s.Repo.CompleteReview(ctx, r.ID)
	if err != nil {
		return nil, mapRepoErr(err, nil)
	}
	return &model.ReviewResponse{Review: completed.View(r.OwnerUser)}, nil
}

func (s *Service) DeleteReview(ctx context.Context, r *model.PopulatedReview) (*model.ReviewResponse, error) {
	if err := s.Repo.DeleteReview(ctx, r.ID); err != nil {
		return nil, mapRepoErr(err, nil)
	}
	return &model.ReviewResponse{Review: r.View(r.OwnerUser)}, nil
}

// AddComment leaves a comment on r. A reply joins the thread of the comment it
// answers, which must belong to the same review.
func (s *Service) AddComment(ctx context.Context, requester *model.User, r *model.PopulatedReview, req model.CreateCommentReq) (*model.CommentResponse, error) {
	comment := &model.Comment{
		Owner:       requester.ID,
		Review:      r.ID,
		Publication: r.Review.Publication,
		Filename:    req.Filename,
		Anchor:      req.Anchor,
		Contents:    req.Contents,
	}

	if req.Replying != "" {
		id, err := primitive.ObjectIDFromHex(req.Replying)
		if err != nil {
			return nil, ErrReplyTarget
		}
		target, err := s.Repo.FindCommentByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if target == nil || target.Review != r.ID {
			return nil, ErrReplyTarget
		}
		comment.Replying = &target.ID
		comment.Thread = target.Thread
	}

	if err := s.Repo.CreateComment(ctx, comment); err != nil {
		return nil, mapRepoErr(err, nil)
	}
	return &model.CommentResponse{Comment: comment.View(requester)}, nil
}

func (s *Service) ListComments(ctx context.Context, r *model.PopulatedReview) (*model.CommentListResponse, error) {
	comments, err := s.Repo.FindCommentsByReview(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	return s.commentList(ctx, comments)
}

func (s *Service) commentList(ctx context.Context, comments []*model.Comment) (*model.CommentListResponse, error) {
	ids := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.Owner)
	}
	owners, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]model.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, c.View(owners[c.Owner]))
	}
	return &model.CommentListResponse{Comments: views}, nil
}
