package service

import (
	"context"

	"pubreview/internal/pubreview/model"
)

func (s *Service) PatchComment(ctx context.Context, c *model.PopulatedComment, req model.PatchCommentReq) (*model.CommentResponse, error) {
	if c.Deleted {
		return nil, ErrNotFound
	}
	updated, err := s.Repo.UpdateCommentContents(ctx, c.ID, req.Contents)
	if err != nil {
		return nil, mapRepoErr(err, nil)
	}
	return &model.CommentResponse{Comment: updated.View(c.OwnerUser)}, nil
}

func (s *Service) DeleteComment(ctx context.Context, c *model.PopulatedComment) (*model.CommentResponse, error) {
	if err := s.Repo.DeleteComment(ctx, c.ID); err != nil {
		return nil, mapRepoErr(err, nil)
	}
	return &model.CommentResponse{Comment: c.View(c.OwnerUser)}, nil
}

// GetThread lists a whole conversation, starting from its root comment.
func (s *Service) GetThread(ctx context.Context, root *model.Comment) (*model.CommentListResponse, error) {
	comments, err := s.Repo.FindCommentsByThread(ctx, root.Thread)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, ErrNotFound
	}
	return s.commentList(ctx, comments)
}
