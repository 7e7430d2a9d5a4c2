package handler

import (
	"context"
	"net/http"

	"pubreview/internal/pubreview/activity"
	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/pipeline"
	"pubreview/internal/pubreview/policy"
)

type (
	reviewOp[B any]  = pipeline.Operation[model.IDParams, model.None, model.None, B, *model.PopulatedReview]
	reviewReq[B any] = pipeline.Request[model.IDParams, model.None, model.None, B, *model.PopulatedReview]
)

func (h *Handler) registerReviews(r pipeline.Router) {
	verify := policy.VerifyReview[model.IDParams, model.None](h.Repo, h.Repo, h.Repo)

	pipeline.Register(h.Pipeline, r, publicationOp[model.None]{
		Method:     http.MethodPost,
		Path:       "/publication/:username/:name/reviews",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     policy.VerifyPublication[model.PublicationParams, model.PublicationQuery](h.Repo, h.Repo),
		Handler:    h.startReview,
	})

	pipeline.Register(h.Pipeline, r, reviewOp[model.None]{
		Method:     http.MethodGet,
		Path:       "/review/:id",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Handler:    h.getReview,
	})

	pipeline.Register(h.Pipeline, r, reviewOp[model.None]{
		Method:     http.MethodPost,
		Path:       "/review/:id/complete",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Activity:   &activity.Declaration{Kind: model.ActivityCreate, Type: model.SubjectReview},
		Handler:    h.completeReview,
	})

	pipeline.Register(h.Pipeline, r, reviewOp[model.None]{
		Method:     http.MethodDelete,
		Path:       "/review/:id",
		Permission: policy.Requires(model.RoleAdministrator),
		Verify:     verify,
		Activity: &activity.Declaration{
			Kind:       model.ActivityDelete,
			Type:       model.SubjectReview,
			Visibility: model.RoleModerator,
		},
		Handler: h.deleteReview,
	})

	pipeline.Register(h.Pipeline, r, reviewOp[model.CreateCommentReq]{
		Method:     http.MethodPut,
		Path:       "/review/:id/comment",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Activity:   &activity.Declaration{Kind: model.ActivityCreate, Type: model.SubjectComment},
		Handler:    h.addComment,
	})

	pipeline.Register(h.Pipeline, r, reviewOp[model.None]{
		Method:     http.MethodGet,
		Path:       "/review/:id/comments",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Handler:    h.listComments,
	})
}

// startReview resumes the requester's review of a publication or starts one.
func (h *Handler) startReview(ctx context.Context, req *publicationReq[model.None]) (pipeline.Result, error) {
	resp, created, err := h.Service.StartReview(ctx, req.Requester, req.Permission)
	if created {
		return respondCreated(resp, err)
	}
	return respond(resp, err)
}

func (h *Handler) getReview(_ context.Context, req *reviewReq[model.None]) (pipeline.Result, error) {
	return pipeline.OK(model.ReviewResponse{Review: req.Permission.View(req.Permission.OwnerUser)}), nil
}

func (h *Handler) completeReview(ctx context.Context, req *reviewReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.CompleteReview(ctx, req.Requester, req.Permission))
}

func (h *Handler) deleteReview(ctx context.Context, req *reviewReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.DeleteReview(ctx, req.Permission))
}

func (h *Handler) addComment(ctx context.Context, req *reviewReq[model.CreateCommentReq]) (pipeline.Result, error) {
	return respondCreated(h.Service.AddComment(ctx, req.Requester, req.Permission, req.Body))
}

func (h *Handler) listComments(ctx context.Context, req *reviewReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.ListComments(ctx, req.Permission))
}
