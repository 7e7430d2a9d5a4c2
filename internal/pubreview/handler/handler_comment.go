package handler

import (
	"context"
	"net/http"

	"pubreview/internal/pubreview/activity"
	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/pipeline"
	"pubreview/internal/pubreview/policy"
	"pubreview/internal/pubreview/service"
)

type (
	commentOp[B any]  = pipeline.Operation[model.IDParams, model.None, model.None, B, *model.PopulatedComment]
	commentReq[B any] = pipeline.Request[model.IDParams, model.None, model.None, B, *model.PopulatedComment]
	threadReq         = pipeline.Request[model.IDParams, model.None, model.None, model.None, *model.Comment]
)

func (h *Handler) registerComments(r pipeline.Router) {
	verify := policy.VerifyComment[model.IDParams, model.None](h.Repo, h.Repo, h.Repo)

	pipeline.Register(h.Pipeline, r, commentOp[model.None]{
		Method:     http.MethodGet,
		Path:       "/comment/:id",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Handler:    h.getComment,
	})

	pipeline.Register(h.Pipeline, r, commentOp[model.PatchCommentReq]{
		Method:     http.MethodPatch,
		Path:       "/comment/:id",
		Permission: policy.Requires(model.RoleModerator),
		Verify:     verify,
		Activity:   &activity.Declaration{Kind: model.ActivityUpdate, Type: model.SubjectComment},
		Handler:    h.patchComment,
	})

	pipeline.Register(h.Pipeline, r, commentOp[model.None]{
		Method:     http.MethodDelete,
		Path:       "/comment/:id",
		Permission: policy.Requires(model.RoleAdministrator),
		Verify:     verify,
		Activity:   &activity.Declaration{Kind: model.ActivityDelete, Type: model.SubjectComment},
		Handler:    h.deleteComment,
	})

	pipeline.Register(h.Pipeline, r, pipeline.Operation[model.IDParams, model.None, model.None, model.None, *model.Comment]{
		Method:     http.MethodGet,
		Path:       "/thread/:id",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     policy.VerifyCommentThread[model.IDParams, model.None](h.Repo, h.Repo, h.Repo),
		Handler:    h.getThread,
	})
}

func (h *Handler) getComment(_ context.Context, req *commentReq[model.None]) (pipeline.Result, error) {
	if req.Permission.Deleted {
		return nil, appError(service.ErrNotFound)
	}
	return pipeline.OK(model.CommentResponse{Comment: req.Permission.View(req.Permission.OwnerUser)}), nil
}

func (h *Handler) patchComment(ctx context.Context, req *commentReq[model.PatchCommentReq]) (pipeline.Result, error) {
	return respond(h.Service.PatchComment(ctx, req.Permission, req.Body))
}

func (h *Handler) deleteComment(ctx context.Context, req *commentReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.DeleteComment(ctx, req.Permission))
}

func (h *Handler) getThread(ctx context.Context, req *threadReq) (pipeline.Result, error) {
	return respond(h.Service.GetThread(ctx, req.Permission))
}
