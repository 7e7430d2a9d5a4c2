package handler

import (
	"context"
	"net/http"

	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/pipeline"
	"pubreview/internal/pubreview/policy"
)

type (
	activityReq     = pipeline.Request[model.IDParams, model.None, model.None, model.None, *model.PopulatedActivity]
	activityFeedReq = pipeline.Request[model.None, model.ActivityListQuery, model.None, model.None, model.None]
)

func (h *Handler) registerActivities(r pipeline.Router) {
	pipeline.Register(h.Pipeline, r, pipeline.Operation[model.None, model.ActivityListQuery, model.None, model.None, model.None]{
		Method:     http.MethodGet,
		Path:       "/activity",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     policy.Default[model.None, model.ActivityListQuery](),
		Handler:    h.listActivities,
	})

	pipeline.Register(h.Pipeline, r, pipeline.Operation[model.IDParams, model.None, model.None, model.None, *model.PopulatedActivity]{
		Method:     http.MethodGet,
		Path:       "/activity/:id",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     policy.VerifyActivity[model.IDParams, model.None](h.Repo, h.Repo),
		Handler:    h.getActivity,
	})
}

func (h *Handler) listActivities(ctx context.Context, req *activityFeedReq) (pipeline.Result, error) {
	return respond(h.Service.ListActivities(ctx, req.Requester, req.Query))
}

func (h *Handler) getActivity(_ context.Context, req *activityReq) (pipeline.Result, error) {
	a := req.Permission
	return pipeline.OK(model.ActivityResponse{Activity: a.View(a.OwnerUser)}), nil
}
