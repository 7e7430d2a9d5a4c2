package handler

import (
	"context"
	"net/http"

	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/pipeline"
	"pubreview/internal/pubreview/policy"
)

type (
	feedOp  = pipeline.Operation[model.UsernameParams, model.UserFeedQuery, model.None, model.None, *model.User]
	feedReq = pipeline.Request[model.UsernameParams, model.UserFeedQuery, model.None, model.None, *model.User]
)

func (h *Handler) registerFollows(r pipeline.Router) {
	verify := policy.VerifyUser[model.UsernameParams, model.ModeQuery](h.Repo)

	pipeline.Register(h.Pipeline, r, userOp[model.None]{
		Method:     http.MethodPost,
		Path:       "/user/:username/follow",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Handler:    h.follow,
	})

	pipeline.Register(h.Pipeline, r, userOp[model.None]{
		Method:     http.MethodDelete,
		Path:       "/user/:username/follow",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Handler:    h.unfollow,
	})

	pipeline.Register(h.Pipeline, r, userOp[model.None]{
		Method:     http.MethodGet,
		Path:       "/user/:username/follow",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Handler:    h.followStatus,
	})

	pipeline.Register(h.Pipeline, r, userOp[model.None]{
		Method:     http.MethodGet,
		Path:       "/user/:username/followers",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Handler:    h.followers,
	})

	pipeline.Register(h.Pipeline, r, userOp[model.None]{
		Method:     http.MethodGet,
		Path:       "/user/:username/following",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Handler:    h.following,
	})

	pipeline.Register(h.Pipeline, r, feedOp{
		Method:     http.MethodGet,
		Path:       "/user/:username/feed",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     policy.VerifyUser[model.UsernameParams, model.UserFeedQuery](h.Repo),
		Handler:    h.feed,
	})
}

func (h *Handler) follow(ctx context.Context, req *userReq[model.None]) (pipeline.Result, error) {
	resp, created, err := h.Service.Follow(ctx, req.Requester, req.Permission)
	if created {
		return respondCreated(resp, err)
	}
	return respond(resp, err)
}

func (h *Handler) unfollow(ctx context.Context, req *userReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.Unfollow(ctx, req.Requester, req.Permission))
}

func (h *Handler) followStatus(ctx context.Context, req *userReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.FollowStatus(ctx, req.Requester, req.Permission))
}

func (h *Handler) followers(ctx context.Context, req *userReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.Followers(ctx, req.Permission))
}

func (h *Handler) following(ctx context.Context, req *userReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.Following(ctx, req.Permission))
}

func (h *Handler) feed(ctx context.Context, req *feedReq) (pipeline.Result, error) {
	return respond(h.Service.Feed(ctx, req.Requester, req.Permission, req.Query))
}
