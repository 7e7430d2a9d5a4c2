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
	userOp[B any]  = pipeline.Operation[model.UsernameParams, model.ModeQuery, model.None, B, *model.User]
	userReq[B any] = pipeline.Request[model.UsernameParams, model.ModeQuery, model.None, B, *model.User]
)

func (h *Handler) registerUsers(r pipeline.Router) {
	verify := policy.VerifyUser[model.UsernameParams, model.ModeQuery](h.Repo)

	pipeline.Register(h.Pipeline, r, userOp[model.None]{
		Method:     http.MethodGet,
		Path:       "/user/:username",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Handler:    h.getUser,
	})

	pipeline.Register(h.Pipeline, r, userOp[model.PatchUserReq]{
		Method:     http.MethodPatch,
		Path:       "/user/:username",
		Permission: policy.Requires(model.RoleModerator),
		Verify:     verify,
		Activity:   &activity.Declaration{Kind: model.ActivityUpdate, Type: model.SubjectUser},
		Handler:    h.patchUser,
	})

	pipeline.Register(h.Pipeline, r, userOp[model.None]{
		Method:     http.MethodDelete,
		Path:       "/user/:username",
		Permission: policy.RequiresDestructive(model.RoleAdministrator),
		Verify:     verify,
		Activity: &activity.Declaration{
			Kind:       model.ActivityDelete,
			Type:       model.SubjectUser,
			Visibility: model.RoleAdministrator,
		},
		Handler: h.deleteUser,
	})

	pipeline.Register(h.Pipeline, r, userOp[model.None]{
		Method:     http.MethodGet,
		Path:       "/user/:username/role",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Handler:    h.getRole,
	})

	pipeline.Register(h.Pipeline, r, userOp[model.None]{
		Method:     http.MethodGet,
		Path:       "/user/:username/reviews",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Handler:    h.listUserReviews,
	})

	pipeline.Register(h.Pipeline, r, userOp[model.PatchRoleReq]{
		Method:     http.MethodPatch,
		Path:       "/user/:username/role",
		Permission: policy.Requires(model.RoleModerator),
		Verify:     verify,
		Activity: &activity.Declaration{
			Kind:       model.ActivityUpdate,
			Type:       model.SubjectUser,
			Visibility: model.RoleModerator,
		},
		Handler: h.patchRole,
	})
}

func (h *Handler) getUser(_ context.Context, req *userReq[model.None]) (pipeline.Result, error) {
	return pipeline.OK(model.UserResponse{User: req.Permission.View()}), nil
}

func (h *Handler) patchUser(ctx context.Context, req *userReq[model.PatchUserReq]) (pipeline.Result, error) {
	return respond(h.Service.PatchUser(ctx, req.Permission, req.Body))
}

func (h *Handler) deleteUser(ctx context.Context, req *userReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.DeleteUser(ctx, req.Permission))
}

func (h *Handler) getRole(_ context.Context, req *userReq[model.None]) (pipeline.Result, error) {
	return pipeline.OK(model.RoleResponse{Role: req.Permission.Role}), nil
}

func (h *Handler) listUserReviews(ctx context.Context, req *userReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.ListUserReviews(ctx, req.Requester, req.Permission))
}

func (h *Handler) patchRole(ctx context.Context, req *userReq[model.PatchRoleReq]) (pipeline.Result, error) {
	return respond(h.Service.ChangeRole(ctx, req.Requester, req.Permission, model.Role(req.Body.Role)))
}
