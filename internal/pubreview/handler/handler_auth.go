package handler

import (
	"context"
	"net/http"

	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/pipeline"
	"pubreview/internal/pubreview/policy"

	"github.com/labstack/echo/v4"
)

type (
	registerReq = pipeline.Request[model.None, model.None, model.None, model.RegisterReq, model.None]
	loginReq    = pipeline.Request[model.None, model.None, model.None, model.LoginReq, model.None]
	sessionReq  = pipeline.Request[model.None, model.None, model.None, model.None, model.None]
)

func (h *Handler) registerAuth(r pipeline.Router, limit ...echo.MiddlewareFunc) {
	pipeline.Register(h.Pipeline, r, pipeline.Operation[model.None, model.None, model.None, model.RegisterReq, model.None]{
		Method:  http.MethodPost,
		Path:    "/auth/register",
		Public:  true,
		Handler: h.register,
	}, limit...)

	pipeline.Register(h.Pipeline, r, pipeline.Operation[model.None, model.None, model.None, model.LoginReq, model.None]{
		Method:  http.MethodPost,
		Path:    "/auth/login",
		Public:  true,
		Handler: h.login,
	}, limit...)

	pipeline.Register(h.Pipeline, r, pipeline.Operation[model.None, model.None, model.None, model.None, model.None]{
		Method:     http.MethodGet,
		Path:       "/auth/session",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     policy.Default[model.None, model.None](),
		Handler:    h.session,
	})
}

func (h *Handler) register(ctx context.Context, req *registerReq) (pipeline.Result, error) {
	return respondCreated(h.Service.Register(ctx, req.Body))
}

func (h *Handler) login(ctx context.Context, req *loginReq) (pipeline.Result, error) {
	return respond(h.Service.Login(ctx, req.Body))
}

func (h *Handler) session(_ context.Context, req *sessionReq) (pipeline.Result, error) {
	return pipeline.OK(model.UserResponse{User: req.Requester.View()}), nil
}
