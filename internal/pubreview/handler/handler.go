package handler

import (
	"pubreview/internal/pubreview/pipeline"
	"pubreview/internal/pubreview/service"

	"github.com/labstack/echo/v4"
)

// Handler declares every endpoint of the API on top of the pipeline.
type Handler struct {
	Pipeline *pipeline.Pipeline
	Service  *service.Service
	Repo     service.Repository
}

func NewHandler(p *pipeline.Pipeline, s *service.Service) *Handler {
	return &Handler{Pipeline: p, Service: s, Repo: s.Repo}
}

// Register mounts all endpoints on r. authLimit wraps the unauthenticated
// auth endpoints.
func (h *Handler) Register(r pipeline.Router, authLimit ...echo.MiddlewareFunc) {
	h.registerAuth(r, authLimit...)
	h.registerUsers(r)
	h.registerFollows(r)
	h.registerPublications(r)
	h.registerBookmarks(r)
	h.registerReviews(r)
	h.registerComments(r)
	h.registerActivities(r)
}

func respond(data any, err error) (pipeline.Result, error) {
	if err != nil {
		return nil, appError(err)
	}
	return pipeline.OK(data), nil
}

func respondCreated(data any, err error) (pipeline.Result, error) {
	if err != nil {
		return nil, appError(err)
	}
	return pipeline.Created(data), nil
}
