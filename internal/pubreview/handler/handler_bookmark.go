package handler

import (
	"context"
	"net/http"

	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/pipeline"
	"pubreview/internal/pubreview/policy"
)

func (h *Handler) registerBookmarks(r pipeline.Router) {
	verify := policy.VerifyPublication[model.PublicationParams, model.PublicationQuery](h.Repo, h.Repo)

	pipeline.Register(h.Pipeline, r, publicationOp[model.None]{
		Method:     http.MethodPost,
		Path:       "/publication/:username/:name/bookmark",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Handler:    h.bookmark,
	})

	pipeline.Register(h.Pipeline, r, publicationOp[model.None]{
		Method:     http.MethodDelete,
		Path:       "/publication/:username/:name/bookmark",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Handler:    h.removeBookmark,
	})

	pipeline.Register(h.Pipeline, r, publicationOp[model.None]{
		Method:     http.MethodGet,
		Path:       "/publication/:username/:name/bookmark",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Handler:    h.bookmarkStatus,
	})

	pipeline.Register(h.Pipeline, r, publicationOp[model.None]{
		Method:     http.MethodGet,
		Path:       "/publication/:username/:name/bookmarkers",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Handler:    h.bookmarkers,
	})

	// Bookmarks are private to their owner and moderators
	pipeline.Register(h.Pipeline, r, userOp[model.None]{
		Method:     http.MethodGet,
		Path:       "/user/:username/bookmarks",
		Permission: policy.Requires(model.RoleModerator),
		Verify:     policy.VerifyUser[model.UsernameParams, model.ModeQuery](h.Repo),
		Handler:    h.userBookmarks,
	})
}

func (h *Handler) bookmark(ctx context.Context, req *publicationReq[model.None]) (pipeline.Result, error) {
	resp, created, err := h.Service.Bookmark(ctx, req.Requester, req.Permission)
	if created {
		return respondCreated(resp, err)
	}
	return respond(resp, err)
}

func (h *Handler) removeBookmark(ctx context.Context, req *publicationReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.RemoveBookmark(ctx, req.Requester, req.Permission))
}

func (h *Handler) bookmarkStatus(ctx context.Context, req *publicationReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.BookmarkStatus(ctx, req.Requester, req.Permission))
}

func (h *Handler) bookmarkers(ctx context.Context, req *publicationReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.Bookmarkers(ctx, req.Permission))
}

func (h *Handler) userBookmarks(ctx context.Context, req *userReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.Bookmarks(ctx, req.Permission))
}
