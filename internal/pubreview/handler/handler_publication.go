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
	publicationOp[B any]  = pipeline.Operation[model.PublicationParams, model.PublicationQuery, model.None, B, *model.PopulatedPublication]
	publicationReq[B any] = pipeline.Request[model.PublicationParams, model.PublicationQuery, model.None, B, *model.PopulatedPublication]

	familyOp  = pipeline.Operation[model.PublicationParams, model.ModeQuery, model.None, model.None, *policy.PublicationFamily]
	familyReq = pipeline.Request[model.PublicationParams, model.ModeQuery, model.None, model.None, *policy.PublicationFamily]

	listPublicationsReq  = pipeline.Request[model.None, model.PublicationListQuery, model.None, model.None, model.None]
	createPublicationReq = pipeline.Request[model.None, model.None, model.None, model.CreatePublicationReq, model.None]
	publicationByIDReq   = pipeline.Request[model.IDParams, model.None, model.None, model.None, *model.PopulatedPublication]
)

func (h *Handler) registerPublications(r pipeline.Router) {
	verify := policy.VerifyPublication[model.PublicationParams, model.PublicationQuery](h.Repo, h.Repo)
	verifyFamily := policy.VerifyPublicationFamily[model.PublicationParams, model.ModeQuery](h.Repo, h.Repo)

	pipeline.Register(h.Pipeline, r, pipeline.Operation[model.None, model.PublicationListQuery, model.None, model.None, model.None]{
		Method:     http.MethodGet,
		Path:       "/publication",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     policy.Default[model.None, model.PublicationListQuery](),
		Handler:    h.listPublications,
	})

	pipeline.Register(h.Pipeline, r, pipeline.Operation[model.None, model.None, model.None, model.CreatePublicationReq, model.None]{
		Method:     http.MethodPost,
		Path:       "/publication",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     policy.Default[model.None, model.None](),
		Activity:   &activity.Declaration{Kind: model.ActivityCreate, Type: model.SubjectPublication},
		Handler:    h.createPublication,
	})

	pipeline.Register(h.Pipeline, r, pipeline.Operation[model.IDParams, model.None, model.None, model.None, *model.PopulatedPublication]{
		Method:     http.MethodGet,
		Path:       "/publication/by-id/:id",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     policy.VerifyPublicationID[model.IDParams, model.None](h.Repo, h.Repo),
		Handler:    h.getPublicationByID,
	})

	pipeline.Register(h.Pipeline, r, publicationOp[model.None]{
		Method:     http.MethodGet,
		Path:       "/publication/:username/:name",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verify,
		Handler:    h.getPublication,
	})

	pipeline.Register(h.Pipeline, r, familyOp{
		Method:     http.MethodGet,
		Path:       "/publication/:username/:name/revisions",
		Permission: policy.Requires(model.RoleDefault),
		Verify:     verifyFamily,
		Handler:    h.listRevisions,
	})

	pipeline.Register(h.Pipeline, r, publicationOp[model.PatchPublicationReq]{
		Method:     http.MethodPatch,
		Path:       "/publication/:username/:name",
		Permission: policy.Requires(model.RoleModerator),
		Verify:     verify,
		Activity:   &activity.Declaration{Kind: model.ActivityUpdate, Type: model.SubjectPublication},
		Handler:    h.patchPublication,
	})

	pipeline.Register(h.Pipeline, r, publicationOp[model.RevisePublicationReq]{
		Method:     http.MethodPost,
		Path:       "/publication/:username/:name/revise",
		Permission: policy.Requires(model.RoleAdministrator),
		Verify:     verify,
		Activity:   &activity.Declaration{Kind: model.ActivityRevise, Type: model.SubjectPublication},
		Handler:    h.revisePublication,
	})

	pipeline.Register(h.Pipeline, r, publicationOp[model.None]{
		Method:     http.MethodPost,
		Path:       "/publication/:username/:name/publish",
		Permission: policy.Requires(model.RoleModerator),
		Verify:     verify,
		Handler:    h.publishPublication,
	})

	pipeline.Register(h.Pipeline, r, publicationOp[model.None]{
		Method:     http.MethodDelete,
		Path:       "/publication/:username/:name",
		Permission: policy.Requires(model.RoleAdministrator),
		Verify:     verify,
		Activity:   &activity.Declaration{Kind: model.ActivityDelete, Type: model.SubjectPublication},
		Handler:    h.deletePublication,
	})

	pipeline.Register(h.Pipeline, r, familyOp{
		Method:     http.MethodDelete,
		Path:       "/publication/:username/:name/all",
		Permission: policy.RequiresDestructive(model.RoleAdministrator),
		Verify:     verifyFamily,
		Activity: &activity.Declaration{
			Kind:       model.ActivityDelete,
			Type:       model.SubjectPublication,
			Visibility: model.RoleAdministrator,
		},
		Handler: h.deletePublicationFamily,
	})
}

func (h *Handler) listPublications(ctx context.Context, req *listPublicationsReq) (pipeline.Result, error) {
	return respond(h.Service.ListPublications(ctx, req.Query))
}

func (h *Handler) createPublication(ctx context.Context, req *createPublicationReq) (pipeline.Result, error) {
	return respondCreated(h.Service.CreatePublication(ctx, req.Requester, req.Body))
}

func (h *Handler) getPublicationByID(ctx context.Context, req *publicationByIDReq) (pipeline.Result, error) {
	return respond(h.Service.GetPublication(ctx, req.Permission))
}

func (h *Handler) getPublication(ctx context.Context, req *publicationReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.GetPublication(ctx, req.Permission))
}

func (h *Handler) listRevisions(ctx context.Context, req *familyReq) (pipeline.Result, error) {
	return respond(h.Service.ListRevisions(ctx, req.Permission))
}

func (h *Handler) patchPublication(ctx context.Context, req *publicationReq[model.PatchPublicationReq]) (pipeline.Result, error) {
	return respond(h.Service.PatchPublication(ctx, req.Permission, req.Body))
}

func (h *Handler) revisePublication(ctx context.Context, req *publicationReq[model.RevisePublicationReq]) (pipeline.Result, error) {
	return respondCreated(h.Service.RevisePublication(ctx, req.Permission, req.Body))
}

func (h *Handler) publishPublication(ctx context.Context, req *publicationReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.PublishPublication(ctx, req.Permission))
}

func (h *Handler) deletePublication(ctx context.Context, req *publicationReq[model.None]) (pipeline.Result, error) {
	return respond(h.Service.DeletePublication(ctx, req.Permission))
}

func (h *Handler) deletePublicationFamily(ctx context.Context, req *familyReq) (pipeline.Result, error) {
	return respond(h.Service.DeletePublicationFamily(ctx, req.Permission))
}
