package handler

import (
	"errors"
	"net/http"

	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/pipeline"
	"pubreview/internal/pubreview/service"
)

type errorMapping struct {
	err     error
	status  int
	message string
	field   string
	detail  string
}

var errorMappings = []errorMapping{
	{service.ErrNotFound, http.StatusNotFound, model.MsgResourceNotFound, "", ""},
	{service.ErrForbidden, http.StatusUnauthorized, model.MsgUnauthorized, "", ""},
	{service.ErrBadRequest, http.StatusBadRequest, model.MsgBadRequest, "", ""},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, model.MsgMismatchingLogin, "", ""},
	{service.ErrUsernameTaken, http.StatusBadRequest, model.MsgBadRequest, "username", "Username already taken"},
	{service.ErrEmailTaken, http.StatusBadRequest, model.MsgBadRequest, "email", "Email already taken"},
	{service.ErrNameTaken, http.StatusBadRequest, "Publication with the same name already exists", "name", "Publication name already taken"},
	{service.ErrRevisionTaken, http.StatusBadRequest, model.MsgBadRequest, "revision", "Revision already exists"},
	{service.ErrNotCurrent, http.StatusBadRequest, model.MsgBadRequest, "revision", "Only the current revision can be revised"},
	{service.ErrAlreadyPublished, http.StatusBadRequest, "Publication is already published", "", ""},
	{service.ErrDraftReview, http.StatusBadRequest, "Draft publications can't be reviewed", "", ""},
	{service.ErrReviewCompleted, http.StatusBadRequest, "Review has already been completed", "", ""},
	{service.ErrReplyTarget, http.StatusBadRequest, "Attempt to reply on a non-existent comment", "replying", "Unknown comment"},
	{service.ErrUnknownUsers, http.StatusBadRequest, model.MsgBadRequest, "collaborators", "Unknown collaborators"},
	{service.ErrSelfFollow, http.StatusBadRequest, "Users can't follow themselves", "", ""},
	{service.ErrRoleElevation, http.StatusUnauthorized, model.MsgUnauthorized, "role", "Can't elevate privilege above your own role"},
}

// appError maps service errors to the response the client sees. Anything
// unknown is returned as is and ends up as a 500.
func appError(err error) error {
	for _, m := range errorMappings {
		if !errors.Is(err, m.err) {
			continue
		}
		app := pipeline.NewAppError(m.status, m.message)
		if m.field != "" {
			app.WithField(m.field, m.detail)
		}
		return app
	}
	return err
}
