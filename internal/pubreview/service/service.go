package service

import (
	"context"
	"errors"
	"log/slog"

	"pubreview/internal/pubreview/auth"
	"pubreview/internal/pubreview/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrNameTaken          = errors.New("publication name already taken")
	ErrRevisionTaken      = errors.New("revision already exists")
	ErrNotCurrent         = errors.New("only the current revision can be revised")
	ErrAlreadyPublished   = errors.New("publication already published")
	ErrDraftReview        = errors.New("drafts cannot be reviewed")
	ErrReviewCompleted    = errors.New("review already completed")
	ErrReplyTarget        = errors.New("replying to a non-existent comment")
	ErrUnknownUsers       = errors.New("unknown collaborators")
	ErrRoleElevation      = errors.New("cannot grant a role above your own")
	ErrSelfFollow         = errors.New("users cannot follow themselves")
)

// Repository is every store the services read and write.
type Repository interface {
	repository.UserRepository
	repository.PublicationRepository
	repository.ReviewRepository
	repository.CommentRepository
	repository.ActivityRepository
	repository.FollowRepository
	repository.BookmarkRepository
}

type TokenIssuer interface {
	Issue(ctx context.Context, subject string) (*auth.TokenPair, error)
}

type Service struct {
	Repo   Repository
	Tokens TokenIssuer
	Logger *slog.Logger
}

func NewService(repo Repository, tokens TokenIssuer, logger *slog.Logger) *Service {
	return &Service{Repo: repo, Tokens: tokens, Logger: logger}
}
