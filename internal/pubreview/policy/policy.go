package policy

import (
	"context"
	"net/http"

	"pubreview/internal/pubreview/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permission is the access requirement an operation declares. A nil
// *Permission marks an operation that does not authenticate.
type Permission struct {
	Level model.Role
	// Destructive operations ignore owner and collaborator rights; the
	// requester must meet Level.
	Destructive bool
}

func Requires(level model.Role) *Permission {
	return &Permission{Level: level}
}

func RequiresDestructive(level model.Role) *Permission {
	return &Permission{Level: level, Destructive: true}
}

// Context is computed once per request and handed to the verifier.
type Context struct {
	Minimum     model.Role
	Satisfied   bool
	Destructive bool
}

// Resolved is the outcome of permission resolution. When Valid is true the
// handler trusts Requester and Data without checking again.
type Resolved[T any] struct {
	Valid     bool
	Code      int
	Message   string
	Requester *model.User
	Data      T
}

// Status returns the HTTP status of a denial, 401 unless the verifier chose
// otherwise.
func (r Resolved[T]) Status() int {
	if r.Code == 0 {
		return http.StatusUnauthorized
	}
	return r.Code
}

func (r Resolved[T]) Reason() string {
	if r.Message == "" {
		return model.MsgUnauthorized
	}
	return r.Message
}

func Grant[T any](requester *model.User, data T) Resolved[T] {
	return Resolved[T]{Valid: true, Requester: requester, Data: data}
}

func Deny[T any]() Resolved[T] {
	return Resolved[T]{}
}

func NotFound[T any]() Resolved[T] {
	return Resolved[T]{Code: http.StatusNotFound, Message: model.MsgResourceNotFound}
}

// Target is the validated request data a verifier may inspect.
type Target[P, Q any] struct {
	Params P
	Query  Q
}

// Verifier decides whether requester may act on the resource that target
// refers to. Returned errors are storage failures, never denials.
type Verifier[P, Q, T any] func(ctx context.Context, requester *model.User, target Target[P, Q], pc Context) (Resolved[T], error)

type UserFinder interface {
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// Resolve is the single authorization gate of the pipeline. Operations
// without a permission, or with a permission but no verifier, are denied.
func Resolve[P, Q, T any](
	ctx context.Context,
	perm *Permission,
	requesterID string,
	users UserFinder,
	target Target[P, Q],
	verify Verifier[P, Q, T],
) (Resolved[T], error) {
	if perm == nil || verify == nil {
		return Deny[T](), nil
	}

	id, err := primitive.ObjectIDFromHex(requesterID)
	if err != nil {
		return Deny[T](), nil
	}
	requester, err := users.FindUserByID(ctx, id)
	if err != nil {
		return Deny[T](), err
	}
	if requester == nil {
		return Deny[T](), nil
	}

	pc := Context{
		Minimum:     perm.Level,
		Satisfied:   model.MeetsOrExceeds(requester.Role, perm.Level),
		Destructive: perm.Destructive,
	}
	return verify(ctx, requester, target, pc)
}
