package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"pubreview/internal/pubreview/activity"
	"pubreview/internal/pubreview/auth"
	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/policy"

	"github.com/labstack/echo/v4"
)

const (
	HeaderRefreshToken = "x-refresh-token"
	HeaderToken        = "x-token"
)

type Authenticator interface {
	Authenticate(ctx context.Context, authorization, refreshToken string) (*auth.Session, error)
}

// Router is satisfied by both *echo.Echo and *echo.Group.
type Router interface {
	Add(method, path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) *echo.Route
}

// Pipeline runs every registered operation through the same stages: bind and
// validate, authenticate, resolve permissions, open activity, run the handler,
// settle activity, write the response.
type Pipeline struct {
	auth     Authenticator
	users    policy.UserFinder
	recorder *activity.Recorder
	logger   *slog.Logger
	binder   *echo.DefaultBinder
}

func New(authenticator Authenticator, users policy.UserFinder, recorder *activity.Recorder, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		auth:     authenticator,
		users:    users,
		recorder: recorder,
		logger:   logger,
		binder:   &echo.DefaultBinder{},
	}
}

// Request is what a handler receives. Every part has been bound, normalized
// and validated. Permission is the data the verifier resolved.
type Request[P, Q, H, B, T any] struct {
	Params     P
	Query      Q
	Headers    H
	Body       B
	Requester  *model.User
	Permission T
	Echo       echo.Context
}

type Handler[P, Q, H, B, T any] func(ctx context.Context, req *Request[P, Q, H, B, T]) (Result, error)

// Operation declares one endpoint. Unless Public is set the request must be
// authenticated and Permission must be declared; an operation without one is
// denied for everybody.
type Operation[P, Q, H, B, T any] struct {
	Method     string
	Path       string
	Public     bool
	Permission *policy.Permission
	Verify     policy.Verifier[P, Q, T]
	Activity   *activity.Declaration
	Handler    Handler[P, Q, H, B, T]
}

func Register[P, Q, H, B, T any](p *Pipeline, r Router, op Operation[P, Q, H, B, T], m ...echo.MiddlewareFunc) *echo.Route {
	return r.Add(op.Method, op.Path, Handle(p, op), m...)
}

// Handle adapts op to an echo handler without registering it.
func Handle[P, Q, H, B, T any](p *Pipeline, op Operation[P, Q, H, B, T]) echo.HandlerFunc {
	return func(c echo.Context) error {
		return serve(p, op, c)
	}
}

func serve[P, Q, H, B, T any](p *Pipeline, op Operation[P, Q, H, B, T], c echo.Context) (err error) {
	ctx := c.Request().Context()
	logger := p.logger.With(
		"method", op.Method,
		"path", op.Path,
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
	)
	record := p.recorder.Open(op.Activity)

	defer func() {
		if v := recover(); v != nil {
			logger.Error("handler panicked", "panic", v, "stack", string(debug.Stack()))
			if record.Opened() {
				record.Discard(ctx)
			}
			err = writeError(c, http.StatusInternalServerError, model.MsgInternalServerError, nil)
		}
	}()

	req := &Request[P, Q, H, B, T]{Echo: c}
	if verr := p.bind(c, op.Method, &req.Params, &req.Query, &req.Headers, &req.Body); verr != nil {
		return p.fail(c, logger, verr)
	}

	if !op.Public {
		session, aerr := p.auth.Authenticate(ctx,
			c.Request().Header.Get(echo.HeaderAuthorization),
			c.Request().Header.Get(HeaderRefreshToken))
		if aerr != nil {
			if rejectedCredentials(aerr) {
				aerr = &AuthError{Message: model.MsgUnauthenticated, Err: aerr}
			}
			return p.fail(c, logger, fmt.Errorf("authenticate: %w", aerr))
		}
		if session.Refreshed != nil {
			exposeTokens(c, session.Refreshed)
		}

		target := policy.Target[P, Q]{Params: req.Params, Query: req.Query}
		resolved, rerr := policy.Resolve(ctx, op.Permission, session.Subject, p.users, target, op.Verify)
		if rerr != nil {
			return p.fail(c, logger, fmt.Errorf("resolve permission: %w", rerr))
		}
		if !resolved.Valid {
			return writeError(c, resolved.Status(), resolved.Reason(), nil)
		}
		req.Requester = resolved.Requester
		req.Permission = resolved.Data
	}

	if record.IsValid() {
		record.Begin(ctx, req.Requester)
	}

	result, herr := op.Handler(ctx, req)
	if herr == nil && result == nil {
		herr = errors.New("handler returned no result")
	}
	if herr != nil {
		if record.Opened() {
			record.Discard(ctx)
		}
		return p.fail(c, logger, herr)
	}

	if record.Opened() {
		if succeeded(result) {
			record.Save(ctx, req.Body, req.Permission, payload(result))
		} else {
			record.Discard(ctx)
		}
	}
	return write(c, result)
}

type bindStep struct {
	name string
	dst  any
	fn   func(echo.Context, any) error
}

// bind fills every request part and validates it. All failing fields are
// reported together.
func (p *Pipeline) bind(c echo.Context, method string, params, query, headers, body any) *ValidationError {
	errs := model.FieldErrors{}
	steps := []bindStep{
		{"params", params, p.binder.BindPathParams},
		{"query", query, p.binder.BindQueryParams},
		{"headers", headers, p.binder.BindHeaders},
	}
	if carriesBody(method) {
		steps = append(steps, bindStep{"body", body, p.binder.BindBody})
	}

	for _, s := range steps {
		if err := s.fn(c, s.dst); err != nil {
			errs[s.name] = model.FieldError{Message: bindMessage(err)}
			continue
		}
		if n, ok := s.dst.(interface{ Normalize() }); ok {
			n.Normalize()
		}
		if err := model.GetValidator().Struct(s.dst); err != nil {
			for path, fe := range model.FormatValidationErrors(err) {
				errs[path] = fe
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// fail converts an error into the wire envelope.
func (p *Pipeline) fail(c echo.Context, logger *slog.Logger, err error) error {
	var (
		verr *ValidationError
		aerr *AuthError
		app  *AppError
	)
	switch {
	case errors.As(err, &verr):
		return writeError(c, http.StatusBadRequest, model.MsgValidationFailed, verr.Errors)
	case errors.As(err, &aerr):
		logger.Debug("authentication failed", "error", err)
		return writeError(c, http.StatusUnauthorized, aerr.Message, nil)
	case errors.As(err, &app):
		return writeError(c, app.Code, app.Message, app.Errors)
	}

	logger.Error("unexpected error", "error", err)
	return writeError(c, http.StatusInternalServerError, model.MsgInternalServerError, nil)
}

// rejectedCredentials separates bad client credentials from failures of the
// token store, which are answered like any other unexpected error.
func rejectedCredentials(err error) bool {
	return errors.Is(err, auth.ErrTokenMissing) ||
		errors.Is(err, auth.ErrTokenExpired) ||
		errors.Is(err, auth.ErrTokenInvalid) ||
		errors.Is(err, auth.ErrRefreshReused)
}

func exposeTokens(c echo.Context, pair *auth.TokenPair) {
	h := c.Response().Header()
	h.Set(HeaderToken, pair.Token)
	h.Set(HeaderRefreshToken, pair.RefreshToken)
	h.Add(echo.HeaderAccessControlExposeHeaders, HeaderToken+", "+HeaderRefreshToken)
}

func carriesBody(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

func bindMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			return fmt.Sprint(he.Message) + ": " + he.Internal.Error()
		}
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}
