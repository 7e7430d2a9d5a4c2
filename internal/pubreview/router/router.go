package router

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"pubreview/internal/pubreview/config"
	"pubreview/internal/pubreview/handler"
	"pubreview/internal/pubreview/model"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const healthTimeout = 2 * time.Second

// Check reports whether a backing service is reachable.
type Check func(ctx context.Context) error

type Options struct {
	Config  *config.Config
	Logger  *slog.Logger
	Handler *handler.Handler
	// Checks are run by /health, keyed by the name reported on failure.
	Checks map[string]Check
}

func New(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(RequestID)
	e.Use(RequestLogger(opts.Logger))
	e.Use(SecureHeaders(opts.Config))
	e.Use(CORS())

	e.GET("/health", Health(opts.Checks))

	opts.Handler.Register(e, AuthRateLimit(opts.Config.AuthRateLimit, opts.Config.AuthRateWindow)...)
	return e
}

// Health answers 200 when every check passes and 503 naming the failing ones
// otherwise.
func Health(checks map[string]Check) echo.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()

		failed := model.FieldErrors{}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				failed[name] = model.FieldError{Message: "unreachable"}
			}
		}
		if len(failed) > 0 {
			return c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
				Status:  model.StatusError,
				Message: "Service unavailable",
				Errors:  failed,
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": model.StatusOK})
	}
}
