package handler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"pubreview/internal/pubreview/activity"
	"pubreview/internal/pubreview/auth"
	"pubreview/internal/pubreview/config"
	"pubreview/internal/pubreview/model"
	"pubreview/internal/pubreview/pipeline"
	"pubreview/internal/pubreview/service"
	"pubreview/internal/pubreview/testutil"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	e      *echo.Echo
	repo   *testutil.MockRepository
	tokens *auth.TokenService
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tokens := auth.NewTokenService(&config.Config{
		JWTSecret:        "access-secret",
		JWTRefreshSecret: "refresh-secret",
		JWTExpiry:        time.Minute,
		JWTRefreshExpiry: time.Hour,
	}, auth.NewRedisRefreshStore(client))

	repo := new(testutil.MockRepository)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := pipeline.New(tokens, repo, activity.NewRecorder(repo, logger), logger)

	e := echo.New()
	NewHandler(p, service.NewService(repo, tokens, logger)).Register(e)
	return &testServer{e: e, repo: repo, tokens: tokens}
}

// signIn issues tokens for user and makes the repository return it.
func (s *testServer) signIn(t *testing.T, user *model.User) map[string]string {
	t.Helper()
	pair, err := s.tokens.Issue(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	s.repo.On("FindUserByID", mock.Anything, user.ID).Return(user, nil)
	return map[string]string{echo.HeaderAuthorization: "Bearer " + pair.Token}
}
