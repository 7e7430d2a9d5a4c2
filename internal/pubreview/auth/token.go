package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pubreview/internal/pubreview/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenMissing  = errors.New("token missing")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrRefreshReused = errors.New("refresh token already used")
)

// TokenPair is handed to clients on login and whenever a refresh happens.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Claims are carried by both access and refresh tokens. Refresh tokens also
// set ID (jti), which is what the RefreshStore tracks.
type Claims struct {
	jwt.RegisteredClaims
}

// Session is the outcome of authenticating a request. Refreshed is set when
// the access token had to be renewed and the client must be sent new tokens.
type Session struct {
	Subject   string
	Refreshed *TokenPair
}

// TokenService issues and verifies the access/refresh JWT pair.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	refreshGrace  time.Duration
	store         RefreshStore
	now           func() time.Time
}

func NewTokenService(cfg *config.Config, store RefreshStore) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.JWTSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.JWTExpiry,
		refreshTTL:    cfg.JWTRefreshExpiry,
		refreshGrace:  cfg.JWTRefreshGrace,
		store:         store,
		now:           time.Now,
	}
}

func (s *TokenService) Issue(ctx context.Context, subject string) (*TokenPair, error) {
	pair, jti, err := s.sign(subject)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, jti, subject, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return pair, nil
}

// sign creates a pair for subject and returns the refresh token id.
func (s *TokenService) sign(subject string) (*TokenPair, string, error) {
	now := s.now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	})
	token, err := access.SignedString(s.accessSecret)
	if err != nil {
		return nil, "", fmt.Errorf("sign access token: %w", err)
	}

	jti := uuid.NewString()
	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	})
	refreshToken, err := refresh.SignedString(s.refreshSecret)
	if err != nil {
		return nil, "", fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenPair{Token: token, RefreshToken: refreshToken}, jti, nil
}

// Verify checks an access token and returns its claims.
func (s *TokenService) Verify(token string) (*Claims, error) {
	return s.parse(token, s.accessSecret)
}

// Refresh exchanges a refresh token for a new pair. A refresh token is
// rotated once; presenting it again within the grace window returns the same
// new pair, later it is rejected with ErrRefreshReused.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parse(refreshToken, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, ErrTokenInvalid
	}

	next, jti, err := s.sign(claims.Subject)
	if err != nil {
		return nil, err
	}
	return s.store.Rotate(ctx, claims.ID, claims.Subject, Rotation{
		ID:    jti,
		Pair:  *next,
		TTL:   s.refreshTTL,
		Grace: s.refreshGrace,
	})
}

// Authenticate resolves the caller from the Authorization header value. A
// missing or expired access token is renewed with the refresh token when one
// is supplied. A tampered access token is never refreshed.
func (s *TokenService) Authenticate(ctx context.Context, authorization, refreshToken string) (*Session, error) {
	token, err := bearer(authorization)
	if err == nil {
		var claims *Claims
		claims, err = s.Verify(token)
		if err == nil {
			return &Session{Subject: claims.Subject}, nil
		}
	}

	if !errors.Is(err, ErrTokenExpired) && !errors.Is(err, ErrTokenMissing) {
		return nil, err
	}
	if strings.TrimSpace(refreshToken) == "" {
		return nil, err
	}

	pair, refreshErr := s.Refresh(ctx, strings.TrimSpace(refreshToken))
	if refreshErr != nil {
		return nil, refreshErr
	}
	claims, err := s.Verify(pair.Token)
	if err != nil {
		return nil, err
	}
	return &Session{Subject: claims.Subject, Refreshed: pair}, nil
}

func (s *TokenService) parse(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func bearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrTokenMissing
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrTokenInvalid
	}
	return strings.TrimSpace(token), nil
}
