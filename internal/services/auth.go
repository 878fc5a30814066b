package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/poojapi/ullekhanam/internal/domain"
	"github.com/poojapi/ullekhanam/internal/pkg/ctxutil"
	apperr "github.com/poojapi/ullekhanam/internal/pkg/errors"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

// AuthService verifies bearer tokens and places the acting user into
// the request context. Token issuance lives elsewhere (OAuth flows are
// out of scope); IssueToken exists for tooling and tests.
type AuthService interface {
	SetContextFromToken(ctx context.Context, token string) (context.Context, error)
	IssueToken(actor domain.Actor, ttl time.Duration) (string, error)
}

type authService struct {
	secret []byte
	log    *logger.Logger
}

func NewAuthService(secret string, log *logger.Logger) AuthService {
	return &authService{secret: []byte(secret), log: log.With("service", "AuthService")}
}

type actorClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (s *authService) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	claims := &actorClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return ctx, apperr.ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apperr.ErrUnauthorized
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID: userID,
		Email:  claims.Email,
	}), nil
}

func (s *authService) IssueToken(actor domain.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &actorClaims{
		Email: actor.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
