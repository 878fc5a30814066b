package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/poojapi/ullekhanam/internal/domain"
	"github.com/poojapi/ullekhanam/internal/pkg/ctxutil"
	apperr "github.com/poojapi/ullekhanam/internal/pkg/errors"
)

func TestAuthTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret", testLogger(t))
	actor := domain.Actor{ID: uuid.New(), Email: "editor@example.com"}

	token, err := svc.IssueToken(actor, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	ctx, err := svc.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID != actor.ID || rd.Email != actor.Email {
		t.Fatalf("request data = %#v, want actor %s", rd, actor.ID)
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	svc := NewAuthService("test-secret", testLogger(t))
	token, err := svc.IssueToken(domain.Actor{ID: uuid.New()}, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.SetContextFromToken(context.Background(), token); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService("secret-a", testLogger(t))
	verifier := NewAuthService("secret-b", testLogger(t))

	token, err := issuer.IssueToken(domain.Actor{ID: uuid.New()}, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.SetContextFromToken(context.Background(), token); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	svc := NewAuthService("test-secret", testLogger(t))
	if _, err := svc.SetContextFromToken(context.Background(), "not.a.jwt"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}
