package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stayhq/stay-rental-api/internal/model"
)

type stubVerifier struct {
	payload FederatedPayload
	err     error
}

func (s stubVerifier) VerifyIDToken(context.Context, string) (FederatedPayload, error) {
	return s.payload, s.err
}

func TestAuthenticateRejectsEmptyToken(t *testing.T) {
	g := NewGoogleAuthenticator(stubVerifier{}, NewTokenService("s"), nil, 4)

	_, _, err := g.Authenticate(context.Background(), model.RoleSeeker, "   ")
	assert.ErrorIs(t, err, ErrInvalidFederatedCredential)
}

func TestAuthenticatePropagatesVerifierFailure(t *testing.T) {
	g := NewGoogleAuthenticator(stubVerifier{err: ErrInvalidFederatedCredential},
		NewTokenService("s"), nil, 4)

	_, _, err := g.Authenticate(context.Background(), model.RoleSeeker, "bad-assertion")
	assert.ErrorIs(t, err, ErrInvalidFederatedCredential)
}

func TestAuthenticateRejectsPayloadWithoutEmail(t *testing.T) {
	g := NewGoogleAuthenticator(stubVerifier{payload: FederatedPayload{Subject: "g-123"}},
		NewTokenService("s"), nil, 4)

	_, _, err := g.Authenticate(context.Background(), model.RoleOwner, "assertion")
	assert.ErrorIs(t, err, ErrInvalidFederatedCredential)
}

func TestDisabledVerifierRejectsEverything(t *testing.T) {
	v := NewGoogleVerifier("")
	_, err := v.VerifyIDToken(context.Background(), "anything")
	assert.True(t, errors.Is(err, ErrInvalidFederatedCredential))
}
