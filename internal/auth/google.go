package auth

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/idtoken"

	"github.com/stayhq/stay-rental-api/internal/model"
	"github.com/stayhq/stay-rental-api/internal/repository"
)

// ErrInvalidFederatedCredential covers every way a Google sign-in can
// fail before we touch our own store: missing assertion, signature or
// audience mismatch, and payloads without a usable email claim.
var ErrInvalidFederatedCredential = errors.New("invalid federated credential")

// FederatedPayload is the subset of a verified provider assertion the
// adapter cares about.
type FederatedPayload struct {
	Subject string
	Email   string
	Name    string
}

// IDTokenVerifier validates a raw provider assertion and extracts its
// payload. The production implementation calls Google's tokeninfo keys;
// tests substitute a stub.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, rawToken string) (FederatedPayload, error)
}

// googleVerifier verifies Google ID tokens against the registered OAuth
// client id.
type googleVerifier struct {
	audience string
}

// NewGoogleVerifier returns an IDTokenVerifier bound to the given client
// id. The client id is the expected audience of every accepted token.
func NewGoogleVerifier(clientID string) IDTokenVerifier {
	return &googleVerifier{audience: clientID}
}

func (v *googleVerifier) VerifyIDToken(ctx context.Context, rawToken string) (FederatedPayload, error) {
	if v.audience == "" {
		// Google sign-in is disabled when no client id is configured.
		return FederatedPayload{}, ErrInvalidFederatedCredential
	}
	payload, err := idtoken.Validate(ctx, rawToken, v.audience)
	if err != nil {
		return FederatedPayload{}, ErrInvalidFederatedCredential
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	return FederatedPayload{Subject: payload.Subject, Email: email, Name: name}, nil
}

// GoogleAuthenticator maps verified Google assertions onto local
// accounts and issues bearer tokens for them.
type GoogleAuthenticator struct {
	verifier   IDTokenVerifier
	tokens     *TokenService
	accounts   *repository.Accounts
	bcryptCost int
}

func NewGoogleAuthenticator(v IDTokenVerifier, t *TokenService, a *repository.Accounts, bcryptCost int) *GoogleAuthenticator {
	return &GoogleAuthenticator{verifier: v, tokens: t, accounts: a, bcryptCost: bcryptCost}
}

// Authenticate verifies the assertion and resolves it to an account in
// the collection matching role, creating or linking as needed:
//
//   - no account with that email: create one with a random, never
//     disclosed secret and the Google subject attached;
//   - account exists without a googleId: attach the subject (one-time
//     link);
//   - account exists with a googleId: leave it untouched.
//
// On success it returns the account and a freshly issued bearer token.
func (g *GoogleAuthenticator) Authenticate(ctx context.Context, role model.Role, rawToken string) (*model.Account, string, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, "", ErrInvalidFederatedCredential
	}
	payload, err := g.verifier.VerifyIDToken(ctx, rawToken)
	if err != nil {
		return nil, "", err
	}
	if payload.Email == "" {
		return nil, "", ErrInvalidFederatedCredential
	}
	name := payload.Name
	if name == "" {
		// Fall back to the email local part when Google asserts no name.
		name = payload.Email[:strings.Index(payload.Email+"@", "@")]
	}

	repo := g.accounts.ForRole(role)
	acct, err := repo.FindByEmail(ctx, payload.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		secret, rerr := RandomSecret(32)
		if rerr != nil {
			return nil, "", rerr
		}
		hash, herr := HashPassword(secret, g.bcryptCost)
		if herr != nil {
			return nil, "", herr
		}
		acct = &model.Account{
			Name:     name,
			Email:    payload.Email,
			Password: hash,
			GoogleID: payload.Subject,
		}
		if cerr := repo.Create(ctx, acct); cerr != nil {
			return nil, "", cerr
		}
	case err != nil:
		return nil, "", err
	case acct.GoogleID == "":
		if lerr := repo.AttachGoogleID(ctx, acct.ID, payload.Subject); lerr != nil {
			return nil, "", lerr
		}
		acct.GoogleID = payload.Subject
	}

	token, err := g.tokens.Issue(acct.ID.Hex(), role)
	if err != nil {
		return nil, "", err
	}
	return acct, token, nil
}
