package auth // package auth provides token issuance, verification and federated login

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stayhq/stay-rental-api/internal/model"
)

// TokenTTL is the fixed lifetime of every issued bearer token. There is
// no refresh-token rotation: "refresh" re-issues a fresh token for an
// already-authenticated caller.
const TokenTTL = 30 * 24 * time.Hour

// Distinguished verification failures. Expiry gets its own error so the
// middleware can tell the client "Token expired" instead of a generic
// unauthorized message.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the decoded content of a verified bearer token.
type Claims struct {
	AccountID string
	Role      model.Role
}

// TokenService signs and verifies HS256 bearer tokens. The secret is
// injected once at construction; nothing here touches the environment.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue builds and signs a token for the given account and role. The JWT
// carries standard claims: subject (sub), role, expiration (exp) and
// issued at (iat).
func (s *TokenService) Issue(accountID string, role model.Role) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  accountID,
		"role": role.String(),
		"iat":  now.Unix(),
		"exp":  now.Add(TokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses and validates a token string. It returns ErrTokenExpired
// when the signature is good but the token has aged out, and
// ErrTokenInvalid for every other failure (bad signature, wrong
// algorithm, malformed claims, unknown role).
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrTokenInvalid
	}
	sub, _ := mc["sub"].(string)
	if sub == "" {
		return Claims{}, ErrTokenInvalid
	}
	roleStr, _ := mc["role"].(string)
	role, ok := model.ParseRole(roleStr)
	if !ok {
		return Claims{}, ErrTokenInvalid
	}
	return Claims{AccountID: sub, Role: role}, nil
}
