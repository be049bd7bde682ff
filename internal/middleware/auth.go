package middleware // middleware provides shared request processing for handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stayhq/stay-rental-api/internal/auth"
	"github.com/stayhq/stay-rental-api/internal/model"
	"github.com/stayhq/stay-rental-api/internal/repository"
)

// TokenCookie is the cookie carrying the bearer token. The Authorization
// header is the fallback transport.
const TokenCookie = "token"

// principalKey is the context key the resolved identity is stored under.
const principalKey = "principal"

// Principal is the typed result of identity resolution: the resolved
// account (password hash projected out), its role, and the literal token
// it presented. Handlers read it via CurrentPrincipal instead of pulling
// loose claims out of the context.
type Principal struct {
	Account *model.Account
	Role    model.Role
	Token   string
}

// CurrentPrincipal returns the identity attached by Protect/Single, or
// false when the route was not resolved.
func CurrentPrincipal(c echo.Context) (*Principal, bool) {
	p, ok := c.Get(principalKey).(*Principal)
	return p, ok
}

// SetPrincipal attaches a resolved identity to the request context. The
// resolve middleware calls it after its checks pass; tests use it to
// build pre-resolved contexts.
func SetPrincipal(c echo.Context, p *Principal) {
	c.Set(principalKey, p)
}

// Auth bundles the collaborators identity resolution needs.
type Auth struct {
	Tokens    *auth.TokenService
	Accounts  *repository.Accounts
	Blacklist *repository.BlacklistRepo
}

func NewAuth(t *auth.TokenService, a *repository.Accounts, b *repository.BlacklistRepo) *Auth {
	return &Auth{Tokens: t, Accounts: a, Blacklist: b}
}

// ExtractToken pulls the bearer token from the request: the token cookie
// first, then an Authorization: Bearer header. Empty means no token.
func ExtractToken(c echo.Context) string {
	if ck, err := c.Cookie(TokenCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

// Protect is the unified resolution middleware: the role claim inside
// the token selects which identity collection to resolve against. A
// seeker token never resolves an owner and vice versa; a missing
// identity is unauthorized, with no fallback to the other collection.
//
// Checks run in order, short-circuiting on the first failure:
// token present → not revoked → signature/expiry → identity exists.
// The revocation lookup deliberately runs before signature verification
// so logged-out tokens are rejected without cryptographic work.
func (a *Auth) Protect() echo.MiddlewareFunc {
	return a.resolve(func(claims auth.Claims) *repository.AccountRepo {
		return a.Accounts.ForRole(claims.Role)
	})
}

// Single is the single-role resolution variant used by the per-role
// route groups (/api/users, /api/owners): the token is always resolved
// against the given role's collection, regardless of how the route was
// reached.
func (a *Auth) Single(role model.Role) echo.MiddlewareFunc {
	repo := a.Accounts.ForRole(role)
	return a.resolve(func(auth.Claims) *repository.AccountRepo {
		return repo
	})
}

func (a *Auth) resolve(pick func(auth.Claims) *repository.AccountRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			ctx := c.Request().Context()
			revoked, err := a.Blacklist.IsRevoked(ctx, token)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "auth check failed"})
			}
			if revoked {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Token is invalid or already logged out",
				})
			}

			claims, err := a.Tokens.Verify(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token expired"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			id, err := primitive.ObjectIDFromHex(claims.AccountID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			repo := pick(claims)
			acct, err := repo.FindByID(ctx, id)
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "auth check failed"})
			}

			SetPrincipal(c, &Principal{Account: acct, Role: claims.Role, Token: token})
			return next(c)
		}
	}
}

// RequireRole enforces that the resolved identity has one of the given
// roles. It composes with Protect: resolution and authorization are
// separable stages, so a route can resolve either identity kind and
// still restrict itself to one.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := CurrentPrincipal(c)
			if !ok || !allowed[p.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false,
					"message": "forbidden",
				})
			}
			return next(c)
		}
	}
}
