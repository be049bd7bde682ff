package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/stayhq/stay-rental-api/internal/auth"
	"github.com/stayhq/stay-rental-api/internal/middleware"
	"github.com/stayhq/stay-rental-api/internal/model"
	"github.com/stayhq/stay-rental-api/internal/repository"
)

// Basic shape checks mirroring the account schema: a plain email pattern
// and the regional 10-digit mobile pattern (starts 6-9).
var (
	emailRe = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	phoneRe = regexp.MustCompile(`^[6-9]\d{9}$`)
)

const maxNameLen = 50

// AuthHandler serves registration, login, Google sign-in, profile,
// refresh and logout for one role's identity collection. Two instances
// are wired: one for seekers (/api/users) and one for owners
// (/api/owners).
type AuthHandler struct {
	Role       model.Role
	Accounts   *repository.Accounts
	Blacklist  *repository.BlacklistRepo
	Tokens     *auth.TokenService
	Google     *auth.GoogleAuthenticator
	BcryptCost int
}

func NewAuthHandler(role model.Role, accounts *repository.Accounts, blacklist *repository.BlacklistRepo,
	tokens *auth.TokenService, google *auth.GoogleAuthenticator, bcryptCost int) *AuthHandler {
	return &AuthHandler{
		Role:       role,
		Accounts:   accounts,
		Blacklist:  blacklist,
		Tokens:     tokens,
		Google:     google,
		BcryptCost: bcryptCost,
	}
}

func (h *AuthHandler) repo() *repository.AccountRepo { return h.Accounts.ForRole(h.Role) }

// ----- DTOs -----

type fullnameReq struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type registerReq struct {
	Name          string       `json:"name"`
	Fullname      *fullnameReq `json:"fullname"`
	Email         string       `json:"email"`
	Password      string       `json:"password"`
	ContactNumber string       `json:"contactNumber"`
}

// resolvedName merges the two accepted name shapes: a plain name field,
// or a fullname object whose parts are joined.
func (r registerReq) resolvedName() string {
	if n := strings.TrimSpace(r.Name); n != "" {
		return n
	}
	if r.Fullname != nil {
		n := strings.TrimSpace(strings.TrimSpace(r.Fullname.Firstname) + " " + strings.TrimSpace(r.Fullname.Lastname))
		return n
	}
	return ""
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleReq struct {
	IDToken string `json:"idToken"`
}

// setTokenCookie mirrors the token onto a cookie so browser clients get
// it automatically on subsequent requests.
func setTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(auth.TokenTTL),
	})
}

func clearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// Register creates an identity and returns a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	name := req.resolvedName()
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Name is required"})
	}
	// The limit counts characters, not bytes; names are not ASCII-only.
	if utf8.RuneCountInString(name) > maxNameLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Name cannot exceed 50 characters"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRe.MatchString(email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Please enter a valid email"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Password must be at least 6 characters"})
	}
	contact := strings.TrimSpace(req.ContactNumber)
	if contact != "" && !phoneRe.MatchString(contact) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Please enter a valid 10-digit mobile number"})
	}

	ctx := c.Request().Context()

	hash, err := auth.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create account"})
	}
	acct := &model.Account{
		Name:          name,
		Email:         email,
		Password:      hash,
		ContactNumber: contact,
	}
	if err := h.repo().Create(ctx, acct); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "User already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create account"})
	}

	token, err := h.Tokens.Issue(acct.ID.Hex(), h.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not issue token"})
	}
	setTokenCookie(c, token)
	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": acct})
}

// Login verifies a credential and returns a fresh token. Unknown email
// and bad password produce the same generic message.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required"})
	}

	ctx := c.Request().Context()
	acct, err := h.repo().FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid email or password"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	if !auth.VerifyPassword(acct.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid email or password"})
	}

	token, err := h.Tokens.Issue(acct.ID.Hex(), h.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not issue token"})
	}
	setTokenCookie(c, token)
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": acct})
}

// GoogleLogin exchanges a Google ID token for a local session, creating
// or linking the account as needed.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req googleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if strings.TrimSpace(req.IDToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "idToken is required"})
	}

	acct, token, err := h.Google.Authenticate(c.Request().Context(), h.Role, req.IDToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidFederatedCredential) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Google authentication failed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Google authentication failed"})
	}
	setTokenCookie(c, token)
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": acct})
}

// Profile returns the sanitized profile of the resolved identity.
func (h *AuthHandler) Profile(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": p.Token, "user": p.Account.Sanitized()})
}

type updateProfileReq struct {
	Name          string `json:"name"`
	ContactNumber string `json:"contactNumber"`
}

// UpdateProfile sets the mutable profile fields (owner routes only).
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if utf8.RuneCountInString(name) > maxNameLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Name cannot exceed 50 characters"})
	}
	contact := strings.TrimSpace(req.ContactNumber)
	if contact != "" && !phoneRe.MatchString(contact) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Please enter a valid 10-digit mobile number"})
	}

	acct, err := h.repo().UpdateProfile(c.Request().Context(), p.Account.ID, name, contact)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "account not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": acct})
}

// Refresh re-issues a token for an already-authenticated caller. The
// prior token stays valid until it expires; there is no rotation.
func (h *AuthHandler) Refresh(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized"})
	}
	token, err := h.Tokens.Issue(p.Account.ID.Hex(), p.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not issue token"})
	}
	setTokenCookie(c, token)
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": p.Account})
}

// Logout records the presented token on the revocation list and clears
// the cookie. The token stays listed until its natural expiry would have
// rejected it anyway.
func (h *AuthHandler) Logout(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	if err := h.Blacklist.Record(c.Request().Context(), p.Token, p.Account.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "logout failed"})
	}
	clearTokenCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// Me is the unified-variant endpoint: whichever identity kind the token
// resolves to, it returns the role and the sanitized profile.
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"role":    p.Role,
		"user":    p.Account.Sanitized(),
	})
}
