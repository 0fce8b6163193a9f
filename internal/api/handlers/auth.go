package handlers

import (
	"context"
	"net/http"

	"movecalc/internal/api/middleware"
	"movecalc/internal/api/models"
	"movecalc/internal/identity"

	"github.com/gin-gonic/gin"
)

// Accounts is the server-side identity backend. *identity.Directory
// implements it.
type Accounts interface {
	SignUp(ctx context.Context, email, password string) (identity.User, error)
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
	SignOut(token string)
}

// AuthHandler handles sign-up, sign-in and sessions. A nil Accounts means
// identity is switched off and every endpoint reports it.
type AuthHandler struct {
	accounts Accounts
}

func NewAuthHandler(accounts Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// SignUp handles POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	if h.accounts == nil {
		writeError(c, identity.ErrNotConfigured, "")
		return
	}
	var req models.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.accounts.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err, "IDENTITY_ERROR")
		return
	}
	c.JSON(http.StatusCreated, models.UserResponse{User: u})
}

// SignIn handles POST /api/v1/auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	if h.accounts == nil {
		writeError(c, identity.ErrNotConfigured, "")
		return
	}
	var req models.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.accounts.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err, "IDENTITY_ERROR")
		return
	}
	c.JSON(http.StatusOK, s)
}

// SignOut handles POST /api/v1/auth/signout
func (h *AuthHandler) SignOut(c *gin.Context) {
	s := middleware.SessionFrom(c)
	if s == nil {
		writeError(c, identity.ErrNoSession, "")
		return
	}
	h.accounts.SignOut(s.Token)
	c.Status(http.StatusNoContent)
}

// CurrentSession handles GET /api/v1/auth/session
func (h *AuthHandler) CurrentSession(c *gin.Context) {
	s := middleware.SessionFrom(c)
	if s == nil {
		writeError(c, identity.ErrNoSession, "")
		return
	}
	c.JSON(http.StatusOK, s)
}
