package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Hitesh2006-org/FINANCE/internal/config"
	"github.com/Hitesh2006-org/FINANCE/internal/domain/user"
	"github.com/Hitesh2006-org/FINANCE/internal/identity"
	"github.com/Hitesh2006-org/FINANCE/internal/repo/postgres"
	"github.com/gin-gonic/gin"
)

type Identity interface {
	Register(ctx context.Context, username, password string, email *string) (user.User, error)
	Authenticate(ctx context.Context, username, password string) (int64, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID int64, username string) (string, error)
}

type AuthHandler struct {
	identity Identity
	jwt      TokenIssuer
}

func NewAuthHandler(identity Identity, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{identity: identity, jwt: jwt}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=40"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	UserID      int64  `json:"userId"`
	AccessToken string `json:"accessToken"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	var email *string

	if req.Email != "" {
		email = &req.Email
	}

	u, err := h.identity.Register(cctx, req.Username, req.Password, email)

	if err != nil {
		if errors.Is(err, postgres.ErrDuplicateIdentity) {
			RespondBadRequest(ctx, "duplicate_identity", "Username or email is already in use.")
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	token, err := h.jwt.GenerateAccessToken(u.ID, u.Username)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusCreated, TokenResponse{UserID: u.ID, AccessToken: token})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	userID, err := h.identity.Authenticate(cctx, req.Username, req.Password)

	if err != nil {
		// Unknown username and wrong password respond identically.
		if errors.Is(err, identity.ErrInvalidCredentials) {
			RespondUnauthorized(ctx, "Invalid username or password")
			return
		}

		RespondInternal(ctx, "Could not sign in")
		return
	}

	token, err := h.jwt.GenerateAccessToken(userID, req.Username)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, TokenResponse{UserID: userID, AccessToken: token})
}
