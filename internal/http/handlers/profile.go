package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Hitesh2006-org/FINANCE/internal/config"
	"github.com/Hitesh2006-org/FINANCE/internal/domain/user"
	"github.com/Hitesh2006-org/FINANCE/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (user.Profile, error)
	Save(ctx context.Context, p user.Profile) error
}

type ProfileHandler struct {
	store ProfileStore
}

func NewProfileHandler(store ProfileStore) *ProfileHandler {
	return &ProfileHandler{store: store}
}

func (h *ProfileHandler) Get(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing user context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	profile, err := h.store.Get(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not load profile")
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Update(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing user context")
		return
	}

	var req user.UpdateProfileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	// PUT replaces the profile wholesale.
	profile := user.Profile{
		UserID:        userID,
		UserType:      req.UserType,
		SavingsGoal:   req.SavingsGoal,
		RiskTolerance: req.RiskTolerance,
	}

	if err := h.store.Save(cctx, profile); err != nil {
		RespondInternal(ctx, "Could not save profile")
		return
	}

	ctx.JSON(http.StatusOK, profile)
}
