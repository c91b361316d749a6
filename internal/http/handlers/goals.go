package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Hitesh2006-org/FINANCE/internal/config"
	"github.com/Hitesh2006-org/FINANCE/internal/domain/goal"
	"github.com/Hitesh2006-org/FINANCE/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type GoalsStore interface {
	Create(ctx context.Context, userID int64, req goal.CreateGoalRequest) (goal.SavingsGoal, error)
	ListForUser(ctx context.Context, userID int64) ([]goal.SavingsGoal, error)
	Update(ctx context.Context, id, userID int64, req goal.UpdateGoalRequest) error
	Delete(ctx context.Context, id, userID int64) error
}

type GoalsHandler struct {
	store GoalsStore
}

func NewGoalsHandler(store GoalsStore) *GoalsHandler {
	return &GoalsHandler{store: store}
}

func (h *GoalsHandler) Create(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing user context")
		return
	}

	var req goal.CreateGoalRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	created, err := h.store.Create(cctx, userID, req)

	if err != nil {
		RespondInternal(ctx, "Could not create savings goal")
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *GoalsHandler) List(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing user context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	goals, err := h.store.ListForUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list savings goals")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"goals": goals})
}

// Update applies a partial update. A goal owned by another user matches zero
// rows downstream, so the response does not reveal whether the id exists.
func (h *GoalsHandler) Update(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing user context")
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil {
		RespondBadRequest(ctx, "invalid_id", "Goal id must be an integer")
		return
	}

	var req goal.UpdateGoalRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	if err := h.store.Update(cctx, id, userID, req); err != nil {
		RespondInternal(ctx, "Could not update savings goal")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *GoalsHandler) Delete(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing user context")
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil {
		RespondBadRequest(ctx, "invalid_id", "Goal id must be an integer")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	if err := h.store.Delete(cctx, id, userID); err != nil {
		RespondInternal(ctx, "Could not delete savings goal")
		return
	}

	ctx.Status(http.StatusNoContent)
}
