package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Hitesh2006-org/FINANCE/internal/cache"
	"github.com/Hitesh2006-org/FINANCE/internal/config"
	"github.com/Hitesh2006-org/FINANCE/internal/domain/holding"
	"github.com/Hitesh2006-org/FINANCE/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type HoldingsStore interface {
	Create(ctx context.Context, userID int64, req holding.CreateHoldingRequest) (holding.Holding, error)
	ListForUser(ctx context.Context, userID int64) ([]holding.Holding, error)
	Delete(ctx context.Context, id, userID int64) error
}

type HoldingsHandler struct {
	store HoldingsStore
	cache cache.Store
}

func NewHoldingsHandler(store HoldingsStore, c cache.Store) *HoldingsHandler {
	return &HoldingsHandler{store: store, cache: c}
}

func holdingsCacheKey(userID int64) string {
	return "holdings:user:" + strconv.FormatInt(userID, 10)
}

func (h *HoldingsHandler) Create(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing user context")
		return
	}

	var req holding.CreateHoldingRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	created, err := h.store.Create(cctx, userID, req)

	if err != nil {
		RespondInternal(ctx, "Could not create holding")
		return
	}

	h.cache.Delete(cctx, holdingsCacheKey(userID))

	ctx.JSON(http.StatusCreated, created)
}

func (h *HoldingsHandler) List(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing user context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	key := holdingsCacheKey(userID)

	if blob, ok := h.cache.Get(cctx, key); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", blob)
		return
	}

	holdings, err := h.store.ListForUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list holdings")
		return
	}

	body := gin.H{"holdings": holdings}

	if blob, err := json.Marshal(body); err == nil {
		h.cache.Set(cctx, key, blob)
	}

	ctx.JSON(http.StatusOK, body)
}

func (h *HoldingsHandler) Delete(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing user context")
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil {
		RespondBadRequest(ctx, "invalid_id", "Holding id must be an integer")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	// Deleting a row that is absent or owned by someone else responds the
	// same as a successful delete.
	if err := h.store.Delete(cctx, id, userID); err != nil {
		RespondInternal(ctx, "Could not delete holding")
		return
	}

	h.cache.Delete(cctx, holdingsCacheKey(userID))

	ctx.Status(http.StatusNoContent)
}
