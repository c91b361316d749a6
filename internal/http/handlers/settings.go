package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Hitesh2006-org/FINANCE/internal/config"
	"github.com/Hitesh2006-org/FINANCE/internal/repo/postgres"
	"github.com/gin-gonic/gin"
)

// marketDataKeyName is the config row holding the shared market data API key.
const marketDataKeyName = "api_key"

type ConfigStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type SettingsHandler struct {
	store ConfigStore
}

func NewSettingsHandler(store ConfigStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

type marketDataKeyRequest struct {
	APIKey string `json:"api_key" binding:"required,min=1,max=256"`
}

func (h *SettingsHandler) GetMarketDataKey(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	value, err := h.store.Get(cctx, marketDataKeyName)

	if err != nil {
		if errors.Is(err, postgres.ErrConfigNotFound) {
			RespondNotFound(ctx, "Market data key is not configured")
			return
		}

		RespondInternal(ctx, "Could not load market data key")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"api_key": value})
}

// SetMarketDataKey overwrites the shared key. Settings are instance wide, so
// whichever authenticated user writes last wins.
func (h *SettingsHandler) SetMarketDataKey(ctx *gin.Context) {
	var req marketDataKeyRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	if err := h.store.Set(cctx, marketDataKeyName, req.APIKey); err != nil {
		RespondInternal(ctx, "Could not save market data key")
		return
	}

	ctx.Status(http.StatusNoContent)
}
