package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Hitesh2006-org/FINANCE/internal/cache"
	"github.com/Hitesh2006-org/FINANCE/internal/config"
	"github.com/Hitesh2006-org/FINANCE/internal/domain/transaction"
	"github.com/Hitesh2006-org/FINANCE/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type TransactionsStore interface {
	Create(ctx context.Context, userID int64, req transaction.CreateTransactionRequest) (transaction.Transaction, error)
	ListForUser(ctx context.Context, userID int64) ([]transaction.Transaction, error)
	Delete(ctx context.Context, id, userID int64) error
}

type TransactionsHandler struct {
	store TransactionsStore
	cache cache.Store
}

func NewTransactionsHandler(store TransactionsStore, c cache.Store) *TransactionsHandler {
	return &TransactionsHandler{store: store, cache: c}
}

func transactionsCacheKey(userID int64) string {
	return "transactions:user:" + strconv.FormatInt(userID, 10)
}

func (h *TransactionsHandler) Create(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing user context")
		return
	}

	var req transaction.CreateTransactionRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	created, err := h.store.Create(cctx, userID, req)

	if err != nil {
		RespondInternal(ctx, "Could not record transaction")
		return
	}

	h.cache.Delete(cctx, transactionsCacheKey(userID))

	ctx.JSON(http.StatusCreated, created)
}

func (h *TransactionsHandler) List(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing user context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	key := transactionsCacheKey(userID)

	if blob, ok := h.cache.Get(cctx, key); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", blob)
		return
	}

	transactions, err := h.store.ListForUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list transactions")
		return
	}

	body := gin.H{"transactions": transactions}

	if blob, err := json.Marshal(body); err == nil {
		h.cache.Set(cctx, key, blob)
	}

	ctx.JSON(http.StatusOK, body)
}

func (h *TransactionsHandler) Delete(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing user context")
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil {
		RespondBadRequest(ctx, "invalid_id", "Transaction id must be an integer")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	if err := h.store.Delete(cctx, id, userID); err != nil {
		RespondInternal(ctx, "Could not delete transaction")
		return
	}

	h.cache.Delete(cctx, transactionsCacheKey(userID))

	ctx.Status(http.StatusNoContent)
}
