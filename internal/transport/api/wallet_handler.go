package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	svs WalletServicer
}

func NewWalletHandler(svs WalletServicer) *WalletHandler {
	return &WalletHandler{
		svs: svs,
	}
}

type BalanceResponse struct {
	Current float64 `json:"current"`
}

// Balance GET RouteGroup + BalanceRoute.
func (w *WalletHandler) Balance(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	balance, err := w.svs.GetBalance(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, &BalanceResponse{
		Current: balance.InexactFloat64(),
	})
}

type TransactionResponse struct {
	ID          int64                        `json:"id"`
	CreatedAt   time.Time                    `json:"created_at"`
	OrderID     *int64                       `json:"order_id,omitempty"`
	Amount      float64                      `json:"amount"`
	Status      domain.TransactionStatusType `json:"status"`
	Type        domain.TransactionType       `json:"type"`
	Description string                       `json:"description"`
	Reference   string                       `json:"reference"`
}

// Transactions GET RouteGroup + TransactionsRoute.
func (w *WalletHandler) Transactions(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	txs, err := w.svs.GetTransactions(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	if len(txs) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	var response = make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		response[i] = TransactionResponse{
			ID:          tx.ID,
			CreatedAt:   tx.CreatedAt,
			OrderID:     tx.OrderID,
			Amount:      tx.Amount.InexactFloat64(),
			Status:      tx.Status,
			Type:        tx.Type,
			Description: tx.Description,
			Reference:   tx.Reference,
		}
	}
	c.JSON(http.StatusOK, response)
}
