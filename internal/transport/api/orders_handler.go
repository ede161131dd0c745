package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type OrdersHandler struct {
	orderSvs  OrderServicer
	walletSvs WalletServicer
}

func NewOrdersHandler(orderSvs OrderServicer, walletSvs WalletServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs:  orderSvs,
		walletSvs: walletSvs,
	}
}

type OrderResponse struct {
	ID                int64                  `json:"id"`
	CreatedAt         time.Time              `json:"created_at"`
	Status            domain.OrderStatusType `json:"status"`
	Network           string                 `json:"network"`
	BeneficiaryNumber string                 `json:"beneficiary_number"`
	Amount            float64                `json:"amount"`
	ReferenceID       *string                `json:"reference_id,omitempty"`
	APIStatus         *string                `json:"api_status,omitempty"`
}

func newOrderResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:                order.ID,
		CreatedAt:         order.CreatedAt,
		Status:            order.Status,
		Network:           order.Network,
		BeneficiaryNumber: order.BeneficiaryNumber,
		Amount:            order.TotalAmount.InexactFloat64(),
		ReferenceID:       order.ReferenceID,
		APIStatus:         order.APIStatus,
	}
}

type CheckoutParams struct {
	Network           string          `binding:"required,network,max_bytes=32"  json:"network"`
	BeneficiaryNumber string          `binding:"required,msisdn"                json:"beneficiary_number"`
	Amount            decimal.Decimal `json:"amount"`
	ReferenceID       *string         `binding:"omitempty,min=1,max_bytes=128" json:"reference_id"`
}

// Create POST RouteGroup + OrdersRoute. Оформляет заказ с оплатой с кошелька.
func (o *OrdersHandler) Create(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params CheckoutParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(bindErr, &validationErrs) {
			_ = c.AbortWithError(http.StatusUnprocessableEntity, bindErr).SetType(gin.ErrorTypeBind)
			return
		}
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.walletSvs.Checkout(reqCtx, service.CheckoutArgs{
		UserID:            currentUserID,
		Network:           domain.NormalizeNetwork(params.Network),
		BeneficiaryNumber: params.BeneficiaryNumber,
		Amount:            params.Amount,
		ReferenceID:       params.ReferenceID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotEnoughBalance):
			c.AbortWithStatus(http.StatusPaymentRequired)
		case errors.Is(err, service.ErrInvalidAmount):
			c.AbortWithStatus(http.StatusUnprocessableEntity)
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		case errors.Is(err, domain.ErrDuplicateKey):
			c.AbortWithStatus(http.StatusConflict)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusCreated, newOrderResponse(order))
}

// Index GET RouteGroup + OrdersRoute.
func (o *OrdersHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()
	orders, err := o.orderSvs.GetByUserID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).
			SetType(gin.ErrorTypePrivate)
		return
	}

	if len(orders) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	var response = make([]OrderResponse, len(orders))
	for i := range orders {
		response[i] = newOrderResponse(&orders[i])
	}

	c.JSON(http.StatusOK, response)
}
