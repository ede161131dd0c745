package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/internal/jobs"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	orderSvs OrderServicer
	jobs     JobTrigger
}

func NewAdminHandler(orderSvs OrderServicer, jobTrigger JobTrigger) *AdminHandler {
	return &AdminHandler{
		orderSvs: orderSvs,
		jobs:     jobTrigger,
	}
}

type SetStatusParams struct {
	ExpectedStatus domain.OrderStatusType `binding:"required" json:"expected_status"`
	Status         domain.OrderStatusType `binding:"required" json:"status"`
}

// SetStatus PATCH RouteGroup + AdminOrderStatus. Ручная смена статуса заказа. Статус меняется, только если
// текущий статус заказа равен expected_status.
func (a *AdminHandler) SetStatus(c *gin.Context) {
	orderID, parseErr := strconv.ParseInt(c.Param("id"), 10, 64)
	if parseErr != nil || orderID <= 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	var params SetStatusParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := a.orderSvs.AdminSetStatus(reqCtx, orderID, params.ExpectedStatus, params.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStatusConflict), errors.Is(err, domain.ErrTerminalStatus):
			_ = c.AbortWithError(http.StatusConflict, err).SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrInvalidStatus):
			_ = c.AbortWithError(http.StatusUnprocessableEntity, err).SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, newOrderResponse(order))
}

// RunJob POST RouteGroup + AdminJobRunRoute. Запускает задачу вне расписания.
func (a *AdminHandler) RunJob(c *gin.Context) {
	if err := a.jobs.Trigger(c.Param("name")); err != nil {
		if errors.Is(err, jobs.ErrUnknownJob) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.AbortWithStatus(http.StatusAccepted)
}
