package api

import (
	"fmt"
	"time"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup        = "/api"
	HealthRoute       = "/health"
	OrdersRoute       = "/user/orders"
	BalanceRoute      = "/user/balance"
	TransactionsRoute = "/user/transactions"
	AdminOrderStatus  = "/admin/orders/:id/status"
	AdminJobRunRoute  = "/admin/jobs/:name/run"
)

type RouterArgs struct {
	Logger        *logrus.Logger
	OrderService  OrderServicer
	WalletService WalletServicer
	Jobs          JobTrigger
	JWTSecretKey  []byte
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("new router: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	ordersHandler := NewOrdersHandler(args.OrderService, args.WalletService)
	walletHandler := NewWalletHandler(args.WalletService)
	adminHandler := NewAdminHandler(args.OrderService, args.Jobs)

	api := r.Group(RouteGroup)
	api.GET(HealthRoute, Health)

	user := api.Group("", middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	user.GET(OrdersRoute, ordersHandler.Index)
	user.POST(OrdersRoute, ordersHandler.Create)
	user.GET(BalanceRoute, walletHandler.Balance)
	user.GET(TransactionsRoute, walletHandler.Transactions)

	admin := user.Group("", middlewares.RoleRequired(domain.UserRoleAdmin))
	admin.PATCH(AdminOrderStatus, adminHandler.SetStatus)
	admin.POST(AdminJobRunRoute, adminHandler.RunJob)
	return r, nil
}
