package service

import (
	"fmt"

	"github.com/fsdevblog/bundle-reconciler/pkg/uow"
)

type AppServices struct {
	OrderService  *OrderService
	WalletService *WalletService
}

func Factory(unitOfWork uow.UOW) (*AppServices, error) {
	orderService, orderServiceErr := NewOrderService(unitOfWork)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	walletService, walletServiceErr := NewWalletService(unitOfWork)
	if walletServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", walletServiceErr.Error())
	}

	return &AppServices{
		OrderService:  orderService,
		WalletService: walletService,
	}, nil
}
