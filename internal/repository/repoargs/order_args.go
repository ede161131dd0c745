package repoargs

import (
	"time"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateOrder struct {
	UserID            int64
	TotalAmount       decimal.Decimal
	Status            domain.OrderStatusType
	BeneficiaryNumber string
	Network           string
	ReferenceID       *string
}

// UpdateOrderStatus условное обновление статуса: запись меняется только если её текущий статус равен From.
// APIStatus == nil оставляет api_status без изменений.
type UpdateOrderStatus struct {
	ID        int64
	From      domain.OrderStatusType
	To        domain.OrderStatusType
	APIStatus *string
}

type ReconciliationPage struct {
	AfterID     int64
	Limit       uint
	MaxAttempts uint
}

type StaleOrdersQuery struct {
	AfterID  int64
	Networks []string
	Cutoff   time.Time
	Limit    uint
}
