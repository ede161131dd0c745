package notify

import (
	"time"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/shopspring/decimal"
)

const DefaultSubject = "orders.outcome"

// OrderOutcomeEvent событие о конечном статусе заказа. По нему покупателю отправляется SMS.
type OrderOutcomeEvent struct {
	OrderID           int64                  `json:"order_id"`
	UserID            int64                  `json:"user_id"`
	Reference         string                 `json:"reference"`
	Status            domain.OrderStatusType `json:"status"`
	APIStatus         string                 `json:"api_status,omitempty"`
	Network           string                 `json:"network"`
	BeneficiaryNumber string                 `json:"beneficiary_number"`
	Amount            decimal.Decimal        `json:"amount"`
	OccurredAt        time.Time              `json:"occurred_at"`
}

func NewOrderOutcomeEvent(order *domain.Order, occurredAt time.Time) OrderOutcomeEvent {
	var apiStatus string
	if order.APIStatus != nil {
		apiStatus = *order.APIStatus
	}
	return OrderOutcomeEvent{
		OrderID:           order.ID,
		UserID:            order.UserID,
		Reference:         order.Reference(),
		Status:            order.Status,
		APIStatus:         apiStatus,
		Network:           order.Network,
		BeneficiaryNumber: order.BeneficiaryNumber,
		Amount:            order.TotalAmount,
		OccurredAt:        occurredAt.UTC(),
	}
}
