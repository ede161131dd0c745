package domain

import "strings"

type OrderStatusType string

const (
	OrderStatusPending    OrderStatusType = "pending"
	OrderStatusProcessing OrderStatusType = "processing"
	OrderStatusCompleted  OrderStatusType = "completed"
	OrderStatusFailed     OrderStatusType = "failed"
	OrderStatusCancelled  OrderStatusType = "cancelled"
)

// IsTerminal сообщает, является ли статус конечным. Из конечного статуса заказ уже не выходит.
func (s OrderStatusType) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusFailed, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

func (s OrderStatusType) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusFailed, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// OpenOrderStatuses статусы, в которых заказ ещё ждёт подтверждения.
func OpenOrderStatuses() []OrderStatusType {
	return []OrderStatusType{OrderStatusPending, OrderStatusProcessing}
}

type TransactionStatusType string

const (
	TransactionStatusPending   TransactionStatusType = "pending"
	TransactionStatusCompleted TransactionStatusType = "completed"
	TransactionStatusFailed    TransactionStatusType = "failed"
	TransactionStatusCancelled TransactionStatusType = "cancelled"
)

type TransactionType string

const (
	TransactionTypeWalletTopup  TransactionType = "wallet_topup"
	TransactionTypeOrderPayment TransactionType = "order_payment"
	TransactionTypeAgentFee     TransactionType = "agent_fee"
	TransactionTypeRefund       TransactionType = "refund"
)

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleAgent    UserRole = "agent"
	UserRoleAdmin    UserRole = "admin"
)

// Outcome итог заказа у провайдера, приведённый к нашему словарю.
type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

func (o Outcome) IsTerminal() bool {
	return o == OutcomeCompleted || o == OutcomeFailed || o == OutcomeCancelled
}

func (o Outcome) IsValid() bool {
	return o == OutcomePending || o.IsTerminal()
}

// OrderStatus статус заказа, соответствующий итогу. Для OutcomePending возвращается пустая строка.
func (o Outcome) OrderStatus() OrderStatusType {
	switch o {
	case OutcomeCompleted:
		return OrderStatusCompleted
	case OutcomeFailed:
		return OrderStatusFailed
	case OutcomeCancelled:
		return OrderStatusCancelled
	default:
		return ""
	}
}

// TransactionStatus статус платёжной транзакции заказа после применения итога.
func (o Outcome) TransactionStatus() TransactionStatusType {
	return PaymentStatusFor(o.OrderStatus())
}

// RequiresRefund сообщает, нужно ли вернуть списанные за заказ средства.
func (s OrderStatusType) RequiresRefund() bool {
	return s == OrderStatusFailed || s == OrderStatusCancelled
}

// PaymentStatusFor статус платёжной транзакции, который должен соответствовать конечному статусу заказа.
func PaymentStatusFor(s OrderStatusType) TransactionStatusType {
	switch s {
	case OrderStatusFailed:
		return TransactionStatusFailed
	case OrderStatusCancelled:
		return TransactionStatusCancelled
	default:
		return TransactionStatusCompleted
	}
}

const ishareNetwork = "ishare"

var supportedNetworks = []string{"mtn", "telecel", "airteltigo", ishareNetwork, "bigtime"}

// IsSupportedNetwork сообщает, продаются ли бандлы сети network.
func IsSupportedNetwork(network string) bool {
	network = NormalizeNetwork(network)
	for _, n := range supportedNetworks {
		if n == network {
			return true
		}
	}
	return false
}

// NormalizeNetwork приводит имя сети к виду, в котором оно сравнивается.
func NormalizeNetwork(network string) string {
	return strings.ToLower(strings.TrimSpace(network))
}

// InitialOrderStatus статус нового заказа. Ishare проводит заказ синхронно, поэтому такие заказы сразу завершены.
func InitialOrderStatus(network string) OrderStatusType {
	if NormalizeNetwork(network) == ishareNetwork {
		return OrderStatusCompleted
	}
	return OrderStatusPending
}

// CanTransition проверяет допустимость перехода. Заказ в конечном статусе не переоткрывается и не меняет итог.
func CanTransition(from, to OrderStatusType) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	if from.IsTerminal() {
		return false
	}
	return from != to
}
