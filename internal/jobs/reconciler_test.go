package jobs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/internal/jobs/mocks"
	"github.com/fsdevblog/bundle-reconciler/internal/service"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/notify"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/provider"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/provider/client"
	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type ReconcilerTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockClient    *mocks.MockProviderClient
	mockService   *mocks.MockReconcileServicer
	mockPublisher *mocks.MockPublisher
	reconciler    *Reconciler
}

func TestReconcilerSuite(t *testing.T) {
	suite.Run(t, new(ReconcilerTestSuite))
}

func (s *ReconcilerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClient = mocks.NewMockProviderClient(s.ctrl)
	s.mockService = mocks.NewMockReconcileServicer(s.ctrl)
	s.mockPublisher = mocks.NewMockPublisher(s.ctrl)

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	s.reconciler = NewReconciler(s.mockService, s.mockClient, provider.DefaultStatusMap(), s.mockPublisher, logger).
		SetWorkers(3).
		SetPageSize(10)
}

func (s *ReconcilerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func testOrder(id int64, status domain.OrderStatusType) domain.Order {
	ref := fmt.Sprintf("REF-%03d", id)
	return domain.Order{
		ID:                id,
		CreatedAt:         time.Now().Add(-time.Hour),
		UserID:            100 + id,
		Status:            status,
		Network:           "MTN",
		BeneficiaryNumber: "0240000000",
		ReferenceID:       &ref,
	}
}

func (s *ReconcilerTestSuite) expectApply(order domain.Order, outcome domain.Outcome, apiStatus string) *gomock.Call {
	return s.mockService.EXPECT().
		ApplyProviderOutcome(gomock.Any(), service.ApplyOutcomeArgs{
			OrderID:   order.ID,
			Expected:  order.Status,
			Outcome:   outcome,
			APIStatus: apiStatus,
		}).
		DoAndReturn(func(_ context.Context, args service.ApplyOutcomeArgs) (*domain.Order, error) {
			updated := order
			updated.Status = args.Outcome.OrderStatus()
			updated.APIStatus = &args.APIStatus
			return &updated, nil
		})
}

// TestRunCycle Тест на обработку страницы заказов с разными ответами провайдера.
func (s *ReconcilerTestSuite) TestRunCycle() {
	delivered := testOrder(1, domain.OrderStatusPending)
	rejected := testOrder(2, domain.OrderStatusProcessing)
	queued := testOrder(3, domain.OrderStatusPending)
	unknown := testOrder(4, domain.OrderStatusPending)

	s.mockService.EXPECT().
		OrdersForReconciliation(gomock.Any(), int64(0), uint(10), uint(0)).
		Return([]domain.Order{delivered, rejected, queued, unknown}, nil)

	s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), delivered.Reference()).
		Return(&client.Response{Reference: delivered.Reference(), Status: "Delivered"}, nil)
	s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), rejected.Reference()).
		Return(&client.Response{Reference: rejected.Reference(), Status: "rejected"}, nil)
	s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), queued.Reference()).
		Return(&client.Response{Reference: queued.Reference(), Status: "queued"}, nil)
	s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), unknown.Reference()).
		Return(&client.Response{Reference: unknown.Reference(), Status: "teleported"}, nil)

	// статус заказа меняется только для конечных итогов.
	s.expectApply(delivered, domain.OutcomeCompleted, "Delivered")
	s.expectApply(rejected, domain.OutcomeFailed, "rejected")

	// воркеры публикуют параллельно.
	var mu sync.Mutex
	published := make(map[int64]domain.OrderStatusType)
	s.mockPublisher.EXPECT().PublishOrderOutcome(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event notify.OrderOutcomeEvent) error {
			mu.Lock()
			defer mu.Unlock()
			published[event.OrderID] = event.Status
			return nil
		}).Times(2)

	s.Require().NoError(s.reconciler.RunCycle(s.T().Context()))
	s.Equal(map[int64]domain.OrderStatusType{
		delivered.ID: domain.OrderStatusCompleted,
		rejected.ID:  domain.OrderStatusFailed,
	}, published)
}

// TestRunCycle_Paging Тест на обход всех заказов постранично по id.
func (s *ReconcilerTestSuite) TestRunCycle_Paging() {
	s.reconciler.SetPageSize(2)

	first := []domain.Order{testOrder(1, domain.OrderStatusPending), testOrder(5, domain.OrderStatusPending)}
	second := []domain.Order{testOrder(9, domain.OrderStatusPending)}

	gomock.InOrder(
		s.mockService.EXPECT().OrdersForReconciliation(gomock.Any(), int64(0), uint(2), uint(0)).Return(first, nil),
		s.mockService.EXPECT().OrdersForReconciliation(gomock.Any(), int64(5), uint(2), uint(0)).Return(second, nil),
	)

	s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), gomock.Any()).
		Return(&client.Response{Status: "pending"}, nil).Times(3)

	s.Require().NoError(s.reconciler.RunCycle(s.T().Context()))
}

// TestRunCycle_MaxAttempts Тест на передачу ограничения попыток в выборку.
func (s *ReconcilerTestSuite) TestRunCycle_MaxAttempts() {
	s.reconciler.SetMaxAttempts(5)
	s.mockService.EXPECT().OrdersForReconciliation(gomock.Any(), int64(0), uint(10), uint(5)).Return(nil, nil)

	s.Require().NoError(s.reconciler.RunCycle(s.T().Context()))
}

// TestRunCycle_ProviderError Тест на ошибку провайдера: статус не меняется, попытка фиксируется.
func (s *ReconcilerTestSuite) TestRunCycle_ProviderError() {
	failing := testOrder(1, domain.OrderStatusPending)
	healthy := testOrder(2, domain.OrderStatusPending)

	s.mockService.EXPECT().OrdersForReconciliation(gomock.Any(), int64(0), uint(10), uint(0)).
		Return([]domain.Order{failing, healthy}, nil)

	s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), failing.Reference()).
		Return(nil, client.NewStatusCodeError(http.StatusBadGateway))
	s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), healthy.Reference()).
		Return(&client.Response{Status: "success"}, nil)

	s.mockService.EXPECT().RecordSyncFailure(gomock.Any(), failing.ID).Return(nil)
	s.expectApply(healthy, domain.OutcomeCompleted, "success")
	s.mockPublisher.EXPECT().PublishOrderOutcome(gomock.Any(), gomock.Any()).Return(nil)

	s.Require().NoError(s.reconciler.RunCycle(s.T().Context()))
}

// TestRunCycle_ProviderTimeout Тест на таймаут запроса к провайдеру.
func (s *ReconcilerTestSuite) TestRunCycle_ProviderTimeout() {
	s.reconciler.SetProviderTimeout(20 * time.Millisecond)
	order := testOrder(1, domain.OrderStatusPending)

	s.mockService.EXPECT().OrdersForReconciliation(gomock.Any(), int64(0), uint(10), uint(0)).
		Return([]domain.Order{order}, nil)
	s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), order.Reference()).
		DoAndReturn(func(ctx context.Context, _ string) (*client.Response, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
	s.mockService.EXPECT().RecordSyncFailure(gomock.Any(), order.ID).Return(nil)

	s.Require().NoError(s.reconciler.RunCycle(s.T().Context()))
}

// TestRunCycle_TooManyRequests Тест на однократный повтор после 429.
func (s *ReconcilerTestSuite) TestRunCycle_TooManyRequests() {
	retried := testOrder(1, domain.OrderStatusPending)
	throttled := testOrder(2, domain.OrderStatusPending)

	s.mockService.EXPECT().OrdersForReconciliation(gomock.Any(), int64(0), uint(10), uint(0)).
		Return([]domain.Order{retried, throttled}, nil)

	tooMany := client.NewTooManyRequestError(5 * time.Millisecond)

	gomock.InOrder(
		s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), retried.Reference()).Return(nil, tooMany),
		s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), retried.Reference()).
			Return(&client.Response{Status: "cancelled"}, nil),
	)
	// второй 429 подряд: заказ остается без изменений до следующего цикла.
	s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), throttled.Reference()).Return(nil, tooMany).Times(2)

	s.expectApply(retried, domain.OutcomeCancelled, "cancelled")
	s.mockPublisher.EXPECT().PublishOrderOutcome(gomock.Any(), gomock.Any()).Return(nil)
	s.mockService.EXPECT().RecordSyncFailure(gomock.Any(), throttled.ID).Return(nil)

	s.Require().NoError(s.reconciler.RunCycle(s.T().Context()))
}

// TestRunCycle_Conflict Тест на заказ, статус которого изменился во время сверки.
func (s *ReconcilerTestSuite) TestRunCycle_Conflict() {
	order := testOrder(1, domain.OrderStatusPending)

	s.mockService.EXPECT().OrdersForReconciliation(gomock.Any(), int64(0), uint(10), uint(0)).
		Return([]domain.Order{order}, nil)
	s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), order.Reference()).
		Return(&client.Response{Status: "failed"}, nil)
	s.mockService.EXPECT().ApplyProviderOutcome(gomock.Any(), gomock.Any()).
		Return(nil, domain.NewTransitionError(
			domain.ErrStatusConflict, order.ID, domain.OrderStatusPending, domain.OrderStatusFailed,
		))

	// ни публикации, ни фиксации неудачной попытки.
	s.Require().NoError(s.reconciler.RunCycle(s.T().Context()))
}

// TestRunCycle_ApplyErrorIsolated Тест на изоляцию ошибки одного заказа от остальных.
func (s *ReconcilerTestSuite) TestRunCycle_ApplyErrorIsolated() {
	broken := testOrder(1, domain.OrderStatusPending)
	fine := testOrder(2, domain.OrderStatusPending)

	s.mockService.EXPECT().OrdersForReconciliation(gomock.Any(), int64(0), uint(10), uint(0)).
		Return([]domain.Order{broken, fine}, nil)
	s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), gomock.Any()).
		Return(&client.Response{Status: "delivered"}, nil).Times(2)

	s.mockService.EXPECT().ApplyProviderOutcome(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args service.ApplyOutcomeArgs) (*domain.Order, error) {
			if args.OrderID == broken.ID {
				return nil, errors.New("deadlock detected")
			}
			updated := fine
			updated.Status = domain.OrderStatusCompleted
			return &updated, nil
		}).Times(2)

	// ошибка публикации не откатывает обновление и не считается ошибкой цикла.
	s.mockPublisher.EXPECT().PublishOrderOutcome(gomock.Any(), gomock.Any()).Return(errors.New("nats is down"))

	s.Require().NoError(s.reconciler.RunCycle(s.T().Context()))
}

// TestRunCycle_EmptyStatus Тест на пустой статус провайдера: заказ не меняется и попытка не считается
// неудачной.
func (s *ReconcilerTestSuite) TestRunCycle_EmptyStatus() {
	order := testOrder(1, domain.OrderStatusProcessing)

	s.mockService.EXPECT().OrdersForReconciliation(gomock.Any(), int64(0), uint(10), uint(0)).
		Return([]domain.Order{order}, nil)
	s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), order.Reference()).
		Return(&client.Response{Reference: order.Reference(), Status: ""}, nil)

	// ни ApplyProviderOutcome, ни RecordSyncFailure.
	s.Require().NoError(s.reconciler.RunCycle(s.T().Context()))
}

// TestRunCycle_EmptyResponse Тест на пустой ответ клиента: ошибка по заказу, а не паника.
func (s *ReconcilerTestSuite) TestRunCycle_EmptyResponse() {
	order := testOrder(1, domain.OrderStatusPending)

	s.mockService.EXPECT().OrdersForReconciliation(gomock.Any(), int64(0), uint(10), uint(0)).
		Return([]domain.Order{order}, nil)
	s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), order.Reference()).Return(nil, nil)
	s.mockService.EXPECT().RecordSyncFailure(gomock.Any(), order.ID).Return(nil)

	s.Require().NoError(s.reconciler.RunCycle(s.T().Context()))
}

// TestRunCycle_PanicIsolated Тест на панику при обработке заказа: воркер не падает, остальные заказы
// обрабатываются.
func (s *ReconcilerTestSuite) TestRunCycle_PanicIsolated() {
	s.reconciler.SetWorkers(1)
	first := testOrder(1, domain.OrderStatusPending)
	second := testOrder(2, domain.OrderStatusPending)

	s.mockService.EXPECT().OrdersForReconciliation(gomock.Any(), int64(0), uint(10), uint(0)).
		Return([]domain.Order{first, second}, nil)
	s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), gomock.Any()).
		Return(&client.Response{Status: "delivered"}, nil).Times(2)
	s.expectApply(first, domain.OutcomeCompleted, "delivered")
	s.expectApply(second, domain.OutcomeCompleted, "delivered")

	s.mockPublisher.EXPECT().PublishOrderOutcome(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event notify.OrderOutcomeEvent) error {
			if event.OrderID == first.ID {
				panic("publisher exploded")
			}
			return nil
		}).Times(2)

	s.Require().NoError(s.reconciler.RunCycle(s.T().Context()))
}

// TestSafeProcessOrder Тест на то, что паника превращается в результат с ошибкой.
func (s *ReconcilerTestSuite) TestSafeProcessOrder() {
	order := testOrder(1, domain.OrderStatusPending)
	s.mockClient.EXPECT().GetOrderStatus(gomock.Any(), order.Reference()).
		DoAndReturn(func(context.Context, string) (*client.Response, error) {
			panic("boom")
		})

	result := s.reconciler.safeProcessOrder(s.T().Context(), &order)
	s.Equal(actionErrored, result.Action)
	s.Equal(&order, result.Order)
	s.Require().ErrorIs(result.Error, ErrOrderPanicked)
}

// TestRunCycle_ProduceError Тест на ошибку получения заказов.
func (s *ReconcilerTestSuite) TestRunCycle_ProduceError() {
	dbErr := errors.New("db is down")
	s.mockService.EXPECT().OrdersForReconciliation(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, dbErr)

	s.Require().ErrorIs(s.reconciler.RunCycle(s.T().Context()), dbErr)
}

// TestRunCycle_Cancelled Тест на остановку цикла отменой контекста.
func (s *ReconcilerTestSuite) TestRunCycle_Cancelled() {
	ctx, cancel := context.WithCancel(s.T().Context())
	cancel()

	s.Require().ErrorIs(s.reconciler.RunCycle(ctx), context.Canceled)
}
