// Package jobs содержит периодические задачи сверки заказов и планировщик, который их запускает.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/internal/service"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/notify"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/provider/client"
	"github.com/sirupsen/logrus"
)

const JobReconcile = "reconcile"

var (
	ErrEmptyProviderResponse = errors.New("empty provider response")
	ErrOrderPanicked         = errors.New("order processing panicked")
)

const (
	defaultServiceTimeout       = 3 * time.Second
	defaultProviderTimeout      = 10 * time.Second
	defaultPageSize        uint = 100
	defaultWorkers         uint = 10
)

type reconcileAction string

const (
	actionUpdated  reconcileAction = "updated"
	actionPending  reconcileAction = "pending"
	actionUnknown  reconcileAction = "unknown_status"
	actionConflict reconcileAction = "conflict"
	actionErrored  reconcileAction = "errored"
)

// Reconciler сверяет открытые заказы со статусами у провайдера и переводит их в конечный статус.
type Reconciler struct {
	client          ProviderClient
	svs             ReconcileServicer
	statuses        StatusResolver
	publisher       Publisher
	l               *logrus.Entry
	pageSize        uint
	workers         uint
	maxAttempts     uint
	providerTimeout time.Duration
	now             func() time.Time
}

func NewReconciler(
	svs ReconcileServicer,
	providerClient ProviderClient,
	statuses StatusResolver,
	publisher Publisher,
	l *logrus.Logger,
) *Reconciler {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "jobs",
		"module":    JobReconcile,
	})

	return &Reconciler{
		client:          providerClient,
		svs:             svs,
		statuses:        statuses,
		publisher:       publisher,
		l:               loggerEntry,
		pageSize:        defaultPageSize,
		workers:         defaultWorkers,
		providerTimeout: defaultProviderTimeout,
		now:             time.Now,
	}
}

// SetPageSize устанавливает кол-во заказов, выбираемых из базы за один запрос.
func (r *Reconciler) SetPageSize(size uint) *Reconciler {
	if size > 0 {
		r.pageSize = size
	}
	return r
}

// SetWorkers устанавливает кол-во воркеров, параллельно опрашивающих провайдера.
func (r *Reconciler) SetWorkers(workers uint) *Reconciler {
	if workers > 0 {
		r.workers = workers
	}
	return r
}

// SetMaxAttempts ограничивает кол-во неудачных сверок заказа. 0 - без ограничения.
func (r *Reconciler) SetMaxAttempts(attempts uint) *Reconciler {
	r.maxAttempts = attempts
	return r
}

// SetProviderTimeout устанавливает таймаут одного запроса к провайдеру.
func (r *Reconciler) SetProviderTimeout(timeout time.Duration) *Reconciler {
	if timeout > 0 {
		r.providerTimeout = timeout
	}
	return r
}

func (r *Reconciler) Name() string {
	return JobReconcile
}

type cycleStats struct {
	Total     int
	Updated   int
	Pending   int
	Unknown   int
	Conflicts int
	Errors    int
}

func (c *cycleStats) add(action reconcileAction) {
	c.Total++
	switch action {
	case actionUpdated:
		c.Updated++
	case actionPending:
		c.Pending++
	case actionUnknown:
		c.Unknown++
	case actionConflict:
		c.Conflicts++
	case actionErrored:
		c.Errors++
	}
}

// RunCycle выполняет один проход сверки.
//
// Алгоритм работы:
//  1. Постранично (по возрастанию id) запрашивает через сервисный слой открытые заказы с reference_id.
//  2. Каждую страницу обрабатывают N воркеров (настраивается через SetWorkers), которые запрашивают статус
//     заказа у провайдера.
//  3. Конечный статус применяется через сервисный слой, каждый заказ в своей транзакции. Ошибка по одному
//     заказу не влияет на остальные.
//
// Ошибка возвращается только если не удалось получить заказы из базы или отменен контекст.
func (r *Reconciler) RunCycle(ctx context.Context) error {
	started := r.now()
	var stats cycleStats
	var afterID int64

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("reconcile cycle: %w", err)
		}

		orders, ordersErr := r.produce(ctx, afterID)
		if ordersErr != nil {
			return fmt.Errorf("reconcile cycle: %w", ordersErr)
		}
		if len(orders) == 0 {
			break
		}

		for _, result := range r.runWorkers(ctx, orders) {
			r.logResult(result)
			stats.add(result.Action)
		}

		afterID = orders[len(orders)-1].ID
		if uint(len(orders)) < r.pageSize {
			break
		}
	}

	r.l.WithFields(logrus.Fields{
		"total":     stats.Total,
		"updated":   stats.Updated,
		"pending":   stats.Pending,
		"unknown":   stats.Unknown,
		"conflicts": stats.Conflicts,
		"errors":    stats.Errors,
		"duration":  r.now().Sub(started).String(),
	}).Info("reconcile cycle finished")
	return nil
}

// produce получает страницу заказов, id которых больше afterID.
func (r *Reconciler) produce(ctx context.Context, afterID int64) ([]domain.Order, error) {
	produceCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	orders, ordersErr := r.svs.OrdersForReconciliation(produceCtx, afterID, r.pageSize, r.maxAttempts)
	if ordersErr != nil {
		return nil, fmt.Errorf("produce: %w", ordersErr)
	}
	return orders, nil
}

// workerResult результат обработки одного заказа воркером.
type workerResult struct {
	WorkerID  uint
	Order     *domain.Order
	Action    reconcileAction
	APIStatus string
	Outcome   domain.Outcome
	Error     error
}

// runWorkers запускает параллельных воркеров для обработки заказов и ожидает конца их работы.
// Реализует паттерн fan-out/fan-in.
func (r *Reconciler) runWorkers(ctx context.Context, orders []domain.Order) []workerResult {
	var taskCh = make(chan *domain.Order, len(orders))
	for i := range orders {
		taskCh <- &orders[i]
	}
	close(taskCh)

	workers := min(r.workers, uint(len(orders)))

	wg := new(sync.WaitGroup)
	wg.Add(int(workers)) // nolint:gosec

	var resultCh = make(chan workerResult, len(orders))
	for i := range workers {
		go r.worker(ctx, wg, i+1, taskCh, resultCh)
	}
	wg.Wait()
	close(resultCh)

	var results = make([]workerResult, 0, len(orders))
	for result := range resultCh {
		results = append(results, result)
	}
	return results
}

// worker обрабатывает заказы из канала до его закрытия или отмены контекста.
func (r *Reconciler) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	workerID uint,
	taskCh <-chan *domain.Order,
	resultCh chan<- workerResult,
) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-taskCh:
			if !ok {
				return
			}
			result := r.safeProcessOrder(ctx, task)
			result.WorkerID = workerID
			resultCh <- result
		}
	}
}

// safeProcessOrder вызывает processOrder и перехватывает панику. Паника в горутине воркера иначе роняет
// весь процесс: recover планировщика работает только в горутине задачи.
//
//nolint:nonamedreturns
func (r *Reconciler) safeProcessOrder(ctx context.Context, order *domain.Order) (result workerResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.l.WithFields(logrus.Fields{
				"orderID": order.ID,
				"panic":   fmt.Sprint(rec),
				"stack":   string(debug.Stack()),
			}).Error("reconcile order panicked")
			result = workerResult{
				Order:  order,
				Action: actionErrored,
				Error:  fmt.Errorf("%w: %v", ErrOrderPanicked, rec),
			}
		}
	}()
	return r.processOrder(ctx, order)
}

// processOrder сверяет один заказ. Ошибка запроса к провайдеру не меняет статус заказа, а только увеличивает
// счетчик неудачных попыток. Заказ будет проверен в следующем цикле.
func (r *Reconciler) processOrder(ctx context.Context, order *domain.Order) workerResult {
	result := workerResult{Order: order}

	resp, fetchErr := r.fetchStatus(ctx, order.Reference())
	if fetchErr != nil {
		result.Action = actionErrored
		result.Error = fetchErr
		if ctx.Err() == nil {
			r.recordFailure(ctx, order)
		}
		return result
	}
	result.APIStatus = resp.Status

	outcome, known := r.statuses.Resolve(order.Network, resp.Status)
	if !known {
		result.Action = actionUnknown
		return result
	}
	result.Outcome = outcome
	if !outcome.IsTerminal() {
		result.Action = actionPending
		return result
	}

	svcCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	updated, applyErr := r.svs.ApplyProviderOutcome(svcCtx, service.ApplyOutcomeArgs{
		OrderID:   order.ID,
		Expected:  order.Status,
		Outcome:   outcome,
		APIStatus: resp.Status,
	})
	switch {
	case applyErr == nil:
		result.Action = actionUpdated
		r.publish(svcCtx, updated)
	case isConflict(applyErr):
		result.Action = actionConflict
		result.Error = applyErr
	default:
		result.Action = actionErrored
		result.Error = applyErr
	}
	return result
}

// fetchStatus делает запрос к провайдеру с таймаутом. В случае ошибки 429 один раз ждет время, указанное
// в заголовке Retry-After, и повторяет запрос.
func (r *Reconciler) fetchStatus(ctx context.Context, reference string) (*client.Response, error) {
	resp, err := r.callProvider(ctx, reference)

	var tooManyReq *client.TooManyRequestError
	if !errors.As(err, &tooManyReq) {
		return resp, err
	}

	wait := time.Duration(jitter(float64(tooManyReq.RetryAfter), 0, 0.1))
	// Проверяем отмену контекста перед спячкой
	select {
	case <-ctx.Done():
		return nil, ctx.Err() //nolint:wrapcheck
	case <-time.After(wait):
	}
	return r.callProvider(ctx, reference)
}

func (r *Reconciler) callProvider(ctx context.Context, reference string) (*client.Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, r.providerTimeout)
	defer cancel()

	resp, err := r.client.GetOrderStatus(reqCtx, reference)
	if err != nil {
		return nil, fmt.Errorf("get provider status for %s: %w", reference, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("get provider status for %s: %w", reference, ErrEmptyProviderResponse)
	}
	return resp, nil
}

func (r *Reconciler) recordFailure(ctx context.Context, order *domain.Order) {
	svcCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	if err := r.svs.RecordSyncFailure(svcCtx, order.ID); err != nil {
		r.l.WithError(err).WithField("orderID", order.ID).Error("record sync failure")
	}
}

// publish отправляет событие о конечном статусе заказа. Ошибка отправки только логируется: статус в базе
// уже сохранен.
func (r *Reconciler) publish(ctx context.Context, order *domain.Order) {
	if r.publisher == nil || order == nil {
		return
	}
	if err := r.publisher.PublishOrderOutcome(ctx, notify.NewOrderOutcomeEvent(order, r.now())); err != nil {
		r.l.WithError(err).WithField("orderID", order.ID).Warn("publish order outcome")
	}
}

func (r *Reconciler) logResult(result workerResult) {
	l := r.l.WithFields(logrus.Fields{
		"worker":    result.WorkerID,
		"orderID":   result.Order.ID,
		"reference": result.Order.Reference(),
		"network":   result.Order.Network,
		"action":    string(result.Action),
	})
	if result.APIStatus != "" {
		l = l.WithField("apiStatus", result.APIStatus)
	}

	switch result.Action {
	case actionUpdated:
		l.WithField("outcome", string(result.Outcome)).Info("order updated")
	case actionPending:
		l.Debug("order still pending")
	case actionUnknown:
		l.Warn("unknown provider status, needs manual review")
	case actionConflict:
		l.WithError(result.Error).Warn("order changed concurrently, skipped")
	case actionErrored:
		l.WithError(result.Error).Error("reconcile order")
	}
}
