package jobs

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata" // часовой пояс бизнеса должен загружаться и в контейнере без tzdata.

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/sirupsen/logrus"
)

const JobStaleComplete = "stale-complete"

const (
	defaultStaleAfter            = 30 * time.Minute
	defaultStaleBatchSize   uint = 200
	defaultBusinessTimezone      = "Africa/Accra"
)

// StaleCompleter принудительно завершает заказы сетей, провайдер которых не присылает итог, если заказ
// висит открытым дольше staleAfter. Журнал транзакций и кошелёк при этом не меняются.
type StaleCompleter struct {
	svs        StaleServicer
	l          *logrus.Entry
	networks   []string
	staleAfter time.Duration
	location   *time.Location
	batchSize  uint
	now        func() time.Time
}

func NewStaleCompleter(svs StaleServicer, networks []string, l *logrus.Logger) *StaleCompleter {
	normalized := make([]string, 0, len(networks))
	for _, n := range networks {
		if n = domain.NormalizeNetwork(n); n != "" {
			normalized = append(normalized, n)
		}
	}

	location, locErr := time.LoadLocation(defaultBusinessTimezone)
	if locErr != nil {
		location = time.UTC
	}

	return &StaleCompleter{
		svs: svs,
		l: l.WithFields(logrus.Fields{
			"component": "jobs",
			"module":    JobStaleComplete,
		}),
		networks:   normalized,
		staleAfter: defaultStaleAfter,
		location:   location,
		batchSize:  defaultStaleBatchSize,
		now:        time.Now,
	}
}

// SetStaleAfter устанавливает возраст, после которого открытый заказ считается зависшим.
func (s *StaleCompleter) SetStaleAfter(d time.Duration) *StaleCompleter {
	if d > 0 {
		s.staleAfter = d
	}
	return s
}

// SetLocation устанавливает часовой пояс бизнеса, в котором считается текущее время.
func (s *StaleCompleter) SetLocation(loc *time.Location) *StaleCompleter {
	if loc != nil {
		s.location = loc
	}
	return s
}

func (s *StaleCompleter) SetBatchSize(size uint) *StaleCompleter {
	if size > 0 {
		s.batchSize = size
	}
	return s
}

func (s *StaleCompleter) Name() string {
	return JobStaleComplete
}

// RunCycle выполняет один проход: выбирает открытые заказы разрешённых сетей старше cutoff и условно
// переводит каждый в completed. Заказ, который за это время изменился, пропускается.
func (s *StaleCompleter) RunCycle(ctx context.Context) error {
	now := s.now().In(s.location)
	cutoff := now.Add(-s.staleAfter)

	l := s.l.WithFields(logrus.Fields{
		"now":    now.Format(time.RFC3339),
		"cutoff": cutoff.Format(time.RFC3339),
	})

	if len(s.networks) == 0 {
		l.Debug("no networks allowed for stale completion")
		return nil
	}

	var completed, skipped, conflicts, errorsCnt int
	var afterID int64
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stale complete cycle: %w", err)
		}

		orders, ordersErr := s.produce(ctx, cutoff, afterID)
		if ordersErr != nil {
			return fmt.Errorf("stale complete cycle: %w", ordersErr)
		}
		if len(orders) == 0 {
			break
		}

		for i := range orders {
			order := &orders[i]
			ol := l.WithFields(logrus.Fields{
				"orderID":   order.ID,
				"network":   order.Network,
				"status":    string(order.Status),
				"createdAt": order.CreatedAt.In(s.location).Format(time.RFC3339),
			})

			// база уже отфильтровала кандидатов, но решение принимается по доменному правилу.
			if !order.IsStaleFor(s.networks, cutoff) {
				skipped++
				ol.Debug("order is not stale, skipped")
				continue
			}

			switch err := s.complete(ctx, order); {
			case err == nil:
				completed++
				ol.Info("stale order force completed")
			case isConflict(err):
				conflicts++
				ol.WithError(err).Warn("order changed concurrently, skipped")
			default:
				errorsCnt++
				ol.WithError(err).Error("force complete order")
			}
		}

		afterID = orders[len(orders)-1].ID
		if uint(len(orders)) < s.batchSize {
			break
		}
	}

	l.WithFields(logrus.Fields{
		"completed": completed,
		"skipped":   skipped,
		"conflicts": conflicts,
		"errors":    errorsCnt,
	}).Info("stale complete cycle finished")
	return nil
}

func (s *StaleCompleter) produce(ctx context.Context, cutoff time.Time, afterID int64) ([]domain.Order, error) {
	produceCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	orders, err := s.svs.StaleOrders(produceCtx, s.networks, cutoff, afterID, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("produce: %w", err)
	}
	return orders, nil
}

func (s *StaleCompleter) complete(ctx context.Context, order *domain.Order) error {
	svcCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	_, err := s.svs.ForceComplete(svcCtx, order.ID, order.Status)
	return err //nolint:wrapcheck
}
