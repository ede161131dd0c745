package jobs

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnknownJob   = errors.New("unknown job")
	ErrDuplicateJob = errors.New("job already registered")
	ErrBadInterval  = errors.New("job interval must be positive")
)

type scheduledJob struct {
	job      Job
	interval time.Duration
	trigger  chan struct{}
}

// Scheduler запускает каждую задачу в своей горутине с собственным интервалом. Следующий запуск задачи
// начинается только после завершения предыдущего, пропущенные за время работы тики отбрасываются.
type Scheduler struct {
	l          *logrus.Entry
	jobs       map[string]*scheduledJob
	names      []string
	runOnStart bool
}

func NewScheduler(l *logrus.Logger) *Scheduler {
	return &Scheduler{
		l: l.WithFields(logrus.Fields{
			"component": "jobs",
			"module":    "scheduler",
		}),
		jobs: make(map[string]*scheduledJob),
	}
}

// SetRunOnStart включает запуск всех задач сразу после старта планировщика.
func (s *Scheduler) SetRunOnStart(runOnStart bool) *Scheduler {
	s.runOnStart = runOnStart
	return s
}

// Add регистрирует задачу. Вызывается до Run.
func (s *Scheduler) Add(job Job, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("add job %s: %w", job.Name(), ErrBadInterval)
	}
	if _, exists := s.jobs[job.Name()]; exists {
		return fmt.Errorf("add job %s: %w", job.Name(), ErrDuplicateJob)
	}
	s.jobs[job.Name()] = &scheduledJob{
		job:      job,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
	s.names = append(s.names, job.Name())
	return nil
}

// Jobs возвращает имена зарегистрированных задач.
func (s *Scheduler) Jobs() []string {
	return append([]string(nil), s.names...)
}

// Trigger запрашивает внеочередной запуск задачи name. Если запуск уже запрошен, повторный запрос
// игнорируется.
func (s *Scheduler) Trigger(name string) error {
	sj, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("trigger %q: %w", name, ErrUnknownJob)
	}
	select {
	case sj.trigger <- struct{}{}:
	default:
	}
	return nil
}

// Run запускает все задачи и блокируется до отмены контекста.
func (s *Scheduler) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)
	for _, name := range s.names {
		sj := s.jobs[name]
		s.l.WithFields(logrus.Fields{
			"job":      name,
			"interval": sj.interval.String(),
		}).Info("Starting")

		g.Go(func() error {
			s.loop(gCtx, sj)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	s.l.Info("Got stop signal, exiting...")
	return nil
}

func (s *Scheduler) loop(ctx context.Context, sj *scheduledJob) {
	ticker := time.NewTicker(sj.interval)
	defer ticker.Stop()

	if s.runOnStart {
		s.runOnce(ctx, sj.job)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, sj.job)
		case <-sj.trigger:
			s.runOnce(ctx, sj.job)
		}
	}
}

// runOnce выполняет один проход задачи. Паника внутри задачи логируется и не останавливает планировщик.
func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	l := s.l.WithField("job", job.Name())
	started := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			l.WithFields(logrus.Fields{
				"panic": fmt.Sprint(rec),
				"stack": string(debug.Stack()),
			}).Error("job panicked")
		}
	}()

	if err := job.RunCycle(ctx); err != nil {
		if ctx.Err() != nil {
			l.WithError(err).Info("job interrupted")
			return
		}
		l.WithError(err).Error("job failed")
		return
	}
	l.WithField("duration", time.Since(started).String()).Debug("job done")
}
