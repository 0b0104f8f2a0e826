// Package dispatch polls the reminder store and delivers due reminders.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pathakanu/remindbot/internal/logger"
	"github.com/pathakanu/remindbot/internal/model"
	"github.com/pathakanu/remindbot/internal/notify"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// MessagePrefix heads every delivered reminder.
const MessagePrefix = "🔔 Reminder!\n\n"

// CycleResult counts what one dispatch cycle did.
type CycleResult struct {
	Pending     int
	Due         int
	Delivered   int
	Unreachable int
	Failed      int
}

// Dispatcher runs dispatch cycles on a fixed interval. The store is the only
// state it reads; nothing is cached between cycles.
type Dispatcher struct {
	source   ReminderSource
	notifier notify.Notifier
	logger   *zap.Logger
	interval time.Duration
	now      func() time.Time
	cron     *cron.Cron

	mu      sync.Mutex
	cancel  context.CancelFunc
	initial chan struct{}
}

// Option customises a Dispatcher.
type Option func(*Dispatcher)

// WithClock replaces time.Now as the cycle reference time.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithLocation sets the scheduler's time zone.
func WithLocation(loc *time.Location) Option {
	return func(d *Dispatcher) {
		if loc != nil {
			d.cron = cron.New(cron.WithLocation(loc), cron.WithLogger(logger.NewCronLogger(d.logger)))
		}
	}
}

// New creates a Dispatcher that runs every interval once started.
func New(source ReminderSource, notifier notify.Notifier, log *zap.Logger, interval time.Duration, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		source:   source,
		notifier: notifier,
		logger:   log.Named("dispatch"),
		interval: interval,
		now:      time.Now,
	}
	d.cron = cron.New(cron.WithLogger(logger.NewCronLogger(d.logger)))
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start runs one cycle right away, picking up anything that fell due while
// the process was down, then schedules a cycle every interval. Cycles never
// overlap and a panicking cycle does not stop the schedule. Cancelling ctx
// aborts in-flight store and delivery calls.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return fmt.Errorf("dispatcher already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	cronLog := logger.NewCronLogger(d.logger)
	job := cron.NewChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)).
		Then(cron.FuncJob(func() { d.runLogged(ctx) }))

	d.cron.Schedule(cron.Every(d.interval), job)
	d.cancel = cancel
	d.initial = make(chan struct{})
	d.cron.Start()

	go func() {
		defer close(d.initial)
		job.Run()
	}()

	d.logger.Info("dispatcher_started", zap.Duration("interval", d.interval))
	return nil
}

// Stop halts scheduling, cancels in-flight work and waits for it to return.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel == nil {
		return
	}

	stopped := d.cron.Stop()
	d.cancel()
	<-stopped.Done()
	<-d.initial
	d.cancel = nil
	d.logger.Info("dispatcher_stopped")
}

func (d *Dispatcher) runLogged(ctx context.Context) {
	start := time.Now()
	result, err := d.RunCycle(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		d.logger.Error("dispatch_cycle_failed", zap.Error(err))
		return
	}

	fields := []zap.Field{
		zap.Int("pending", result.Pending),
		zap.Int("due", result.Due),
		zap.Int("delivered", result.Delivered),
		zap.Int("unreachable", result.Unreachable),
		zap.Int("failed", result.Failed),
		zap.Duration("took", time.Since(start)),
	}
	if result.Due == 0 {
		d.logger.Debug("dispatch_cycle_completed", fields...)
		return
	}
	d.logger.Info("dispatch_cycle_completed", fields...)
}

// RunCycle performs one dispatch cycle. It returns an error only when the
// pending reminders cannot be fetched or ctx is cancelled; delivery and
// completion failures are logged per reminder and counted in the result.
func (d *Dispatcher) RunCycle(ctx context.Context) (CycleResult, error) {
	var result CycleResult
	log := d.logger.With(zap.String("cycle_id", uuid.NewString()))

	reminders, err := d.source.GetAllPendingReminders(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch pending reminders: %w", err)
	}
	result.Pending = len(reminders)

	now := d.now()
	for _, reminder := range reminders {
		if reminder.TargetTime.After(now) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Due++
		d.dispatchOne(ctx, log, reminder, &result)
	}
	return result, nil
}

func (d *Dispatcher) dispatchOne(ctx context.Context, log *zap.Logger, reminder model.Reminder, result *CycleResult) {
	log = log.With(zap.Uint("reminder_id", reminder.ID), zap.Int64("owner_id", reminder.OwnerID))
	defer func() {
		if r := recover(); r != nil {
			result.Failed++
			log.Error("reminder_dispatch_panic", zap.Any("panic", r))
		}
	}()

	err := d.notifier.Deliver(ctx, reminder.OwnerID, FormatMessage(reminder))
	switch {
	case err == nil:
		result.Delivered++
		log.Info("reminder_delivered")
	case notify.IsPermanent(err):
		result.Unreachable++
		log.Warn("reminder_recipient_unreachable", zap.Error(err))
	default:
		result.Failed++
		log.Warn("reminder_delivery_failed", zap.Error(err))
		return
	}

	if err := d.source.MarkReminderCompleted(ctx, reminder.ID); err != nil {
		// Left pending; the next cycle delivers it again.
		log.Error("reminder_complete_failed", zap.Error(err))
	}
}

// FormatMessage renders the delivered text of a reminder.
func FormatMessage(reminder model.Reminder) string {
	return MessagePrefix + reminder.Text
}
