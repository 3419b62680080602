// Package scheduler runs the daily price broadcast.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"FuelSentinel/internal/metrics"
	"FuelSentinel/internal/model"
	"FuelSentinel/internal/notifier"
	"FuelSentinel/internal/subscriber"
)

// PriceSource supplies the day-over-day trend for a category.
type PriceSource interface {
	Snapshot(ctx context.Context, category model.Category) (model.Trend, error)
}

// Report summarises one firing.
type Report struct {
	FiringID    string
	Subscribers int
	Delivered   int
	Failed      int
	Evicted     int
}

// Scheduler manages the daily cron task.
type Scheduler struct {
	Cron      *cron.Cron
	Prices    PriceSource
	Notifier  notifier.Messenger
	Reminders *subscriber.Store
	Workers   int
	Ctx       context.Context

	inFlight atomic.Int32
}

// NewScheduler creates a Scheduler whose cron fires in loc.
func NewScheduler(ctx context.Context, prices PriceSource, messenger notifier.Messenger,
	reminders *subscriber.Store, loc *time.Location, workers int) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if workers <= 0 {
		workers = 1
	}
	logger := cronLogger{entry: log.WithField("component", "cron")}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger)),
		),
		Prices:    prices,
		Notifier:  messenger,
		Reminders: reminders,
		Workers:   workers,
		Ctx:       ctx,
	}
}

// Register adds the daily broadcast at the given cron spec.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running firing to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// RunNow executes the daily task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	if n := s.inFlight.Add(1); n > 1 {
		log.WithField("in_flight", n).Warn("previous firing still running")
	}
	defer s.inFlight.Add(-1)

	if _, err := s.Fire(s.Ctx); err != nil {
		log.WithError(err).Error("daily broadcast abandoned")
	}
}

// Fire fetches each category once and delivers the updates to every
// reminder subscriber. Any fetch failure abandons the whole firing.
func (s *Scheduler) Fire(ctx context.Context) (*Report, error) {
	report := &Report{FiringID: uuid.NewString()}
	logger := log.WithField("firing_id", report.FiringID)
	start := time.Now()
	logger.Info("sending scheduled updates")

	messages := make([]notifier.Message, 0, len(model.Categories))
	for _, c := range model.Categories {
		trend, err := s.Prices.Snapshot(ctx, c)
		if err != nil {
			metrics.RecordFiring("abandoned")
			return report, fmt.Errorf("firing %s: %w", report.FiringID, err)
		}
		messages = append(messages, notifier.Message{Text: notifier.FormatTrend(trend)})
	}

	ids := s.Reminders.IDs()
	report.Subscribers = len(ids)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)
	for _, id := range ids {
		g.Go(func() error {
			outcome := s.deliver(gctx, id, messages)
			metrics.RecordDelivery(outcome)
			mu.Lock()
			switch outcome {
			case "sent":
				report.Delivered++
			case "evicted":
				report.Evicted++
			default:
				report.Failed++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	metrics.RecordFiring("completed")
	logger.WithFields(log.Fields{
		"subscribers": report.Subscribers,
		"delivered":   report.Delivered,
		"failed":      report.Failed,
		"evicted":     report.Evicted,
		"elapsed":     time.Since(start).Round(time.Millisecond),
	}).Info("scheduled updates sent")
	return report, nil
}

// deliver gives every message one attempt. Only a permanently unreachable
// chat stops delivery early; it is then evicted from reminders.
func (s *Scheduler) deliver(ctx context.Context, chatID int64, messages []notifier.Message) string {
	outcome := "sent"
	for _, msg := range messages {
		err := s.Notifier.SendText(ctx, chatID, msg)
		if err == nil {
			continue
		}
		entry := log.WithField("chat_id", chatID).WithError(err)
		if !notifier.IsUnreachable(err) {
			entry.Warn("scheduled delivery failed")
			outcome = "failed"
			continue
		}
		if _, rmErr := s.Reminders.Remove(ctx, chatID); rmErr != nil {
			entry.WithField("evict_error", rmErr).Error("chat unreachable, eviction failed")
			return "failed"
		}
		entry.Info("chat unreachable, removed from reminders")
		return "evicted"
	}
	return outcome
}

// cronLogger bridges cron's logger to logrus.
type cronLogger struct {
	entry *log.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).WithError(err).Error(msg)
}

func fields(kv []interface{}) log.Fields {
	f := make(log.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}
