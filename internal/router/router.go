// Package router dispatches inbound chat text to the bot's command handlers.
package router

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"

	"FuelSentinel/internal/metrics"
	"FuelSentinel/internal/model"
	"FuelSentinel/internal/notifier"
	"FuelSentinel/internal/subscriber"
)

// Reply texts.
const (
	MsgWelcome      = "Welcome! Choose an action:"
	MsgSubscribed   = "You will now receive daily updates!"
	MsgUnsubscribed = "Daily reminders disabled."
	MsgUnknown      = "Unknown command. Please use the keyboard actions."
	MsgUnavailable  = "Fuel prices are unavailable right now. Please try again later."
	MsgStoreFailed  = "Something went wrong, please try again."
)

// PriceService supplies the price windows the commands report on.
type PriceService interface {
	Snapshot(ctx context.Context, category model.Category) (model.Trend, error)
	Table(ctx context.Context, category model.Category) (model.PriceSeries, error)
	History(ctx context.Context, category model.Category) (model.PriceSeries, error)
}

// ChartRenderer draws a price history.
type ChartRenderer interface {
	RenderLineChart(series model.PriceSeries) ([]byte, error)
}

// Router maps command text to handlers. Handlers never return errors to the
// caller; failures are logged and, where useful, reported to the chat.
type Router struct {
	prices    PriceService
	messenger notifier.Messenger
	charts    ChartRenderer
	reminders *subscriber.Store
	sessions  *subscriber.Store
	contact   notifier.Contact
}

// New creates a Router.
func New(prices PriceService, messenger notifier.Messenger, charts ChartRenderer,
	reminders, sessions *subscriber.Store, contact notifier.Contact) *Router {
	return &Router{
		prices:    prices,
		messenger: messenger,
		charts:    charts,
		reminders: reminders,
		sessions:  sessions,
		contact:   contact,
	}
}

// Handle processes one inbound text message from chatID.
func (r *Router) Handle(ctx context.Context, chatID int64, text string) {
	switch strings.TrimSpace(text) {
	case "/start":
		r.count("start")
		r.start(ctx, chatID)
	case LabelPetrolPrice:
		r.count("price")
		r.snapshot(ctx, chatID, model.Petrol)
	case LabelDieselPrice:
		r.count("price")
		r.snapshot(ctx, chatID, model.Diesel)
	case LabelPetrolTable:
		r.count("table")
		r.table(ctx, chatID, model.Petrol)
	case LabelDieselTable:
		r.count("table")
		r.table(ctx, chatID, model.Diesel)
	case LabelRemind:
		r.count("subscribe")
		r.subscribe(ctx, chatID)
	case LabelUnremind:
		r.count("unsubscribe")
		r.unsubscribe(ctx, chatID)
	case LabelContact:
		r.count("contact")
		r.reply(ctx, chatID, notifier.Message{
			Text:      notifier.FormatContact(r.contact),
			ParseMode: notifier.ModeHTML,
		})
	default:
		r.count("unknown")
		r.reply(ctx, chatID, notifier.Message{Text: MsgUnknown})
	}
}

func (r *Router) count(cmd string) {
	metrics.RecordCommand(cmd)
}

func (r *Router) start(ctx context.Context, chatID int64) {
	if _, err := r.sessions.Add(ctx, chatID); err != nil {
		log.WithField("chat_id", chatID).WithError(err).Error("record session")
	}
	r.reply(ctx, chatID, notifier.Message{
		Text:     MsgWelcome,
		Keyboard: Keyboard(r.reminders.Contains(chatID)),
	})
}

func (r *Router) snapshot(ctx context.Context, chatID int64, category model.Category) {
	trend, err := r.prices.Snapshot(ctx, category)
	if err != nil {
		r.upstreamFailed(ctx, chatID, category, err)
		return
	}
	r.reply(ctx, chatID, notifier.Message{Text: notifier.FormatTrend(trend)})
}

func (r *Router) table(ctx context.Context, chatID int64, category model.Category) {
	series, err := r.prices.Table(ctx, category)
	if err != nil {
		r.upstreamFailed(ctx, chatID, category, err)
		return
	}
	if !r.reply(ctx, chatID, notifier.Message{
		Text:      notifier.FormatTable(series),
		ParseMode: notifier.ModeMarkdownV2,
	}) {
		return
	}

	history, err := r.prices.History(ctx, category)
	if err != nil {
		log.WithFields(log.Fields{"chat_id": chatID, "category": category}).
			WithError(err).Error("fetch chart history")
		return
	}
	png, err := r.charts.RenderLineChart(history)
	if err != nil {
		log.WithFields(log.Fields{"chat_id": chatID, "category": category}).
			WithError(err).Warn("render chart")
		return
	}
	if err := r.messenger.SendImage(ctx, chatID, png, ""); err != nil {
		r.deliveryFailed(ctx, chatID, err)
	}
}

func (r *Router) subscribe(ctx context.Context, chatID int64) {
	if _, err := r.reminders.Add(ctx, chatID); err != nil {
		log.WithField("chat_id", chatID).WithError(err).Error("subscribe")
		r.reply(ctx, chatID, notifier.Message{Text: MsgStoreFailed, Keyboard: Keyboard(false)})
		return
	}
	r.reply(ctx, chatID, notifier.Message{Text: MsgSubscribed, Keyboard: Keyboard(true)})
}

func (r *Router) unsubscribe(ctx context.Context, chatID int64) {
	if _, err := r.reminders.Remove(ctx, chatID); err != nil {
		log.WithField("chat_id", chatID).WithError(err).Error("unsubscribe")
		r.reply(ctx, chatID, notifier.Message{Text: MsgStoreFailed, Keyboard: Keyboard(true)})
		return
	}
	r.reply(ctx, chatID, notifier.Message{Text: MsgUnsubscribed, Keyboard: Keyboard(false)})
}

func (r *Router) upstreamFailed(ctx context.Context, chatID int64, category model.Category, err error) {
	log.WithFields(log.Fields{"chat_id": chatID, "category": category}).
		WithError(err).Error("fetch prices")
	if errors.Is(err, context.Canceled) {
		return
	}
	r.reply(ctx, chatID, notifier.Message{Text: MsgUnavailable})
}

// reply sends msg and reports whether it was delivered.
func (r *Router) reply(ctx context.Context, chatID int64, msg notifier.Message) bool {
	if err := r.messenger.SendText(ctx, chatID, msg); err != nil {
		r.deliveryFailed(ctx, chatID, err)
		return false
	}
	return true
}

func (r *Router) deliveryFailed(ctx context.Context, chatID int64, err error) {
	entry := log.WithField("chat_id", chatID).WithError(err)
	if !notifier.IsUnreachable(err) {
		entry.Warn("reply failed")
		return
	}
	removed, rmErr := r.reminders.Remove(ctx, chatID)
	if rmErr != nil {
		entry.WithField("evict_error", rmErr).Error("chat unreachable, eviction failed")
		return
	}
	if removed {
		metrics.RecordDelivery("evicted")
		entry.Info("chat unreachable, removed from reminders")
		return
	}
	entry.Warn("chat unreachable")
}
