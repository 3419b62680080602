package notifier

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"
)

// Parse modes supported by Message.
const (
	ModePlain      tele.ParseMode = ""
	ModeHTML       tele.ParseMode = tele.ModeHTML
	ModeMarkdownV2 tele.ParseMode = tele.ModeMarkdownV2
)

// Message is an outbound chat text with optional formatting and reply keyboard.
type Message struct {
	Text      string
	ParseMode tele.ParseMode
	Keyboard  [][]string
}

// Messenger delivers messages to a chat by id.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, msg Message) error
	SendImage(ctx context.Context, chatID int64, png []byte, caption string) error
}

// botAPI is the subset of *tele.Bot used for sending.
type botAPI interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Config holds Telegram notifier settings.
type Config struct {
	BotToken    string
	Proxy       string
	PollTimeout time.Duration
	RateLimit   float64 // messages per second across all chats
}

// TelegramNotifier sends messages through the Telegram Bot API.
type TelegramNotifier struct {
	bot     *tele.Bot
	api     botAPI
	limiter *rate.Limiter
}

// NewTelegramNotifier creates a bot client with optional proxy support.
func NewTelegramNotifier(cfg Config) (*TelegramNotifier, error) {
	transport := &http.Transport{}
	if cfg.Proxy != "" {
		if u, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30 * time.Second
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
		Client: &http.Client{
			Timeout:   cfg.PollTimeout + 15*time.Second,
			Transport: transport,
		},
		OnError: func(err error, c tele.Context) {
			entry := log.WithError(err)
			if c != nil && c.Chat() != nil {
				entry = entry.WithField("chat_id", c.Chat().ID)
			}
			entry.Error("telegram handler error")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:     bot,
		api:     bot,
		limiter: newLimiter(cfg.RateLimit),
	}, nil
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// SendText sends a text message to chatID.
func (t *TelegramNotifier) SendText(ctx context.Context, chatID int64, msg Message) error {
	opts := &tele.SendOptions{ParseMode: msg.ParseMode}
	if len(msg.Keyboard) > 0 {
		opts.ReplyMarkup = replyKeyboard(msg.Keyboard)
	}
	return t.send(ctx, chatID, msg.Text, opts)
}

// SendImage sends a PNG photo to chatID.
func (t *TelegramNotifier) SendImage(ctx context.Context, chatID int64, png []byte, caption string) error {
	photo := &tele.Photo{
		File:    tele.FromReader(bytes.NewReader(png)),
		Caption: caption,
	}
	return t.send(ctx, chatID, photo, &tele.SendOptions{})
}

func (t *TelegramNotifier) send(ctx context.Context, chatID int64, what interface{}, opts *tele.SendOptions) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return &DeliveryError{ChatID: chatID, Err: fmt.Errorf("rate limit wait: %w", err)}
	}
	if _, err := t.api.Send(tele.ChatID(chatID), what, opts); err != nil {
		return classify(chatID, err)
	}
	return nil
}

func replyKeyboard(rows [][]string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	out := make([]tele.Row, 0, len(rows))
	for _, labels := range rows {
		btns := make([]tele.Btn, 0, len(labels))
		for _, l := range labels {
			btns = append(btns, markup.Text(l))
		}
		out = append(out, markup.Row(btns...))
	}
	markup.Reply(out...)
	return markup
}
