package notifier

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
	tele "gopkg.in/telebot.v4"
)

// CommandHandler is called for every inbound text message.
type CommandHandler func(ctx context.Context, chatID int64, text string)

// StartPolling begins long-polling for inbound messages. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	onText := func(c tele.Context) error {
		dispatchText(ctx, handler, c.Chat(), c.Text())
		return nil
	}
	// Commands are matched before OnText, so /start needs its own route.
	t.bot.Handle("/start", onText)
	t.bot.Handle(tele.OnText, onText)

	go func() {
		<-ctx.Done()
		t.bot.Stop()
		log.Info("Telegram polling stopped")
	}()

	t.bot.Start()
}

// dispatchText forwards non-empty text to handler. Message content is only
// logged at debug level.
func dispatchText(ctx context.Context, handler CommandHandler, chat *tele.Chat, text string) {
	if chat == nil {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	log.WithField("chat_id", chat.ID).Debugf("received command: %s", text)
	handler(ctx, chat.ID, text)
}
