package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type sentItem struct {
	to   tele.Recipient
	what interface{}
	opts []interface{}
}

type fakeBot struct {
	sent []sentItem
	err  error
}

func (f *fakeBot) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.sent = append(f.sent, sentItem{to: to, what: what, opts: opts})
	if f.err != nil {
		return nil, f.err
	}
	return &tele.Message{}, nil
}

func newTestNotifier(api botAPI) *TelegramNotifier {
	return &TelegramNotifier{api: api, limiter: newLimiter(0)}
}

func TestSendText_OptionsAndKeyboard(t *testing.T) {
	bot := &fakeBot{}
	n := newTestNotifier(bot)

	err := n.SendText(context.Background(), 123, Message{
		Text:      "<b>hi</b>",
		ParseMode: ModeHTML,
		Keyboard:  [][]string{{"a", "b"}, {"c"}},
	})
	require.NoError(t, err)
	require.Len(t, bot.sent, 1)

	item := bot.sent[0]
	assert.Equal(t, "123", item.to.Recipient())
	assert.Equal(t, "<b>hi</b>", item.what)
	require.Len(t, item.opts, 1)
	opts, ok := item.opts[0].(*tele.SendOptions)
	require.True(t, ok)
	assert.Equal(t, ModeHTML, opts.ParseMode)
	require.NotNil(t, opts.ReplyMarkup)
	assert.True(t, opts.ReplyMarkup.ResizeKeyboard)
	require.Len(t, opts.ReplyMarkup.ReplyKeyboard, 2)
	assert.Equal(t, "a", opts.ReplyMarkup.ReplyKeyboard[0][0].Text)
	assert.Equal(t, "b", opts.ReplyMarkup.ReplyKeyboard[0][1].Text)
	assert.Equal(t, "c", opts.ReplyMarkup.ReplyKeyboard[1][0].Text)
}

func TestSendText_NoKeyboard(t *testing.T) {
	bot := &fakeBot{}
	n := newTestNotifier(bot)

	require.NoError(t, n.SendText(context.Background(), 1, Message{Text: "plain"}))
	opts := bot.sent[0].opts[0].(*tele.SendOptions)
	assert.Nil(t, opts.ReplyMarkup)
	assert.Equal(t, ModePlain, opts.ParseMode)
}

func TestSendImage(t *testing.T) {
	bot := &fakeBot{}
	n := newTestNotifier(bot)

	require.NoError(t, n.SendImage(context.Background(), 5, []byte{0x89, 'P', 'N', 'G'}, "Petrol"))
	photo, ok := bot.sent[0].what.(*tele.Photo)
	require.True(t, ok)
	assert.Equal(t, "Petrol", photo.Caption)
}

func TestSend_PermanentFailure(t *testing.T) {
	n := newTestNotifier(&fakeBot{err: tele.ErrBlockedByUser})

	err := n.SendText(context.Background(), 77, Message{Text: "x"})
	require.Error(t, err)
	assert.True(t, IsUnreachable(err))

	var delErr *DeliveryError
	require.ErrorAs(t, err, &delErr)
	assert.Equal(t, int64(77), delErr.ChatID)
	assert.True(t, delErr.Permanent)
	assert.ErrorIs(t, err, tele.ErrBlockedByUser)
}

func TestSend_TransientFailure(t *testing.T) {
	n := newTestNotifier(&fakeBot{err: errors.New("connection reset")})

	err := n.SendText(context.Background(), 77, Message{Text: "x"})
	require.Error(t, err)
	assert.False(t, IsUnreachable(err))
	assert.Contains(t, err.Error(), "transient")
}

func TestSend_CancelledContext(t *testing.T) {
	bot := &fakeBot{}
	n := &TelegramNotifier{api: bot, limiter: newLimiter(0.001)}
	// Drain the single burst token so the next Wait has to block.
	require.True(t, n.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.SendText(ctx, 1, Message{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")
	assert.Empty(t, bot.sent)
}
