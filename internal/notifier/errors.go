package notifier

import (
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"
)

// ErrUnreachable marks a recipient that will never accept messages again
// (chat deleted, bot blocked, user deactivated, bot removed from the chat).
var ErrUnreachable = errors.New("recipient permanently unreachable")

// DeliveryError reports a failed send to one chat.
type DeliveryError struct {
	ChatID    int64
	Permanent bool
	Err       error
}

func (e *DeliveryError) Error() string {
	kind := "transient"
	if e.Permanent {
		kind = "permanent"
	}
	return fmt.Sprintf("deliver to chat %d (%s): %v", e.ChatID, kind, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrUnreachable) match permanent delivery failures.
func (e *DeliveryError) Is(target error) bool {
	return target == ErrUnreachable && e.Permanent
}

// IsUnreachable reports whether err means the chat should be dropped.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

var permanentErrors = []error{
	tele.ErrChatNotFound,
	tele.ErrBlockedByUser,
	tele.ErrUserIsDeactivated,
	tele.ErrKickedFromGroup,
	tele.ErrKickedFromSuperGroup,
	tele.ErrNotStartedByUser,
}

// classify wraps a Bot API error into a DeliveryError.
func classify(chatID int64, err error) error {
	if err == nil {
		return nil
	}
	permanent := false
	for _, p := range permanentErrors {
		if errors.Is(err, p) {
			permanent = true
			break
		}
	}
	var apiErr *tele.Error
	if !permanent && errors.As(err, &apiErr) && apiErr.Code == 403 {
		permanent = true
	}
	return &DeliveryError{ChatID: chatID, Permanent: permanent, Err: err}
}
