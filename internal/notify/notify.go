// Package notify delivers reminder messages to their owners.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ErrRecipientUnreachable marks a delivery failure that will not succeed on
// retry, e.g. the owner blocked or unsubscribed from the channel.
var ErrRecipientUnreachable = errors.New("notify: recipient unreachable")

//go:generate mockgen -source=notify.go -destination=notify_mock.go -package=notify

// Notifier delivers a message to an owner. A nil error means delivered; an
// error wrapping ErrRecipientUnreachable is permanent; anything else is
// transient.
type Notifier interface {
	Deliver(ctx context.Context, ownerID int64, message string) error
}

// Unreachable wraps err so that errors.Is(err, ErrRecipientUnreachable) holds.
func Unreachable(err error) error {
	return fmt.Errorf("%w: %w", ErrRecipientUnreachable, err)
}

// IsPermanent reports whether err is a permanent delivery failure.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrRecipientUnreachable)
}

// OwnerIDFromAddress converts a WhatsApp address ("whatsapp:+15551234567")
// into the numeric owner id used by the store.
func OwnerIDFromAddress(address string) (int64, error) {
	digits := strings.TrimPrefix(strings.TrimSpace(address), "whatsapp:")
	digits = strings.TrimPrefix(digits, "+")
	if digits == "" {
		return 0, fmt.Errorf("empty sender address")
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("sender address %q is not a phone number", address)
	}
	return id, nil
}

// Address is the inverse of OwnerIDFromAddress.
func Address(ownerID int64) string {
	return "whatsapp:+" + strconv.FormatInt(ownerID, 10)
}

// Log writes messages to the logger instead of sending them. Used when no
// delivery channel is configured.
type Log struct {
	logger *zap.Logger
}

// NewLog returns a Notifier that only logs.
func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

// Deliver always succeeds.
func (l *Log) Deliver(_ context.Context, ownerID int64, message string) error {
	l.logger.Info("reminder_delivered_to_log",
		zap.Int64("owner_id", ownerID),
		zap.String("message", message),
	)
	return nil
}
