package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	twilio "github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Twilio error codes meaning the recipient cannot be reached on this channel.
// https://www.twilio.com/docs/api/errors
var permanentTwilioCodes = map[int]bool{
	21211: true, // invalid 'To' number
	21408: true, // region not enabled
	21610: true, // recipient unsubscribed (STOP)
	21612: true, // cannot route to this number
	21614: true, // 'To' is not a mobile number
	63003: true, // channel could not find 'To' address
	63024: true, // invalid message recipient
}

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// Twilio sends reminders as WhatsApp messages.
type Twilio struct {
	api          messageCreator
	fromWhatsApp string
	logger       *zap.Logger
}

// NewTwilio creates a Twilio notifier bound to the configured WhatsApp sender number.
func NewTwilio(accountSID, authToken, fromWhatsApp string, logger *zap.Logger) *Twilio {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{Username: accountSID, Password: authToken})
	return &Twilio{
		api:          client.Api,
		fromWhatsApp: fromWhatsApp,
		logger:       logger,
	}
}

// Deliver sends message to the owner's WhatsApp number.
func (t *Twilio) Deliver(ctx context.Context, ownerID int64, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sender := normalizeWhatsAppAddress(t.fromWhatsApp)
	if sender == "" {
		return fmt.Errorf("twilio sender WhatsApp number is not configured")
	}
	if ownerID <= 0 {
		return Unreachable(fmt.Errorf("owner id %d has no WhatsApp address", ownerID))
	}
	recipient := Address(ownerID)

	params := &openapi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(sender)
	params.SetBody(message)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		return classifyTwilioError(err)
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	t.logger.Debug("twilio_message_sent", zap.Int64("owner_id", ownerID), zap.String("sid", sid))
	return nil
}

func classifyTwilioError(err error) error {
	var restErr *twclient.TwilioRestError
	if errors.As(err, &restErr) && permanentTwilioCodes[restErr.Code] {
		return Unreachable(fmt.Errorf("twilio error %d: %s", restErr.Code, restErr.Message))
	}
	return fmt.Errorf("twilio send message error: %w", err)
}

func normalizeWhatsAppAddress(number string) string {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "whatsapp:") {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "+") {
		return "whatsapp:" + trimmed
	}
	return "whatsapp:+" + trimmed
}
