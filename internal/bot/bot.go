package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pathakanu/remindbot/internal/dialogue"
	"github.com/pathakanu/remindbot/internal/model"
	myopenai "github.com/pathakanu/remindbot/internal/openai"
	"go.uber.org/zap"
)

// ReminderStore is the part of the reminder store the chat front-end uses.
type ReminderStore interface {
	AddReminder(ctx context.Context, ownerID int64, text string, targetTime time.Time) (uint, error)
	GetUserReminders(ctx context.Context, ownerID int64) ([]model.Reminder, error)
	GetReminderByID(ctx context.Context, id uint, ownerID int64) (model.Reminder, bool, error)
	DeleteReminder(ctx context.Context, id uint, ownerID int64) error
}

// IntentClassifier routes free text that is not part of a dialogue.
type IntentClassifier interface {
	ClassifyIntent(ctx context.Context, content string) (myopenai.Intent, error)
}

// Bot answers chat messages. It holds no per-conversation state itself;
// everything lives in the dialogue store, so any goroutine may serve any
// message.
type Bot struct {
	reminders  ReminderStore
	dialogues  dialogue.Store
	classifier IntentClassifier
	validate   *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// Option customises a Bot.
type Option func(*Bot)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Bot) { b.now = now }
}

// WithLocation interprets typed times in loc.
func WithLocation(loc *time.Location) Option {
	return func(b *Bot) {
		if loc != nil {
			b.now = func() time.Time { return time.Now().In(loc) }
		}
	}
}

// WithClassifier enables free-text intent routing.
func WithClassifier(c IntentClassifier) Option {
	return func(b *Bot) { b.classifier = c }
}

// New creates a fully configured Bot instance.
func New(reminders ReminderStore, dialogues dialogue.Store, logger *zap.Logger, opts ...Option) *Bot {
	b := &Bot{
		reminders: reminders,
		dialogues: dialogues,
		logger:    logger.Named("bot"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.validate = newValidator(b.now)
	return b
}

// HandleMessage processes one inbound message from ownerID and returns the reply.
func (b *Bot) HandleMessage(ctx context.Context, ownerID int64, body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return msgEmpty
	}

	if cmd, arg, ok := parseCommand(body); ok {
		return b.handleCommand(ctx, ownerID, cmd, arg)
	}

	conv, err := b.dialogues.Get(ctx, ownerID)
	if err != nil {
		return b.fail("load_conversation", ownerID, err)
	}

	switch dialogue.StateOf(conv) {
	case dialogue.StateAwaitingText:
		return b.handleReminderText(ctx, ownerID, body)
	case dialogue.StateAwaitingTime:
		return b.handleReminderTime(ctx, conv, body)
	case dialogue.StateAwaitingDelete:
		return b.handleDeleteChoice(ctx, ownerID, body)
	default:
		return b.handleFreeText(ctx, ownerID, body)
	}
}

func (b *Bot) handleCommand(ctx context.Context, ownerID int64, cmd, arg string) string {
	switch cmd {
	case "start", "help":
		return helpResponse()
	case "new":
		return b.startCompose(ctx, ownerID)
	case "list":
		return b.listReminders(ctx, ownerID)
	case "delete":
		return b.startDelete(ctx, ownerID, arg)
	case "cancel":
		if err := b.dialogues.Clear(ctx, ownerID); err != nil {
			return b.fail("cancel", ownerID, err)
		}
		return msgCancelled
	default:
		return msgUnknownCommand + "\n\n" + helpResponse()
	}
}

func (b *Bot) handleFreeText(ctx context.Context, ownerID int64, body string) string {
	switch b.determineIntent(ctx, body) {
	case myopenai.IntentListReminders:
		return b.listReminders(ctx, ownerID)
	case myopenai.IntentDeleteReminder:
		return b.startDelete(ctx, ownerID, "")
	case myopenai.IntentCancel:
		return msgNothingToCancel
	case myopenai.IntentHelp:
		return helpResponse()
	default:
		return b.handleReminderText(ctx, ownerID, body)
	}
}

func (b *Bot) determineIntent(ctx context.Context, body string) myopenai.Intent {
	if b.classifier == nil {
		return myopenai.IntentAddReminder
	}
	intent, err := b.classifier.ClassifyIntent(ctx, body)
	if err != nil {
		if !errors.Is(err, myopenai.ErrClientNotInitialised) {
			b.logger.Warn("intent_classification_failed", zap.Error(err))
		}
		return myopenai.IntentAddReminder
	}
	if intent == myopenai.IntentUnknown {
		return myopenai.IntentAddReminder
	}
	return intent
}

// fail logs an infrastructure error and returns the generic apology.
func (b *Bot) fail(op string, ownerID int64, err error) string {
	b.logger.Error("bot_operation_failed",
		zap.String("op", op),
		zap.Int64("owner_id", ownerID),
		zap.Error(err),
	)
	return msgInternalError
}

// parseCommand splits "/delete 5" into ("delete", "5"). Telegram style
// "/cmd@botname" suffixes are dropped.
func parseCommand(body string) (cmd, arg string, ok bool) {
	if !strings.HasPrefix(body, "/") {
		return "", "", false
	}
	fields := strings.Fields(body[1:])
	if len(fields) == 0 {
		return "", "", false
	}
	cmd = strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd, strings.Join(fields[1:], " "), true
}
