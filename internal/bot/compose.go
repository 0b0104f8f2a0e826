package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pathakanu/remindbot/internal/dialogue"
	"github.com/pathakanu/remindbot/internal/model"
	"github.com/pathakanu/remindbot/internal/timeparse"
	"go.uber.org/zap"
)

// Draft is a reminder ready to be stored.
type Draft struct {
	OwnerID    int64     `validate:"required,gt=0"`
	Text       string    `validate:"required,max=500"`
	TargetTime time.Time `validate:"required,future"`
}

func newValidator(now func() time.Time) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("future", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && t.After(now())
	})
	return v
}

func (b *Bot) startCompose(ctx context.Context, ownerID int64) string {
	conv := model.Conversation{OwnerID: ownerID, State: string(dialogue.StateAwaitingText)}
	if err := b.dialogues.Save(ctx, conv); err != nil {
		return b.fail("start_compose", ownerID, err)
	}
	return msgAskText
}

func (b *Bot) handleReminderText(ctx context.Context, ownerID int64, text string) string {
	if err := b.validate.Var(text, "required,max=500"); err != nil {
		return msgTextTooLong
	}

	conv := model.Conversation{OwnerID: ownerID, State: string(dialogue.StateAwaitingTime), Text: text}
	if err := b.dialogues.Save(ctx, conv); err != nil {
		return b.fail("save_text", ownerID, err)
	}
	return timePrompt()
}

func (b *Bot) handleReminderTime(ctx context.Context, conv model.Conversation, input string) string {
	options := timeparse.QuickOptions()
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(options) {
		input = options[n-1]
	}

	target, err := timeparse.Parse(input, b.now())
	switch {
	case errors.Is(err, timeparse.ErrManualEntry):
		return msgManualEntry + "\n" + formatList()
	case err != nil:
		var me *timeparse.MalformedError
		reason := "unrecognised time"
		if errors.As(err, &me) && me.Reason != "" {
			reason = me.Reason
		}
		return fmt.Sprintf(msgBadTimeFormat, reason) + "\n" + formatList()
	}

	draft := Draft{OwnerID: conv.OwnerID, Text: conv.Text, TargetTime: target}
	if err := b.validate.Struct(draft); err != nil {
		return b.draftError(conv.OwnerID, err)
	}

	id, err := b.reminders.AddReminder(ctx, draft.OwnerID, draft.Text, draft.TargetTime)
	if err != nil {
		return b.fail("add_reminder", conv.OwnerID, err)
	}
	if err := b.dialogues.Clear(ctx, conv.OwnerID); err != nil {
		// The reminder is stored; a stale dialogue only costs the user a /cancel.
		b.logger.Warn("clear_conversation_failed", zap.Int64("owner_id", conv.OwnerID), zap.Error(err))
	}

	b.logger.Info("reminder_created",
		zap.Uint("reminder_id", id),
		zap.Int64("owner_id", draft.OwnerID),
		zap.Time("target_time", draft.TargetTime),
	)
	return fmt.Sprintf(msgCreated, draft.Text, formatTime(draft.TargetTime), id)
}

func (b *Bot) draftError(ownerID int64, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return b.fail("validate_draft", ownerID, err)
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "TargetTime":
			return msgTimeInPast
		case "Text":
			return msgTextTooLong
		}
	}
	return b.fail("validate_draft", ownerID, err)
}
