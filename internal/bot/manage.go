package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pathakanu/remindbot/internal/dialogue"
	"github.com/pathakanu/remindbot/internal/model"
	"go.uber.org/zap"
)

func (b *Bot) listReminders(ctx context.Context, ownerID int64) string {
	reminders, err := b.reminders.GetUserReminders(ctx, ownerID)
	if err != nil {
		return b.fail("list_reminders", ownerID, err)
	}
	if len(reminders) == 0 {
		return msgNoReminders
	}

	var sb strings.Builder
	sb.WriteString("📋 Your reminders:\n\n")
	for _, r := range reminders {
		fmt.Fprintf(&sb, "🆔 ID: %d\n📝 %s\n⏰ %s\n%s\n", r.ID, r.Text, formatTime(r.TargetTime), separator)
	}
	sb.WriteString("\nTo delete a reminder send /delete <ID>")
	return sb.String()
}

// startDelete deletes directly when arg is an id, otherwise offers the
// owner's reminders to choose from.
func (b *Bot) startDelete(ctx context.Context, ownerID int64, arg string) string {
	if id, ok := parseID(arg); ok {
		deleted, err := b.deleteOwned(ctx, ownerID, id)
		if err != nil {
			return b.fail("delete_reminder", ownerID, err)
		}
		if !deleted {
			return msgReminderNotFound
		}
		return fmt.Sprintf(msgDeleted, id)
	}

	reminders, err := b.reminders.GetUserReminders(ctx, ownerID)
	if err != nil {
		return b.fail("list_for_delete", ownerID, err)
	}
	if len(reminders) == 0 {
		return msgNothingToDelete
	}

	conv := model.Conversation{OwnerID: ownerID, State: string(dialogue.StateAwaitingDelete)}
	if err := b.dialogues.Save(ctx, conv); err != nil {
		return b.fail("start_delete", ownerID, err)
	}
	return deletePrompt(reminders)
}

func (b *Bot) handleDeleteChoice(ctx context.Context, ownerID int64, input string) string {
	if strings.EqualFold(input, cancelOption) {
		if err := b.dialogues.Clear(ctx, ownerID); err != nil {
			return b.fail("cancel_delete", ownerID, err)
		}
		return msgDeleteCancelled
	}

	id, ok := parseID(input)
	if !ok {
		return msgNeedNumericID
	}

	deleted, err := b.deleteOwned(ctx, ownerID, id)
	if err != nil {
		return b.fail("delete_reminder", ownerID, err)
	}
	if !deleted {
		return msgReminderNotFoundRetry
	}
	if err := b.dialogues.Clear(ctx, ownerID); err != nil {
		b.logger.Warn("clear_conversation_failed", zap.Int64("owner_id", ownerID), zap.Error(err))
	}
	return fmt.Sprintf(msgDeleted, id)
}

// deleteOwned removes id if ownerID owns it and reports whether it did.
func (b *Bot) deleteOwned(ctx context.Context, ownerID int64, id uint) (bool, error) {
	_, ok, err := b.reminders.GetReminderByID(ctx, id, ownerID)
	if err != nil || !ok {
		return false, err
	}
	if err := b.reminders.DeleteReminder(ctx, id, ownerID); err != nil {
		return false, err
	}
	b.logger.Info("reminder_deleted", zap.Uint("reminder_id", id), zap.Int64("owner_id", ownerID))
	return true, nil
}

func parseID(s string) (uint, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 0)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
