package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/pathakanu/remindbot/internal/model"
	"github.com/pathakanu/remindbot/internal/timeparse"
)

const (
	msgEmpty                 = "I need a message to work with. Please try again."
	msgInternalError         = "⚠️ Something went wrong. Please try again later."
	msgUnknownCommand        = "I don't know that command."
	msgCancelled             = "Current action cancelled. Send /start to see the available commands."
	msgNothingToCancel       = "There is nothing to cancel. Send /start to see the available commands."
	msgAskText               = "📝 Send me the reminder text:"
	msgTextTooLong           = "❌ The reminder text is too long. Maximum 500 characters."
	msgManualEntry           = "✍️ Type the time in one of these formats:"
	msgBadTimeFormat         = "❌ Invalid time format: %s.\n\nPlease use one of these formats:"
	msgTimeInPast            = "❌ The reminder time must be in the future! Try again:"
	msgCreated               = "✅ Reminder created!\n\n📝 Text: %s\n⏰ Time: %s\n🆔 ID: %d"
	msgNoReminders           = "📭 You have no active reminders."
	msgNothingToDelete       = "📭 You have no active reminders to delete."
	msgDeleted               = "✅ Reminder with ID %d deleted."
	msgReminderNotFound      = "❌ No reminder with that ID was found, or it isn't yours."
	msgReminderNotFoundRetry = "❌ No reminder with that ID was found. Try again:"
	msgNeedNumericID         = "❌ Please send the numeric ID of the reminder:"
	msgDeleteCancelled       = "❌ Deletion cancelled."

	cancelOption = "Cancel"
	separator    = "────────────────────"
	timeLayout   = "02.01.2006 at 15:04"
)

func helpResponse() string {
	return "👋 I can remind you about anything.\n\n" +
		"/new - create a reminder\n" +
		"/list - show your active reminders\n" +
		"/delete <ID> - delete a reminder\n" +
		"/cancel - cancel the current action\n\n" +
		"You can also just send me the text you want to be reminded about."
}

func timePrompt() string {
	var sb strings.Builder
	sb.WriteString("⏰ When should I remind you?\n\n")
	for i, opt := range timeparse.QuickOptions() {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, opt)
	}
	sb.WriteString("\nReply with a number, or type the time as:\n")
	sb.WriteString(formatList())
	return sb.String()
}

func formatList() string {
	lines := make([]string, len(timeparse.AcceptedFormats))
	for i, f := range timeparse.AcceptedFormats {
		lines[i] = "• " + f
	}
	return strings.Join(lines, "\n")
}

func deletePrompt(reminders []model.Reminder) string {
	var sb strings.Builder
	sb.WriteString("Choose the ID of the reminder to delete:\n\n")
	for _, r := range reminders {
		fmt.Fprintf(&sb, "• %d: %s\n", r.ID, preview(r.Text))
	}
	fmt.Fprintf(&sb, "\nOr reply %s.", cancelOption)
	return sb.String()
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) > 40 {
		return string(runes[:40]) + "..."
	}
	return text
}
