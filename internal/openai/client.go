package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Client wraps the OpenAI SDK for routing free-text chat messages.
type Client struct {
	client *openai.Client
	model  openai.ChatModel
}

// ErrClientNotInitialised is returned when attempting to call the API without a configured client.
var ErrClientNotInitialised = errors.New("openai client not initialised")

// Intent represents the high-level action inferred from a user message.
type Intent string

const (
	// IntentUnknown indicates the message intent could not be resolved.
	IntentUnknown Intent = "unknown"
	// IntentAddReminder means the message is itself something to be reminded of.
	IntentAddReminder Intent = "add_reminder"
	// IntentListReminders asks the bot to list pending reminders.
	IntentListReminders Intent = "list_reminders"
	// IntentDeleteReminder requests deletion of a reminder.
	IntentDeleteReminder Intent = "delete_reminder"
	// IntentCancel abandons the current action.
	IntentCancel Intent = "cancel"
	// IntentHelp asks for usage guidance.
	IntentHelp Intent = "help"
)

const classifyPrompt = "Classify the user's message for a reminder bot. Reply with exactly one label: " +
	"add_reminder (the message is something to be reminded about), list_reminders, delete_reminder, cancel, help, or unknown."

// New returns a client. Without an apiKey every call fails with ErrClientNotInitialised.
func New(apiKey string) *Client {
	if apiKey == "" {
		return &Client{}
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Client{
		client: &client,
		model:  openai.ChatModelGPT4oMini,
	}
}

// Enabled reports whether an API key was configured.
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// ClassifyIntent uses the language model to infer the user's intent.
func (c *Client) ClassifyIntent(ctx context.Context, content string) (Intent, error) {
	if strings.TrimSpace(content) == "" {
		return IntentUnknown, fmt.Errorf("content cannot be empty")
	}
	if !c.Enabled() {
		return IntentUnknown, ErrClientNotInitialised
	}

	label, err := c.complete(ctx, classifyPrompt, content)
	if err != nil {
		return IntentUnknown, err
	}
	return ParseIntent(label), nil
}

// complete sends one system+user exchange and returns the first choice.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature:         openai.Float(0.0),
		MaxCompletionTokens: openai.Int(8),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion received")
	}
	return resp.Choices[0].Message.Content, nil
}

// ParseIntent maps a model label onto a known Intent.
func ParseIntent(label string) Intent {
	switch intent := Intent(strings.ToLower(strings.TrimSpace(label))); intent {
	case IntentAddReminder, IntentListReminders, IntentDeleteReminder, IntentCancel, IntentHelp:
		return intent
	default:
		return IntentUnknown
	}
}
