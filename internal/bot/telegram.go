package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLen is Telegram's limit on one message's text.
const maxMessageLen = 4096

const commandTimeout = 30 * time.Second

type TelegramBot struct {
	bot     *tgbotapi.BotAPI
	handler *Handler
	chatID  int64
}

func NewTelegramBot(token string, chatID int64, kickerService *service.KickerService) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error creating telegram bot: %w", err)
	}

	return &TelegramBot{
		bot:     bot,
		handler: NewHandler(kickerService),
		chatID:  chatID,
	}, nil
}

// Start handles commands until ctx is cancelled or the update channel closes.
func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Authorized on account", "username", t.bot.Self.UserName)
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)
	defer t.bot.StopReceivingUpdates()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			t.handle(ctx, update)
		case <-ctx.Done():
			return nil
		}
	}
}

func (t *TelegramBot) handle(ctx context.Context, update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	slog.Debug("Handling command", "command", update.Message.Command(), "chat_id", update.Message.Chat.ID)
	if err := t.send(t.handler.HandleCommand(ctx, update)); err != nil {
		slog.Error("Error sending reply", "command", update.Message.Command(), "error", err)
	}
}

// SendMessage posts a Markdown report to the configured chat.
func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		return errors.New("chat ID not set")
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return t.send(msg)
}

// send truncates the text and, when Telegram rejects the Markdown (an
// unbalanced underscore in a team name is enough), resends it as plain text.
func (t *TelegramBot) send(msg tgbotapi.MessageConfig) error {
	msg.Text = truncate(msg.Text)
	_, err := t.bot.Send(msg)
	if err == nil || msg.ParseMode == "" || !strings.Contains(err.Error(), "can't parse entities") {
		return err
	}
	slog.Warn("Markdown rejected, resending as plain text", "chat_id", msg.ChatID, "error", err)
	msg.ParseMode = ""
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("error sending plain text message: %w", err)
	}
	return nil
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLen {
		return text
	}
	return string(runes[:maxMessageLen-1]) + "…"
}
