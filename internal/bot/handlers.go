package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `Available commands:
/rankings [team] - Projected kicker rankings
/leaders - Season points leaders
/explain <player> - How a kicker's points and projection add up
/whohas <player> - Check which team has a kicker
/live - Live kicker scores this week
/accuracy [week] - Projection accuracy
/injuries - Kicker injury report
/scoring - Show this chat's scoring
/set <key> <value> - Change one scoring value
/reset - Restore default scoring`

type Handler struct {
	kickerService *service.KickerService
}

func NewHandler(kickerService *service.KickerService) *Handler {
	return &Handler{kickerService: kickerService}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	chatID := update.Message.Chat.ID
	msg := tgbotapi.NewMessage(chatID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to Kicker Genius! Use /help to see available commands."
	case "help":
		msg.Text = helpText
	case "rankings":
		h.reply(&msg, "rankings", func() (string, error) {
			return h.kickerService.GetRankingsReport(ctx, chatID, strings.ToUpper(args))
		})
	case "leaders":
		h.reply(&msg, "leaders", func() (string, error) {
			return h.kickerService.GetLeadersReport(ctx, chatID)
		})
	case "explain":
		if args == "" {
			msg.Text = "Please provide a player name. Usage: /explain <player name>"
			return msg
		}
		h.reply(&msg, "explanation", func() (string, error) {
			return h.kickerService.GetExplainReport(ctx, chatID, args)
		})
	case "whohas":
		if args == "" {
			msg.Text = "Please provide a player name. Usage: /whohas <player name>"
			return msg
		}
		h.reply(&msg, "ownership", func() (string, error) {
			return h.kickerService.GetWhoHasReport(ctx, chatID, args)
		})
	case "live":
		h.reply(&msg, "live scores", func() (string, error) {
			return h.kickerService.GetLiveReport(ctx, chatID)
		})
	case "accuracy":
		h.handleAccuracy(ctx, &msg, chatID, args)
	case "injuries":
		h.reply(&msg, "injuries", func() (string, error) {
			return h.kickerService.GetInjuriesReport(ctx)
		})
	case "scoring":
		h.reply(&msg, "scoring", func() (string, error) {
			return h.kickerService.GetScoringReport(ctx, chatID)
		})
	case "set":
		h.handleSet(ctx, &msg, chatID, args)
	case "reset":
		if err := h.kickerService.ResetScoring(ctx, chatID); err != nil {
			msg.Text = fmt.Sprintf("Error resetting scoring: %v", err)
		} else {
			msg.Text = "Scoring reset to defaults."
		}
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) reply(msg *tgbotapi.MessageConfig, what string, fn func() (string, error)) {
	text, err := fn()
	switch {
	case errors.Is(err, service.ErrSnapshotNotLoaded):
		msg.Text = "Rankings are still loading, try again in a minute."
	case errors.Is(err, service.ErrPlayerNotFound):
		msg.Text = "No kicker matches that name."
	case err != nil:
		msg.Text = fmt.Sprintf("Error fetching %s: %v", what, err)
	default:
		msg.Text = text
	}
}

func (h *Handler) handleAccuracy(ctx context.Context, msg *tgbotapi.MessageConfig, chatID int64, args string) {
	week := 0
	if args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n < 1 {
			msg.Text = "Week must be a positive number. Usage: /accuracy [week]"
			return
		}
		week = n
	}
	h.reply(msg, "accuracy", func() (string, error) {
		return h.kickerService.GetAccuracyReport(ctx, chatID, week)
	})
}

func (h *Handler) handleSet(ctx context.Context, msg *tgbotapi.MessageConfig, chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		msg.Text = "Usage: /set <key> <value>, e.g. /set fg_50_59 6. See /scoring for keys."
		return
	}
	value, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		msg.Text = fmt.Sprintf("Invalid value %q", fields[1])
		return
	}

	key := strings.ToLower(fields[0])
	if _, err := h.kickerService.SetScoring(ctx, chatID, key, value); err != nil {
		msg.Text = fmt.Sprintf("Error updating scoring: %v", err)
		return
	}
	msg.Text = fmt.Sprintf("Set `%s` to %g.", key, value)
}
