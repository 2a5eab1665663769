package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleMessage processes a single message
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
			b.sendText(message.Chat.ID, "An error occurred while processing your request. Please try again.")
		}
	}()

	userID := message.From.ID

	if state := b.state(userID); state != nil {
		// Any command interrupts an ongoing conversation
		if message.IsCommand() || state.Step == stepDone {
			b.clearState(userID)
		} else {
			b.handleConversation(ctx, message, state)
			return
		}
	}

	if !message.IsCommand() {
		return
	}

	switch message.Command() {
	case "start", "help":
		b.handleStart(message)
	case "new_book":
		b.handleNewBookStart(message)
	case "read":
		b.handleReadStart(ctx, message)
	case "finish":
		b.handleFinishStart(ctx, message)
	case "last":
		b.handleLast(ctx, message)
	case "stats":
		b.handleStats(ctx, message)
	case "streak":
		b.handleStreak(ctx, message)
	case "wrapped":
		b.handleWrapped(ctx, message)
	default:
		b.sendText(message.Chat.ID, "Unknown command. Use /start to see available commands.")
	}
}

// handleCallbackQuery processes inline keyboard button clicks
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery", zap.Any("panic", r))
		}
	}()

	// Answer the callback query to remove loading state
	if b.api != nil {
		if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
			b.logger.Debug("Failed to answer callback", zap.Error(err))
		}
	}

	userID := query.From.ID
	state := b.state(userID)
	if state == nil {
		return
	}

	data := query.Data
	switch {
	case strings.HasPrefix(data, "book:"):
		b.handleBookCallback(ctx, query, state)
	case strings.HasPrefix(data, "finish:"):
		b.handleFinishCallback(ctx, query, state)
	}

	if state.Step == stepDone {
		b.clearState(userID)
	}
}

func (b *Bot) state(userID int64) *ConversationState {
	b.statesMu.Lock()
	defer b.statesMu.Unlock()
	return b.states[userID]
}

func (b *Bot) setState(userID int64, state *ConversationState) {
	b.statesMu.Lock()
	defer b.statesMu.Unlock()
	b.states[userID] = state
}

func (b *Bot) clearState(userID int64) {
	b.statesMu.Lock()
	defer b.statesMu.Unlock()
	delete(b.states, userID)
}
