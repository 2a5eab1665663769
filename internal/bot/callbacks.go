package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"reading/internal/storage"
)

func callbackBookID(data, prefix string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix+":"), 10, 64)
	return id, err == nil
}

// handleBookCallback stores the picked book and asks for the minutes read
func (b *Bot) handleBookCallback(ctx context.Context, query *tgbotapi.CallbackQuery, state *ConversationState) {
	if state.Command != "read" {
		return
	}
	bookID, ok := callbackBookID(query.Data, "book")
	if !ok {
		return
	}

	state.Data["book_id"] = bookID
	state.Step = 2

	b.sendText(query.Message.Chat.ID, "⏱ How many minutes did you read?\n\nOptionally add a date: 30 2024-01-15")
}

// handleFinishCallback marks the picked book finished today
func (b *Bot) handleFinishCallback(ctx context.Context, query *tgbotapi.CallbackQuery, state *ConversationState) {
	if state.Command != "finish" {
		return
	}
	bookID, ok := callbackBookID(query.Data, "finish")
	if !ok {
		return
	}

	chatID := query.Message.Chat.ID
	err := b.db.FinishBook(ctx, bookID, b.today())
	switch {
	case errors.Is(err, storage.ErrBookNotFound):
		b.sendText(chatID, "Error: Invalid book selection")
	case err != nil:
		b.logger.Error("Failed to finish book", zap.Error(err), zap.Int64("book_id", bookID))
		b.sendText(chatID, fmt.Sprintf("Error finishing book: %v", err))
	default:
		b.logger.Info("Book finished", zap.Int64("book_id", bookID))
		b.sendText(chatID, "✅ Book marked as finished! 🎉")
	}

	state.Step = stepDone
}
