package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"reading/internal/stats"
)

// handleStart shows welcome message and available commands
func (b *Bot) handleStart(message *tgbotapi.Message) {
	text := `Welcome to the Reading Tracker! 📚

Available commands:
/new_book - Start a new book
/read - Log a reading session
/finish - Mark a book as finished
/last - Show the last 10 sessions
/stats - All-time statistics
/streak - Current and longest streak
/wrapped [year] - Your year in review`

	b.sendText(message.Chat.ID, text)
}

// handleNewBookStart initiates the new book conversation
func (b *Bot) handleNewBookStart(message *tgbotapi.Message) {
	b.setState(message.From.ID, &ConversationState{
		Command: "new_book",
		Step:    1,
		Data:    make(map[string]interface{}),
	})

	b.sendText(message.Chat.ID, "Please enter the book title:")
}

// handleReadStart asks which book was read
func (b *Bot) handleReadStart(ctx context.Context, message *tgbotapi.Message) {
	b.startBookPicker(ctx, message, "read", "book", "📚 Which book did you read?")
}

// handleFinishStart asks which book was finished
func (b *Bot) handleFinishStart(ctx context.Context, message *tgbotapi.Message) {
	b.startBookPicker(ctx, message, "finish", "finish", "🏁 Which book did you finish?")
}

func (b *Bot) startBookPicker(ctx context.Context, message *tgbotapi.Message, command, prefix, prompt string) {
	books, err := b.db.ListReadingBooks(ctx)
	if err != nil {
		b.logger.Error("Failed to list reading books", zap.Error(err), zap.String("command", command))
		b.sendText(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		return
	}

	if len(books) == 0 {
		b.sendText(message.Chat.ID, "No books in progress. Start one with /new_book")
		return
	}

	b.setState(message.From.ID, &ConversationState{
		Command: command,
		Step:    1,
		Data:    make(map[string]interface{}),
	})

	msg := tgbotapi.NewMessage(message.Chat.ID, prompt)
	msg.ReplyMarkup = bookKeyboard(books, prefix)
	b.sendMessage(msg)
}

// handleLast shows the last 10 reading sessions
func (b *Bot) handleLast(ctx context.Context, message *tgbotapi.Message) {
	sessions, err := b.db.GetLastSessions(ctx, 10)
	if err != nil {
		b.logger.Error("Failed to get last sessions", zap.Error(err))
		b.sendText(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		return
	}

	if len(sessions) == 0 {
		b.sendText(message.Chat.ID, "No reading sessions recorded yet.")
		return
	}

	var text strings.Builder
	text.WriteString("Last reading sessions:\n\n")
	for i, s := range sessions {
		fmt.Fprintf(&text, "%d. %s - %s (%d min)\n", i+1, s.Date, s.Title, s.MinutesRead)
	}

	b.sendText(message.Chat.ID, text.String())
}

// handleStats shows the all-time summary
func (b *Bot) handleStats(ctx context.Context, message *tgbotapi.Message) {
	summary, err := b.engine.Summary(ctx)
	if err != nil {
		b.logger.Error("Failed to compute summary", zap.Error(err))
		b.sendText(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		return
	}

	b.sendText(message.Chat.ID, formatSummary(summary))
}

// handleStreak shows the current and longest streak
func (b *Bot) handleStreak(ctx context.Context, message *tgbotapi.Message) {
	streaks, err := b.engine.Streaks(ctx)
	if err != nil {
		b.logger.Error("Failed to compute streaks", zap.Error(err))
		b.sendText(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		return
	}

	b.sendText(message.Chat.ID, formatStreaks(streaks))
}

// handleWrapped shows the year in review for the given or current year
func (b *Bot) handleWrapped(ctx context.Context, message *tgbotapi.Message) {
	year, err := stats.ParseYear(strings.TrimSpace(message.CommandArguments()), b.engine.Today())
	if err != nil {
		b.sendText(message.Chat.ID, fmt.Sprintf("❌ %v\n\nExample: /wrapped 2024", err))
		return
	}

	wrapped, err := b.engine.Wrapped(ctx, year)
	if err != nil {
		b.logger.Error("Failed to compute wrapped", zap.Error(err), zap.Int("year", year))
		b.sendText(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		return
	}

	b.sendText(message.Chat.ID, formatWrapped(wrapped))
}
