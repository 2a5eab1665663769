package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"reading/internal/models"
	"reading/internal/storage"
)

// handleConversation processes multi-step conversations
func (b *Bot) handleConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	switch state.Command {
	case "new_book":
		b.handleNewBookConversation(ctx, message, state)
	case "read":
		b.handleReadConversation(ctx, message, state)
	}

	if state.Step == stepDone {
		b.clearState(message.From.ID)
	}
}

// handleNewBookConversation asks for the title, then the author
func (b *Bot) handleNewBookConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	text := strings.TrimSpace(message.Text)

	switch state.Step {
	case 1:
		if text == "" {
			b.sendText(message.Chat.ID, "The title cannot be empty. Please enter the book title:")
			return
		}
		state.Data["title"] = text
		state.Step = 2
		b.sendText(message.Chat.ID, "Who is the author? Send - to skip.")

	case 2:
		author := text
		if author == "-" {
			author = ""
		}
		title := state.Data["title"].(string)

		id, err := b.db.CreateBook(ctx, title, author, b.today())
		if err != nil {
			b.logger.Error("Failed to create book", zap.Error(err), zap.String("title", title))
			b.sendText(message.Chat.ID, fmt.Sprintf("Error creating book: %v", err))
		} else {
			b.logger.Info("Book created", zap.Int64("book_id", id), zap.String("title", title))
			b.sendText(message.Chat.ID, fmt.Sprintf("📖 Book started!\nTitle: %s", title))
		}

		state.Step = stepDone
	}
}

// handleReadConversation waits for "<minutes> [YYYY-MM-DD]" once a book is picked
func (b *Bot) handleReadConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	if state.Step != 2 {
		return
	}

	minutes, date, err := parseSessionInput(message.Text, b.today())
	if err != nil {
		b.sendText(message.Chat.ID, fmt.Sprintf("❌ %v\n\nExample: 30 or 30 2024-01-15", err))
		return
	}

	bookID := state.Data["book_id"].(int64)
	_, err = b.db.CreateSession(ctx, bookID, date, minutes)
	switch {
	case errors.Is(err, storage.ErrBookNotFound):
		b.sendText(message.Chat.ID, "Error: Invalid book selection")
	case err != nil:
		b.logger.Error("Failed to create session", zap.Error(err), zap.Int64("book_id", bookID))
		b.sendText(message.Chat.ID, fmt.Sprintf("Error recording session: %v", err))
	default:
		b.sendText(message.Chat.ID, fmt.Sprintf("✅ Reading session recorded!\n\n📅 Date: %s\n⏱ Minutes: %d",
			date.Format(models.DateLayout), minutes))
	}

	state.Step = stepDone
}

// parseSessionInput reads a positive minute count and an optional date that is not in the future
func parseSessionInput(text string, today time.Time) (int, time.Time, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 || len(fields) > 2 {
		return 0, time.Time{}, errors.New("please send the minutes read")
	}

	minutes, err := strconv.Atoi(fields[0])
	if err != nil || minutes <= 0 {
		return 0, time.Time{}, errors.New("minutes must be a positive number")
	}

	date := today
	if len(fields) == 2 {
		date, err = time.Parse(models.DateLayout, fields[1])
		if err != nil {
			return 0, time.Time{}, errors.New("invalid date format, please use YYYY-MM-DD")
		}
		if date.After(today) {
			return 0, time.Time{}, errors.New("the date cannot be in the future")
		}
	}
	return minutes, date, nil
}
