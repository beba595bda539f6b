package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"questory/internal/reading"
)

// handleConversation processes multi-step conversations
func (b *Bot) handleConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	userID := message.From.ID

	switch state.Command {
	case "page":
		b.handlePageConversation(ctx, message, state)
	case "read":
		b.handleReadConversation(ctx, message, state)
	case "save_page":
		b.handleSavePageConversation(ctx, message, state)
	default:
		state.Step = stepDone
	}

	// Clean up completed conversations
	if state.Step == stepDone {
		b.clearState(userID)
	}
}

// handlePageConversation waits for the page the reader is on
func (b *Bot) handlePageConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	switch state.Step {
	case 1:
		page, err := reading.ParsePageInput(message.Text)
		if err != nil {
			b.reply(message.Chat.ID, "❌ Page must be a whole number, 0 or greater. Try again:")
			return
		}

		bookID := state.Data["book_id"].(string)
		b.logPage(ctx, message.Chat.ID, bookID, page, false)
		state.Step = stepDone
	}
}

// handleReadConversation waits for the number of pages read
func (b *Bot) handleReadConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	switch state.Step {
	case 1:
		pages, err := reading.ParsePagesInput(message.Text)
		if err != nil {
			b.reply(message.Chat.ID, "❌ Pages read must be a whole number, at least 1. Try again:")
			return
		}

		bookID := state.Data["book_id"].(string)
		b.logSession(ctx, message.Chat.ID, bookID, pages)
		state.Step = stepDone
	}
}

// handleSavePageConversation waits for the page to bookmark
func (b *Bot) handleSavePageConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	switch state.Step {
	case 1:
		page, err := reading.ParsePageInput(message.Text)
		if err != nil {
			b.reply(message.Chat.ID, "❌ Page must be a whole number, 0 or greater. Try again:")
			return
		}

		bookID := state.Data["book_id"].(string)
		b.savePage(ctx, message.Chat.ID, bookID, page)
		state.Step = stepDone
	}
}
