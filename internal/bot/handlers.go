package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleMessage processes a single message
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage",
				zap.Any("panic", r),
				zap.String("text", message.Text),
			)
			b.clearState(message.From.ID)
			b.reply(message.Chat.ID, "An error occurred while processing your request. Please try again.")
		}
	}()

	userID := message.From.ID
	ctx := context.Background()

	if state, ok := b.getState(userID); ok {
		switch {
		case state.Step == stepDone:
			b.clearState(userID)
		case message.IsCommand():
			// Any command cancels an ongoing conversation
			b.clearState(userID)
		default:
			b.handleConversation(ctx, message, state)
			return
		}
	}

	if !message.IsCommand() {
		b.reply(message.Chat.ID, "Send /page <number> to log your reading, or /start to see all commands.")
		return
	}

	args := strings.Fields(message.CommandArguments())

	switch message.Command() {
	case "start", "help":
		b.handleStart(message)
	case "discover":
		b.handleDiscover(message, strings.TrimSpace(message.CommandArguments()))
	case "add":
		b.handleAdd(ctx, message, args)
	case "library":
		b.handleLibrary(ctx, message)
	case "next":
		b.handleNext(ctx, message)
	case "page":
		b.handlePage(ctx, message, args)
	case "finish":
		b.handleFinish(ctx, message, args)
	case "read":
		b.handleRead(ctx, message, args)
	case "save_page":
		b.handleSavePage(ctx, message, args)
	case "move":
		b.handleMove(ctx, message, args)
	case "remove":
		b.handleRemove(ctx, message, args)
	case "stats":
		b.handleStats(ctx, message)
	default:
		b.reply(message.Chat.ID, "Unknown command. Use /start to see available commands.")
	}
}

// handleCallbackQuery processes inline keyboard button clicks
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery",
				zap.Any("panic", r),
				zap.String("callback_data", query.Data),
			)
		}
	}()

	ctx := context.Background()

	// Answer the callback query to remove loading state
	b.answerCallback(query.ID, "")

	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID

	kind, payload, _ := strings.Cut(query.Data, ":")
	switch kind {
	case "pick":
		b.handlePickCallback(chatID, payload)
	case "add":
		b.handleAddCallback(ctx, chatID, payload)
	case "move":
		b.handleMoveCallback(ctx, chatID, payload)
	case "remove":
		b.handleRemoveCallback(ctx, chatID, payload)
	case "page":
		b.handlePageCallback(ctx, query.From.ID, chatID, payload)
	default:
		b.logger.Debug("Ignoring unknown callback", zap.String("callback_data", query.Data))
	}
}

// splitTarget splits "<bookID>:<value>" on the last colon
func splitTarget(payload string) (bookID, value string, err error) {
	i := strings.LastIndex(payload, ":")
	if i <= 0 || i == len(payload)-1 {
		return "", "", fmt.Errorf("malformed callback payload %q", payload)
	}
	return payload[:i], payload[i+1:], nil
}
