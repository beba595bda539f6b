package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// sendMessage delivers a prepared message, logging failures
func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if b.api == nil {
		return // For testing
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", msg.ChatID),
		)
	}
}

// reply sends plain text to a chat
func (b *Bot) reply(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

// replyWithKeyboard sends text with an inline keyboard attached
func (b *Bot) replyWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	b.sendMessage(msg)
}

// answerCallback clears the loading state of an inline button
func (b *Bot) answerCallback(queryID, text string) {
	if b.api == nil {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(queryID, text)); err != nil {
		b.logger.Warn("Failed to answer callback query", zap.Error(err))
	}
}

// Notify sends text to every allowed user's private chat
func (b *Bot) Notify(ctx context.Context, text string) error {
	if b.api == nil {
		return nil
	}

	var errs []error
	for userID := range b.allowedUsers {
		if err := ctx.Err(); err != nil {
			return err
		}
		// A private chat's id is the user's id
		if _, err := b.api.Send(tgbotapi.NewMessage(userID, text)); err != nil {
			b.logger.Warn("Failed to notify user", zap.Int64("user_id", userID), zap.Error(err))
			errs = append(errs, fmt.Errorf("user %d: %w", userID, err))
		}
	}
	return errors.Join(errs...)
}
