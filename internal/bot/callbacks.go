package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"questory/internal/books"
	"questory/internal/catalog"
	"questory/internal/models"
)

// handlePickCallback shows a catalog book with shelf buttons
func (b *Bot) handlePickCallback(chatID int64, bookID string) {
	book, ok := b.svc.Catalog().Find(bookID)
	if !ok {
		b.replyError(chatID, fmt.Errorf("%w: %q", catalog.ErrUnknownBook, bookID))
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📌 Want to read", "add:"+book.ID+":"+string(models.ShelfWant)),
			tgbotapi.NewInlineKeyboardButtonData("📖 Start reading", "add:"+book.ID+":"+string(models.ShelfReading)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Already read", "add:"+book.ID+":"+string(models.ShelfDone)),
		),
	)
	b.replyWithKeyboard(chatID, formatBookDetail(book), keyboard)
}

// handleAddCallback processes "add:<id>:<shelf>"
func (b *Bot) handleAddCallback(ctx context.Context, chatID int64, payload string) {
	bookID, shelfName, err := splitTarget(payload)
	if err != nil {
		b.logger.Warn("Bad add callback", zap.Error(err))
		return
	}
	shelf, err := models.ParseShelf(shelfName)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.addToShelf(ctx, chatID, bookID, shelf)
}

// handleMoveCallback processes "move:<id>:<shelf>"
func (b *Bot) handleMoveCallback(ctx context.Context, chatID int64, payload string) {
	bookID, shelfName, err := splitTarget(payload)
	if err != nil {
		b.logger.Warn("Bad move callback", zap.Error(err))
		return
	}
	shelf, err := models.ParseShelf(shelfName)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.moveToShelf(ctx, chatID, bookID, shelf)
}

// handleRemoveCallback processes "remove:<id>"
func (b *Bot) handleRemoveCallback(ctx context.Context, chatID int64, bookID string) {
	b.removeBook(ctx, chatID, bookID)
}

// handlePageCallback starts the page conversation for "page:<id>"
func (b *Bot) handlePageCallback(ctx context.Context, userID, chatID int64, bookID string) {
	ub, ok := b.svc.Book(ctx, bookID)
	if !ok {
		b.replyError(chatID, fmt.Errorf("%w: %q", books.ErrNotTracked, bookID))
		return
	}
	b.askForPage(userID, chatID, ub)
}

// bookPickerKeyboard lays out one button per book, two per row
func bookPickerKeyboard(list []models.Book) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var currentRow []tgbotapi.InlineKeyboardButton
	for i, book := range list {
		currentRow = append(currentRow, tgbotapi.NewInlineKeyboardButtonData(truncate(book.Title, 28), "pick:"+book.ID))

		if len(currentRow) == 2 || i == len(list)-1 {
			rows = append(rows, currentRow)
			currentRow = nil
		}
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// moveKeyboard offers every other shelf plus removal
func moveKeyboard(ub models.UserBook) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, shelf := range models.Shelves {
		if shelf == ub.Shelf {
			continue
		}
		label := fmt.Sprintf("%s %s", shelfEmoji(shelf), shelf.Title())
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "move:"+ub.Book.ID+":"+string(shelf)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🗑 Remove", "remove:"+ub.Book.ID)),
	)
}
