package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"questory/internal/books"
	"questory/internal/catalog"
	"questory/internal/models"
	"questory/internal/reading"
)

// handleStart shows welcome message and available commands
func (b *Bot) handleStart(message *tgbotapi.Message) {
	text := `Welcome to Questory! 📚⚔️
Every page you read earns XP. Read on consecutive days to grow your streak.

Find books:
/discover [query] - Browse the catalog
/add <id|title> [want|reading] - Put a book on a shelf

Read:
/page <n> - I'm now on page n of my current book
/finish [page] - I finished my current book
/read <pages> - Log pages read without moving the bookmark
/save_page <id> <n> - Bookmark a page without earning XP

Organize:
/library - Your shelves
/next - What to read next
/move <id> <want|reading|done> - Change a book's shelf
/remove <id> - Stop tracking a book

/stats - Level, XP and streak`

	b.reply(message.Chat.ID, text)
}

// handleDiscover lists catalog books matching the query
func (b *Bot) handleDiscover(message *tgbotapi.Message, query string) {
	results := b.svc.Catalog().Search(query)
	if len(results) == 0 {
		b.reply(message.Chat.ID, fmt.Sprintf("No books match %q. Try /discover without a query to see everything.", query))
		return
	}

	var text strings.Builder
	text.WriteString("🔎 Discover\n\n")
	for i, book := range results {
		fmt.Fprintf(&text, "%d. %s\n   /add %s\n", i+1, bookLine(book), book.ID)
	}
	text.WriteString("\nTap a book to shelve it:")

	b.replyWithKeyboard(message.Chat.ID, text.String(), bookPickerKeyboard(results))
}

// handleAdd shelves a catalog book, asking for the shelf when none is given
func (b *Bot) handleAdd(ctx context.Context, message *tgbotapi.Message, args []string) {
	if len(args) == 0 {
		b.reply(message.Chat.ID, "Usage: /add <book id or title> [want|reading]\n\nExample: /add atomic-habits reading")
		return
	}

	query := strings.Join(args, " ")
	shelf := models.Shelf("")
	if len(args) > 1 {
		if s, err := models.ParseShelf(args[len(args)-1]); err == nil {
			shelf = s
			query = strings.Join(args[:len(args)-1], " ")
		}
	}

	if shelf == "" {
		book, ok := b.svc.Catalog().Lookup(query)
		if !ok {
			b.replyError(message.Chat.ID, fmt.Errorf("%w: %q", catalog.ErrUnknownBook, query))
			return
		}
		b.handlePickCallback(message.Chat.ID, book.ID)
		return
	}

	b.addToShelf(ctx, message.Chat.ID, query, shelf)
}

func (b *Bot) addToShelf(ctx context.Context, chatID int64, query string, shelf models.Shelf) {
	ub, err := b.svc.AddToShelf(ctx, query, shelf)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.reply(chatID, fmt.Sprintf("%s %s is now on your %s shelf.", shelfEmoji(ub.Shelf), ub.Book.Title, ub.Shelf.Title()))
}

// handleLibrary shows every shelf
func (b *Bot) handleLibrary(ctx context.Context, message *tgbotapi.Message) {
	items := b.svc.Library(ctx)
	if len(items) == 0 {
		b.reply(message.Chat.ID, "Your library is empty. Use /discover to find your first book.")
		return
	}
	b.reply(message.Chat.ID, formatLibrary(books.ByShelf(items)))
}

// handleNext suggests what to pick up next
func (b *Bot) handleNext(ctx context.Context, message *tgbotapi.Message) {
	next, ok := SuggestNext(b.svc.Library(ctx))
	if !ok {
		b.reply(message.Chat.ID, "Nothing to suggest yet. Use /discover to find a book.")
		return
	}

	if next.Book.Shelf == models.ShelfReading {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 Log a page", "page:"+next.Book.Book.ID),
		))
		b.replyWithKeyboard(message.Chat.ID, fmt.Sprintf("📖 %s\n%s", next.Reason, bookProgressLine(next.Book)), keyboard)
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📖 Start reading", "move:"+next.Book.Book.ID+":"+string(models.ShelfReading)),
	))
	b.replyWithKeyboard(message.Chat.ID, fmt.Sprintf("📌 %s\n%s", next.Reason, bookLine(next.Book.Book)), keyboard)
}

// handlePage logs the current page of the book being read
func (b *Bot) handlePage(ctx context.Context, message *tgbotapi.Message, args []string) {
	current, ok := b.svc.CurrentBook(ctx)
	if !ok {
		b.reply(message.Chat.ID, "No book on your Reading shelf. Add one with /add <id> reading or browse /discover.")
		return
	}

	if len(args) == 0 {
		b.askForPage(message.From.ID, message.Chat.ID, current)
		return
	}

	page, err := reading.ParsePageInput(args[0])
	if err != nil {
		b.replyError(message.Chat.ID, err)
		return
	}
	b.logPage(ctx, message.Chat.ID, current.Book.ID, page, false)
}

func (b *Bot) askForPage(userID, chatID int64, ub models.UserBook) {
	b.setState(userID, &ConversationState{
		Command: "page",
		Step:    1,
		Data:    map[string]interface{}{"book_id": ub.Book.ID},
	})
	b.reply(chatID, fmt.Sprintf("📖 %s\nYou were on page %d. What page are you on now?", ub.Book.Title, ub.CurrentPage))
}

// logPage records a page update and reports the reward
func (b *Bot) logPage(ctx context.Context, chatID int64, bookID string, page int, completed bool) {
	out, err := b.svc.LogCurrentPage(ctx, reading.PageInput{
		BookID:        bookID,
		NewPage:       page,
		CompletedBook: completed,
	})
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.reply(chatID, formatPageOutcome(out))
}

// handleFinish completes the current book, optionally at a final page
func (b *Bot) handleFinish(ctx context.Context, message *tgbotapi.Message, args []string) {
	current, ok := b.svc.CurrentBook(ctx)
	if !ok {
		b.reply(message.Chat.ID, "No book on your Reading shelf to finish.")
		return
	}

	page := current.CurrentPage
	if len(args) > 0 {
		p, err := reading.ParsePageInput(args[0])
		if err != nil {
			b.replyError(message.Chat.ID, err)
			return
		}
		page = p
	}
	b.logPage(ctx, message.Chat.ID, current.Book.ID, page, true)
}

// handleRead logs a plain session of n pages on the current book
func (b *Bot) handleRead(ctx context.Context, message *tgbotapi.Message, args []string) {
	current, ok := b.svc.CurrentBook(ctx)
	if !ok {
		b.reply(message.Chat.ID, "No book on your Reading shelf. Add one with /add <id> reading first.")
		return
	}

	if len(args) == 0 {
		b.setState(message.From.ID, &ConversationState{
			Command: "read",
			Step:    1,
			Data:    map[string]interface{}{"book_id": current.Book.ID},
		})
		b.reply(message.Chat.ID, fmt.Sprintf("📚 How many pages of %s did you read?", current.Book.Title))
		return
	}

	pages, err := reading.ParsePagesInput(args[0])
	if err != nil {
		b.replyError(message.Chat.ID, err)
		return
	}
	b.logSession(ctx, message.Chat.ID, current.Book.ID, pages)
}

func (b *Bot) logSession(ctx context.Context, chatID int64, bookID string, pages int) {
	out, err := b.svc.LogReadingSession(ctx, reading.SessionInput{BookID: bookID, PagesRead: pages})
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.reply(chatID, fmt.Sprintf("📚 Logged %d pages.\n\n%s", out.Session.PagesRead, formatReward(out.Summary)))
}

// handleSavePage bookmarks a page without rewards
func (b *Bot) handleSavePage(ctx context.Context, message *tgbotapi.Message, args []string) {
	if len(args) == 0 {
		b.reply(message.Chat.ID, "Usage: /save_page <book id> <page>\n\nExample: /save_page book-2 120")
		return
	}

	bookID := args[0]
	if len(args) == 1 {
		ub, ok := b.svc.Book(ctx, bookID)
		if !ok {
			b.replyError(message.Chat.ID, fmt.Errorf("%w: %q", books.ErrNotTracked, bookID))
			return
		}
		b.setState(message.From.ID, &ConversationState{
			Command: "save_page",
			Step:    1,
			Data:    map[string]interface{}{"book_id": bookID},
		})
		b.reply(message.Chat.ID, fmt.Sprintf("🔖 Which page of %s should I bookmark?", ub.Book.Title))
		return
	}

	page, err := reading.ParsePageInput(args[1])
	if err != nil {
		b.replyError(message.Chat.ID, err)
		return
	}
	b.savePage(ctx, message.Chat.ID, bookID, page)
}

func (b *Bot) savePage(ctx context.Context, chatID int64, bookID string, page int) {
	ub, err := b.svc.SavePage(ctx, bookID, page)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.reply(chatID, fmt.Sprintf("🔖 Bookmarked page %d of %s.", ub.CurrentPage, ub.Book.Title))
}

// handleMove changes a book's shelf, offering buttons when no shelf is given
func (b *Bot) handleMove(ctx context.Context, message *tgbotapi.Message, args []string) {
	if len(args) == 0 {
		b.reply(message.Chat.ID, "Usage: /move <book id> <want|reading|done>")
		return
	}

	bookID := args[0]
	if len(args) == 1 {
		ub, ok := b.svc.Book(ctx, bookID)
		if !ok {
			b.replyError(message.Chat.ID, fmt.Errorf("%w: %q", books.ErrNotTracked, bookID))
			return
		}
		b.replyWithKeyboard(message.Chat.ID,
			fmt.Sprintf("%s %s is on %s. Move it to:", shelfEmoji(ub.Shelf), ub.Book.Title, ub.Shelf.Title()),
			moveKeyboard(ub))
		return
	}

	shelf, err := models.ParseShelf(args[1])
	if err != nil {
		b.replyError(message.Chat.ID, err)
		return
	}
	b.moveToShelf(ctx, message.Chat.ID, bookID, shelf)
}

func (b *Bot) moveToShelf(ctx context.Context, chatID int64, bookID string, shelf models.Shelf) {
	ub, err := b.svc.MoveToShelf(ctx, bookID, shelf)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.reply(chatID, fmt.Sprintf("%s Moved %s to %s.", shelfEmoji(ub.Shelf), ub.Book.Title, ub.Shelf.Title()))
}

// handleRemove stops tracking a book
func (b *Bot) handleRemove(ctx context.Context, message *tgbotapi.Message, args []string) {
	if len(args) == 0 {
		b.reply(message.Chat.ID, "Usage: /remove <book id>")
		return
	}
	b.removeBook(ctx, message.Chat.ID, args[0])
}

func (b *Bot) removeBook(ctx context.Context, chatID int64, bookID string) {
	if err := b.svc.RemoveBook(ctx, bookID); err != nil {
		b.replyError(chatID, err)
		return
	}
	b.reply(chatID, fmt.Sprintf("🗑 Removed %s from your library.", bookID))
}

// handleStats shows level, XP and streak
func (b *Bot) handleStats(ctx context.Context, message *tgbotapi.Message) {
	b.reply(message.Chat.ID, formatProfile(b.svc.Profile(ctx)))
}

// replyError turns domain errors into user-facing text
func (b *Bot) replyError(chatID int64, err error) {
	var text string
	switch {
	case errors.Is(err, catalog.ErrUnknownBook):
		text = "❌ I don't know that book. Try /discover to find one."
	case errors.Is(err, books.ErrNotTracked):
		text = "❌ That book isn't in your library. See /library."
	case errors.Is(err, models.ErrInvalidShelf):
		text = "❌ Unknown shelf. Use want, reading or done."
	case errors.Is(err, reading.ErrInvalidPage):
		text = "❌ That isn't a valid page number."
	default:
		b.logger.Error("Command failed", zap.Error(err), zap.Int64("chat_id", chatID))
		text = fmt.Sprintf("Error: %v", err)
	}
	b.reply(chatID, text)
}
