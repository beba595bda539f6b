package bot

import (
	"fmt"
	"strings"

	"questory/internal/models"
	"questory/internal/reading"
)

func shelfEmoji(s models.Shelf) string {
	switch s {
	case models.ShelfWant:
		return "📌"
	case models.ShelfReading:
		return "📖"
	case models.ShelfDone:
		return "✅"
	}
	return "📚"
}

// bookLine renders "Title by Author (Year)"
func bookLine(book models.Book) string {
	var line strings.Builder
	line.WriteString(book.Title)
	if len(book.Authors) > 0 {
		line.WriteString(" by ")
		line.WriteString(strings.Join(book.Authors, ", "))
	}
	if book.PublishedYear > 0 {
		fmt.Fprintf(&line, " (%d)", book.PublishedYear)
	}
	return line.String()
}

func formatBookDetail(book models.Book) string {
	var text strings.Builder
	fmt.Fprintf(&text, "📕 %s\n", bookLine(book))
	if book.PageCount > 0 {
		fmt.Fprintf(&text, "%d pages\n", book.PageCount)
	}
	if book.Description != "" {
		fmt.Fprintf(&text, "\n%s\n", book.Description)
	}
	fmt.Fprintf(&text, "\nid: %s", book.ID)
	return text.String()
}

// bookProgressLine renders a tracked book with its bookmark
func bookProgressLine(ub models.UserBook) string {
	if ub.Book.PageCount > 0 {
		return fmt.Sprintf("%s  p. %d/%d %s", ub.Book.Title, ub.CurrentPage, ub.Book.PageCount,
			progressBar(ub.CurrentPage, ub.Book.PageCount, 10))
	}
	return fmt.Sprintf("%s  p. %d", ub.Book.Title, ub.CurrentPage)
}

func formatLibrary(shelves map[models.Shelf][]models.UserBook) string {
	var text strings.Builder
	text.WriteString("📚 Your library\n")
	for _, shelf := range models.Shelves {
		items := shelves[shelf]
		fmt.Fprintf(&text, "\n%s %s (%d)\n", shelfEmoji(shelf), shelf.Title(), len(items))
		if len(items) == 0 {
			text.WriteString("   (empty)\n")
			continue
		}
		for _, ub := range items {
			switch shelf {
			case models.ShelfReading:
				fmt.Fprintf(&text, " • %s [%s]\n", bookProgressLine(ub), ub.Book.ID)
			case models.ShelfDone:
				finished := ""
				if ub.FinishedAt != nil {
					finished = ", finished " + ub.FinishedAt.Format("2006-01-02")
				}
				fmt.Fprintf(&text, " • %s%s [%s]\n", ub.Book.Title, finished, ub.Book.ID)
			default:
				fmt.Fprintf(&text, " • %s [%s]\n", ub.Book.Title, ub.Book.ID)
			}
		}
	}
	return text.String()
}

func formatProfile(p reading.Profile) string {
	var text strings.Builder
	text.WriteString("🧙 Reader profile\n\n")
	fmt.Fprintf(&text, "⭐ Level %d\n", p.Progress.Level)
	fmt.Fprintf(&text, "%s %d/%d XP\n",
		progressBar(p.Progress.CurrentXP, p.Progress.NextLevelXP-p.Progress.LevelStartXP, 12),
		p.Progress.CurrentXP, p.Progress.NextLevelXP-p.Progress.LevelStartXP)
	fmt.Fprintf(&text, "%d XP to level %d (total %d XP)\n\n", p.Progress.XPToNext, p.Progress.Level+1, p.Progress.TotalXP)

	fmt.Fprintf(&text, "🔥 Streak: %s\n", pluralDays(p.Streak))
	switch {
	case p.Stats.LastReadDate == "":
		text.WriteString("No sessions yet. Log one with /page or /read.")
	case p.ReadToday:
		text.WriteString("You've read today. Nice!")
	case p.Streak > 0:
		text.WriteString("Read today to keep your streak alive!")
	default:
		fmt.Fprintf(&text, "Last read on %s.", p.Stats.LastReadDate)
	}
	return text.String()
}

// formatReward summarizes what a session changed
func formatReward(s models.SessionSummary) string {
	var text strings.Builder
	fmt.Fprintf(&text, "✨ +%d XP\n", s.GainedXP)
	if s.LeveledUp() {
		fmt.Fprintf(&text, "🎉 Level up! %d → %d\n", s.LevelBefore, s.LevelAfter)
	} else {
		fmt.Fprintf(&text, "⭐ Level %d\n", s.LevelAfter)
	}
	if s.StreakContinued() {
		fmt.Fprintf(&text, "🔥 Streak extended to %s!", pluralDays(s.StreakAfter))
	} else {
		fmt.Fprintf(&text, "🔥 Streak: %s", pluralDays(s.StreakAfter))
	}
	return text.String()
}

func formatPageOutcome(out reading.PageOutcome) string {
	var text strings.Builder
	switch {
	case out.Book.Shelf == models.ShelfDone && out.SessionLogged && out.PagesRead == 0:
		fmt.Fprintf(&text, "🏁 You finished %s!\n\n", out.Book.Book.Title)
	case out.Book.Shelf == models.ShelfDone && out.SessionLogged:
		fmt.Fprintf(&text, "🏁 You read %d pages and finished %s!\n\n", out.PagesRead, out.Book.Book.Title)
	case out.PagesRead > 0:
		fmt.Fprintf(&text, "📖 %d pages read. Now on page %d of %s.\n\n", out.PagesRead, out.Book.CurrentPage, out.Book.Book.Title)
	default:
		return fmt.Sprintf("📖 Still on page %d of %s. No new pages, so no XP this time.", out.Book.CurrentPage, out.Book.Book.Title)
	}
	text.WriteString(formatReward(out.Summary))
	return text.String()
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// progressBar renders current/total as a bar of width cells
func progressBar(current, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := min(width, max(0, current*width/total))
	return strings.Repeat("▓", filled) + strings.Repeat("░", width-filled)
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
