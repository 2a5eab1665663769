package bot

import (
	"fmt"
	"strings"

	"reading/internal/stats"
)

func formatStreaks(s stats.Streaks) string {
	if s.Max == 0 {
		return "No reading sessions yet. Log one with /read"
	}
	return fmt.Sprintf("🔥 Current streak: %d days\n🏆 Longest streak: %d days", s.Current, s.Max)
}

func formatSummary(s *stats.Summary) string {
	var text strings.Builder
	text.WriteString("📊 Reading Statistics\n\n")
	fmt.Fprintf(&text, "⏱ Total: %d min\n", s.TotalMinutesRead)
	fmt.Fprintf(&text, "🏁 Books finished: %d\n", s.BooksFinished)
	fmt.Fprintf(&text, "🔥 Streak: %d (best %d)\n", s.CurrentStreak, s.MaxStreak)
	if s.MostReadBook != nil {
		fmt.Fprintf(&text, "📚 Most read: %s (%d min)\n", s.MostReadBook.Title, s.MostReadBook.Minutes)
	}
	if s.MostReadAuthor != nil {
		fmt.Fprintf(&text, "✍️ Favorite author: %s\n", *s.MostReadAuthor)
	}
	if len(s.BooksFinishedByYear) > 0 {
		text.WriteString("\nFinished by year:\n")
		for _, y := range s.BooksFinishedByYear {
			fmt.Fprintf(&text, "  %d: %d\n", y.Year, y.BooksFinished)
		}
	}
	return text.String()
}

func formatWrapped(w *stats.WrappedReport) string {
	var text strings.Builder
	fmt.Fprintf(&text, "🎁 Your %d in books\n\n", w.Year)

	if w.Sessions == 0 {
		text.WriteString("No reading logged this year yet.")
		return text.String()
	}

	fmt.Fprintf(&text, "⏱ %d min (%.2f h) over %d sessions\n", w.TotalMinutesRead, w.TotalHoursRead, w.Sessions)
	fmt.Fprintf(&text, "📅 %d days read, %d min per day\n", w.DaysRead, w.AverageMinutesPerDay)
	fmt.Fprintf(&text, "📚 %d books read, %d finished\n", w.BooksRead, w.BooksFinishedInYear)
	fmt.Fprintf(&text, "🔥 Longest streak: %d days\n", w.LongestStreak)

	if w.MostReadBook != nil {
		fmt.Fprintf(&text, "\n⭐ Book of the year: %s\n", w.MostReadBook.Title)
	}
	if w.MostReadAuthor != nil {
		fmt.Fprintf(&text, "✍️ Author of the year: %s\n", *w.MostReadAuthor)
	}
	if w.Habits != nil {
		fmt.Fprintf(&text, "🗓 Favorite day: %s\n", w.Habits.FavoriteDay)
		fmt.Fprintf(&text, "🌙 Best month: %s (%d min)\n", w.Habits.BestMonth.Month, w.Habits.BestMonth.Minutes)
	}
	if w.BiggestDay != nil {
		fmt.Fprintf(&text, "💥 Biggest day: %s (%d min)\n", w.BiggestDay.Date, w.BiggestDay.Minutes)
	}

	if len(w.TopBooks) > 0 {
		text.WriteString("\nTop books:\n")
		for i, book := range w.TopBooks {
			fmt.Fprintf(&text, "%d. %s - %d min\n", i+1, book.Title, book.Minutes)
		}
	}

	fmt.Fprintf(&text, "\n🧠 %s\n%s", w.Personality.Type, w.Personality.Description)
	return text.String()
}
