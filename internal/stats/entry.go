package stats

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"reading/internal/models"
)

// Entry is a reading session prepared for aggregation: its date is parsed and,
// when the book is known, its title and author are attached.
type Entry struct {
	SessionID int64
	BookID    int64
	Date      time.Time
	Minutes   int
	Title     string
	Author    string
	Known     bool // false when the session's book could not be resolved
}

// Day returns the entry's date in models.DateLayout
func (e Entry) Day() string {
	return e.Date.Format(models.DateLayout)
}

func (e Entry) inYear(year int) bool {
	return year == AllTime || e.Date.Year() == year
}

// parseDate parses a calendar date as UTC midnight
func parseDate(s string) (time.Time, error) {
	return time.Parse(models.DateLayout, strings.TrimSpace(s))
}

// calendarDay drops the clock part of t, keeping its calendar date
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dayNumber counts days since the Unix epoch for a UTC midnight
func dayNumber(t time.Time) int64 {
	return t.Unix() / 86400
}

func daysBetween(from, to time.Time) int {
	return int(dayNumber(to) - dayNumber(from))
}

// sessionEntries converts sessions into entries, resolving titles and authors
// from books. Sessions with a malformed date are skipped.
func sessionEntries(logger *zap.Logger, sessions []models.ReadingSession, books map[int64]models.Book) []Entry {
	entries := make([]Entry, 0, len(sessions))
	for _, s := range sessions {
		date, err := parseDate(s.Date)
		if err != nil {
			logger.Warn("Skipping session with malformed date",
				zap.Int64("session_id", s.ID),
				zap.String("date", s.Date),
				zap.Error(err),
			)
			continue
		}

		entry := Entry{
			SessionID: s.ID,
			BookID:    s.BookID,
			Date:      date,
			Minutes:   s.MinutesRead,
		}
		if book, ok := books[s.BookID]; ok {
			entry.Title = book.Title
			entry.Author = book.Author
			entry.Known = true
		}
		entries = append(entries, entry)
	}
	return entries
}

// joinedEntries converts rows of the session/book join view into entries
func joinedEntries(logger *zap.Logger, rows []models.SessionWithBook) []Entry {
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		date, err := parseDate(row.Date)
		if err != nil {
			logger.Warn("Skipping session with malformed date",
				zap.Int64("session_id", row.ID),
				zap.String("date", row.Date),
				zap.Error(err),
			)
			continue
		}
		entries = append(entries, Entry{
			SessionID: row.ID,
			BookID:    row.BookID,
			Date:      date,
			Minutes:   row.MinutesRead,
			Title:     row.Title,
			Author:    row.Author,
			Known:     true,
		})
	}
	return entries
}

// datedBook is a book with its dates parsed. A zero time means the date is absent or malformed.
type datedBook struct {
	models.Book
	Start time.Time
	End   time.Time
}

func (b datedBook) hasStart() bool { return !b.Start.IsZero() }
func (b datedBook) hasEnd() bool   { return !b.End.IsZero() }

func (b datedBook) startedIn(year int) bool {
	return b.hasStart() && b.Start.Year() == year
}

func (b datedBook) finishedIn(year int) bool {
	return b.IsFinished() && b.hasEnd() && b.End.Year() == year
}

// datedBooks parses the dates of every book. Malformed dates are logged and treated as absent;
// the book itself is kept so status counts still see it.
func datedBooks(logger *zap.Logger, books []models.Book) []datedBook {
	result := make([]datedBook, 0, len(books))
	for _, book := range books {
		db := datedBook{Book: book}
		if strings.TrimSpace(book.StartDate) != "" {
			start, err := parseDate(book.StartDate)
			if err != nil {
				logger.Warn("Ignoring malformed book start date",
					zap.Int64("book_id", book.ID),
					zap.String("start_date", book.StartDate),
					zap.Error(err),
				)
			} else {
				db.Start = start
			}
		}
		if strings.TrimSpace(book.EndDate) != "" {
			end, err := parseDate(book.EndDate)
			if err != nil {
				logger.Warn("Ignoring malformed book end date",
					zap.Int64("book_id", book.ID),
					zap.String("end_date", book.EndDate),
					zap.Error(err),
				)
			} else {
				db.End = end
			}
		}
		result = append(result, db)
	}
	return result
}

func indexBooks(books []models.Book) map[int64]models.Book {
	index := make(map[int64]models.Book, len(books))
	for _, book := range books {
		index[book.ID] = book
	}
	return index
}
