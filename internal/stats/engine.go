package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"reading/internal/models"
	"reading/internal/storage"
)

// Engine computes reading statistics from fresh snapshots of the session and book stores.
// It keeps no state between calls and is safe for concurrent use.
type Engine struct {
	sessions   storage.SessionReader
	books      storage.BookReader
	logger     *zap.Logger
	now        func() time.Time
	thresholds PersonalityThresholds
}

// Option configures an Engine
type Option func(*Engine)

// WithClock sets the clock used for "today" in streaks and elapsed-day figures
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithPersonalityThresholds overrides the reader personality cutoffs
func WithPersonalityThresholds(t PersonalityThresholds) Option {
	return func(e *Engine) {
		e.thresholds = t
	}
}

// NewEngine creates a statistics engine over the given stores
func NewEngine(sessions storage.SessionReader, books storage.BookReader, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		sessions:   sessions,
		books:      books,
		logger:     logger,
		now:        time.Now,
		thresholds: DefaultPersonalityThresholds(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TotalTime is the overall reading time
type TotalTime struct {
	Minutes int     `json:"total_minutes"`
	Hours   float64 `json:"total_hours"`
}

// Summary combines every all-time statistic in one record
type Summary struct {
	TotalMinutesRead    int          `json:"total_minutes_read"`
	BooksFinished       int          `json:"books_finished"`
	CurrentStreak       int          `json:"current_streak"`
	MaxStreak           int          `json:"max_streak"`
	MostReadBook        *BookTotal   `json:"most_read_book"`
	MostReadAuthor      *string      `json:"most_read_author"`
	DailyTotals         []DailyTotal `json:"daily_stats"`
	BookTotals          []BookTotal  `json:"book_stats"`
	BooksFinishedByYear []YearCount  `json:"books_finished_by_year"`
}

// PeriodStats summarizes reading between two dates
type PeriodStats struct {
	Start                string       `json:"start"`
	End                  string       `json:"end"`
	TotalMinutes         int          `json:"total_minutes"`
	TotalHours           float64      `json:"total_hours"`
	Sessions             int          `json:"sessions"`
	DaysRead             int          `json:"days_read"`
	AverageMinutesPerDay int          `json:"average_minutes_per_day"`
	LongestStreak        int          `json:"longest_streak"`
	TopBooks             []BookTotal  `json:"top_books"`
	DailyTotals          []DailyTotal `json:"daily_stats"`
}

func (e *Engine) today() time.Time {
	return calendarDay(e.now())
}

// Today returns the engine's current calendar day in UTC
func (e *Engine) Today() time.Time {
	return e.today()
}

func (e *Engine) allEntries(ctx context.Context) ([]Entry, error) {
	sessions, err := e.sessions.GetAllSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}
	return sessionEntries(e.logger, sessions, nil), nil
}

func (e *Engine) joinedEntries(ctx context.Context) ([]Entry, error) {
	rows, err := e.sessions.GetSessionsWithBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions with books: %w", err)
	}
	return joinedEntries(e.logger, rows), nil
}

func (e *Engine) allBooks(ctx context.Context) ([]models.Book, error) {
	books, err := e.books.GetAllBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get books: %w", err)
	}
	return books, nil
}

// TotalMinutes returns the minutes read across all sessions
func (e *Engine) TotalMinutes(ctx context.Context) (int, error) {
	entries, err := e.allEntries(ctx)
	if err != nil {
		return 0, err
	}
	total := TotalMinutes(entries, AllTime)
	e.logger.Debug("Calculated total time read",
		zap.Int("total_minutes", total),
		zap.Int("sessions", len(entries)),
	)
	return total, nil
}

// TotalTime returns the minutes read across all sessions along with the equivalent hours
func (e *Engine) TotalTime(ctx context.Context) (TotalTime, error) {
	minutes, err := e.TotalMinutes(ctx)
	if err != nil {
		return TotalTime{}, err
	}
	return TotalTime{Minutes: minutes, Hours: hours(minutes, 2)}, nil
}

// DailyTotals returns minutes per reading day, most recent first.
// year restricts the result to one calendar year; AllTime disables the filter.
func (e *Engine) DailyTotals(ctx context.Context, year int) ([]DailyTotal, error) {
	entries, err := e.allEntries(ctx)
	if err != nil {
		return nil, err
	}
	return dailyTotalsNewestFirst(groupDailyTotals(entries, year)), nil
}

// BookTotals returns minutes per book, most read first
func (e *Engine) BookTotals(ctx context.Context, year int) ([]BookTotal, error) {
	entries, err := e.joinedEntries(ctx)
	if err != nil {
		return nil, err
	}
	return rankBooks(GroupByBook(entries, year), 0), nil
}

// AuthorTotals returns minutes per author, most read first
func (e *Engine) AuthorTotals(ctx context.Context, year int) ([]AuthorTotal, error) {
	entries, err := e.joinedEntries(ctx)
	if err != nil {
		return nil, err
	}
	return rankAuthors(GroupByAuthor(entries, year), 0), nil
}

// MostReadBook returns the book with the most minutes, or nil when there are no sessions
func (e *Engine) MostReadBook(ctx context.Context, year int) (*BookTotal, error) {
	entries, err := e.joinedEntries(ctx)
	if err != nil {
		return nil, err
	}
	_, book, ok := MostOf(GroupByBook(entries, year), bookMinutes)
	if !ok {
		return nil, nil
	}
	return &book, nil
}

// MostReadAuthor returns the author with the most minutes. ok is false when no
// session belongs to a book with an author.
func (e *Engine) MostReadAuthor(ctx context.Context, year int) (author string, ok bool, err error) {
	entries, err := e.joinedEntries(ctx)
	if err != nil {
		return "", false, err
	}
	author, _, ok = MostOf(GroupByAuthor(entries, year), Minutes)
	return author, ok, nil
}

// BooksFinished counts books marked finished
func (e *Engine) BooksFinished(ctx context.Context) (int, error) {
	books, err := e.allBooks(ctx)
	if err != nil {
		return 0, err
	}
	return countFinished(books), nil
}

// BooksFinishedByYear counts finished books per year of their end date, newest year first
func (e *Engine) BooksFinishedByYear(ctx context.Context) ([]YearCount, error) {
	books, err := e.allBooks(ctx)
	if err != nil {
		return nil, err
	}
	return finishedByYear(datedBooks(e.logger, books)), nil
}

// Streaks returns the current and the longest reading streak over the whole history
func (e *Engine) Streaks(ctx context.Context) (Streaks, error) {
	entries, err := e.allEntries(ctx)
	if err != nil {
		return Streaks{}, err
	}
	streaks := ComputeStreaks(entries, e.today())
	e.logger.Debug("Calculated reading streaks",
		zap.Int("current_streak", streaks.Current),
		zap.Int("max_streak", streaks.Max),
	)
	return streaks, nil
}

// Summary returns every all-time statistic from a single snapshot of the stores
func (e *Engine) Summary(ctx context.Context) (*Summary, error) {
	entries, err := e.allEntries(ctx)
	if err != nil {
		return nil, err
	}
	joined, err := e.joinedEntries(ctx)
	if err != nil {
		return nil, err
	}
	books, err := e.allBooks(ctx)
	if err != nil {
		return nil, err
	}

	byBook := GroupByBook(joined, AllTime)
	streaks := ComputeStreaks(entries, e.today())
	summary := &Summary{
		TotalMinutesRead:    TotalMinutes(entries, AllTime),
		BooksFinished:       countFinished(books),
		CurrentStreak:       streaks.Current,
		MaxStreak:           streaks.Max,
		DailyTotals:         dailyTotalsNewestFirst(groupDailyTotals(entries, AllTime)),
		BookTotals:          rankBooks(byBook, 0),
		BooksFinishedByYear: finishedByYear(datedBooks(e.logger, books)),
	}
	if _, book, ok := MostOf(byBook, bookMinutes); ok {
		summary.MostReadBook = &book
	}
	if author, _, ok := MostOf(GroupByAuthor(joined, AllTime), Minutes); ok {
		summary.MostReadAuthor = &author
	}

	e.logger.Info("Generated summary statistics",
		zap.Int("sessions", len(entries)),
		zap.Int("books", len(books)),
		zap.Int("total_minutes", summary.TotalMinutesRead),
	)
	return summary, nil
}

// PeriodStats summarizes the sessions dated between start and end, both inclusive
func (e *Engine) PeriodStats(ctx context.Context, start, end time.Time) (*PeriodStats, error) {
	start, end = calendarDay(start), calendarDay(end)
	sessions, err := e.sessions.GetSessionsByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions for period: %w", err)
	}
	books, err := e.allBooks(ctx)
	if err != nil {
		return nil, err
	}

	entries := sessionEntries(e.logger, sessions, indexBooks(books))
	days := groupDailyTotals(entries, AllTime)
	total := TotalMinutes(entries, AllTime)
	return &PeriodStats{
		Start:                start.Format(models.DateLayout),
		End:                  end.Format(models.DateLayout),
		TotalMinutes:         total,
		TotalHours:           hours(total, 2),
		Sessions:             len(entries),
		DaysRead:             days.Len(),
		AverageMinutesPerDay: average(total, days.Len()),
		LongestStreak:        MaxStreak(entryDates(entries, AllTime)),
		TopBooks:             rankBooks(GroupByBook(entries, AllTime), TopBooksLimit),
		DailyTotals:          dailyTotalsNewestFirst(days),
	}, nil
}

func (e *Engine) loadYear(ctx context.Context, year int) (yearData, error) {
	sessions, err := e.sessions.GetSessionsByYear(ctx, year)
	if err != nil {
		return yearData{}, fmt.Errorf("failed to get sessions for %d: %w", year, err)
	}
	books, err := e.allBooks(ctx)
	if err != nil {
		return yearData{}, err
	}
	history, err := e.allEntries(ctx)
	if err != nil {
		return yearData{}, err
	}

	return yearData{
		year:    year,
		entries: sessionEntries(e.logger, sessions, indexBooks(books)),
		history: entryDates(history, AllTime),
		books:   datedBooks(e.logger, books),
		today:   e.today(),
	}, nil
}

// YearReport summarizes one calendar year. The current streak in the report is
// measured over the whole history, not just the year.
func (e *Engine) YearReport(ctx context.Context, year int) (*YearReport, error) {
	data, err := e.loadYear(ctx, year)
	if err != nil {
		return nil, err
	}
	report := buildYearReport(data)
	e.logger.Info("Generated year report",
		zap.Int("year", year),
		zap.Int("sessions", report.Sessions),
	)
	return &report, nil
}

// Wrapped builds the year-in-review report for one calendar year
func (e *Engine) Wrapped(ctx context.Context, year int) (*WrappedReport, error) {
	data, err := e.loadYear(ctx, year)
	if err != nil {
		return nil, err
	}
	report := buildWrappedReport(data, e.thresholds)
	e.logger.Info("Generated wrapped report",
		zap.Int("year", year),
		zap.Int("sessions", report.Sessions),
		zap.String("personality", report.Personality.Type),
	)
	return &report, nil
}

// AvailableYears lists the years that have at least one session, newest first
func (e *Engine) AvailableYears(ctx context.Context) ([]int, error) {
	entries, err := e.allEntries(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	years := []int{}
	for _, entry := range entries {
		year := entry.Date.Year()
		if _, ok := seen[year]; ok {
			continue
		}
		seen[year] = struct{}{}
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func countFinished(books []models.Book) int {
	count := 0
	for _, book := range books {
		if book.IsFinished() {
			count++
		}
	}
	return count
}

func finishedByYear(books []datedBook) []YearCount {
	perYear := make(map[int]int)
	for _, b := range books {
		if b.IsFinished() && b.hasEnd() {
			perYear[b.End.Year()]++
		}
	}

	counts := make([]YearCount, 0, len(perYear))
	for year, count := range perYear {
		counts = append(counts, YearCount{Year: year, BooksFinished: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Year > counts[j].Year
	})
	return counts
}
