package stats

import (
	"sort"
	"time"

	"reading/internal/models"
)

const (
	TopBooksLimit          = 5
	TopAuthorsLimit        = 3
	LongestInProgressLimit = 3

	// Sessions shorter than ShortSessionMinutes are short, longer than
	// LongSessionMinutes are long, anything in between (inclusive) is medium.
	ShortSessionMinutes = 20
	LongSessionMinutes  = 45
)

// Monday-first, the order used to break ties between weekdays
var weekdays = [...]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// YearReport summarizes one calendar year of reading
type YearReport struct {
	Year                 int         `json:"year"`
	TotalMinutesRead     int         `json:"total_minutes_read"`
	TotalHoursRead       float64     `json:"total_hours_read"`
	Sessions             int         `json:"sessions"`
	BooksRead            int         `json:"books_read"`
	BooksFinishedInYear  int         `json:"books_finished_in_year"`
	DaysRead             int         `json:"days_read"`
	AverageMinutesPerDay int         `json:"average_minutes_per_day"`
	MostReadBook         *BookTotal  `json:"most_read_book"`
	MostReadAuthor       *string     `json:"most_read_author"`
	LongestSession       int         `json:"longest_session"`
	LongestStreak        int         `json:"longest_streak"`
	CurrentStreak        int         `json:"current_streak"`
	TopBooks             []BookTotal `json:"top_books"`
}

// WrappedReport is the year-in-review: the year report plus habits, highlights and
// the reader personality
type WrappedReport struct {
	YearReport
	Habits      *ReadingHabits  `json:"habits"`
	BiggestDay  *DailyHighlight `json:"biggest_day"`
	Status      ReadingStatus   `json:"status"`
	Protagonist Protagonist     `json:"protagonist"`
	Authors     AuthorStats     `json:"authors"`
	Personality Personality     `json:"personality"`
}

// ReadingHabits describes how sessions were spread over the year
type ReadingHabits struct {
	AverageSessionMinutes int            `json:"average_session_minutes"`
	Classification        SessionBuckets `json:"session_classification"`
	FavoriteDay           string         `json:"favorite_day"`
	BestMonth             MonthTotal     `json:"best_month"`
}

// SessionBuckets counts short, medium and long sessions
type SessionBuckets struct {
	Short            int     `json:"short"`
	Medium           int     `json:"medium"`
	Long             int     `json:"long"`
	ShortPercentage  float64 `json:"short_percentage"`
	MediumPercentage float64 `json:"medium_percentage"`
	LongPercentage   float64 `json:"long_percentage"`
}

// MonthTotal is the reading time of one calendar month
type MonthTotal struct {
	Month   string  `json:"name"`
	Minutes int     `json:"minutes"`
	Hours   float64 `json:"hours"`
}

// DailyHighlight is the single date with the most reading
type DailyHighlight struct {
	Date     string  `json:"date"`
	Minutes  int     `json:"minutes"`
	Hours    float64 `json:"hours"`
	Sessions int     `json:"sessions"`
}

// ReadingStatus compares books started and finished in the year
type ReadingStatus struct {
	BooksStarted      int            `json:"books_started"`
	BooksFinished     int            `json:"books_finished"`
	CurrentlyReading  int            `json:"currently_reading"`
	CompletionRate    float64        `json:"completion_rate"`
	LongestInProgress []BookDuration `json:"longest_in_reading"`
}

// BookDuration is a book with a number of elapsed days attached
type BookDuration struct {
	BookID int64  `json:"book_id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Days   int    `json:"days"`
}

// Protagonist names the books that dominated the year
type Protagonist struct {
	MostMinutes  *BookTotal    `json:"most_read_by_minutes"`
	MostSessions *BookTotal    `json:"most_sessions"`
	Fastest      *BookDuration `json:"fastest"`
	Slowest      *BookDuration `json:"slowest"`
}

// AuthorStats ranks the authors read in the year
type AuthorStats struct {
	MostRead      *AuthorTotal  `json:"most_read_author"`
	UniqueAuthors int           `json:"unique_authors"`
	TopAuthors    []AuthorTotal `json:"top_authors"`
}

// yearData is everything a year report is computed from
type yearData struct {
	year    int
	entries []Entry     // sessions dated in the year
	history []time.Time // every session date, for the current streak
	books   []datedBook // every book
	today   time.Time
}

func filterYear(entries []Entry, year int) []Entry {
	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.inYear(year) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func buildYearReport(d yearData) YearReport {
	entries := filterYear(d.entries, d.year)
	books := GroupByBook(entries, d.year)
	days := GroupByDay(entries, d.year)
	total := TotalMinutes(entries, d.year)

	report := YearReport{
		Year:                 d.year,
		TotalMinutesRead:     total,
		TotalHoursRead:       hours(total, 2),
		Sessions:             len(entries),
		DaysRead:             days.Len(),
		AverageMinutesPerDay: average(total, days.Len()),
		LongestStreak:        MaxStreak(entryDates(entries, d.year)),
		CurrentStreak:        CurrentStreak(d.history, d.today),
		TopBooks:             rankBooks(books, TopBooksLimit),
	}

	read := make(map[int64]struct{})
	for _, e := range entries {
		read[e.BookID] = struct{}{}
		if e.Minutes > report.LongestSession {
			report.LongestSession = e.Minutes
		}
	}
	report.BooksRead = len(read)

	for _, b := range d.books {
		if b.finishedIn(d.year) {
			report.BooksFinishedInYear++
		}
	}

	if _, book, ok := MostOf(books, bookMinutes); ok {
		report.MostReadBook = &book
	}
	if author, _, ok := MostOf(GroupByAuthor(entries, d.year), Minutes); ok {
		report.MostReadAuthor = &author
	}
	return report
}

func buildWrappedReport(d yearData, thresholds PersonalityThresholds) WrappedReport {
	entries := filterYear(d.entries, d.year)
	report := WrappedReport{
		YearReport:  buildYearReport(d),
		Habits:      readingHabits(entries),
		BiggestDay:  biggestDay(entries),
		Status:      readingStatus(d.books, d.year, d.today),
		Protagonist: protagonist(entries, d.books),
		Authors:     authorStats(entries),
	}

	total := TotalMinutes(entries, AllTime)
	var avg float64
	if len(entries) > 0 {
		avg = float64(total) / float64(len(entries))
	}
	var completion float64
	if report.Status.BooksStarted > 0 {
		completion = float64(report.Status.BooksFinished) / float64(report.Status.BooksStarted) * 100
	}
	report.Personality = ClassifyReader(PersonalityInput{
		Sessions:       len(entries),
		AverageMinutes: avg,
		BooksStarted:   report.Status.BooksStarted,
		BooksFinished:  report.Status.BooksFinished,
		CompletionRate: completion,
	}, thresholds)

	return report
}

func readingHabits(entries []Entry) *ReadingHabits {
	if len(entries) == 0 {
		return nil
	}

	var buckets SessionBuckets
	var perWeekday [len(weekdays)]int
	var perMonth [13]int
	total := 0
	for _, e := range entries {
		total += e.Minutes
		switch {
		case e.Minutes < ShortSessionMinutes:
			buckets.Short++
		case e.Minutes > LongSessionMinutes:
			buckets.Long++
		default:
			buckets.Medium++
		}
		perWeekday[(int(e.Date.Weekday())+6)%7]++
		perMonth[e.Date.Month()] += e.Minutes
	}
	buckets.ShortPercentage = percentage(buckets.Short, len(entries))
	buckets.MediumPercentage = percentage(buckets.Medium, len(entries))
	buckets.LongPercentage = percentage(buckets.Long, len(entries))

	favorite := 0
	for i := range perWeekday {
		if perWeekday[i] > perWeekday[favorite] {
			favorite = i
		}
	}

	best := time.January
	for m := time.January; m <= time.December; m++ {
		if perMonth[m] > perMonth[best] {
			best = m
		}
	}

	return &ReadingHabits{
		AverageSessionMinutes: average(total, len(entries)),
		Classification:        buckets,
		FavoriteDay:           weekdays[favorite].String(),
		BestMonth: MonthTotal{
			Month:   best.String(),
			Minutes: perMonth[best],
			Hours:   hours(perMonth[best], 1),
		},
	}
}

func biggestDay(entries []Entry) *DailyHighlight {
	_, day, ok := MostOf(groupDailyTotals(entries, AllTime), func(d DailyTotal) int { return d.Minutes })
	if !ok {
		return nil
	}
	return &DailyHighlight{
		Date:     day.Date,
		Minutes:  day.Minutes,
		Hours:    hours(day.Minutes, 1),
		Sessions: day.Sessions,
	}
}

func readingStatus(books []datedBook, year int, today time.Time) ReadingStatus {
	status := ReadingStatus{LongestInProgress: []BookDuration{}}
	today = calendarDay(today)

	var inProgress []BookDuration
	for _, b := range books {
		if b.startedIn(year) {
			status.BooksStarted++
		}
		if b.finishedIn(year) {
			status.BooksFinished++
		}
		if b.Status != models.StatusReading {
			continue
		}
		status.CurrentlyReading++
		if b.hasStart() {
			inProgress = append(inProgress, BookDuration{
				BookID: b.ID,
				Title:  b.Title,
				Author: b.Author,
				Days:   daysBetween(b.Start, today),
			})
		}
	}
	status.CompletionRate = percentage(status.BooksFinished, status.BooksStarted)

	sort.SliceStable(inProgress, func(i, j int) bool {
		return inProgress[i].Days > inProgress[j].Days
	})
	if len(inProgress) > LongestInProgressLimit {
		inProgress = inProgress[:LongestInProgressLimit]
	}
	status.LongestInProgress = append(status.LongestInProgress, inProgress...)
	return status
}

func protagonist(entries []Entry, books []datedBook) Protagonist {
	var p Protagonist

	byBook := GroupByBook(entries, AllTime)
	if _, book, ok := MostOf(byBook, bookMinutes); ok {
		p.MostMinutes = &book
	}
	if _, book, ok := MostOf(byBook, bookSessions); ok {
		p.MostSessions = &book
	}

	for _, b := range books {
		if !b.IsFinished() || !b.hasStart() || !b.hasEnd() {
			continue
		}
		d := BookDuration{
			BookID: b.ID,
			Title:  b.Title,
			Author: b.Author,
			Days:   daysBetween(b.Start, b.End),
		}
		if p.Fastest == nil || d.Days < p.Fastest.Days {
			fastest := d
			p.Fastest = &fastest
		}
		if p.Slowest == nil || d.Days > p.Slowest.Days {
			slowest := d
			p.Slowest = &slowest
		}
	}
	return p
}

func authorStats(entries []Entry) AuthorStats {
	ranked := rankAuthors(GroupByAuthor(entries, AllTime), 0)
	stats := AuthorStats{UniqueAuthors: len(ranked)}
	if len(ranked) > 0 {
		most := ranked[0]
		stats.MostRead = &most
	}
	if len(ranked) > TopAuthorsLimit {
		ranked = ranked[:TopAuthorsLimit]
	}
	stats.TopAuthors = ranked
	return stats
}
