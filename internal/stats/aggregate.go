package stats

import (
	"math"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// AllTime disables the year filter of the grouping primitives
const AllTime = 0

// DailyTotal is the reading time of one calendar date
type DailyTotal struct {
	Date     string `json:"date"`
	Minutes  int    `json:"total_minutes"`
	Sessions int    `json:"sessions"`
}

// BookTotal is the reading time spent on one book
type BookTotal struct {
	BookID   int64  `json:"book_id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Minutes  int    `json:"total_minutes"`
	Sessions int    `json:"sessions"`
}

// AuthorTotal is the reading time spent on books by one author
type AuthorTotal struct {
	Author  string  `json:"author"`
	Minutes int     `json:"total_minutes"`
	Hours   float64 `json:"total_hours"`
}

// YearCount counts books finished in a calendar year
type YearCount struct {
	Year          int `json:"year"`
	BooksFinished int `json:"books_finished"`
}

// TotalMinutes sums the minutes read across entries
func TotalMinutes(entries []Entry, year int) int {
	total := 0
	for _, e := range entries {
		if e.inYear(year) {
			total += e.Minutes
		}
	}
	return total
}

// GroupByDay sums minutes per date. Only dates with at least one session appear,
// in the order they are first seen.
func GroupByDay(entries []Entry, year int) *orderedmap.OrderedMap[string, int] {
	days := orderedmap.New[string, int]()
	for _, e := range entries {
		if !e.inYear(year) {
			continue
		}
		minutes, _ := days.Get(e.Day())
		days.Set(e.Day(), minutes+e.Minutes)
	}
	return days
}

// groupDailyTotals is GroupByDay that also counts sessions per date
func groupDailyTotals(entries []Entry, year int) *orderedmap.OrderedMap[string, DailyTotal] {
	days := orderedmap.New[string, DailyTotal]()
	for _, e := range entries {
		if !e.inYear(year) {
			continue
		}
		day, ok := days.Get(e.Day())
		if !ok {
			day = DailyTotal{Date: e.Day()}
		}
		day.Minutes += e.Minutes
		day.Sessions++
		days.Set(e.Day(), day)
	}
	return days
}

// GroupByBook sums minutes and sessions per book. Entries whose book is unknown
// are skipped. When title or author differ between entries the last one seen wins.
func GroupByBook(entries []Entry, year int) *orderedmap.OrderedMap[int64, BookTotal] {
	books := orderedmap.New[int64, BookTotal]()
	for _, e := range entries {
		if !e.inYear(year) || !e.Known {
			continue
		}
		book, _ := books.Get(e.BookID)
		book.BookID = e.BookID
		book.Title = e.Title
		book.Author = strings.TrimSpace(e.Author)
		book.Minutes += e.Minutes
		book.Sessions++
		books.Set(e.BookID, book)
	}
	return books
}

// GroupByAuthor sums minutes per author. Entries without an author are left out entirely.
func GroupByAuthor(entries []Entry, year int) *orderedmap.OrderedMap[string, int] {
	authors := orderedmap.New[string, int]()
	for _, e := range entries {
		if !e.inYear(year) || !e.Known {
			continue
		}
		author := strings.TrimSpace(e.Author)
		if author == "" {
			continue
		}
		minutes, _ := authors.Get(author)
		authors.Set(author, minutes+e.Minutes)
	}
	return authors
}

// MostOf returns the key whose value scores highest. Ties go to the key inserted first.
// ok is false when m is empty.
func MostOf[K comparable, V any](m *orderedmap.OrderedMap[K, V], score func(V) int) (key K, value V, ok bool) {
	best := math.MinInt
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if s := score(pair.Value); !ok || s > best {
			key, value, best, ok = pair.Key, pair.Value, s, true
		}
	}
	return key, value, ok
}

// Minutes is the score function for maps that already hold minutes
func Minutes(v int) int { return v }

func bookMinutes(b BookTotal) int  { return b.Minutes }
func bookSessions(b BookTotal) int { return b.Sessions }

// rankBooks lists books by minutes, most read first. Equal books keep insertion order.
func rankBooks(books *orderedmap.OrderedMap[int64, BookTotal], limit int) []BookTotal {
	ranked := make([]BookTotal, 0, books.Len())
	for pair := books.Oldest(); pair != nil; pair = pair.Next() {
		ranked = append(ranked, pair.Value)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Minutes > ranked[j].Minutes
	})
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

// rankAuthors lists authors by minutes, most read first. Equal authors keep insertion order.
func rankAuthors(authors *orderedmap.OrderedMap[string, int], limit int) []AuthorTotal {
	ranked := make([]AuthorTotal, 0, authors.Len())
	for pair := authors.Oldest(); pair != nil; pair = pair.Next() {
		ranked = append(ranked, AuthorTotal{
			Author:  pair.Key,
			Minutes: pair.Value,
			Hours:   hours(pair.Value, 1),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Minutes > ranked[j].Minutes
	})
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

// dailyTotalsNewestFirst lists the per-day totals with the most recent date first
func dailyTotalsNewestFirst(days *orderedmap.OrderedMap[string, DailyTotal]) []DailyTotal {
	totals := make([]DailyTotal, 0, days.Len())
	for pair := days.Oldest(); pair != nil; pair = pair.Next() {
		totals = append(totals, pair.Value)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Date > totals[j].Date
	})
	return totals
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func hours(minutes int, places int) float64 {
	return round(float64(minutes)/60, places)
}

// percentage returns part/whole*100 rounded to one decimal, 0 when whole is 0
func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round(float64(part)/float64(whole)*100, 1)
}

// average returns total/count rounded to the nearest integer, 0 when count is 0
func average(total, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count)))
}
