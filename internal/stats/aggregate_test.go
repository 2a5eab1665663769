package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func day(s string) time.Time {
	t, err := parseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func entry(bookID int64, date string, minutes int, title, author string) Entry {
	return Entry{
		BookID:  bookID,
		Date:    day(date),
		Minutes: minutes,
		Title:   title,
		Author:  author,
		Known:   true,
	}
}

func sampleEntries() []Entry {
	return []Entry{
		entry(1, "2024-01-01", 30, "Dune", "Frank Herbert"),
		entry(2, "2024-01-01", 15, "Emma", "Jane Austen"),
		entry(1, "2024-01-02", 45, "Dune", "Frank Herbert"),
		entry(3, "2023-12-31", 60, "Notes", "   "),
		entry(2, "2024-02-10", 20, "Emma", "Jane Austen"),
	}
}

func TestTotalMinutes(t *testing.T) {
	assert.Equal(t, 0, TotalMinutes(nil, AllTime))
	assert.Equal(t, 170, TotalMinutes(sampleEntries(), AllTime))
	assert.Equal(t, 110, TotalMinutes(sampleEntries(), 2024))
	assert.Equal(t, 60, TotalMinutes(sampleEntries(), 2023))
	assert.Equal(t, 0, TotalMinutes(sampleEntries(), 2022))
}

func TestGroupByDay(t *testing.T) {
	days := GroupByDay(sampleEntries(), AllTime)

	assert.Equal(t, 4, days.Len())
	minutes, ok := days.Get("2024-01-01")
	require.True(t, ok)
	assert.Equal(t, 45, minutes)

	_, ok = days.Get("2024-01-03")
	assert.False(t, ok, "days without sessions must be absent")

	// Insertion order follows the input
	assert.Equal(t, "2024-01-01", days.Oldest().Key)
}

func TestGroupByDay_SumsToTotal(t *testing.T) {
	for _, year := range []int{AllTime, 2023, 2024} {
		days := GroupByDay(sampleEntries(), year)
		sum := 0
		for pair := days.Oldest(); pair != nil; pair = pair.Next() {
			sum += pair.Value
		}
		assert.Equal(t, TotalMinutes(sampleEntries(), year), sum, "year %d", year)
	}
}

func TestGroupByBook(t *testing.T) {
	books := GroupByBook(sampleEntries(), 2024)

	require.Equal(t, 2, books.Len())
	dune, ok := books.Get(1)
	require.True(t, ok)
	assert.Equal(t, BookTotal{BookID: 1, Title: "Dune", Author: "Frank Herbert", Minutes: 75, Sessions: 2}, dune)

	_, ok = books.Get(3)
	assert.False(t, ok, "2023 session must be filtered out")
}

func TestGroupByBook_LastSeenTitleWins(t *testing.T) {
	entries := []Entry{
		entry(1, "2024-01-01", 10, "Old Title", ""),
		entry(1, "2024-01-02", 10, "New Title", "Someone"),
	}

	book, ok := GroupByBook(entries, AllTime).Get(1)
	require.True(t, ok)
	assert.Equal(t, "New Title", book.Title)
	assert.Equal(t, "Someone", book.Author)
	assert.Equal(t, 20, book.Minutes)
}

func TestGroupByBook_SkipsUnknownBooks(t *testing.T) {
	entries := []Entry{
		entry(1, "2024-01-01", 10, "Dune", "Frank Herbert"),
		{BookID: 9, Date: day("2024-01-01"), Minutes: 99},
	}

	books := GroupByBook(entries, AllTime)
	assert.Equal(t, 1, books.Len())
	assert.Equal(t, 1, GroupByAuthor(entries, AllTime).Len())
}

func TestGroupByAuthor(t *testing.T) {
	authors := GroupByAuthor(sampleEntries(), AllTime)

	assert.Equal(t, 2, authors.Len())
	_, ok := authors.Get("")
	assert.False(t, ok, "blank authors must not create a bucket")

	austen, _ := authors.Get("Jane Austen")
	assert.Equal(t, 35, austen)
	herbert, _ := authors.Get("Frank Herbert")
	assert.Equal(t, 75, herbert)

	assert.Equal(t, 0, GroupByAuthor(sampleEntries(), 2023).Len())
}

func TestMostOf(t *testing.T) {
	testCases := []struct {
		name     string
		keys     []string
		values   []int
		expected string
		found    bool
	}{
		{name: "empty", found: false},
		{name: "single", keys: []string{"a"}, values: []int{1}, expected: "a", found: true},
		{name: "clear max", keys: []string{"a", "b", "c"}, values: []int{1, 5, 3}, expected: "b", found: true},
		{name: "tie goes to first inserted", keys: []string{"a", "b", "c"}, values: []int{5, 7, 7}, expected: "b", found: true},
		{name: "all equal", keys: []string{"z", "y"}, values: []int{2, 2}, expected: "z", found: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := orderedmap.New[string, int]()
			for i, k := range tc.keys {
				m.Set(k, tc.values[i])
			}

			key, _, ok := MostOf(m, Minutes)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.expected, key)
		})
	}
}

func TestRankBooks_StableTies(t *testing.T) {
	entries := []Entry{
		entry(1, "2024-01-01", 10, "A", ""),
		entry(2, "2024-01-01", 30, "B", ""),
		entry(3, "2024-01-01", 10, "C", ""),
		entry(4, "2024-01-01", 30, "D", ""),
	}

	ranked := rankBooks(GroupByBook(entries, AllTime), 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, "B", ranked[0].Title)
	assert.Equal(t, "D", ranked[1].Title)
	assert.Equal(t, "A", ranked[2].Title)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 0, average(100, 0))
	assert.Equal(t, 33, average(100, 3))
	assert.Equal(t, 67, average(200, 3))
	assert.Equal(t, 0.0, percentage(1, 0))
	assert.Equal(t, 33.3, percentage(1, 3))
	assert.Equal(t, 1.5, hours(90, 1))
	assert.Equal(t, 2.08, hours(125, 2))
}
