package stubs

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"reading/internal/models"
	"reading/internal/storage"
)

// MockDB is an in-memory implementation of the Storage interface for testing
type MockDB struct {
	mu       sync.RWMutex
	books    map[int64]models.Book
	sessions []models.ReadingSession
	nextBook int64
	nextSess int64
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{
		books:    make(map[int64]models.Book),
		sessions: make([]models.ReadingSession, 0),
	}
}

// Initialize does nothing for mock DB
func (m *MockDB) Initialize(ctx context.Context) error {
	return nil
}

// CreateBook creates a new book in reading status and returns its ID
func (m *MockDB) CreateBook(ctx context.Context, title, author string, startDate time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextBook++
	m.books[m.nextBook] = models.Book{
		ID:        m.nextBook,
		Title:     title,
		Author:    author,
		StartDate: startDate.Format(models.DateLayout),
		Status:    models.StatusReading,
	}
	return m.nextBook, nil
}

// FinishBook marks a book finished on endDate
func (m *MockDB) FinishBook(ctx context.Context, bookID int64, endDate time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, ok := m.books[bookID]
	if !ok {
		return fmt.Errorf("failed to finish book %d: %w", bookID, storage.ErrBookNotFound)
	}
	book.Status = models.StatusFinished
	book.EndDate = endDate.Format(models.DateLayout)
	m.books[bookID] = book
	return nil
}

// GetAllBooks returns all books ordered by ID
func (m *MockDB) GetAllBooks(ctx context.Context) ([]models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	books := make([]models.Book, 0, len(m.books))
	for _, book := range m.books {
		books = append(books, book)
	}

	sort.Slice(books, func(i, j int) bool {
		return books[i].ID < books[j].ID
	})

	return books, nil
}

// ListReadingBooks returns the books currently being read, sorted by title
func (m *MockDB) ListReadingBooks(ctx context.Context) ([]models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var books []models.Book
	for _, book := range m.books {
		if book.Status == models.StatusReading {
			books = append(books, book)
		}
	}

	// Sort by title
	sort.Slice(books, func(i, j int) bool {
		return books[i].Title < books[j].Title
	})

	return books, nil
}

// CreateSession records a reading session for an existing book
func (m *MockDB) CreateSession(ctx context.Context, bookID int64, date time.Time, minutesRead int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[bookID]; !ok {
		return 0, fmt.Errorf("failed to create session: %w", storage.ErrBookNotFound)
	}

	m.nextSess++
	m.sessions = append(m.sessions, models.ReadingSession{
		ID:          m.nextSess,
		BookID:      bookID,
		Date:        date.Format(models.DateLayout),
		MinutesRead: minutesRead,
	})
	return m.nextSess, nil
}

// GetAllSessions returns all sessions, most recent date first
func (m *MockDB) GetAllSessions(ctx context.Context) ([]models.ReadingSession, error) {
	return m.filterSessions(func(models.ReadingSession) bool { return true }), nil
}

// GetSessionsByYear returns the sessions dated in the given year
func (m *MockDB) GetSessionsByYear(ctx context.Context, year int) ([]models.ReadingSession, error) {
	prefix := strconv.Itoa(year) + "-"
	return m.filterSessions(func(s models.ReadingSession) bool {
		return strings.HasPrefix(s.Date, prefix)
	}), nil
}

// GetSessionsByDateRange returns the sessions dated between start and end inclusive
func (m *MockDB) GetSessionsByDateRange(ctx context.Context, start, end time.Time) ([]models.ReadingSession, error) {
	from := start.Format(models.DateLayout)
	to := end.Format(models.DateLayout)
	return m.filterSessions(func(s models.ReadingSession) bool {
		return s.Date >= from && s.Date <= to
	}), nil
}

// GetSessionsWithBooks returns sessions joined with their book, skipping orphans
func (m *MockDB) GetSessionsWithBooks(ctx context.Context) ([]models.SessionWithBook, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []models.SessionWithBook
	for _, s := range m.sortedSessions() {
		book, ok := m.books[s.BookID]
		if !ok {
			continue
		}
		rows = append(rows, models.SessionWithBook{
			ReadingSession: s,
			Title:          book.Title,
			Author:         book.Author,
		})
	}
	return rows, nil
}

// GetLastSessions returns the last N sessions with their book
func (m *MockDB) GetLastSessions(ctx context.Context, limit int) ([]models.SessionWithBook, error) {
	rows, err := m.GetSessionsWithBooks(ctx)
	if err != nil {
		return nil, err
	}

	if limit > len(rows) {
		limit = len(rows)
	}

	return rows[:limit], nil
}

// Close does nothing for mock DB
func (m *MockDB) Close() error {
	return nil
}

func (m *MockDB) filterSessions(keep func(models.ReadingSession) bool) []models.ReadingSession {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sessions []models.ReadingSession
	for _, s := range m.sortedSessions() {
		if keep(s) {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// sortedSessions copies the sessions ordered by date descending, newest ID first within a date.
// Callers must hold the lock.
func (m *MockDB) sortedSessions() []models.ReadingSession {
	sorted := make([]models.ReadingSession, len(m.sessions))
	copy(sorted, m.sessions)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date > sorted[j].Date
		}
		return sorted[i].ID > sorted[j].ID
	})
	return sorted
}
