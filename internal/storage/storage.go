package storage

import (
	"context"
	"errors"
	"time"

	"reading/internal/models"
)

// ErrBookNotFound is returned when an operation references a book that does not exist
var ErrBookNotFound = errors.New("book not found")

// SessionReader is the read side of the reading session store
type SessionReader interface {
	GetAllSessions(ctx context.Context) ([]models.ReadingSession, error)
	GetSessionsByYear(ctx context.Context, year int) ([]models.ReadingSession, error)

	// GetSessionsByDateRange returns sessions dated between start and end, both inclusive
	GetSessionsByDateRange(ctx context.Context, start, end time.Time) ([]models.ReadingSession, error)

	// GetSessionsWithBooks returns every session that references an existing book,
	// joined with the book's title and author
	GetSessionsWithBooks(ctx context.Context) ([]models.SessionWithBook, error)
}

// BookReader is the read side of the book store
type BookReader interface {
	GetAllBooks(ctx context.Context) ([]models.Book, error)
}

// Storage defines the interface for data storage operations
type Storage interface {
	SessionReader
	BookReader

	// Book operations
	CreateBook(ctx context.Context, title, author string, startDate time.Time) (int64, error)
	FinishBook(ctx context.Context, bookID int64, endDate time.Time) error
	ListReadingBooks(ctx context.Context) ([]models.Book, error)

	// Session operations
	CreateSession(ctx context.Context, bookID int64, date time.Time, minutesRead int) (int64, error)
	GetLastSessions(ctx context.Context, limit int) ([]models.SessionWithBook, error)

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
