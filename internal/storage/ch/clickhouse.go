package ch

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	"reading/internal/models"
	"reading/internal/storage"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Books live in a ReplacingMergeTree keyed by id; every change inserts a new
// row version and reads go through FINAL.
const bookColumns = `id, title, author, start_date, end_date, status`

type ClickHouseDB struct {
	conn clickhouse.Conn

	// ClickHouse has no auto-increment; ID allocation is serialized in-process
	idMu sync.Mutex
}

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(host string, port int, database, user, password string, useTLS bool) (*ClickHouseDB, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	// Configure TLS if enabled
	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Initialize is a no-op - tables are managed via migrations
func (db *ClickHouseDB) Initialize(ctx context.Context) error {
	// Tables are managed via migrations (see migrations/ directory)
	return nil
}

func (db *ClickHouseDB) nextID(ctx context.Context, table string) (int64, error) {
	var maxID int64
	if err := db.conn.QueryRow(ctx, fmt.Sprintf(`SELECT max(id) FROM %s`, table)).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", table, err)
	}
	return maxID + 1, nil
}

// CreateBook creates a new book in reading status and returns its ID
func (db *ClickHouseDB) CreateBook(ctx context.Context, title, author string, startDate time.Time) (int64, error) {
	db.idMu.Lock()
	defer db.idMu.Unlock()

	id, err := db.nextID(ctx, "books")
	if err != nil {
		return 0, err
	}

	err = db.conn.Exec(ctx, `INSERT INTO books (id, title, author, start_date, end_date, status, updated_at) VALUES (?, ?, ?, ?, NULL, ?, now64())`,
		id, title, author, startDate, string(models.StatusReading))
	if err != nil {
		return 0, fmt.Errorf("failed to create book: %w", err)
	}
	return id, nil
}

// FinishBook marks a book finished on endDate by inserting a newer row version
func (db *ClickHouseDB) FinishBook(ctx context.Context, bookID int64, endDate time.Time) error {
	book, err := db.getBook(ctx, bookID)
	if err != nil {
		return err
	}

	err = db.conn.Exec(ctx, `INSERT INTO books (id, title, author, start_date, end_date, status, updated_at) VALUES (?, ?, ?, ?, ?, ?, now64())`,
		book.ID, book.Title, book.Author, mustDate(book.StartDate), endDate, string(models.StatusFinished))
	if err != nil {
		return fmt.Errorf("failed to finish book: %w", err)
	}
	return nil
}

func (db *ClickHouseDB) getBook(ctx context.Context, bookID int64) (models.Book, error) {
	books, err := db.queryBooks(ctx, `SELECT `+bookColumns+` FROM books FINAL WHERE id = ?`, bookID)
	if err != nil {
		return models.Book{}, err
	}
	if len(books) == 0 {
		return models.Book{}, fmt.Errorf("failed to get book %d: %w", bookID, storage.ErrBookNotFound)
	}
	return books[0], nil
}

// GetAllBooks returns all books ordered by ID
func (db *ClickHouseDB) GetAllBooks(ctx context.Context) ([]models.Book, error) {
	return db.queryBooks(ctx, `SELECT `+bookColumns+` FROM books FINAL ORDER BY id`)
}

// ListReadingBooks returns the books currently being read, sorted by title
func (db *ClickHouseDB) ListReadingBooks(ctx context.Context) ([]models.Book, error) {
	return db.queryBooks(ctx, `SELECT `+bookColumns+` FROM books FINAL WHERE status = ? ORDER BY title`,
		string(models.StatusReading))
}

func (db *ClickHouseDB) queryBooks(ctx context.Context, query string, args ...any) ([]models.Book, error) {
	rows, err := db.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var (
			book      models.Book
			startDate time.Time
			endDate   *time.Time
			status    string
		)
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &startDate, &endDate, &status); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		book.StartDate = startDate.Format(models.DateLayout)
		if endDate != nil {
			book.EndDate = endDate.Format(models.DateLayout)
		}
		book.Status = models.BookStatus(status)
		books = append(books, book)
	}
	return books, rows.Err()
}

// CreateSession records a reading session for an existing book
func (db *ClickHouseDB) CreateSession(ctx context.Context, bookID int64, date time.Time, minutesRead int) (int64, error) {
	if _, err := db.getBook(ctx, bookID); err != nil {
		return 0, err
	}

	db.idMu.Lock()
	defer db.idMu.Unlock()

	id, err := db.nextID(ctx, "reading_sessions")
	if err != nil {
		return 0, err
	}

	err = db.conn.Exec(ctx, `INSERT INTO reading_sessions (id, book_id, date, minutes_read) VALUES (?, ?, ?, ?)`,
		id, bookID, date, int32(minutesRead))
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// GetAllSessions returns all sessions, most recent date first
func (db *ClickHouseDB) GetAllSessions(ctx context.Context) ([]models.ReadingSession, error) {
	return db.querySessions(ctx, `SELECT id, book_id, date, minutes_read FROM reading_sessions ORDER BY date DESC, id DESC`)
}

// GetSessionsByYear returns the sessions dated in the given year
func (db *ClickHouseDB) GetSessionsByYear(ctx context.Context, year int) ([]models.ReadingSession, error) {
	return db.querySessions(ctx, `SELECT id, book_id, date, minutes_read FROM reading_sessions WHERE toYear(date) = ? ORDER BY date DESC, id DESC`,
		year)
}

// GetSessionsByDateRange returns the sessions dated between start and end inclusive
func (db *ClickHouseDB) GetSessionsByDateRange(ctx context.Context, start, end time.Time) ([]models.ReadingSession, error) {
	return db.querySessions(ctx, `SELECT id, book_id, date, minutes_read FROM reading_sessions WHERE date >= ? AND date <= ? ORDER BY date DESC, id DESC`,
		start, end)
}

func (db *ClickHouseDB) querySessions(ctx context.Context, query string, args ...any) ([]models.ReadingSession, error) {
	rows, err := db.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.ReadingSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// GetSessionsWithBooks returns sessions joined with their book, skipping orphans
func (db *ClickHouseDB) GetSessionsWithBooks(ctx context.Context) ([]models.SessionWithBook, error) {
	return db.queryJoined(ctx, `
		SELECT s.id, s.book_id, s.date, s.minutes_read, b.title, b.author
		FROM reading_sessions AS s
		INNER JOIN (SELECT id, title, author FROM books FINAL) AS b ON s.book_id = b.id
		ORDER BY s.date DESC, s.id DESC`)
}

// GetLastSessions returns the last N sessions with their book
func (db *ClickHouseDB) GetLastSessions(ctx context.Context, limit int) ([]models.SessionWithBook, error) {
	return db.queryJoined(ctx, `
		SELECT s.id, s.book_id, s.date, s.minutes_read, b.title, b.author
		FROM reading_sessions AS s
		INNER JOIN (SELECT id, title, author FROM books FINAL) AS b ON s.book_id = b.id
		ORDER BY s.date DESC, s.id DESC
		LIMIT ?`, limit)
}

func (db *ClickHouseDB) queryJoined(ctx context.Context, query string, args ...any) ([]models.SessionWithBook, error) {
	rows, err := db.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions with books: %w", err)
	}
	defer rows.Close()

	var result []models.SessionWithBook
	for rows.Next() {
		var (
			row     models.SessionWithBook
			date    time.Time
			minutes int32
		)
		if err := rows.Scan(&row.ID, &row.BookID, &date, &minutes, &row.Title, &row.Author); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		row.Date = date.Format(models.DateLayout)
		row.MinutesRead = int(minutes)
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanSession(rows driver.Rows) (models.ReadingSession, error) {
	var (
		session models.ReadingSession
		date    time.Time
		minutes int32
	)
	if err := rows.Scan(&session.ID, &session.BookID, &date, &minutes); err != nil {
		return session, fmt.Errorf("failed to scan session: %w", err)
	}
	session.Date = date.Format(models.DateLayout)
	session.MinutesRead = int(minutes)
	return session, nil
}

// mustDate parses a date this store formatted itself
func mustDate(s string) time.Time {
	t, _ := time.Parse(models.DateLayout, s)
	return t
}

// Close closes the database connection
func (db *ClickHouseDB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
