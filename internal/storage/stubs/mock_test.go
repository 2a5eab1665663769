package stubs

import (
	"context"
	"errors"
	"testing"
	"time"

	"reading/internal/models"
	"reading/internal/storage"
)

func date(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMockDB_CreateBook(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	if err := db.Initialize(ctx); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	id, err := db.CreateBook(ctx, "Dune", "Frank Herbert", date("2024-01-05"))
	if err != nil {
		t.Fatalf("Failed to create book: %v", err)
	}
	if id == 0 {
		t.Fatal("Expected non-zero book ID")
	}

	books, err := db.GetAllBooks(ctx)
	if err != nil {
		t.Fatalf("Failed to list books: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("Expected 1 book, got %d", len(books))
	}

	book := books[0]
	if book.Title != "Dune" || book.Author != "Frank Herbert" {
		t.Errorf("Unexpected book: %+v", book)
	}
	if book.Status != models.StatusReading {
		t.Errorf("Expected new book to be in reading status, got %s", book.Status)
	}
	if book.StartDate != "2024-01-05" {
		t.Errorf("Expected start date 2024-01-05, got %s", book.StartDate)
	}
	if book.EndDate != "" {
		t.Errorf("Expected no end date, got %s", book.EndDate)
	}
}

func TestMockDB_FinishBook(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	id, _ := db.CreateBook(ctx, "Dune", "Frank Herbert", date("2024-01-05"))
	_, _ = db.CreateBook(ctx, "Emma", "Jane Austen", date("2024-02-01"))

	if err := db.FinishBook(ctx, id, date("2024-03-01")); err != nil {
		t.Fatalf("Failed to finish book: %v", err)
	}

	reading, err := db.ListReadingBooks(ctx)
	if err != nil {
		t.Fatalf("Failed to list reading books: %v", err)
	}
	if len(reading) != 1 || reading[0].Title != "Emma" {
		t.Errorf("Expected only 'Emma' to still be reading, got %+v", reading)
	}

	books, _ := db.GetAllBooks(ctx)
	if !books[0].IsFinished() || books[0].EndDate != "2024-03-01" {
		t.Errorf("Expected 'Dune' finished on 2024-03-01, got %+v", books[0])
	}

	err = db.FinishBook(ctx, 99, date("2024-03-01"))
	if !errors.Is(err, storage.ErrBookNotFound) {
		t.Errorf("Expected ErrBookNotFound, got %v", err)
	}
}

func TestMockDB_CreateSessionUnknownBook(t *testing.T) {
	db := NewMockDB()

	_, err := db.CreateSession(context.Background(), 7, date("2024-01-01"), 30)
	if !errors.Is(err, storage.ErrBookNotFound) {
		t.Errorf("Expected ErrBookNotFound, got %v", err)
	}
}

func TestMockDB_SessionQueries(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	dune, _ := db.CreateBook(ctx, "Dune", "Frank Herbert", date("2023-12-01"))
	emma, _ := db.CreateBook(ctx, "Emma", "", date("2024-01-01"))

	_, _ = db.CreateSession(ctx, dune, date("2023-12-31"), 40)
	_, _ = db.CreateSession(ctx, dune, date("2024-01-01"), 20)
	_, _ = db.CreateSession(ctx, emma, date("2024-01-03"), 15)
	_, _ = db.CreateSession(ctx, emma, date("2024-02-10"), 25)

	all, err := db.GetAllSessions(ctx)
	if err != nil {
		t.Fatalf("Failed to get sessions: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("Expected 4 sessions, got %d", len(all))
	}
	for i := 0; i < len(all)-1; i++ {
		if all[i].Date < all[i+1].Date {
			t.Error("Expected sessions sorted by date descending")
			break
		}
	}

	year, _ := db.GetSessionsByYear(ctx, 2024)
	if len(year) != 3 {
		t.Errorf("Expected 3 sessions in 2024, got %d", len(year))
	}

	ranged, _ := db.GetSessionsByDateRange(ctx, date("2023-12-31"), date("2024-01-03"))
	if len(ranged) != 3 {
		t.Errorf("Expected 3 sessions in range (inclusive), got %d", len(ranged))
	}

	joined, _ := db.GetSessionsWithBooks(ctx)
	if len(joined) != 4 {
		t.Fatalf("Expected 4 joined rows, got %d", len(joined))
	}
	if joined[0].Title != "Emma" || joined[0].Date != "2024-02-10" {
		t.Errorf("Expected newest session first, got %+v", joined[0])
	}

	last, _ := db.GetLastSessions(ctx, 2)
	if len(last) != 2 {
		t.Errorf("Expected 2 last sessions, got %d", len(last))
	}

	last, _ = db.GetLastSessions(ctx, 10)
	if len(last) != 4 {
		t.Errorf("Expected limit to be capped at 4, got %d", len(last))
	}
}
