package models

// BookStatus is the reading state of a book
type BookStatus string

const (
	StatusReading  BookStatus = "reading"
	StatusFinished BookStatus = "finished"
)

// DateLayout is the calendar date format used by every date field
const DateLayout = "2006-01-02"

// Book represents a book on the reading list.
// Dates are calendar dates in DateLayout; EndDate is empty while reading.
type Book struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date,omitempty"`
	Status    BookStatus `json:"status"`
}

// IsFinished reports whether the book has been marked finished
func (b Book) IsFinished() bool {
	return b.Status == StatusFinished
}

// ReadingSession represents one logged reading of a book on a date
type ReadingSession struct {
	ID          int64  `json:"id"`
	BookID      int64  `json:"book_id"`
	Date        string `json:"date"`
	MinutesRead int    `json:"minutes_read"`
}

// SessionWithBook is a reading session joined with its book's title and author
type SessionWithBook struct {
	ReadingSession
	Title  string `json:"title"`
	Author string `json:"author"`
}
