package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"reading/internal/stats"
	"reading/internal/storage/stubs"
)

func testOpener(t *testing.T) Opener {
	t.Helper()
	ctx := context.Background()
	db := stubs.NewMockDB()
	require.NoError(t, db.Initialize(ctx))

	bookID, err := db.CreateBook(ctx, "Dune", "Frank Herbert", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	for _, d := range []int{1, 2, 3} {
		_, err := db.CreateSession(ctx, bookID, time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC), 30)
		require.NoError(t, err)
	}

	clock := func() time.Time { return time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC) }
	return func(ctx context.Context) (*stats.Engine, func() error, error) {
		return stats.NewEngine(db, db, zap.NewNop(), stats.WithClock(clock)), func() error { return nil }, nil
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(testOpener(t))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSummaryYAML(t *testing.T) {
	out, err := execute(t, "summary")
	require.NoError(t, err)

	var summary map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 90, summary["total_minutes_read"])
	assert.Equal(t, 3, summary["current_streak"])
	assert.Equal(t, "Frank Herbert", summary["most_read_author"])
	assert.Contains(t, out, "total_minutes_read: 90\n")
}

func TestStreaksJSON(t *testing.T) {
	out, err := execute(t, "streaks", "--format", "json")
	require.NoError(t, err)

	var streaks stats.Streaks
	require.NoError(t, json.Unmarshal([]byte(out), &streaks))
	assert.Equal(t, stats.Streaks{Current: 3, Max: 3}, streaks)
}

func TestWrappedDefaultsToCurrentYear(t *testing.T) {
	out, err := execute(t, "wrapped", "-f", "json")
	require.NoError(t, err)

	var wrapped stats.WrappedReport
	require.NoError(t, json.Unmarshal([]byte(out), &wrapped))
	assert.Equal(t, 2024, wrapped.Year)
	assert.Equal(t, 90, wrapped.TotalMinutesRead)
}

func TestYearRejectsFutureYear(t *testing.T) {
	_, err := execute(t, "year", "2030")
	assert.ErrorContains(t, err, "year must be between")
}

func TestTotals(t *testing.T) {
	out, err := execute(t, "totals", "books", "--year", "2024", "-f", "json")
	require.NoError(t, err)

	var books []stats.BookTotal
	require.NoError(t, json.Unmarshal([]byte(out), &books))
	require.Len(t, books, 1)
	assert.Equal(t, 90, books[0].Minutes)

	_, err = execute(t, "totals", "genres")
	assert.Error(t, err)
}

func TestPeriod(t *testing.T) {
	out, err := execute(t, "period", "--start", "2024-03-02", "--end", "2024-03-03", "-f", "json")
	require.NoError(t, err)

	var period stats.PeriodStats
	require.NoError(t, json.Unmarshal([]byte(out), &period))
	assert.Equal(t, 60, period.TotalMinutes)

	_, err = execute(t, "period", "--start", "2024-03-03", "--end", "2024-03-01")
	assert.Error(t, err)
}

func TestYears(t *testing.T) {
	out, err := execute(t, "years")
	require.NoError(t, err)
	assert.Equal(t, "- 2024\n", out)
}

func TestUnknownFormat(t *testing.T) {
	_, err := execute(t, "summary", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}
