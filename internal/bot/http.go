package bot

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"reading/internal/models"
	"reading/internal/stats"
)

// HTTPServer serves the statistics engine as a JSON API
type HTTPServer struct {
	engine *stats.Engine
	logger *zap.Logger
}

// NewHTTPServer creates the statistics API handlers
func NewHTTPServer(engine *stats.Engine, logger *zap.Logger) *HTTPServer {
	return &HTTPServer{
		engine: engine,
		logger: logger,
	}
}

// RegisterRoutes registers the API routes on the provided mux
func (hs *HTTPServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stats/summary", hs.handleSummary)
	mux.HandleFunc("GET /api/stats/daily", hs.handleDaily)
	mux.HandleFunc("GET /api/stats/books", hs.handleBooks)
	mux.HandleFunc("GET /api/stats/authors", hs.handleAuthors)
	mux.HandleFunc("GET /api/stats/streaks", hs.handleStreaks)
	mux.HandleFunc("GET /api/stats/period", hs.handlePeriod)
	mux.HandleFunc("GET /api/stats/year", hs.handleYear)
	mux.HandleFunc("GET /api/wrapped", hs.handleWrapped)
	mux.HandleFunc("GET /api/wrapped/years", hs.handleYears)
}

func (hs *HTTPServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hs.logger.Warn("Failed to encode response", zap.Error(err))
	}
}

func (hs *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	hs.writeJSON(w, status, map[string]string{"error": message})
}

// respond writes v, or a 500 when the engine failed
func (hs *HTTPServer) respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		hs.logger.Error("Failed to compute statistics", zap.Error(err), zap.String("path", r.URL.Path))
		hs.writeError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}
	hs.writeJSON(w, http.StatusOK, v)
}

// yearParam validates ?year=; defaultYear is used when it is absent
func (hs *HTTPServer) yearParam(w http.ResponseWriter, r *http.Request, defaultYear int) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return defaultYear, true
	}
	year, err := stats.ParseYear(raw, hs.engine.Today())
	if err != nil {
		hs.writeError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return year, true
}

func (hs *HTTPServer) currentYear() int {
	return hs.engine.Today().Year()
}

func (hs *HTTPServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := hs.engine.Summary(r.Context())
	hs.respond(w, r, summary, err)
}

func (hs *HTTPServer) handleDaily(w http.ResponseWriter, r *http.Request) {
	year, ok := hs.yearParam(w, r, stats.AllTime)
	if !ok {
		return
	}
	daily, err := hs.engine.DailyTotals(r.Context(), year)
	hs.respond(w, r, daily, err)
}

func (hs *HTTPServer) handleBooks(w http.ResponseWriter, r *http.Request) {
	year, ok := hs.yearParam(w, r, stats.AllTime)
	if !ok {
		return
	}
	books, err := hs.engine.BookTotals(r.Context(), year)
	hs.respond(w, r, books, err)
}

func (hs *HTTPServer) handleAuthors(w http.ResponseWriter, r *http.Request) {
	year, ok := hs.yearParam(w, r, stats.AllTime)
	if !ok {
		return
	}
	authors, err := hs.engine.AuthorTotals(r.Context(), year)
	hs.respond(w, r, authors, err)
}

func (hs *HTTPServer) handleStreaks(w http.ResponseWriter, r *http.Request) {
	streaks, err := hs.engine.Streaks(r.Context())
	hs.respond(w, r, streaks, err)
}

func (hs *HTTPServer) handlePeriod(w http.ResponseWriter, r *http.Request) {
	start, errStart := time.Parse(models.DateLayout, r.URL.Query().Get("start"))
	end, errEnd := time.Parse(models.DateLayout, r.URL.Query().Get("end"))
	if errStart != nil || errEnd != nil {
		hs.writeError(w, http.StatusBadRequest, "start and end must be dates in YYYY-MM-DD format")
		return
	}
	if end.Before(start) {
		hs.writeError(w, http.StatusBadRequest, "end must not be before start")
		return
	}

	period, err := hs.engine.PeriodStats(r.Context(), start, end)
	hs.respond(w, r, period, err)
}

func (hs *HTTPServer) handleYear(w http.ResponseWriter, r *http.Request) {
	year, ok := hs.yearParam(w, r, hs.currentYear())
	if !ok {
		return
	}
	report, err := hs.engine.YearReport(r.Context(), year)
	hs.respond(w, r, report, err)
}

func (hs *HTTPServer) handleWrapped(w http.ResponseWriter, r *http.Request) {
	year, ok := hs.yearParam(w, r, hs.currentYear())
	if !ok {
		return
	}
	wrapped, err := hs.engine.Wrapped(r.Context(), year)
	hs.respond(w, r, wrapped, err)
}

func (hs *HTTPServer) handleYears(w http.ResponseWriter, r *http.Request) {
	years, err := hs.engine.AvailableYears(r.Context())
	hs.respond(w, r, map[string][]int{"years": years}, err)
}
