package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"reading/internal/bot"
	"reading/internal/config"
	"reading/internal/stats"
	"reading/internal/storage"
	"reading/internal/storage/ch"
	"reading/internal/storage/stubs"
)

// App represents the application
type App struct {
	config *config.Config
	logger *zap.Logger
	db     storage.Storage
	engine *stats.Engine
	bot    *bot.Bot
	server *http.Server
}

// LoadConfig reads .env (when present) and the environment
func LoadConfig() (*config.Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// NewLogger builds a production zap logger at the given level
func NewLogger(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = atomicLevel
	return cfg.Build()
}

// OpenStorage connects the configured store and initializes it
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	var db storage.Storage
	if cfg.UseMockDB {
		logger.Info("Using mock database")
		db = stubs.NewMockDB()
	} else {
		logger.Info("Connecting to ClickHouse",
			zap.String("host", cfg.ClickHouseHost),
			zap.Int("port", cfg.ClickHousePort),
			zap.String("database", cfg.ClickHouseDatabase),
			zap.String("user", cfg.ClickHouseUser),
			zap.Bool("tls", cfg.ClickHouseUseTLS),
		)
		clickhouseDB, err := ch.NewClickHouseDB(
			cfg.ClickHouseHost,
			cfg.ClickHousePort,
			cfg.ClickHouseDatabase,
			cfg.ClickHouseUser,
			cfg.ClickHousePassword,
			cfg.ClickHouseUseTLS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		db = clickhouseDB
	}

	if err := db.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("Database initialized successfully")
	return db, nil
}

// New creates and initializes a new application instance
func New() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app := &App{config: cfg, logger: logger}
	logger.Info("Starting Reading Tracker")

	db, err := OpenStorage(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}
	app.db = db
	app.engine = stats.NewEngine(db, db, logger.Named("stats"))

	if cfg.BotEnabled() {
		telegramBot, err := bot.NewBot(cfg.TelegramToken, db, app.engine, cfg.AllowedUserIDs, logger.Named("bot"))
		if err != nil {
			return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
		}
		logger.Info("Bot created", zap.Int64s("allowed_users", cfg.AllowedUserIDs))
		app.bot = telegramBot
	} else {
		logger.Info("TELEGRAM_BOT_TOKEN not set, running the HTTP API only")
	}

	app.initHTTPServer()
	return app, nil
}

// Handler returns the application's HTTP routes
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		mode := "api only"
		switch {
		case a.bot != nil && a.config.WebhookMode:
			mode = "webhook"
		case a.bot != nil:
			mode = "polling"
		}
		fmt.Fprintf(w, "Reading Tracker is running (mode: %s)", mode)
	})

	if a.bot != nil && a.config.WebhookMode {
		mux.HandleFunc("POST /telegram-webhook", func(w http.ResponseWriter, r *http.Request) {
			var update tgbotapi.Update
			if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
				a.logger.Warn("Error decoding webhook update", zap.Error(err))
				w.WriteHeader(http.StatusBadRequest)
				return
			}

			// Process update in background to respond quickly to Telegram
			go a.bot.HandleUpdate(context.Background(), update)
			w.WriteHeader(http.StatusOK)
		})
	}

	bot.NewHTTPServer(a.engine, a.logger.Named("http")).RegisterRoutes(mux)
	return mux
}

func (a *App) initHTTPServer() {
	a.server = &http.Server{
		Addr:         ":" + a.config.Port,
		Handler:      a.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("port", a.config.Port))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if a.bot != nil {
		if a.config.WebhookMode {
			if err := a.bot.StartWebhook(a.config.WebhookURL); err != nil {
				return fmt.Errorf("failed to setup webhook: %w", err)
			}
			a.logger.Info("Webhook configured. Updates arrive on /telegram-webhook")
		} else {
			go func() {
				if err := a.bot.Start(ctx); err != nil {
					a.logger.Error("Bot stopped", zap.Error(err))
				}
			}()
		}
	}

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		a.logger.Error("HTTP server error", zap.Error(err))
	}

	a.logger.Info("Shutting down...")
	return a.Shutdown()
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("HTTP server shutdown error", zap.Error(err))
	}

	if err := a.db.Close(); err != nil {
		a.logger.Error("Error closing database", zap.Error(err))
		return err
	}

	a.logger.Info("Shutdown complete")
	_ = a.logger.Sync()
	return nil
}
