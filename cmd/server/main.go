package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/bot"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/config"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/database"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/handler"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/middleware"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/queue"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/repository"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/router"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/service"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/whatsapp"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := newLogger(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBMaxConns, cfg.DBConnLifeMin)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("run migrations")
	}
	cancel()

	userRepo := repository.NewUserRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	reminderRepo := repository.NewReminderRepo(db)
	feedbackRepo := repository.NewFeedbackRepo(db)
	counselorRepo := repository.NewCounselorRepo(db)
	appealRepo := repository.NewAppealRepo(db)
	adminRepo := repository.NewAdminRepo(db)

	userSvc := service.NewUserService(userRepo, sessionRepo, log)
	sessionSvc := service.NewSessionService(sessionRepo, reminderRepo, feedbackRepo, counselorRepo, userRepo, log)
	appealSvc := service.NewAppealService(appealRepo, userRepo, log)
	authSvc := service.NewAuthService(adminRepo, cfg.JWTSecret, cfg.AccessTTLMin, log)

	gateway := whatsapp.NewClient(cfg.WhatsAppURL, cfg.AccessToken, cfg.PhoneNumberID, cfg.VerifyToken, log)

	// Conversation state lives in Redis when one is configured, otherwise
	// in process memory.
	var states bot.StateStore = bot.NewMemoryStore()
	if rc := config.NewRedisClient(); rc != nil {
		states = bot.NewRedisStore(rc)
		log.Info().Msg("conversation state store: redis")
	} else {
		log.Info().Msg("conversation state store: memory")
	}

	// Domain events are optional; without a broker URL the engine simply
	// skips publishing.
	var events bot.EventPublisher
	if url := brokerURL(); url != "" {
		events = queue.NewPublisher(url, log)
		go func() {
			if err := queue.StartEventConsumer(url, log); err != nil {
				log.Error().Err(err).Msg("event consumer stopped")
			}
		}()
	}

	engine := bot.NewEngine(userSvc, sessionSvc, appealSvc, gateway, states, events, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLogger(log))

	router.RegisterRoutes(e)
	router.RegisterWebhook(e, handler.NewWebhookHandler(gateway, engine, log))
	router.RegisterAdmin(e, handler.NewAuthHandler(authSvc), handler.NewAdminHandler(userSvc, sessionSvc, appealSvc, events, log), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// newLogger builds the process logger: human-readable console output in dev,
// plain JSON everywhere else.
func newLogger(env string) zerolog.Logger {
	if env == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func brokerURL() string {
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		return url
	}
	return os.Getenv("AMQP_URL")
}
