package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"catalogo/internal/config"
	"catalogo/internal/handlers"
	"catalogo/internal/models"
	"catalogo/internal/repositories"
	"catalogo/internal/services"
	"catalogo/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	// --- Storage backend ---
	productRepo, err := buildRepository(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}

	// --- RabbitMQ client (optional) ---
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		log.Info().Msg("RabbitMQ client connected")
	}

	// --- Service and handler wiring ---
	productService := services.NewProductService(productRepo, mqClient)
	productHandler := handlers.NewProductHandler(productService, cfg.IsProduction())

	app := fiber.New()
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New())

	productHandler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Product event consumer ---
	if mqClient != nil {
		go func() {
			log.Info().Msg("starting RabbitMQ consumer for product events")
			handler := func(msg amqp.Delivery) error {
				log.Info().
					Uint64("tag", msg.DeliveryTag).
					Str("body", string(msg.Body)).
					Msg("received product event")
				return nil
			}
			if consumerErr := mqClient.ConsumeProductEvents(handler); consumerErr != nil {
				log.Error().Err(consumerErr).Msg("RabbitMQ consumer stopped")
			}
		}()
	}

	// --- Start HTTP server with graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.AppPort).Msg("starting server")
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")

	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped")
}

// setupLogger configures zerolog: console output in development, JSON in
// production, level from config.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// buildRepository opens the configured storage backend and returns the
// product repository bound to it. The "mock" driver keeps everything
// in memory with a few seeded products.
func buildRepository(cfg *config.Config) (repositories.ProductRepository, error) {
	if cfg.DBDriver == "mock" {
		repo := repositories.NewMockProductRepository()
		seedProducts(repo)
		return repo, nil
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DBDSN)
	case "postgres":
		dialector = postgres.Open(cfg.DBDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return nil, fmt.Errorf("failed to migrate produtos table: %w", err)
	}

	return repositories.NewGORMProductRepository(db), nil
}

// seedProducts populates the in-memory repository with initial data.
func seedProducts(repo repositories.ProductRepository) {
	produtos := []*models.Product{
		models.NewProduct("Notebook", 3500.00, "Notebook para desenvolvimento", 10),
		models.NewProduct("Teclado Mecânico", 350.00, "Teclado mecânico ABNT2", 25),
		models.NewProduct("Mouse Sem Fio", 120.00, "Mouse ergonômico sem fio", 50),
	}

	for _, produto := range produtos {
		criado, err := repo.Create(produto)
		if err != nil {
			log.Warn().Err(err).Str("nome", produto.Nome).Msg("failed to seed product")
			continue
		}
		log.Info().Uint("id", criado.ID).Str("nome", criado.Nome).Msg("seeded product")
	}
}
