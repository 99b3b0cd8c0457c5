package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"pos/app/auth"
	"pos/app/catalog"
	"pos/app/sale"
	"pos/domain"
	"pos/infra/postgres"
	"pos/infra/rabbitmq"
	"pos/infra/redis"
	"pos/internal/middleware"
	"pos/pkg/config"
	"pos/pkg/events"
	"pos/pkg/httperror"
	"pos/pkg/logger"
	"pos/pkg/token"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

func handle[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return writeError(c, httperror.BadRequest(
				"request.invalid_body",
				"Invalid body",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.ParamsParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_path_params",
				"Invalid path params",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.QueryParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_query_params",
				"Invalid query params",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.ReqHeaderParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_headers",
				"Invalid headers",
				fiber.Map{"error": err.Error()},
			))
		}

		ctx := c.UserContext()

		res, err := handler.Handle(ctx, &req)
		if err != nil {
			return writeError(c, err)
		}

		return c.JSON(res)
	}
}

// Database is the health view of the SQL store.
type Database interface {
	PingContext(ctx context.Context) error
	GetPoolStats() map[string]interface{}
}

// Broker reports whether the event publisher still holds a live channel.
type Broker interface {
	IsHealthy() bool
}

type dependencies struct {
	catalog   catalog.Repository
	cache     catalog.Cache
	sales     sale.Repository
	users     auth.UserRepository
	publisher events.Publisher
	tokens    *token.Service
	location  *time.Location
	database  Database
	broker    Broker
}

func newApp(deps dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
		ErrorHandler: writeError,
	})

	app.Use(recover.New())
	app.Use(cors.New())

	ledger := sale.NewLedger(deps.sales, deps.location)
	coordinator := sale.NewCoordinator(ledger, deps.publisher)
	app.Hooks().OnShutdown(func() error {
		coordinator.Wait()
		return nil
	})

	listCategoriesHandler := catalog.NewListCategoriesHandler(deps.catalog, deps.cache)
	createCategoryHandler := catalog.NewCreateCategoryHandler(deps.catalog, deps.cache, deps.publisher)
	addItemHandler := catalog.NewAddItemHandler(deps.catalog, deps.cache, deps.publisher)
	deleteItemHandler := catalog.NewDeleteItemHandler(deps.catalog, deps.cache, deps.publisher)
	deleteCategoryHandler := catalog.NewDeleteCategoryHandler(deps.catalog, deps.cache, deps.publisher)
	recordSaleHandler := sale.NewRecordSaleHandler(coordinator)
	getDailySalesHandler := sale.NewGetDailySalesHandler(ledger)
	loginHandler := auth.NewLoginHandler(deps.users, deps.tokens)

	accessGate := middleware.NewAccessGateMiddleware(deps.tokens)

	app.Get("/health", healthHandler(deps.database, deps.broker))

	app.Get("/products", handle[catalog.ListCategoriesRequest, catalog.ListCategoriesResponse](listCategoriesHandler))
	app.Post("/products/category", accessGate, handle[catalog.CreateCategoryRequest, domain.Category](createCategoryHandler))
	app.Post("/products/item", accessGate, handle[catalog.AddItemRequest, domain.Category](addItemHandler))
	app.Delete("/products/item", accessGate, handle[catalog.DeleteItemRequest, domain.Category](deleteItemHandler))
	app.Delete("/products/category/:id", accessGate, handle[catalog.DeleteCategoryRequest, catalog.DeleteCategoryResponse](deleteCategoryHandler))

	app.Post("/sales", handle[sale.RecordSaleRequest, sale.RecordSaleResponse](recordSaleHandler))
	app.Get("/sales", handle[sale.GetDailySalesRequest, sale.GetDailySalesResponse](getDailySalesHandler))

	app.Post("/api/auth/login", handle[auth.LoginRequest, auth.LoginResponse](loginHandler))

	return app
}

// healthHandler fails only when the database is unreachable. A lost broker
// degrades the service since events are best effort.
func healthHandler(database Database, broker Broker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status := "ok"
		res := fiber.Map{}

		if database != nil {
			db := fiber.Map{"status": "ok", "pool": database.GetPoolStats()}
			if err := database.PingContext(ctx); err != nil {
				zap.L().Warn("Health check failed", zap.Error(err))
				db["status"] = "unavailable"
				status = "unavailable"
			}
			res["database"] = db
		}

		switch {
		case broker == nil:
			res["broker"] = "disabled"
		case broker.IsHealthy():
			res["broker"] = "ok"
		default:
			zap.L().Warn("Event broker connection lost")
			res["broker"] = "unavailable"
			if status == "ok" {
				status = "degraded"
			}
		}

		res["status"] = status
		if status == "unavailable" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(res)
		}
		return c.JSON(res)
	}
}

func main() {
	appConfig := config.Read()
	defer logger.Setup(appConfig.AppEnv).Sync()
	zap.L().Info("app starting...")
	zap.L().Info("app config",
		zap.String("appEnv", appConfig.AppEnv),
		zap.String("port", appConfig.Port),
		zap.String("timezone", appConfig.Timezone),
	)

	if appConfig.JWTSecret == "" {
		zap.L().Fatal("JWT_SECRET is required")
	}

	location, err := appConfig.Location()
	if err != nil {
		zap.L().Fatal("Invalid TIMEZONE", zap.String("timezone", appConfig.Timezone), zap.Error(err))
	}

	pgRepository := postgres.NewPgRepository(appConfig.PostgresDSN())
	defer pgRepository.Close()

	deps := dependencies{
		catalog:   pgRepository,
		cache:     catalog.NopCache{},
		sales:     pgRepository,
		users:     pgRepository,
		publisher: events.NopPublisher{},
		tokens:    token.NewService(appConfig.JWTSecret, appConfig.JWTIssuer, appConfig.JWTExpiration),
		location:  location,
		database:  pgRepository,
	}

	if appConfig.RedisAddr != "" {
		redisClient, err := redis.NewClient(appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB)
		if err != nil {
			zap.L().Warn("Catalog cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			deps.cache = redis.NewCatalogCache(redisClient, appConfig.ServiceName, appConfig.CatalogCacheTTL)
		}
	}

	if appConfig.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewRabbitMQPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			zap.L().Fatal("Failed to connect event publisher", zap.Error(err))
		}
		defer publisher.Close()
		deps.publisher = publisher
		deps.broker = publisher
	}

	app := newApp(deps)

	// Start server in a goroutine
	go func() {
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(app)
}

func gracefulShutdown(app *fiber.App) {
	// Create channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for shutdown signal
	<-sigChan
	zap.L().Info("Shutting down server...")

	// Shutdown with 5 second timeout
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}

func writeError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		payload := fiber.Map{
			"code":    httpErr.Code,
			"message": httpErr.Message,
		}

		if httpErr.Details != nil {
			payload["details"] = httpErr.Details
		}

		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		}

		return c.Status(httpErr.Status).JSON(payload)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		zap.L().Warn("Fiber validation error", zap.String("message", fiberErr.Message), zap.Error(err))
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"code":    "request.invalid",
			"message": fiberErr.Message,
		})
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"code":    "internal_server_error",
		"message": "Internal server error.",
	})
}
