package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/hotel-procurement-api/internal/application/auth"
	"github.com/jhoicas/hotel-procurement-api/internal/application/procurement"
	"github.com/jhoicas/hotel-procurement-api/internal/application/usecase"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/matching"
	infrapdf "github.com/jhoicas/hotel-procurement-api/internal/infrastructure/pdf"
	"github.com/jhoicas/hotel-procurement-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/hotel-procurement-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/hotel-procurement-api/internal/interfaces/http"
	"github.com/jhoicas/hotel-procurement-api/pkg/config"
	"github.com/jhoicas/hotel-procurement-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("match_mode", cfg.Matching.Mode).
		Msg("iniciando aplicación")

	tolerance, err := toleranceFromConfig(cfg.Matching)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de tolerancias")
	}
	engine, err := matching.NewEngine(tolerance)
	if err != nil {
		log.Fatal().Err(err).Msg("motor de cruce")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	health := map[string]httpRouter.Pinger{"postgres": pool}

	// Sin REDIS_ADDR las decisiones se serializan solo dentro de este proceso.
	var locker procurement.DecisionLocker
	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		locker = infraredis.NewDecisionLocker(client, cfg.Redis.LockTTL, log.Component("decision-locker"))
		health["redis"] = httpRouter.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	} else {
		locker = procurement.NewLocalLocker()
		log.Warn().Msg("REDIS_ADDR vacío: lock de decisiones en memoria, usar una sola réplica")
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	grnRepo := postgres.NewGoodsReceivedNoteRepository(pool)
	invoiceRepo := postgres.NewSupplierInvoiceRepository(pool)
	resultRepo := postgres.NewMatchingResultRepository(pool)
	disputeRepo := postgres.NewDisputeRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	moduleSvc := usecase.NewModuleService(companyRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	documentUC := procurement.NewDocumentUseCase(
		supplierRepo, poRepo, grnRepo, invoiceRepo, txRunner, log.Component("documents"),
	)
	matchUC := procurement.NewMatchUseCase(
		engine, invoiceRepo, poRepo, grnRepo, resultRepo, disputeRepo,
		txRunner, locker, log.Component("matching"),
	)

	// PDF: informe de cruce para archivo y auditoría
	reportUC := procurement.NewReportUseCase(
		resultRepo, invoiceRepo, poRepo, supplierRepo, companyRepo,
		infrapdf.NewMarotoReportGenerator(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Hotel Procurement API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CompanyUC:  companyUC,
		UserUC:     userUC,
		ModuleSvc:  moduleSvc,
		DocumentUC: documentUC,
		MatchUC:    matchUC,
		ReportUC:   reportUC,
		Health:     health,
		JWTSecret:  cfg.JWT.Secret,
		Log:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
