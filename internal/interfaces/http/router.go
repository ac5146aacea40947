package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hotel-procurement-api/internal/application/auth"
	"github.com/jhoicas/hotel-procurement-api/internal/application/procurement"
	"github.com/jhoicas/hotel-procurement-api/internal/application/usecase"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/jhoicas/hotel-procurement-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CompanyUC  *usecase.CompanyUseCase
	UserUC     *usecase.UserUseCase
	ModuleSvc  *usecase.ModuleService
	DocumentUC *procurement.DocumentUseCase
	MatchUC    *procurement.MatchUseCase
	ReportUC   *procurement.ReportUseCase
	Health     map[string]Pinger
	JWTSecret  string
	Log        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", NewHealthHandler(deps.Health).Check)

	api := app.Group("/api")
	jwtAuth := AuthMiddleware(deps.JWTSecret)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", jwtAuth, authHandler.Me)

	// Companies: alta y consulta públicas; la activación de módulos exige admin.
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies := api.Group("/companies")
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Post("/modules", jwtAuth, RequireRole(entity.RoleAdmin), companyHandler.ActivateModule)
	companies.Get("/:id", companyHandler.GetByID)

	// Users (admin)
	userHandler := NewUserHandler(deps.UserUC)
	users := api.Group("/users", jwtAuth, RequireRole(entity.RoleAdmin))
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)

	// Compras: JWT + módulo purchasing contratado.
	purchasing := api.Group("/", jwtAuth, RequireModule(entity.ModulePurchasing, deps.ModuleSvc, log))
	buyers := RequireRole(entity.RoleAdmin, entity.RoleBuyer)
	receivers := RequireRole(entity.RoleAdmin, entity.RoleReceiver)
	payables := RequireRole(entity.RoleAdmin, entity.RoleAccounts)

	supplierHandler := NewSupplierHandler(deps.DocumentUC)
	suppliers := purchasing.Group("/suppliers")
	suppliers.Post("/", buyers, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	poHandler := NewPurchaseOrderHandler(deps.DocumentUC)
	orders := purchasing.Group("/purchase-orders")
	orders.Post("/", buyers, poHandler.Create)
	orders.Get("/", poHandler.List)
	orders.Get("/:id", poHandler.GetByID)

	grnHandler := NewGoodsReceivedHandler(deps.DocumentUC)
	grns := purchasing.Group("/goods-received-notes")
	grns.Post("/", receivers, grnHandler.Register)
	grns.Get("/:id", grnHandler.GetByID)

	matchingHandler := NewMatchingHandler(deps.MatchUC, deps.ReportUC)

	invoiceHandler := NewSupplierInvoiceHandler(deps.DocumentUC)
	invoices := purchasing.Group("/supplier-invoices")
	invoices.Post("/", payables, invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/match", payables, matchingHandler.RunMatch)
	invoices.Get("/:id/match", matchingHandler.GetLatest)

	// La autoridad para aprobar o rechazar la decide el nivel de cada resultado.
	results := purchasing.Group("/matching-results")
	results.Get("/:id", matchingHandler.GetResult)
	results.Get("/:id/pdf", matchingHandler.DownloadReport)
	results.Post("/:id/approve", matchingHandler.Approve)
	results.Post("/:id/reject", matchingHandler.Reject)
	results.Post("/:id/disputes", payables, matchingHandler.RaiseDispute)

	purchasing.Get("/disputes", matchingHandler.ListDisputes)
}
