package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contable-api/internal/application/auth"
	"github.com/jhoicas/contable-api/internal/application/billing"
	"github.com/jhoicas/contable-api/internal/domain/entity"
	"github.com/jhoicas/contable-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	ValidateInvoice *billing.ValidateInvoiceUseCase
	CreateInvoice   *billing.CreateInvoiceUseCase
	ImportInvoices  *billing.ImportInvoicesUseCase
	ReportPDF       *billing.ReportPDFUseCase
	ClientProviders *billing.ClientProviderUseCase
	JWTSecret       string
	Log             *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	writers := RequireRole(entity.RoleAdmin, entity.RoleEditor)

	// Invoices
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.ValidateInvoice, deps.CreateInvoice, deps.ReportPDF, deps.Log)
	importHandler := NewImportHandler(deps.ImportInvoices, deps.ReportPDF, deps.Log)
	invoices.Post("/validate", invoiceHandler.Validate)
	invoices.Post("/import", writers, importHandler.Import)
	invoices.Post("/", writers, invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/pending-review", invoiceHandler.ListPendingReview)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", writers, invoiceHandler.Update)
	invoices.Post("/:id/approve", writers, invoiceHandler.Approve)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)

	// Clientes / proveedores
	clients := protected.Group("/clients")
	clientHandler := NewClientProviderHandler(deps.ClientProviders, deps.Log)
	clients.Post("/", writers, clientHandler.Create)
	clients.Get("/", clientHandler.List)
}
