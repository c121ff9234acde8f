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

	"github.com/jhoicas/contable-api/internal/application/auth"
	"github.com/jhoicas/contable-api/internal/application/billing"
	"github.com/jhoicas/contable-api/internal/domain/fiscal"
	infrapdf "github.com/jhoicas/contable-api/internal/infrastructure/pdf"
	"github.com/jhoicas/contable-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/contable-api/internal/interfaces/http"
	"github.com/jhoicas/contable-api/pkg/clock"
	"github.com/jhoicas/contable-api/pkg/config"
	"github.com/jhoicas/contable-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	clientRepo := postgres.NewClientProviderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	clk := clock.System{}
	validator := fiscal.NewValidator(fiscalRules(cfg.Fiscal))
	rules := validator.Rules()
	log.Info().
		Str("epoch", rules.Epoch.Format("2006-01-02")).
		Int("horizon_years", rules.HorizonYears).
		Str("tolerance", rules.Tolerance.String()).
		Str("max_amount", rules.MaxAmount.String()).
		Msg("reglas fiscales")

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Contable API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		ValidateInvoice: billing.NewValidateInvoiceUseCase(validator, clk, log),
		CreateInvoice:   billing.NewCreateInvoiceUseCase(txRunner, invoiceRepo, validator, clk, log),
		ImportInvoices: billing.NewImportInvoicesUseCase(txRunner, invoiceRepo, validator, clk, log, billing.ImportConfig{
			Workers: cfg.Import.Workers,
			MaxRows: cfg.Import.MaxRows,
		}),
		ReportPDF:       billing.NewReportPDFUseCase(invoiceRepo, pdfGenerator, clk),
		ClientProviders: billing.NewClientProviderUseCase(clientRepo),
		JWTSecret:       cfg.JWT.Secret,
		Log:             log,
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

// fiscalRules parte de las reglas por defecto; solo los valores configurados las reemplazan.
func fiscalRules(fc config.FiscalConfig) fiscal.Rules {
	rules := fiscal.DefaultRules()
	if !fc.Epoch.IsZero() {
		rules.Epoch = time.Date(fc.Epoch.Year(), fc.Epoch.Month(), fc.Epoch.Day(), 0, 0, 0, 0, rules.Location)
	}
	if fc.HorizonYears != nil {
		rules.HorizonYears = *fc.HorizonYears
	}
	if fc.Tolerance.IsPositive() {
		rules.Tolerance = fc.Tolerance
	}
	if fc.MaxAmount.IsPositive() {
		rules.MaxAmount = fc.MaxAmount
	}
	return rules
}
