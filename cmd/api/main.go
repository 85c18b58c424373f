// Package main is the entry point for the CertiCredia certification API.
//
// @title CertiCredia Certification Platform API
// @version 1.0
// @description Compliance profile scoring and accreditation case lifecycle for the CPF indicator taxonomy.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/xbeat/certicredia-sub000/internal/api/handlers"
	"github.com/xbeat/certicredia-sub000/internal/api/router"
	"github.com/xbeat/certicredia-sub000/internal/config"
	"github.com/xbeat/certicredia-sub000/internal/domain/accreditation"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
	"github.com/xbeat/certicredia-sub000/internal/pkg/logger"
	"github.com/xbeat/certicredia-sub000/internal/repository/postgres"
	"github.com/xbeat/certicredia-sub000/internal/scoring"
	"github.com/xbeat/certicredia-sub000/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	log.WithFields(map[string]interface{}{
		"environment": cfg.Server.Environment,
		"db_driver":   cfg.Database.Driver,
	}).Info("Starting certification API")

	db, err := postgres.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := postgres.Migrate(db, cfg.Database.Driver); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Repositories
	profileRepo := postgres.NewProfileRepository(db)
	caseRepo := postgres.NewAccreditationRepository(db)
	assignmentRepo := postgres.NewAssignmentRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	orgRepo := postgres.NewOrganizationRepository(db)
	templateRepo := postgres.NewTemplateRepository(db)

	if err := seedTemplates(templateRepo); err != nil {
		return fmt.Errorf("seeding templates: %w", err)
	}

	// Services
	engine := scoring.NewEngine(scoring.DefaultConfig())
	profileService := services.NewProfileService(
		profileRepo, orgRepo, auditRepo, engine, cfg.Certification.RecentWindow, log)
	caseService := services.NewAccreditationService(
		caseRepo, templateRepo, auditRepo, cfg.Certification.ExpiryMonths, log)
	assignmentService := services.NewAssignmentService(
		assignmentRepo, caseRepo, auditRepo, cfg.Certification.AssignmentTokenTTL, log)

	// HTTP layer
	h := &router.Handlers{
		Health:        handlers.NewHealthHandler(db),
		Profile:       handlers.NewProfileHandler(profileService, log),
		Accreditation: handlers.NewAccreditationHandler(caseService, assignmentService, log),
		Organization:  handlers.NewOrganizationHandler(orgRepo, log),
		Audit:         handlers.NewAuditHandler(auditRepo),
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{"addr": server.Addr}).Info("HTTP server listening")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.WithFields(map[string]interface{}{"signal": sig.String()}).Info("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	log.Info("Server stopped")
	return nil
}

// seedTemplates installs the built-in certification templates so a fresh
// database can open cases without an authoring step.
func seedTemplates(repo *postgres.TemplateRepository) error {
	ctx := context.Background()

	builtin := []*accreditation.Template{
		{
			ID:     "cpf-standard",
			Name:   "CPF Standard Certification",
			Schema: []byte(`{"indicators": 100, "categories": 10}`),
		},
		{
			ID:     "cpf-gap-analysis",
			Name:   "CPF Gap Analysis",
			Schema: []byte(`{"indicators": 100, "categories": 10, "advisory": true}`),
		},
	}

	for _, tpl := range builtin {
		_, err := repo.GetTemplate(ctx, tpl.ID)
		if err == nil {
			continue
		}
		if !errors.IsCode(err, errors.ErrCodeNotFound) {
			return err
		}
		if err := repo.Put(ctx, tpl); err != nil {
			return err
		}
	}
	return nil
}
