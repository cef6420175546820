package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"logit-backend/internal/analyses"
	"logit-backend/internal/dashboard"
	"logit-backend/internal/employees"
	"logit-backend/internal/insights"
	"logit-backend/internal/llm"
	"logit-backend/internal/llm/anthropic"
	"logit-backend/internal/llm/ollama"
	"logit-backend/internal/llm/openai"
	"logit-backend/internal/organizations"
	"logit-backend/internal/projects"
	"logit-backend/internal/reports"
	"logit-backend/internal/services/health"
	"logit-backend/internal/shared/config"
	"logit-backend/internal/shared/server"
	"logit-backend/internal/shared/storage/db"
	"logit-backend/internal/shared/storage/object"
	localstore "logit-backend/internal/shared/storage/object/local"
	s3store "logit-backend/internal/shared/storage/object/s3"
	"logit-backend/internal/shared/telemetry"
	"logit-backend/internal/timesheets"
	"logit-backend/internal/uploads"
)

// App holds shared dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Store     object.ObjectStore
	Generator llm.Generator
	Analyzer  *llm.Analyzer

	Organizations *organizations.Service
	Employees     *employees.Service
	Projects      *projects.Service
	Uploads       *uploads.Service
	Entries       timesheets.Repo
	Summaries     analyses.Repo
	Analyses      *analyses.Service
	Insights      *insights.Service
	Dashboard     *dashboard.Service
	Reports       *reports.Service
	Health        *health.Service
}

// Build prepares dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if !cfg.IsDevLike() {
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gen, err := BuildGenerator(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		Generator: llm.NewLimited(gen, cfg.LLMRatePerSec, cfg.LLMBurst),
	}
	app.Analyzer = &llm.Analyzer{
		Gen:        app.Generator,
		Timeout:    cfg.LLMTimeout,
		Structured: cfg.LLMStructuredOutput,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              cfg,
		Health:              app.Health,
		Organizations:       app.Organizations,
		OrganizationHandler: organizations.NewHandler(app.Organizations),
		EmployeeHandler:     employees.NewHandler(app.Employees),
		ProjectHandler:      projects.NewHandler(app.Projects),
		UploadHandler:       uploads.NewHandler(app.Uploads),
		AnalysisHandler:     analyses.NewHandler(app.Analyses, cfg.MaxUploadBytes),
		InsightsHandler:     insights.NewHandler(app.Insights),
		DashboardHandler:    dashboard.NewHandler(app.Dashboard),
		ReportHandler:       reports.NewHandler(app.Reports),
	})

	return app, nil
}

// BuildGenerator returns the client for the configured provider.
func BuildGenerator(cfg config.Config) (llm.Generator, error) {
	var (
		gen llm.Generator
		err error
	)
	switch cfg.LLMProvider {
	case "openai":
		gen, err = openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.OpenAIBaseURL, cfg.LLMTimeout)
	case "anthropic":
		gen, err = anthropic.NewClient(cfg.AnthropicAPIKey, cfg.LLMModel, "", cfg.LLMTimeout)
	case "", "ollama":
		gen, err = ollama.NewClient(cfg.OllamaBaseURL, cfg.LLMModel, cfg.LLMTimeout)
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s client: %w", cfg.LLMProvider, err)
	}
	return gen, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, errors.New("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) error {
	var (
		orgRepo     organizations.Repo
		empRepo     employees.Repo
		projectRepo projects.Repo
		uploadRepo  uploads.Repo
		entries     timesheets.Repo
		summaries   analyses.Repo
	)
	if app.DB != nil {
		orgRepo = &organizations.PGRepo{DB: app.DB}
		empRepo = &employees.PGRepo{DB: app.DB}
		projectRepo = &projects.PGRepo{DB: app.DB}
		uploadRepo = &uploads.PGRepo{DB: app.DB}
		entries = &timesheets.PGRepo{DB: app.DB}
		summaries = &analyses.PGRepo{DB: app.DB}
	} else {
		orgRepo = organizations.NewMemoryRepo()
		empRepo = employees.NewMemoryRepo()
		projectRepo = projects.NewMemoryRepo()
		uploadRepo = uploads.NewMemoryRepo()
		memEntries := timesheets.NewMemoryRepo()
		entries = memEntries
		summaries = analyses.NewMemoryRepo(memEntries)
	}

	app.Organizations = organizations.NewService(orgRepo)
	app.Employees = employees.NewService(empRepo)
	app.Projects = projects.NewService(projectRepo)
	app.Uploads = uploads.NewService(app.Store, uploadRepo)
	app.Entries = entries
	app.Summaries = summaries

	provider := ""
	if app.Generator != nil {
		provider = app.Generator.Name()
	}
	app.Analyses = &analyses.Service{
		Uploads:   app.Uploads,
		Employees: app.Employees,
		Repo:      summaries,
		Analyzer:  app.Analyzer,
		Provider:  provider,
	}
	app.Insights = &insights.Service{Employees: app.Employees, Entries: entries, Analyzer: app.Analyzer}
	app.Dashboard = &dashboard.Service{Employees: app.Employees, Projects: app.Projects, Entries: entries, Summaries: summaries}
	app.Reports = &reports.Service{Employees: app.Employees, Entries: entries, Summaries: summaries}

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.Health = health.NewService(pinger, provider, app.Config.LLMModel)

	if app.Analyses.Analyzer == nil || app.Analyses.Analyzer.Gen == nil {
		return errors.New("failed to initialize analyzer")
	}
	return nil
}
