package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"logit-backend/internal/analyses"
	"logit-backend/internal/dashboard"
	"logit-backend/internal/employees"
	"logit-backend/internal/insights"
	"logit-backend/internal/organizations"
	"logit-backend/internal/projects"
	"logit-backend/internal/reports"
	"logit-backend/internal/services/health"
	"logit-backend/internal/shared/config"
	"logit-backend/internal/shared/metrics"
	"logit-backend/internal/shared/server/middleware"
	"logit-backend/internal/shared/server/respond"
	"logit-backend/internal/uploads"
)

const (
	rateGroupDefault  = "DEFAULT"
	rateGroupAnalysis = "ANALYSIS"
)

type RouterDeps struct {
	Config              config.Config
	Health              *health.Service
	Organizations       *organizations.Service
	OrganizationHandler *organizations.Handler
	EmployeeHandler     *employees.Handler
	ProjectHandler      *projects.Handler
	UploadHandler       *uploads.Handler
	AnalysisHandler     *analyses.Handler
	InsightsHandler     *insights.Handler
	DashboardHandler    *dashboard.Handler
	ReportHandler       *reports.Handler
	RateLimiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		st := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	})

	// Organizations are created and looked up before a tenant header exists.
	if deps.OrganizationHandler != nil {
		deps.OrganizationHandler.RegisterRoutes(api)
	}

	var orgs middleware.OrgResolver
	if deps.Organizations != nil {
		orgs = deps.Organizations
	}
	scoped := api.Group("")
	scoped.Use(
		middleware.Tenant(),
		middleware.KnownOrg(orgs),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				rateGroupDefault:  {Rate: deps.Config.RateLimitPerSec, Burst: deps.Config.RateLimitBurst},
				rateGroupAnalysis: {Rate: deps.Config.AnalysisRatePerSec, Burst: deps.Config.AnalysisBurst},
			},
			DefaultGroup: rateGroupDefault,
			GroupFor:     rateGroupFor,
			ClientScoped: map[string]bool{rateGroupAnalysis: true},
			Limiter:      deps.RateLimiter,
		}),
	)

	if deps.EmployeeHandler != nil {
		deps.EmployeeHandler.RegisterRoutes(scoped)
	}
	if deps.ProjectHandler != nil {
		deps.ProjectHandler.RegisterRoutes(scoped)
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.RegisterRoutes(scoped)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(scoped)
	}
	if deps.InsightsHandler != nil {
		deps.InsightsHandler.RegisterRoutes(scoped)
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.RegisterRoutes(scoped)
	}
	if deps.ReportHandler != nil {
		deps.ReportHandler.RegisterRoutes(scoped)
	}

	return r
}

// rateGroupFor puts the model-backed endpoints in their own bucket.
func rateGroupFor(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return rateGroupDefault
	}
	switch strings.TrimSuffix(c.FullPath(), "/") {
	case "/api/v1/uploads", "/api/v1/insights":
		return rateGroupAnalysis
	default:
		return rateGroupDefault
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
