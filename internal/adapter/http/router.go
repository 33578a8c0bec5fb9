package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/simaogato/investments-backend/internal/domain"
	"github.com/simaogato/investments-backend/internal/logger"
	"github.com/simaogato/investments-backend/internal/metrics"
	"github.com/simaogato/investments-backend/internal/usecase/dashboard"
	"github.com/simaogato/investments-backend/internal/usecase/investment"
)

// InvestorService is the investor registry used by the handlers
type InvestorService interface {
	Register(ctx context.Context, taxID domain.TaxID) (*domain.Investor, error)
	Get(ctx context.Context, taxID domain.TaxID) (*domain.Investor, error)
	List(ctx context.Context) ([]*domain.Investor, error)
	Delete(ctx context.Context, taxID domain.TaxID) error
}

// InvestmentService is the investment aggregate used by the handlers
type InvestmentService interface {
	ReplaceInvestments(ctx context.Context, taxID domain.TaxID, inputs []investment.InvestmentInput) ([]*domain.Investment, error)
	AddInvestments(ctx context.Context, taxID domain.TaxID, inputs []investment.InvestmentInput) ([]*domain.Investment, error)
	UpdateInvestment(ctx context.Context, id uuid.UUID, input investment.InvestmentInput) (*domain.Investment, error)
	DeleteInvestment(ctx context.Context, id uuid.UUID) error
	GetInvestment(ctx context.Context, id uuid.UUID) (*domain.Investment, error)
	ListInvestments(ctx context.Context) ([]*domain.Investment, error)
	ListByTaxID(ctx context.Context, taxID domain.TaxID) ([]*domain.Investment, error)
}

// DashboardService provides the derived, read-only views
type DashboardService interface {
	ListBanks(ctx context.Context, taxID domain.TaxID) ([]dashboard.BankSummary, error)
	ListInvestmentTypes(ctx context.Context, taxID domain.TaxID) ([]domain.InvestmentType, error)
	GetPortfolioSummary(ctx context.Context, taxID domain.TaxID) (*dashboard.PortfolioSummary, error)
}

// RouterConfig carries everything NewRouter wires together
type RouterConfig struct {
	InvestorService   InvestorService
	InvestmentService InvestmentService
	DashboardService  DashboardService

	Logger      *logger.Logger
	Metrics     *metrics.Metrics
	APIToken    string
	CORSOrigins []string

	// Ready reports whether storage can serve requests; nil means always ready
	Ready func(ctx context.Context) error
}

var registerTagNames sync.Once

// NewRouter builds the gin engine serving the REST API
func NewRouter(cfg RouterConfig) *gin.Engine {
	registerTagNames.Do(useJSONFieldNames)

	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	h := &Handler{
		investors:   cfg.InvestorService,
		investments: cfg.InvestmentService,
		dashboard:   cfg.DashboardService,
		log:         log.With("component", "http"),
	}

	router := gin.New()
	router.Use(
		Recovery(log),
		RequestLogger(log),
		Metrics(cfg.Metrics),
		CORS(cfg.CORSOrigins),
	)

	// Service endpoints
	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/readyz", readiness(cfg.Ready))
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := router.Group("/api")

	// Reads
	api.GET("/investors", h.ListInvestors)
	api.GET("/investors/:taxId", h.GetInvestor)
	api.GET("/investments", h.ListInvestments)
	api.GET("/investments/:id", h.GetInvestment)
	api.GET("/investments/investor/:taxId", h.ListInvestmentsByTaxID)
	api.GET("/banks/:taxId", h.ListBanks)
	api.GET("/investment-types", h.ListAllInvestmentTypes)
	api.GET("/investment-types/:taxId", h.ListInvestmentTypes)
	api.GET("/portfolio/:taxId/summary", h.GetPortfolioSummary)

	// Writes
	write := api.Group("", RequireToken(cfg.APIToken))
	write.POST("/investors", h.RegisterInvestor)
	write.DELETE("/investors/:taxId", h.DeleteInvestor)
	write.PUT("/investors/investments", h.ReplaceInvestments)
	write.POST("/investments", h.AddInvestments)
	write.PUT("/investments", h.ReplaceInvestments)
	write.PUT("/investments/:id", h.UpdateInvestment)
	write.DELETE("/investments/:id", h.DeleteInvestment)

	return router
}

func readiness(ready func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ready != nil {
			if err := ready(c.Request.Context()); err != nil {
				c.String(http.StatusServiceUnavailable, "storage unavailable")
				return
			}
		}
		c.String(http.StatusOK, "ready")
	}
}

// useJSONFieldNames makes validation errors report JSON field names
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}
