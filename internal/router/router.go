// Package router assembles the gin engine and its route table.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/course-enrollment-api/internal/handler"
	"github.com/noah-isme/course-enrollment-api/internal/middleware"
	"github.com/noah-isme/course-enrollment-api/internal/service"
	"github.com/noah-isme/course-enrollment-api/pkg/config"
	"github.com/noah-isme/course-enrollment-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-enrollment-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-enrollment-api/pkg/middleware/requestid"
)

// Dependencies carries everything the route table binds.
type Dependencies struct {
	Config        *config.Config
	Logger        *zap.Logger
	Metrics       *service.MetricsService
	Guard         *service.AdminGuard
	Enrollments   *handler.EnrollmentHandler
	Catalog       *handler.CatalogHandler
	Club          *handler.ClubHandler
	Admin         *handler.AdminHandler
	Observability *handler.MetricsHandler
}

// New builds the HTTP engine.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{APIPrefix: "/api/v1", AdminPrefix: "/admin"}
	}
	logr := deps.Logger
	if logr == nil {
		logr = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(deps.Metrics, "/metrics", "/health", "/ready"))
	}

	if deps.Observability != nil {
		r.GET("/health", deps.Observability.Health)
		r.GET("/ready", deps.Observability.Ready)
		if cfg.Metrics.Enabled {
			r.GET("/metrics", deps.Observability.Prometheus)
		}
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	if h := deps.Enrollments; h != nil {
		api.POST("/inscricao", h.Create)
		api.POST("/paymentlink", h.PaymentLink)
		api.GET("/pagamento-info", h.PricingInfo)
		api.POST("/isAssinatura", h.Subscription)
	}
	if h := deps.Catalog; h != nil {
		api.GET("/cursos", h.Courses)
		api.GET("/checa-cupom", h.CheckCoupon)
	}
	if h := deps.Club; h != nil {
		api.POST("/clube/interesse", h.Register)
		api.GET("/clube/interesse", h.Check)
	}

	if h := deps.Admin; h != nil {
		admin := api.Group(cfg.AdminPrefix, middleware.Admin(deps.Guard))
		admin.GET("/inscricoes", h.List)
		admin.GET("/inscricoes/export", middleware.Audit(logr, "enrollment.export"), h.Export)
		admin.GET("/inscricoes/:id", h.Get)
		admin.DELETE("/inscricoes/:id", middleware.Audit(logr, "enrollment.delete"), h.Delete)
	}

	return r
}
