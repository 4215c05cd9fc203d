package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/tazhibayda/algojourney/internal/metrics"
)

type RouterOptions struct {
	ServiceName       string
	Limiter           Limiter // nil disables rate limiting
	KanbanRequireAuth bool
}

func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	RegisterValidators()
	metrics.MustRegister()
	if opts.ServiceName == "" {
		opts.ServiceName = "algojourney-api"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Tracing(opts.ServiceName))
	r.Use(Metrics())
	r.Use(Logger())

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/register", RateLimit(opts.Limiter, "register"), h.Register)
	r.POST("/verify-otp", RateLimit(opts.Limiter, "verify"), h.VerifyOtp)
	r.POST("/resend-otp", RateLimit(opts.Limiter, "resend"), h.ResendOtp)
	r.POST("/login", h.Login)

	auth := AuthJWT(h.Tokens)

	kanban := r.Group("/kanban")
	if opts.KanbanRequireAuth {
		kanban.Use(auth)
	}
	kanban.GET("", h.GetKanban)
	kanban.PUT("", h.PutKanban)

	private := r.Group("/", auth)
	{
		private.GET("/home", h.Home)
		private.GET("/template", h.GetTemplates)
		private.PUT("/template", h.PutTemplate)
		private.GET("/pomodoro", h.GetPomodoro)
		private.PUT("/pomodoro", h.PutPomodoro)
		private.PUT("/profile/handle", h.LinkHandle)
		private.GET("/potd", h.GetPotd)
	}
	return r
}
