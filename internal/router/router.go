package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/appointment-booking/internal/handler/booking"
	"github.com/jwalitptl/appointment-booking/internal/handler/doctor"
	"github.com/jwalitptl/appointment-booking/internal/handler/health"
	"github.com/jwalitptl/appointment-booking/internal/handler/patient"
	"github.com/jwalitptl/appointment-booking/internal/handler/prometheus"
	"github.com/jwalitptl/appointment-booking/internal/middleware"
)

type RouterConfig struct {
	Mode           string
	RateLimit      rate.Limit
	RateBurst      int
	RateLimitOff   bool
	RequestTimeout time.Duration
	MaxBodySize    int64
	CORSConfig     middleware.CORSConfig
	Idempotency    middleware.IdempotencyConfig
	MetricsPath    string
	MetricsOff     bool
	Logger         *zerolog.Logger
}

type Router struct {
	engine      *gin.Engine
	config      RouterConfig
	doctorH     *doctor.Handler
	patientH    *patient.Handler
	bookingH    *booking.Handler
	healthH     *health.Handler
	metricsH    *prometheus.Handler
	idempotency *middleware.Idempotency
}

func NewRouter(
	doctorH *doctor.Handler,
	patientH *patient.Handler,
	bookingH *booking.Handler,
	healthH *health.Handler,
	metricsH *prometheus.Handler,
	config RouterConfig,
) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = middleware.DefaultSizeLimitConfig().MaxBodySize
	}

	middleware.InstallValidator()

	engine := gin.New() // Use New() instead of Default() for more control

	r := &Router{
		engine:      engine,
		config:      config,
		doctorH:     doctorH,
		patientH:    patientH,
		bookingH:    bookingH,
		healthH:     healthH,
		metricsH:    metricsH,
		idempotency: middleware.NewIdempotency(config.Idempotency),
	}

	// Add core middlewares
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(config.Logger),
		middleware.Recovery(),
		middleware.ErrorHandler(),
		metricsH.Middleware(),
		middleware.CORS(config.CORSConfig),
	)

	if !config.RateLimitOff {
		// Configure rate limiter
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	r.healthH.RegisterRoutes(&r.engine.RouterGroup)
	if !r.config.MetricsOff {
		r.engine.GET(r.config.MetricsPath, r.metricsH.Handler())
	}

	api := r.engine.Group("/api/v1")

	// Add version header
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})
	api.Use(
		middleware.SizeLimit(middleware.SizeLimitConfig{MaxBodySize: r.config.MaxBodySize}),
		middleware.Timeout(middleware.TimeoutConfig{Duration: r.config.RequestTimeout}),
	)

	r.doctorH.RegisterRoutes(api)
	r.patientH.RegisterRoutes(api)
	r.bookingH.RegisterRoutes(api, r.idempotency.Middleware())
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
