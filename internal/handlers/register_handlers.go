package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/sloth-platform/sloth-users/cmd/docs"
	"github.com/sloth-platform/sloth-users/internal/core/ports/clients"
	portssvc "github.com/sloth-platform/sloth-users/internal/core/ports/services"
	"github.com/sloth-platform/sloth-users/internal/middleware"
	"github.com/sloth-platform/sloth-users/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	userService portssvc.UserSvcFacade,
	verifier clients.TokenVerifier,
	logger *slog.Logger,
) {
	// Add health check route
	r.GET("/health", GetHealth)

	registerUserRoutes(r, cfg, userService, verifier, logger)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// registerUserRoutes wires the /api/v1/<service-name> group. Mutating and
// read endpoints sit behind the token mediation guard; signup and the reset
// flows are public but rate limited.
func registerUserRoutes(
	r *gin.Engine,
	cfg *config.Config,
	userService portssvc.UserSvcFacade,
	verifier clients.TokenVerifier,
	logger *slog.Logger,
) {
	h := newUserHandler(userService)
	rh := newPasswordResetHandler(userService)

	// Rate limit for the unauthenticated and code-guessing-prone endpoints.
	ipLimiter, err := middleware.NewIPRateLimiter("10-M")
	if err != nil {
		logger.Error("Failed to build rate limiter, endpoints left unlimited", slog.String("error", err.Error()))
	}
	limited := func() gin.HandlerFunc {
		if ipLimiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimit(ipLimiter)
	}()

	users := r.Group("/api/v1/" + cfg.ServiceName)
	{
		users.POST("", limited, h.createUser)
		users.POST("/reset_password", limited, rh.resetPassword)
		users.POST("/request_password_reset", limited, rh.requestPasswordReset)

		protected := users.Group("", middleware.TokenMediation(verifier))
		{
			protected.GET("", h.listUsers)
			protected.GET("/:userID", h.getUser)
			protected.PATCH("/:userID", h.updateUser)
			protected.DELETE("/:userID", h.deleteUser)
			protected.POST("/verify_code/:userID", limited, h.verifyCode)
		}
	}
}

func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
