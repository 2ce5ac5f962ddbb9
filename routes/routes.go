// Package routes assembles the gin engine serving the Bigfoot API.
package routes

import (
	"net/http"
	"time"

	"github.com/bigfoot-cleaning/bigfoot-api/config"
	"github.com/bigfoot-cleaning/bigfoot-api/controllers"
	"github.com/bigfoot-cleaning/bigfoot-api/metrics"
	"github.com/bigfoot-cleaning/bigfoot-api/middleware"
	"github.com/bigfoot-cleaning/bigfoot-api/models"
	"github.com/bigfoot-cleaning/bigfoot-api/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Setup builds the router with every middleware and route registered
func Setup(cfg *config.Config, tokens *services.TokenService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authn := middleware.NewAuthenticator(tokens)
	router.Use(middleware.RouteGate(authn))

	authController := controllers.NewAuthController(tokens, cfg.IsProduction())
	staffOnly := middleware.RequireRole(models.RoleEmployee, models.RoleAdmin)
	usersOnly := middleware.RequireRole(models.RoleUser)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", controllers.HealthCheck)
		api.GET("/database/status", controllers.DatabaseStatus)

		// Accounts
		api.POST("/signup", authController.SignUp)
		api.POST("/login", authController.Login)
		api.POST("/employeeSignUp", authn.OptionalSession(), authController.EmployeeSignUp)
		api.POST("/employeeLogin", authController.EmployeeLogin)
		api.POST("/logout", authn.OptionalSession(), authController.Logout)
		api.DELETE("/logout", authn.OptionalSession(), authController.Logout)

		api.GET("/user", authn.RequireSession(), usersOnly, controllers.GetCurrentUser)
		api.GET("/employee", authn.RequireSession(), staffOnly, controllers.GetCurrentEmployee)

		profile := api.Group("/profile", authn.RequireSession(), usersOnly)
		{
			profile.POST("/create", controllers.CreateProfile)
			profile.GET("/get", controllers.GetProfile)
			profile.PUT("/put", controllers.UpdateProfile)
		}

		quote := api.Group("/quote")
		{
			quote.POST("/create", authn.OptionalSession(), controllers.CreateQuote)
			quote.GET("/get", authn.OptionalSession(), controllers.ListQuotes)
			quote.DELETE("/delete", authn.RequireSession(), staffOnly, controllers.DeleteQuote)
			quote.POST("/photo", authn.RequireSession(), controllers.UploadQuotePhoto)
		}

		api.GET("/uploads/:filename", controllers.GetUploadedImage)
	}

	return router
}
