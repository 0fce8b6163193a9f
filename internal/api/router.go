// Package api wires the HTTP surface: routes, handlers and middleware.
package api

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"movecalc/internal/api/handlers"
	"movecalc/internal/api/middleware"
	"movecalc/internal/api/models"
	"movecalc/internal/calculator"
	"movecalc/internal/identity"
	"movecalc/internal/model"

	"github.com/gin-gonic/gin"
)

// Options carries everything the router needs.
type Options struct {
	Defaults       model.Inputs
	Selector       calculator.Selector
	Directory      *identity.Directory // nil disables sign-in
	AuthLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	StaticDir      string
	RequestLog     bool
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()

	router.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.RequestLog {
		router.Use(middleware.Logger())
	}
	router.Use(middleware.ErrorHandler())

	var (
		sessions middleware.SessionLookup
		accounts handlers.Accounts
	)
	if opts.Directory != nil {
		sessions = opts.Directory
		accounts = opts.Directory
	}

	calculateHandler := handlers.NewCalculateHandler()
	defaultsHandler := handlers.NewDefaultsHandler(opts.Defaults)
	configHandler := handlers.NewConfigHandler()
	authHandler := handlers.NewAuthHandler(accounts)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/defaults", defaultsHandler.GetDefaults)
		api.GET("/tax-bands", handlers.ListTaxBands)
		api.POST("/calculate", calculateHandler.Calculate)
		api.POST("/schedule", calculateHandler.Schedule)
		api.POST("/report", calculateHandler.Report)
	}

	scoped := api.Group("", middleware.Scope(sessions, opts.Selector))
	{
		scoped.GET("/configs", configHandler.ListConfigs)
		scoped.POST("/configs", configHandler.SaveConfig)
		scoped.GET("/configs/:id", configHandler.GetConfig)
		scoped.DELETE("/configs/:id", configHandler.DeleteConfig)
	}

	auth := api.Group("/auth")
	if opts.AuthLimiter != nil {
		auth.Use(middleware.RateLimit(opts.AuthLimiter))
	}
	{
		auth.POST("/signup", authHandler.SignUp)
		auth.POST("/signin", authHandler.SignIn)
	}
	authScoped := auth.Group("", middleware.Scope(sessions, opts.Selector))
	{
		authScoped.POST("/signout", authHandler.SignOut)
		authScoped.GET("/session", authHandler.CurrentSession)
	}

	serveSPA(router, opts.StaticDir)
	return router
}

// serveSPA serves the built front end and falls back to index.html for
// client-side routes. API paths that match nothing get a JSON 404.
func serveSPA(router *gin.Engine, staticDir string) {
	hasStatic := false
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			hasStatic = true
		}
	}

	if hasStatic {
		router.Static("/assets", filepath.Join(staticDir, "assets"))
		router.StaticFile("/favicon.ico", filepath.Join(staticDir, "favicon.ico"))
		log.Printf("[API] serving static files from %s", staticDir)
	} else if staticDir != "" {
		log.Printf("[API] static directory %s not found, skipping static file serving", staticDir)
	}

	router.NoRoute(func(c *gin.Context) {
		if !hasStatic || strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "NOT_FOUND",
					Message: "Not found",
				},
			})
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	})
}
