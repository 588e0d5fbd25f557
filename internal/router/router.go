package router

import (
	"net/http"

	"dotmd/internal/config"
	"dotmd/internal/handlers"
	"dotmd/internal/middleware"
	"dotmd/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, gdb *gorm.DB, cfg config.Config) {
	// Handlers
	authHandler := handlers.NewAuthHandler(gdb, cfg)
	configHandler := handlers.NewConfigHandler(services.NewConfigService(gdb), services.NewBrowseService(gdb))
	voteHandler := handlers.NewVoteHandler(services.NewVoteService(gdb))
	subscribeHandler := handlers.NewSubscribeHandler(services.NewSubscriberService(gdb, services.NewMailService(cfg)))
	catalogHandler := handlers.NewCatalogHandler(gdb)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Identity provider glue
	r.GET("/auth/google", authHandler.GoogleLogin)
	r.GET("/auth/google/callback", authHandler.GoogleCallback)
	r.GET("/auth/logout", authHandler.Logout)

	api := r.Group("/api")
	{
		// Public read surfaces
		api.GET("/browse", configHandler.Browse)           // filtered, sorted, paginated read model
		api.GET("/search", configHandler.Search)           // store-side full-text search
		api.GET("/configs", configHandler.Export)          // full published export
		api.GET("/configs/:slug", configHandler.Detail)    // config detail with vote tallies
		api.GET("/catalog/tools", catalogHandler.Tools)    // filter/submission options
		api.GET("/catalog/tags", catalogHandler.Tags)
		api.GET("/catalog/file-types", catalogHandler.FileTypes)
		api.GET("/me", authHandler.Me)

		// Public actions
		api.POST("/subscribe", subscribeHandler.Subscribe)
		api.POST("/vote/helpful", voteHandler.Helpful) // anonymous helpful toggle

		// Authenticated actions
		authorized := api.Group("")
		authorized.Use(middleware.AuthRequired())
		{
			authorized.POST("/submit", configHandler.Submit)
			authorized.POST("/vote", voteHandler.Vote) // per-tool vote toggle
		}
	}
}
