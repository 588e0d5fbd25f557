package main

import (
	"log"

	"dotmd/internal/config"
	"dotmd/internal/db"
	"dotmd/internal/middleware"
	"dotmd/internal/router"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Configuration is read once here and threaded through explicitly.
	cfg := config.Load()

	// Initialize Database
	gdb := db.Init(cfg)

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("dotmd_session", store))

	// Middleware
	r.Use(middleware.LoadUser(gdb))

	// Routes
	router.RegisterRoutes(r, gdb, cfg)

	log.Printf("dotmd server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
