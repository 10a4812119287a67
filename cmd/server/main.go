package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/centerdesk/session-scheduler-api/pkg/auth"
	"github.com/centerdesk/session-scheduler-api/pkg/database"
	"github.com/centerdesk/session-scheduler-api/pkg/handlers"
)

func main() {
	// Load .env if it exists. Try parent directories for flexibility.
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.InitDB()
	if username, err := auth.EnsureAdminExists(db); err != nil {
		logger.Fatal("could not bootstrap admin user", zap.Error(err))
	} else if username != "" {
		logger.Info("default admin user created", zap.String("username", username))
	}

	h := handlers.New(db, logger)

	r := gin.Default()
	h.Register(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	logger.Info("server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("could not run server", zap.Error(err))
	}
}
