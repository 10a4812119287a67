package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/centerdesk/session-scheduler-api/pkg/auth"
	"github.com/centerdesk/session-scheduler-api/pkg/database"
	"github.com/centerdesk/session-scheduler-api/pkg/handlers"
)

var router *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	db := database.InitDB()
	if _, err := auth.EnsureAdminExists(db); err != nil {
		logger.Fatal("could not bootstrap admin user", zap.Error(err))
	}
	h := handlers.New(db, logger)

	gin.SetMode(gin.ReleaseMode)
	router = gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	h.Register(router)
}

// Handler is the entry point for the Vercel Go runtime.
func Handler(w http.ResponseWriter, req *http.Request) {
	router.ServeHTTP(w, req)
}
