package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/udislau/ppe-agents/internal/api"
	"github.com/udislau/ppe-agents/internal/api/handlers"
	"github.com/udislau/ppe-agents/internal/api/middleware"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	store := api.NewRunStore()
	simulateHandler := handlers.NewSimulateHandler(store, log)
	streamHandler := handlers.NewStreamHandler(log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/simulate", simulateHandler.RunSimulation)
		v1.GET("/simulate/stream", streamHandler.Stream)
		v1.GET("/runs/:id/history", simulateHandler.GetHistory)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Infof("starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
