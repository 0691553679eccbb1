package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/fourline/server/internal/config"
	"github.com/fourline/server/internal/metrics"
	"github.com/fourline/server/internal/service/cleanup"
	"github.com/fourline/server/internal/service/game"
	"github.com/fourline/server/internal/transport/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.LoadConfig()

	registry := game.NewRegistry()
	connManager := websocket.NewConnectionManager()
	gameService := game.NewService(registry, connManager, game.Timings{
		BroadcastDelay: cfg.BroadcastDelay(),
		BotDelay:       cfg.BotDelay(),
		TeardownGrace:  cfg.TeardownGrace(),
	})

	worker := cleanup.NewWorker(gameService,
		cfg.RematchSweepInterval(), cfg.RematchTimeout(),
		cfg.SessionSweepInterval(), cfg.SessionTTL())
	worker.Start()
	defer worker.Stop()

	wsHandler := websocket.NewHandler(connManager, gameService, cfg.AllowedOrigins)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/ws", wsHandler.HandleWebSocket)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": registry.SessionCount()})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
