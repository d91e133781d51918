package main

import (
	"context"
	"log"
	"time"

	"dexadash/internal/config"
	"dexadash/internal/container"
	"dexadash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, reading configuration from the environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	c, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create container: %v", err)
	}

	// Both tables are loaded once; a configured source that fails is fatal
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.FetchTimeout+10*time.Second)
	defer cancel()
	if err := c.Init(ctx); err != nil {
		log.Fatalf("Failed to load DEXA data: %v", err)
	}

	server, err := ui.NewServer(ui.Dependencies{
		Assembler:  c.Assembler,
		Sessions:   c.Selections,
		CookieName: cfg.Session.CookieName,
		SessionTTL: cfg.Session.TTL,
		Logger:     c.Logger,
	})
	if err != nil {
		log.Fatalf("Failed to create UI server: %v", err)
	}

	if err := server.Start(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
