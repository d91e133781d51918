package main

import (
	"context"
	"log"
	"time"

	"dexadash/internal/config"
	"dexadash/internal/container"
	"dexadash/ui"

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

	c, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create container: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.FetchTimeout+10*time.Second)
	defer cancel()
	if err := c.Init(ctx); err != nil {
		log.Fatalf("Failed to load DEXA data: %v", err)
	}

	app := ui.NewApp(c.Assembler, c.Logger)
	if err := app.Start(":" + cfg.API.Port); err != nil {
		log.Fatal("Server failed:", err)
	}
}
