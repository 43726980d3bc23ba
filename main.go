package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"daliago/internal/api"
	"daliago/internal/config"
	"daliago/internal/gemini"
	"daliago/internal/history"
	"daliago/internal/image"
	"daliago/internal/keepalive"
	"daliago/internal/service/chat"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	model, err := gemini.NewClient(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		log.Fatalf("init gemini client: %v", err)
	}

	// History degrades to an empty context when the store is unreachable;
	// the service itself must keep answering.
	var store history.Store
	fsStore, err := history.NewFirestoreStore(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Printf("firestore unavailable, continuing without history: %v", err)
	} else {
		store = fsStore
		defer fsStore.Close()
	}

	normalizer := image.NewNormalizer(cfg.ScratchDir, &http.Client{Timeout: 30 * time.Second})
	sweepCtx, sweepCancel := context.WithCancel(ctx)
	defer sweepCancel()
	normalizer.StartSweeper(sweepCtx, cfg.SweepInterval, cfg.ScratchTTL)

	chatService := chat.NewService(model, model, store)
	handlers := api.NewHandler(chatService, normalizer)

	router := gin.Default()
	router.Use(cors.Default())
	handlers.RegisterRoutes(router)

	if cfg.KeepaliveURL != "" {
		pinger := keepalive.New(cfg.KeepaliveURL, cfg.KeepaliveInterval, nil)
		pinger.Start()
		defer pinger.Stop()
	}

	if err := router.Run(cfg.ServerAddress); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
