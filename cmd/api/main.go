package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plateful/recipe-api/config"
	"github.com/plateful/recipe-api/internal/api"
	"github.com/plateful/recipe-api/internal/database"
	"github.com/plateful/recipe-api/internal/middleware"
	"github.com/plateful/recipe-api/internal/router"
	"github.com/plateful/recipe-api/internal/server"
	"github.com/plateful/recipe-api/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var writeLimiter *middleware.RateLimiter
	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		log.Printf("Redis unavailable, continuing without rate limiting: %v", err)
	} else {
		writeLimiter = middleware.NewWriteRateLimiter(redisClient)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	tagService := service.NewTagService(db)
	ingredientService := service.NewIngredientService(db)

	var imageService *service.ImageService
	if blobs, err := config.NewS3Store(context.Background(), cfg); err != nil {
		log.Printf("Blob storage unavailable, continuing without image upload: %v", err)
	} else {
		imageService = service.NewImageService(db, blobs)
	}

	engine := router.SetupRouter(router.Options{
		Users:          api.NewUserHandler(authService),
		Recipes:        api.NewRecipeHandler(recipeService, imageService),
		Tags:           api.NewTagHandler(tagService),
		Ingredients:    api.NewIngredientHandler(ingredientService),
		TokenValidator: authService,
		WriteLimiter:   writeLimiter,
		CORSOrigins:    nil,
	})

	srv := server.New(engine, cfg.ServerHost+":"+cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
