package main

import (
	"os"

	"BeykushStoreAPI/external/commerce"
	"BeykushStoreAPI/internal/db"
	"BeykushStoreAPI/internal/middleware"
	"BeykushStoreAPI/internal/repository"
	"BeykushStoreAPI/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// ======================
	// INFRA
	// ======================
	var store repository.Store
	if os.Getenv("DATABASE_URL") != "" {
		pool, err := db.Connect()
		if err != nil {
			logger.Fatal("database connect failed", zap.Error(err))
		}
		defer pool.Close()
		store = repository.NewCartRepository(pool, logger)
	} else {
		logger.Warn("DATABASE_URL not set, cart snapshots are held in memory only")
		store = repository.NewMemoryStore()
	}

	// ======================
	// EXTERNALS
	// ======================
	commerceClient, err := commerce.NewClient(logger)
	if err != nil {
		logger.Fatal("commerce client init failed", zap.Error(err))
	}

	// ======================
	// SERVICES
	// ======================
	cartSvc := services.NewCartService(store, commerceClient, commerceClient, logger)
	productSvc := services.NewProductService(commerceClient)
	checkoutSvc := services.NewCheckoutService(commerceClient, cartSvc)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	api := e.Group("/store")
	api.Use(middleware.CartSession())

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerCartRoutes(api, cartSvc)
	registerProductRoutes(api, productSvc)
	registerCheckoutRoutes(api, checkoutSvc)

	// ======================
	// SERVER
	// ======================
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
