package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore-backend/internal/client"
	"bookstore-backend/internal/config"
	"bookstore-backend/internal/metrics"
	"bookstore-backend/internal/repository"
	"bookstore-backend/internal/server"
	"bookstore-backend/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitSqliteClient(cfg.DatabasePath)

	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	cartRepo := repository.NewCartRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	paymentMethodRepo := repository.NewPaymentMethodRepository(db)

	if err := bookRepo.Seed(context.Background()); err != nil {
		log.Fatal("failed to seed catalog:", err)
	}

	checkoutMetrics := metrics.NewCheckoutMetrics()

	userService := service.NewUserService(db, userRepo, cartRepo, addressRepo, paymentMethodRepo, cfg.JWT)
	catalogService := service.NewCatalogService(bookRepo)
	cartService := service.NewCartService(db, cartRepo, bookRepo, userRepo)
	addressService := service.NewAddressService(db, addressRepo, userRepo)
	paymentMethodService := service.NewPaymentMethodService(db, paymentMethodRepo, userRepo)
	orderService := service.NewOrderService(db, orderRepo, userRepo, cartRepo)
	paymentService := service.NewPaymentService(db, paymentRepo, orderRepo)

	checkoutService := service.NewCheckoutService(
		db,
		userRepo,
		cartRepo,
		orderRepo,
		paymentRepo,
		paymentMethodRepo,
		addressService,
		paymentMethodService,
		service.NewInventoryLedger(bookRepo),
		service.NewMockAuthorizer(),
		checkoutMetrics,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(
		cfg.JWT.Secret,
		userService,
		catalogService,
		cartService,
		addressService,
		paymentMethodService,
		orderService,
		checkoutService,
		paymentService,
	)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
