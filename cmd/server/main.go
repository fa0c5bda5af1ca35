package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/instamart/backend/internal/config"
	"github.com/instamart/backend/internal/handlers"
	"github.com/instamart/backend/internal/logging"
	authmw "github.com/instamart/backend/internal/middleware/auth"
	loggingmw "github.com/instamart/backend/internal/middleware/logging"
	"github.com/instamart/backend/internal/mykafka"
	"github.com/instamart/backend/internal/service/session"
	httpserver "github.com/instamart/backend/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(context.Background(), configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var prod *mykafka.Producer
	if brokers := configuration.KafkaBrokers(); len(brokers) > 0 {
		prod, err = mykafka.NewProducer(brokers)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		logger.Info("kafka disabled, no KAFKA_ADDRESS configured")
	}

	sessions := &session.Service{DB: db, Secret: []byte(configuration.JWT_SECRET)}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:              db,
		AuthHandler:     &handlers.AuthHandler{DB: db, Sessions: sessions, Producer: prod},
		CatalogHandler:  &handlers.CatalogHandler{DB: db, Producer: prod},
		CartHandler:     &handlers.CartHandler{DB: db, Producer: prod},
		CheckoutHandler: &handlers.CheckoutHandler{DB: db, Producer: prod},
		HealthHandler:   &handlers.HealthHandler{DB: db},
		PageHandler:     &handlers.PageHandler{Sessions: sessions},
		Auth:            &authmw.Middleware{Sessions: sessions},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if prod != nil {
		if err := prod.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
