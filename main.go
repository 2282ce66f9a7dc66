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

	"github.com/whalechillz/go-singsing-sub006/config"
	"github.com/whalechillz/go-singsing-sub006/routes"
	"github.com/whalechillz/go-singsing-sub006/services"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	db, err := config.ConnectDatabase(settings)
	if err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	log.Println("✅ Database connection established and migrations applied.")

	var sender services.SMSSender
	if settings.SolapiAPIKey != "" && settings.SolapiAPISecret != "" {
		sender = services.NewSolapiClient(settings.SolapiAPIKey, settings.SolapiAPISecret, settings.SolapiBaseURL)
		log.Println("✅ Solapi sender configured.")
	} else {
		sender = &services.MockSender{}
		log.Println("⚠️  SOLAPI_API_KEY not set; messages are logged, not sent.")
	}

	var mailer services.Mailer
	if settings.SendgridAPIKey != "" {
		mailer = services.NewSendGridMailer(settings.SendgridAPIKey, settings.MailFrom, settings.MailFromName)
	} else {
		mailer = services.LogMailer{}
		log.Println("⚠️  SENDGRID_API_KEY not set; e-mails are logged, not sent.")
	}

	if settings.OpenAIAPIKey == "" {
		log.Println("⚠️  OPENAI_API_KEY not set; letter generation disabled.")
	}

	cache := services.NewDocumentCache(settings.RedisURL, settings.PortalCacheTTL)
	defer cache.Close()

	if !settings.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRouter(settings, routes.NewDeps(db, settings, sender, mailer, cache))

	addr := ":" + settings.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// message dispatch to large tours can take a while
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("✅ Server stopped gracefully")
}
