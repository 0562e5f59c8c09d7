package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/controllers"
	"github.com/eventpix/eventpix/app/repository"
	"github.com/eventpix/eventpix/internal/pkg/billing"
	"github.com/eventpix/eventpix/internal/pkg/cache"
	"github.com/eventpix/eventpix/internal/pkg/database"
	"github.com/eventpix/eventpix/internal/pkg/env"
	"github.com/eventpix/eventpix/internal/pkg/facematch"
	"github.com/eventpix/eventpix/internal/pkg/router"
	"github.com/eventpix/eventpix/internal/pkg/storage"
)

func main() {
	app, db := NewApplication()
	defer func() {
		if err := database.Close(db); err != nil {
			log.Errorf("[App] failed to close database: %v", err)
		}
	}()

	// graceful shutdown on SIGINT/SIGTERM
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info("[App] shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("[App] shutdown error: %v", err)
		}
	}()

	addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))
	if err := app.Listen(addr); err != nil {
		log.Fatalf("[App] server error: %v", err)
	}
}

func NewApplication() (*fiber.App, *gorm.DB) {
	env.SetupEnvFile()

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("[App] database connection failed: %v", err)
	}
	repository.InitializeFactory(db)

	cache.SetupCache()

	storageCfg, err := storage.LoadConfig()
	if err != nil {
		log.Fatalf("[App] storage configuration invalid: %v", err)
	}
	fileStorage, err := storage.NewS3Storage(storageCfg)
	if err != nil {
		log.Fatalf("[App] storage setup failed: %v", err)
	}

	repos := repository.GetGlobalRepositories()
	controllers.Setup(
		fileStorage,
		facematch.NewHTTPTrigger(),
		billing.NewService(repos.Billing, repos.Organization),
	)

	app := fiber.New(fiber.Config{
		BodyLimit: 52428800, // 50 MiB, matches the upload cap
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// ROUTER
	router.InstallRouter(app)

	return app, db
}
