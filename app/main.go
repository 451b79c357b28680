package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"time"

	"schoolhub/config"
	"schoolhub/domain"
	"schoolhub/services/school/delivery"
	"schoolhub/services/school/repository"
	"schoolhub/services/school/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var log *logrus.Logger
var wg sync.WaitGroup

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on process environment")
	}

	log = config.GetLogrusInstance()

	startHTTP()
}

func startHTTP() {
	log.Info("Starting HTTP")
	app := fiber.New(config.GetFiberConfig())

	// CORS Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	if _, err := config.BootDB(); err != nil {
		log.Fatalf("Failed to boot DB: %v", err)
		return
	}

	pool, err := config.BootPool(context.Background())
	if err != nil {
		log.Fatalf("Failed to boot connection pool: %v", err)
		return
	}
	defer pool.Close()

	cldCfg := config.GetCloudinaryConfig()
	var images domain.ImageStore
	if cldCfg.Configured() {
		images, err = repository.NewCloudinaryImageStore(cldCfg)
		if err != nil {
			log.Fatalf("Failed to init image store: %v", err)
			return
		}
	} else {
		log.Warn("Image host not configured, storing inline image representations")
	}

	schoolRepo := repository.NewSchoolRepository(pool)
	schoolUC := usecase.NewSchoolUseCase(schoolRepo, images, cldCfg.Folder, 60*time.Second, log)

	delivery.NewSchoolDelivery(app, schoolUC)
	delivery.NewHealthDelivery(app)

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infof("Starting HTTP server for Public on port %s", config.GetFiberHttpPort())
		if err := app.Listen(config.GetFiberListenAddress()); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, os.Kill)

	<-signalChan

	log.Info("Shutting down the server...")

	if err := app.Shutdown(); err != nil {
		log.Errorf("Error during server shutdown: %v", err)
	}

	wg.Wait()
	log.Info("Server shut down gracefully")
}
