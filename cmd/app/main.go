package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"orderflow/cmd"
	"orderflow/internal/adapters/out/postgres/chatrepo"
	"orderflow/internal/adapters/out/postgres/eventrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := cmd.LoadConfig()

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&chatrepo.ChatMessageDTO{},
		&eventrepo.EventDTO{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	jobManager, err := app.CreateJobManager()
	if err != nil {
		log.Fatalf("Failed to create background jobs: %v", err)
	}
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	app.CreateHTTPServer().RegisterRoutes(e)
	e.GET("/ws", app.CreateWSHandler().Handle)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
