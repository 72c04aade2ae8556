package main

import (
	"context"
	"log"

	"recruitment-service/config"
	"recruitment-service/infra/queue"
	httpadapter "recruitment-service/internal/adapter/http"
	repo "recruitment-service/internal/adapter/repository"
	"recruitment-service/internal/infrastructure/migration"
	"recruitment-service/internal/interfaces"
	"recruitment-service/internal/usecase"
	cldpkg "recruitment-service/pkg/cloudinary"
	infra "recruitment-service/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	pool, err := infra.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database not available: %v", err)
	}
	if err := migration.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	var uploader interfaces.Uploader
	if cfg.CloudinaryURL != "" {
		cld, err := cldpkg.New()
		if err != nil {
			log.Printf("warning: cloudinary not available: %v", err)
		} else {
			uploader = cldpkg.NewCloudinaryUploader(cld)
		}
	}

	var producer interfaces.ProducerHandler
	if cfg.KafkaBroker != "" {
		producer = queue.NewProducer(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaUsername, cfg.KafkaPassword)
	}

	renderer := infra.NewChromedpRenderer()
	apps := repo.NewApplicationsRepo(pool)
	jobs := repo.NewJobsRepo(pool)
	ledger := repo.NewLedgerRepo(pool)

	issuer := usecase.NewIssuer(renderer, apps, ledger, uploader, cfg.StorageDir, cfg.BaseURL)
	wf := usecase.NewWorkflow(apps, ledger, issuer, producer)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Content-Type, Accept, Authorization, X-Employee-Id, X-Employee-Username, X-Employee-Role",
	}))

	h := httpadapter.NewHandler(wf, apps, jobs, ledger, issuer, httpadapter.AllowAll{})
	h.Register(app)

	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
