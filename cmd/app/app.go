package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"blogcms/internal/config"
	"blogcms/internal/database"
	handlers "blogcms/internal/handler"
	"blogcms/internal/mailer"
	"blogcms/internal/metrics"
	"blogcms/internal/repository"
	"blogcms/internal/service"
	"blogcms/internal/storage"
)

const bucketTimeout = 10 * time.Second

// App connects the backing services and assembles the handler set. Any
// failure here is fatal.
func App(cfg *config.Config, log *logrus.Logger) (*database.DB, *handlers.Handlers) {
	// connection DB
	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	// connection MinIO
	minioClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		log.WithError(err).Fatal("failed to initialise MinIO")
	}

	ctx, cancel := context.WithTimeout(context.Background(), bucketTimeout)
	defer cancel()
	if err := minioClient.EnsureBucket(ctx); err != nil {
		log.WithError(err).Fatal("failed to prepare image bucket")
	}

	// enabling dependencies
	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, minioClient, mailer.New(cfg.SMTP, cfg.SiteURL), log)

	h, err := handlers.NewHandlers(services, cfg, minioClient, handlers.NewSessionStore(cfg), metrics.New(), db, log)
	if err != nil {
		log.WithError(err).Fatal("failed to load page templates")
	}

	return db, h
}
