package app

import (
	"SkillTrack/internal/app/server"
	"SkillTrack/internal/config"
	"SkillTrack/internal/delivery/http"
	"SkillTrack/internal/events"
	"SkillTrack/internal/observability"
	"SkillTrack/internal/service"
	"SkillTrack/internal/service/analytics"
	"SkillTrack/internal/service/auth"
	"SkillTrack/internal/service/content"
	"SkillTrack/internal/service/course"
	"SkillTrack/internal/service/course/enrollment"
	"SkillTrack/internal/service/course/rating"
	"SkillTrack/internal/service/lesson/progress"
	"SkillTrack/internal/service/payment"
	"SkillTrack/internal/storage"
	"SkillTrack/internal/storage/memory"
	"SkillTrack/internal/storage/minio_storage"
	"SkillTrack/internal/storage/postgres"
	"SkillTrack/pkg/logger"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run(cfg *config.Config) {
	log := logger.New(cfg.Env)
	defer log.Sync()
	log.Info("Starting with Env: " + cfg.Env)

	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(log, cfg.Env, cfg.Tracing)
	if err != nil {
		log.FatalErr("error initializing tracing", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.ErrorErr("tracing shutdown", err)
		}
	}()

	repos, err := openStorage(ctx, log, cfg)
	if err != nil {
		log.FatalErr("error opening storage", err)
	}
	defer repos.Close()

	publisher, closePublisher := openPublisher(log, cfg.Redis)
	defer func() {
		if err := closePublisher(); err != nil {
			log.ErrorErr("event publisher close", err)
		}
	}()
	reports := openReportStorage(ctx, log, cfg.Minio)

	tokens, err := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Issuer)
	if err != nil {
		log.FatalErr("error initializing token verifier", err)
	}

	gateway := payment.NewMockGateway(cfg.Payment.Timeout, cfg.Payment.DeclinedTokens)

	u := service.Collection{
		Tokens:      tokens,
		Courses:     course.NewCourseService(log, repos.Courses),
		Content:     content.NewContentService(log, repos.Courses, repos.Content),
		Enrollments: enrollment.NewEnrollmentService(log, repos.Courses, repos.Enrollments, gateway, publisher),
		Progress:    progress.NewProgressService(log, repos.Courses, repos.Content, repos.Enrollments, repos.Progress, publisher),
		Ratings:     rating.NewCourseRatingService(log, repos.Enrollments, repos.Ratings),
		Analytics:   analytics.NewAnalyticsService(log, cfg.Analytics, repos.Courses, repos.Enrollments, repos.Content, repos.Progress, reports),
	}

	r := http.InitRoutes(log, u, http.RouterOptions{
		AllowedOrigins: cfg.HTTPServer.AllowedOrigins,
		ServiceName:    cfg.Tracing.ServiceName,
	})

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	log.Info("http server started", "address", cfg.HTTPServer.Address)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		if err != nil {
			log.ErrorErr("http server stopped", err)
		}
	}
	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("http server shutdown", err)
	}
}

func openStorage(ctx context.Context, log logger.Log, cfg *config.Config) (storage.Repositories, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.New().Repositories(), nil
	case config.DriverPostgres, "":
		pg, err := postgres.NewPostgresPool(ctx, postgres.Options{
			Host:         cfg.Postgres.Host,
			Port:         cfg.Postgres.Port,
			User:         cfg.Postgres.User,
			Password:     cfg.Postgres.Password,
			DBName:       cfg.Postgres.DBName,
			MaxConns:     cfg.Postgres.MaxConns,
			QueryTimeout: cfg.Postgres.QueryTimeout,
		})
		if err != nil {
			return storage.Repositories{}, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.Migrate {
			migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()
			if err := pg.Migrate(migrateCtx); err != nil {
				pg.Close()
				return storage.Repositories{}, fmt.Errorf("migrate: %w", err)
			}
			log.Info("database migrations applied")
		}
		return pg.Repositories(), nil
	}
	return storage.Repositories{}, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// openPublisher returns the event publisher and a func that releases it on
// shutdown.
func openPublisher(log logger.Log, cfg config.Redis) (events.Publisher, func() error) {
	nop := func() error { return nil }
	if cfg.Addr == "" {
		return events.NopPublisher{}, nop
	}
	pub, err := events.NewRedisPublisher(cfg.Addr, cfg.Channel, cfg.DialTimeout)
	if err != nil {
		log.Warn("redis unavailable, learning events disabled", "err", err.Error())
		return events.NopPublisher{}, nop
	}
	log.Info("publishing learning events", "channel", cfg.Channel)
	return pub, pub.Close
}

// openReportStorage returns nil when MinIO is not configured so analytics
// exports answer with ErrReportStorageDisabled.
func openReportStorage(ctx context.Context, log logger.Log, cfg config.Minio) analytics.ReportStorage {
	if cfg.Endpoint == "" {
		return nil
	}
	ms, err := minio_storage.NewMinioStorage(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.UseSSL)
	if err != nil {
		log.Warn("minio client init failed, report export disabled", "err", err.Error())
		return nil
	}
	bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	reports, err := minio_storage.NewReportStorage(bucketCtx, ms, cfg.Reports.Name, cfg.Reports.PresignTTL)
	if err != nil {
		log.Warn("minio bucket unavailable, report export disabled", "err", err.Error())
		return nil
	}
	return reports
}
