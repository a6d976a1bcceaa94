package wire

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/reeltracker/worker/internal/config"
	"github.com/reeltracker/worker/internal/enrich"
	"github.com/reeltracker/worker/internal/job"
	"github.com/reeltracker/worker/internal/pkg/cron"
	"github.com/reeltracker/worker/internal/pkg/database"
	"github.com/reeltracker/worker/internal/pkg/es"
	"github.com/reeltracker/worker/internal/pkg/kafka"
	"github.com/reeltracker/worker/internal/pkg/logger"
	"github.com/reeltracker/worker/internal/pkg/minio"
	"github.com/reeltracker/worker/internal/pkg/mongo"
	"github.com/reeltracker/worker/internal/pkg/redis"
	"github.com/reeltracker/worker/internal/repository"
	"github.com/reeltracker/worker/internal/upstream"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// WorkerContainer holds every top-level component cmd/worker needs to
// run and shut down cleanly.
type WorkerContainer struct {
	DB        *gorm.DB
	CronMgr   *cron.Manager
	Producer  *kafka.Producer
	MongoDB   *mongodriver.Database
	Schedules repository.ScheduleRepo
	Heartbeats repository.HeartbeatRepo

	Intervals jobIntervals
}

// BuildWorkerApplication wires the Store, every optional integration,
// the Upstream Client, the Media Enricher, and the four Scheduler jobs
// into one cron Manager.
func BuildWorkerApplication(cfg *config.Config) (*WorkerContainer, error) {
	db, err := database.NewGormDB(cfg.DatabaseURL, logger.NewGormLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if err := redis.InitRedis(cfg.Redis); err != nil {
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	mongoDB, err := mongo.InitMongo(cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("failed to connect mongo: %w", err)
	}

	if err := minio.Init(cfg.MinIO); err != nil {
		return nil, fmt.Errorf("failed to connect minio: %w", err)
	}

	if err := es.InitClient(cfg.Elastic); err != nil {
		return nil, fmt.Errorf("failed to connect elasticsearch: %w", err)
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return nil, fmt.Errorf("failed to connect kafka producer: %w", err)
	}

	accounts := repository.NewAccountRepo(db)
	videos := repository.NewVideoRepo(db)
	metrics := repository.NewMetricRepo(db)
	schedules := repository.NewScheduleRepo(db)
	heartbeats := repository.NewHeartbeatRepo(db)

	upstreamClient := upstream.NewClient(cfg.Upstream)
	enricher := enrich.New(cfg.AudioDir, cfg.LibPath, cfg.MinIO)

	intervals := resolveIntervals(cfg.WorkerIntervalHours, cfg.TestMode)

	discoverJob := job.NewDiscoverJob(accounts, videos, schedules, upstreamClient, enricher, producer, mongoDB, cfg.ReelsLimit)
	rescheduleJob := job.NewRescheduleJob(videos, schedules)
	dispatchJob := job.NewDispatchJob(videos, metrics, schedules, upstreamClient, producer, mongoDB)
	heartbeatJob := job.NewHeartbeatJob(heartbeats)

	cronMgr := cron.NewCronManager(
		&cron.ManagedJob{Name: "discover", Interval: intervals.Discover, Fn: discoverJob.Run},
		&cron.ManagedJob{Name: "reschedule", Interval: intervals.Reschedule, Fn: rescheduleJob.Run},
		&cron.ManagedJob{Name: "dispatch-due", Interval: intervals.DispatchDue, Fn: dispatchJob.Run},
		&cron.ManagedJob{Name: "heartbeat", Interval: intervals.Heartbeat, Fn: heartbeatJob.Run},
	)

	return &WorkerContainer{
		DB:         db,
		CronMgr:    cronMgr,
		Producer:   producer,
		MongoDB:    mongoDB,
		Schedules:  schedules,
		Heartbeats: heartbeats,
		Intervals:  intervals,
	}, nil
}
