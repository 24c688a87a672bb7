package health

import (
	"context"

	"tracker-comparer/core/fetch"
	"tracker-comparer/core/storage"
	"tracker-comparer/feature/health/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Overall report statuses.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// Report is the combined outcome of every check.
type Report struct {
	Status   string         `json:"status"`
	Storage  checks.Check   `json:"storage"`
	Database checks.Check   `json:"database"`
	Trackers []checks.Check `json:"trackers"`
}

// Service runs the doctor checks.
type Service struct {
	client  storage.Client
	bucket  string
	region  string
	db      *gorm.DB
	fetcher *fetch.Client
	targets []checks.Target
	logger  *zap.Logger
}

// NewService creates a health service. Nil storage or db disable their checks.
func NewService(client storage.Client, bucket, region string, db *gorm.DB, fetcher *fetch.Client, targets []checks.Target, logger *zap.Logger) *Service {
	return &Service{
		client:  client,
		bucket:  bucket,
		region:  region,
		db:      db,
		fetcher: fetcher,
		targets: targets,
		logger:  logger,
	}
}

// CheckStorage checks the export bucket.
func (s *Service) CheckStorage(ctx context.Context) checks.Check {
	return checks.CheckBucket(ctx, s.client, s.bucket)
}

// FixStorage creates the export bucket.
func (s *Service) FixStorage(ctx context.Context) error {
	return checks.FixBucket(ctx, s.client, s.bucket, s.region)
}

// Run executes every check. Only errors degrade the report; warnings and
// disabled checks do not.
func (s *Service) Run(ctx context.Context) Report {
	r := Report{
		Storage:  s.CheckStorage(ctx),
		Database: checks.CheckDatabase(ctx, s.db),
		Trackers: checks.CheckTrackers(ctx, s.fetcher, s.targets),
	}

	r.Status = StatusHealthy
	all := append([]checks.Check{r.Storage, r.Database}, r.Trackers...)
	for _, c := range all {
		if c.Status == checks.StatusError {
			s.logger.Warn("Health check failed", zap.String("check", c.Name), zap.String("detail", c.Detail))
			r.Status = StatusDegraded
		}
	}
	return r
}
