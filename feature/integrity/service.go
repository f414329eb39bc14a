package integrity

import (
	"context"
	"errors"

	"diffing-research/core/storage"
	"diffing-research/feature/catalog"
	"diffing-research/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrStorageDisabled is returned by storage and archive checks without storage.
	ErrStorageDisabled = errors.New("object storage is disabled")
	// ErrDatabaseDisabled is returned by the schema check without a database.
	ErrDatabaseDisabled = errors.New("database is disabled")
)

// Service handles integrity checks. client and db may be nil.
type Service struct {
	client  storage.Client
	bucket  string
	region  string
	archive checks.ArchiveReader
	db      *gorm.DB
	logger  *zap.Logger
}

// NewService creates a new integrity service.
func NewService(client storage.Client, bucket, region string, db *gorm.DB, logger *zap.Logger) *Service {
	s := &Service{
		client: client,
		bucket: bucket,
		region: region,
		db:     db,
		logger: logger,
	}
	if client != nil {
		s.archive = catalog.NewArchive(client, bucket)
	}
	return s
}

// CheckStorage reports on the archive bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	return checks.CheckStorage(ctx, s.client, s.bucket)
}

// FixStorage creates the archive bucket.
func (s *Service) FixStorage(ctx context.Context) error {
	if s.client == nil {
		return ErrStorageDisabled
	}
	return checks.FixStorage(ctx, s.client, s.bucket, s.region, s.logger)
}

// CheckSchema verifies the page cache table.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.db == nil {
		return nil, ErrDatabaseDisabled
	}
	return checks.CheckSchema(s.db, catalog.MoviesTable, catalog.MoviesColumns)
}

// CheckArchive verifies the archived snapshots of board.
func (s *Service) CheckArchive(ctx context.Context, board string) (*checks.ArchiveReport, error) {
	if s.archive == nil {
		return nil, ErrStorageDisabled
	}
	return checks.CheckArchive(ctx, s.archive, board)
}
