package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Fund-Investment-Results/internal/database"
	"github.com/ndewijer/Fund-Investment-Results/internal/version"
)

// VersionInfo describes the running application and its database schema.
type VersionInfo struct {
	AppVersion string `json:"appVersion"`
	DbVersion  int64  `json:"dbVersion"`
}

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// CheckVersion reports the application version and the applied schema version.
func (s *SystemService) CheckVersion(ctx context.Context) (VersionInfo, error) {
	dbVersion, err := database.Version(ctx, s.db)
	if err != nil {
		return VersionInfo{}, fmt.Errorf("failed to get version information: %w", err)
	}
	return VersionInfo{
		AppVersion: version.Version,
		DbVersion:  dbVersion,
	}, nil
}
