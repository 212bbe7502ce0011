// filepath: internal/services/info_service.go
package services

import (
	"time"

	"intakehub/internal/models"
	"intakehub/internal/schema"
)

var _ InfoService = (*infoService)(nil)

type infoService struct {
	Version   string
	StartTime time.Time
	Backend   string
}

// NewInfoService creates a new InfoService.
func NewInfoService(version string, startTime time.Time, backend string) *infoService {
	return &infoService{
		Version:   version,
		StartTime: startTime,
		Backend:   backend,
	}
}

// GetInfo retrieves the application information.
func (s *infoService) GetInfo() models.Info {
	return models.Info{
		ServiceName:   "IntakeHub-API",
		Version:       s.Version,
		UptimeSince:   s.StartTime,
		Backend:       s.Backend,
		SchemaVersion: int(schema.Current),
	}
}
