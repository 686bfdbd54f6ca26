package services

import (
	"time"

	"github.com/custodia-labs/askdesk/internal/core/domain"
	"github.com/custodia-labs/askdesk/internal/core/ports/driving"
)

// Ensure HealthService implements the interface.
var _ driving.HealthService = (*HealthService)(nil)

// HealthService reports liveness. It never touches storage.
type HealthService struct {
	provider string
	now      func() time.Time
}

// NewHealthService creates a health service reporting the given provider name.
func NewHealthService(provider string) *HealthService {
	return &HealthService{provider: provider, now: time.Now}
}

// Health returns the liveness signal.
func (s *HealthService) Health() domain.Health {
	return domain.Health{
		Status:    domain.HealthStatusOK,
		Provider:  s.provider,
		Timestamp: s.now(),
	}
}
