package service

import (
	"context"
	"fmt"

	"github.com/pageza/proteinpal/internal/types"
)

// AdminService exposes platform counters. Access control is enforced by
// the tracker, which answers 403 for non-admins.
type AdminService struct {
	api TrackerAPI
}

// NewAdminService creates an AdminService.
func NewAdminService(api TrackerAPI) *AdminService {
	return &AdminService{api: api}
}

func (s *AdminService) Stats(ctx context.Context, token string) (*types.AdminStats, error) {
	stats, err := s.api.AdminStats(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin stats: %w", err)
	}
	return stats, nil
}
