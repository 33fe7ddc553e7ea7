package service

import (
	"context"
	"fmt"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthService reports whether the storage backend is reachable.
type HealthService struct {
	storage Pinger
}

func NewHealthService(storage Pinger) *HealthService {
	return &HealthService{storage: storage}
}

func (s *HealthService) Check(ctx context.Context) error {
	if err := s.storage.PingContext(ctx); err != nil {
		return fmt.Errorf("storage unreachable: %w", err)
	}
	return nil
}
