package service

import (
	"context"
	"fmt"

	"github.com/ignatzorin/marketplace-backend/internal/models"
)

// StatsRepository описывает зависимости StatsService от слоя хранилища.
type StatsRepository interface {
	GetBaseInfo(ctx context.Context) (*models.BaseInfo, error)
}

// StatsService отдаёт публичную статистику платформы.
type StatsService struct {
	repo StatsRepository
}

// NewStatsService создаёт сервис статистики.
func NewStatsService(repo StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

// GetBaseInfo возвращает сводные показатели платформы.
func (s *StatsService) GetBaseInfo(ctx context.Context) (*models.BaseInfo, error) {
	info, err := s.repo.GetBaseInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats service: %w", err)
	}
	return info, nil
}
