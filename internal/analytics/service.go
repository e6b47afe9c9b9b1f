package analytics

import (
	"context"
	"time"

	"stagepass/internal/shared/constants"
	"stagepass/pkg/cache"
	"stagepass/pkg/logger"
)

type Service interface {
	GetSalesSummary(ctx context.Context) (*SalesSummary, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	log          *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:         repo,
		cacheService: cacheService,
		log:          logger.GetDefault(),
	}
}

func (s *service) GetSalesSummary(ctx context.Context) (*SalesSummary, error) {
	key := constants.CACHE_KEY_SALES_SUMMARY

	if s.cacheService != nil {
		var cached SalesSummary
		if err := s.cacheService.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	summary, err := s.repo.GetSalesSummary(ctx)
	if err != nil {
		return nil, err
	}
	summary.GeneratedAt = time.Now()

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, key, summary, constants.TTL_ANALYTICS); err != nil {
			s.log.WarnWithContext(ctx, "failed to cache sales summary", map[string]interface{}{"error": err.Error()})
		}
	}

	return summary, nil
}
