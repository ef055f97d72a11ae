package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/fermx3/companeros-en-ruta-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// FactSource reads the pre-aggregated KPI fact views for one brand-month.
// Implemented by the primary-database view reader and by the optional
// warehouse mirror.
type FactSource interface {
	VolumeFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.VolumeFact, error)
	ReachFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.ReachFact, error)
	MixFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.MixFact, error)
	AssortmentFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.AssortmentFact, error)
	MarketShareFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.MarketShareFact, error)
	ShelfFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.ShelfFact, error)
}

// KpiDetailService builds the per-slug drill-down payload for an arbitrary
// month, merging fact view rows with stored brand-wide targets.
type KpiDetailService struct {
	brandRepo  *repository.BrandRepository
	targetRepo *repository.KpiTargetRepository
	facts      FactSource
	logger     *zap.Logger
}

func NewKpiDetailService(
	brandRepo *repository.BrandRepository,
	targetRepo *repository.KpiTargetRepository,
	facts FactSource,
	logger *zap.Logger,
) *KpiDetailService {
	return &KpiDetailService{
		brandRepo:  brandRepo,
		targetRepo: targetRepo,
		facts:      facts,
		logger:     logger,
	}
}

// ParseMonth validates a YYYY-MM month string and returns the first day of
// that month in UTC.
func ParseMonth(month string) (time.Time, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

// GetDetails returns one drill-down object per selected known slug for the
// given YYYY-MM month. All fact view reads and the batched target lookup
// fan out concurrently; any failure fails the whole payload. Empty views
// produce zero-valued shapes, never errors.
func (s *KpiDetailService) GetDetails(ctx context.Context, brandID uuid.UUID, month string) (domain.KpiDetails, error) {
	periodStart, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}

	brand, err := s.brandRepo.GetByID(ctx, brandID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to load brand: %w", err)
	}

	selected := make([]domain.KpiSlug, 0, len(brand.DashboardMetrics))
	for _, raw := range brand.DashboardMetrics {
		slug := domain.KpiSlug(raw)
		if !domain.IsKnownKpiSlug(slug) {
			s.logger.Warn("selected kpi slug has no drill-down shape",
				zap.String("brand_id", brandID.String()),
				zap.String("slug", raw),
			)
			continue
		}
		selected = append(selected, slug)
	}

	details := domain.KpiDetails{}
	if len(selected) == 0 {
		return details, nil
	}

	var (
		volumeFacts      []domain.VolumeFact
		reachFacts       []domain.ReachFact
		mixFacts         []domain.MixFact
		assortmentFacts  []domain.AssortmentFact
		marketShareFacts []domain.MarketShareFact
		shelfFacts       []domain.ShelfFact
		targets          map[domain.KpiSlug]float64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		targets, err = s.targetRepo.MapBrandWideForMonth(gctx, brandID, selected, periodStart)
		if err != nil {
			return fmt.Errorf("failed to load targets: %w", err)
		}
		return nil
	})

	for _, slug := range selected {
		slug := slug
		switch slug {
		case domain.KpiVolume:
			g.Go(func() error {
				var err error
				volumeFacts, err = s.facts.VolumeFacts(gctx, brandID, month)
				if err != nil {
					return fmt.Errorf("failed to read volume facts: %w", err)
				}
				return nil
			})
		case domain.KpiReachMix:
			g.Go(func() error {
				var err error
				reachFacts, err = s.facts.ReachFacts(gctx, brandID, month)
				if err != nil {
					return fmt.Errorf("failed to read reach facts: %w", err)
				}
				return nil
			})
		case domain.KpiMix:
			g.Go(func() error {
				var err error
				mixFacts, err = s.facts.MixFacts(gctx, brandID, month)
				if err != nil {
					return fmt.Errorf("failed to read mix facts: %w", err)
				}
				return nil
			})
		case domain.KpiAssortment:
			g.Go(func() error {
				var err error
				assortmentFacts, err = s.facts.AssortmentFacts(gctx, brandID, month)
				if err != nil {
					return fmt.Errorf("failed to read assortment facts: %w", err)
				}
				return nil
			})
		case domain.KpiMarketShare:
			g.Go(func() error {
				var err error
				marketShareFacts, err = s.facts.MarketShareFacts(gctx, brandID, month)
				if err != nil {
					return fmt.Errorf("failed to read market share facts: %w", err)
				}
				return nil
			})
		case domain.KpiShareOfShelf:
			g.Go(func() error {
				var err error
				shelfFacts, err = s.facts.ShelfFacts(gctx, brandID, month)
				if err != nil {
					return fmt.Errorf("failed to read shelf facts: %w", err)
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, slug := range selected {
		target := targetFor(targets, slug)
		switch slug {
		case domain.KpiVolume:
			details[slug] = reduceVolume(volumeFacts, target)
		case domain.KpiReachMix:
			details[slug] = reduceReach(reachFacts, target)
		case domain.KpiMix:
			details[slug] = reduceMix(mixFacts, target)
		case domain.KpiAssortment:
			details[slug] = reduceAssortment(assortmentFacts, target)
		case domain.KpiMarketShare:
			details[slug] = reduceMarketShare(marketShareFacts, target)
		case domain.KpiShareOfShelf:
			details[slug] = reduceShelf(shelfFacts, target)
		}
	}

	return details, nil
}
