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

// KpiEngine computes the scalar month-to-date summary cards for a brand's
// selected KPIs. It reads transactional tables directly; drill-downs are
// the detail service's job.
type KpiEngine struct {
	brandRepo      *repository.BrandRepository
	definitionRepo *repository.KpiDefinitionRepository
	orderRepo      *repository.OrderRepository
	visitRepo      *repository.VisitRepository
	membershipRepo *repository.MembershipRepository
	productRepo    *repository.ProductRepository
	assessmentRepo *repository.AssessmentRepository
	logger         *zap.Logger
	now            func() time.Time
}

func NewKpiEngine(
	brandRepo *repository.BrandRepository,
	definitionRepo *repository.KpiDefinitionRepository,
	orderRepo *repository.OrderRepository,
	visitRepo *repository.VisitRepository,
	membershipRepo *repository.MembershipRepository,
	productRepo *repository.ProductRepository,
	assessmentRepo *repository.AssessmentRepository,
	logger *zap.Logger,
) *KpiEngine {
	return &KpiEngine{
		brandRepo:      brandRepo,
		definitionRepo: definitionRepo,
		orderRepo:      orderRepo,
		visitRepo:      visitRepo,
		membershipRepo: membershipRepo,
		productRepo:    productRepo,
		assessmentRepo: assessmentRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// GetSummary computes one card per selected, active KPI definition for the
// current month to date. Card order follows the brand's selection order.
// Computation fans out per definition and is all-or-nothing: any query
// error fails the whole summary.
func (s *KpiEngine) GetSummary(ctx context.Context, brandID uuid.UUID) (*domain.KpiSummary, error) {
	brand, err := s.brandRepo.GetByID(ctx, brandID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to load brand: %w", err)
	}

	selected := make([]domain.KpiSlug, 0, len(brand.DashboardMetrics))
	for _, raw := range brand.DashboardMetrics {
		selected = append(selected, domain.KpiSlug(raw))
	}

	summary := &domain.KpiSummary{
		Kpis:                      []domain.KpiCard{},
		DashboardMetricsUpdatedAt: brand.DashboardMetricsUpdatedAt,
		SelectedSlugs:             selected,
	}
	if len(selected) == 0 {
		return summary, nil
	}

	defs, err := s.definitionRepo.ListActiveBySlugs(ctx, selected)
	if err != nil {
		return nil, fmt.Errorf("failed to load kpi definitions: %w", err)
	}
	defsBySlug := make(map[domain.KpiSlug]domain.KpiDefinition, len(defs))
	for _, d := range defs {
		defsBySlug[d.Slug] = d
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	period := domain.FormatPeriod(now)

	// One slot per selected slug keeps selection order under concurrent
	// fill. Slugs without an active definition leave their slot nil.
	cards := make([]*domain.KpiCard, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	for i, slug := range selected {
		def, ok := defsBySlug[slug]
		if !ok {
			s.logger.Warn("selected kpi slug has no active definition",
				zap.String("brand_id", brandID.String()),
				zap.String("slug", string(slug)),
			)
			continue
		}

		i, def := i, def
		g.Go(func() error {
			value, err := s.computeScalar(gctx, brandID, def.ComputationType, monthStart, now)
			if err != nil {
				if errors.Is(err, ErrUnsupportedKpi) {
					s.logger.Warn("kpi definition has unsupported computation type",
						zap.String("brand_id", brandID.String()),
						zap.String("slug", string(def.Slug)),
						zap.String("computation_type", string(def.ComputationType)),
					)
					value = 0
				} else {
					return fmt.Errorf("failed to compute %s: %w", def.Slug, err)
				}
			}

			cards[i] = &domain.KpiCard{
				Slug:        def.Slug,
				Label:       def.Label,
				Value:       value,
				Unit:        def.Unit,
				Icon:        def.Icon,
				Color:       def.Color,
				Description: def.Description,
				Period:      period,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, card := range cards {
		if card != nil {
			summary.Kpis = append(summary.Kpis, *card)
		}
	}

	return summary, nil
}

// computeScalar runs the formula selected by the computation type over
// [from, to). Zero denominators yield 0.
func (s *KpiEngine) computeScalar(ctx context.Context, brandID uuid.UUID, computation domain.KpiComputationType, from, to time.Time) (float64, error) {
	switch computation {
	case domain.ComputationVolume:
		return s.computeVolume(ctx, brandID, from, to)
	case domain.ComputationReachMix:
		return s.computeReachMix(ctx, brandID, from, to)
	case domain.ComputationAssortment:
		return s.computeAssortment(ctx, brandID, from, to)
	case domain.ComputationMarketShare:
		return s.computeMarketShare(ctx, brandID, from, to)
	case domain.ComputationShareOfShelf:
		return s.computeShareOfShelf(ctx, brandID, from, to)
	default:
		return 0, ErrUnsupportedKpi
	}
}

func (s *KpiEngine) computeVolume(ctx context.Context, brandID uuid.UUID, from, to time.Time) (float64, error) {
	return s.orderRepo.SumRevenue(ctx, brandID, from, to)
}

// computeReachMix fetches the visited-client count and the membership count
// concurrently and combines them in-process. No shared transaction: the two
// reads may observe slightly different instants, which is acceptable for a
// month-to-date indicator.
func (s *KpiEngine) computeReachMix(ctx context.Context, brandID uuid.UUID, from, to time.Time) (float64, error) {
	var visited, members int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		visited, err = s.visitRepo.CountDistinctClientsVisited(gctx, brandID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		members, err = s.membershipRepo.CountActiveMembers(gctx, brandID)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	return pct(float64(visited), float64(members)), nil
}

// computeAssortment averages, across assessed visits, the share of the
// brand's assessable products observed present. Visits with no assessment
// rows are excluded from the mean.
func (s *KpiEngine) computeAssortment(ctx context.Context, brandID uuid.UUID, from, to time.Time) (float64, error) {
	var counts []repository.VisitPresentCount
	var totalProducts int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.assessmentRepo.PresentCountsByVisit(gctx, brandID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		totalProducts, err = s.productRepo.CountAssessable(gctx, brandID)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if len(counts) == 0 || totalProducts == 0 {
		return 0, nil
	}

	var sum float64
	for _, c := range counts {
		sum += float64(c.PresentCount) / float64(totalProducts) * 100
	}
	return round1(sum / float64(len(counts))), nil
}

func (s *KpiEngine) computeMarketShare(ctx context.Context, brandID uuid.UUID, from, to time.Time) (float64, error) {
	totals, err := s.assessmentRepo.CountPresence(ctx, brandID, from, to)
	if err != nil {
		return 0, err
	}
	return pct(float64(totals.BrandPresent), float64(totals.BrandPresent+totals.CompetitorPresent)), nil
}

func (s *KpiEngine) computeShareOfShelf(ctx context.Context, brandID uuid.UUID, from, to time.Time) (float64, error) {
	totals, err := s.assessmentRepo.CountShelf(ctx, brandID, from, to)
	if err != nil {
		return 0, err
	}
	return pct(float64(totals.PopPresent+totals.ExhibExecuted), float64(totals.PopTotal+totals.ExhibTotal)), nil
}
