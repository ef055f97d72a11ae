package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/fermx3/companeros-en-ruta-api/internal/mapper"
	"github.com/fermx3/companeros-en-ruta-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// KpiTargetService manages monthly KPI targets for a brand
type KpiTargetService struct {
	targetRepo     *repository.KpiTargetRepository
	definitionRepo *repository.KpiDefinitionRepository
	logger         *zap.Logger
}

func NewKpiTargetService(
	targetRepo *repository.KpiTargetRepository,
	definitionRepo *repository.KpiDefinitionRepository,
	logger *zap.Logger,
) *KpiTargetService {
	return &KpiTargetService{
		targetRepo:     targetRepo,
		definitionRepo: definitionRepo,
		logger:         logger,
	}
}

func (s *KpiTargetService) ListForMonth(ctx context.Context, brandID uuid.UUID, month string) ([]domain.KpiTargetDTO, error) {
	periodStart, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}

	targets, err := s.targetRepo.ListForMonth(ctx, brandID, periodStart)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	return mapper.ToKpiTargetDTOs(targets), nil
}

// Upsert creates or replaces the target for (brand, slug, month, zone).
// The slug must exist in the tenant catalog.
func (s *KpiTargetService) Upsert(ctx context.Context, brandID uuid.UUID, req *domain.UpsertKpiTargetRequest) (*domain.KpiTargetDTO, error) {
	periodStart, err := ParseMonth(req.Month)
	if err != nil {
		return nil, err
	}

	if _, err := s.definitionRepo.GetBySlug(ctx, domain.KpiSlug(req.KpiSlug)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKpiSlug, req.KpiSlug)
		}
		return nil, fmt.Errorf("failed to check kpi slug: %w", err)
	}

	var zoneID *uuid.UUID
	if req.ZoneID != nil {
		id, err := uuid.Parse(*req.ZoneID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid zone_id", ErrInvalidInput)
		}
		zoneID = &id
	}

	target := &domain.KpiTarget{
		BrandID:     brandID,
		KpiSlug:     domain.KpiSlug(req.KpiSlug),
		PeriodType:  domain.KpiPeriodMonthly,
		PeriodStart: periodStart,
		ZoneID:      zoneID,
		TargetValue: req.TargetValue,
	}

	if err := s.targetRepo.Upsert(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to upsert target: %w", err)
	}

	s.logger.Info("kpi target upserted",
		zap.String("brand_id", brandID.String()),
		zap.String("slug", req.KpiSlug),
		zap.String("month", req.Month),
		zap.Float64("target_value", req.TargetValue),
	)

	dto := mapper.ToKpiTargetDTO(target)
	return &dto, nil
}

func (s *KpiTargetService) Delete(ctx context.Context, brandID, id uuid.UUID) error {
	if err := s.targetRepo.Delete(ctx, brandID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete target: %w", err)
	}
	return nil
}
