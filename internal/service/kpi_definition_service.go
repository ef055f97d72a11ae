package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fermx3/companeros-en-ruta-api/internal/auth"
	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/fermx3/companeros-en-ruta-api/internal/mapper"
	"github.com/fermx3/companeros-en-ruta-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// KpiDefinitionService manages the tenant's KPI catalog
type KpiDefinitionService struct {
	definitionRepo *repository.KpiDefinitionRepository
	logger         *zap.Logger
}

func NewKpiDefinitionService(definitionRepo *repository.KpiDefinitionRepository, logger *zap.Logger) *KpiDefinitionService {
	return &KpiDefinitionService{
		definitionRepo: definitionRepo,
		logger:         logger,
	}
}

func (s *KpiDefinitionService) List(ctx context.Context, sort repository.SortConfig) ([]domain.KpiDefinitionDTO, error) {
	defs, err := s.definitionRepo.List(ctx, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list kpi definitions: %w", err)
	}
	return mapper.ToKpiDefinitionDTOs(defs), nil
}

// Create adds a catalog entry for the actor's tenant. Reaching this service
// requires an authenticated KPI manager, so the actor is always present.
func (s *KpiDefinitionService) Create(ctx context.Context, req *domain.CreateKpiDefinitionRequest) (*domain.KpiDefinitionDTO, error) {
	actor := auth.MustFromContext(ctx)

	if existing, err := s.definitionRepo.GetBySlug(ctx, domain.KpiSlug(req.Slug)); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: slug %q already defined", ErrConflict, req.Slug)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check slug uniqueness: %w", err)
	}

	unit := req.Unit
	if unit == "" {
		unit = domain.UnitPercent
	}

	def := &domain.KpiDefinition{
		TenantID:        actor.TenantID,
		Slug:            domain.KpiSlug(req.Slug),
		Label:           req.Label,
		Description:     req.Description,
		Icon:            req.Icon,
		Color:           req.Color,
		ComputationType: domain.KpiComputationType(req.ComputationType),
		Unit:            unit,
		IsActive:        true,
		DisplayOrder:    req.DisplayOrder,
	}

	if err := s.definitionRepo.Create(ctx, def); err != nil {
		return nil, fmt.Errorf("failed to create kpi definition: %w", err)
	}

	s.logger.Info("kpi definition created",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("slug", req.Slug),
		zap.String("computation_type", req.ComputationType),
	)

	dto := mapper.ToKpiDefinitionDTO(def)
	return &dto, nil
}

// Update edits display metadata. Slug and computation type are immutable;
// deactivation goes through IsActive.
func (s *KpiDefinitionService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateKpiDefinitionRequest) (*domain.KpiDefinitionDTO, error) {
	def, err := s.definitionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load kpi definition: %w", err)
	}

	if req.Label != nil {
		def.Label = *req.Label
	}
	if req.Description != nil {
		def.Description = *req.Description
	}
	if req.Icon != nil {
		def.Icon = *req.Icon
	}
	if req.Color != nil {
		def.Color = *req.Color
	}
	if req.IsActive != nil {
		def.IsActive = *req.IsActive
	}
	if req.DisplayOrder != nil {
		def.DisplayOrder = *req.DisplayOrder
	}

	if err := s.definitionRepo.Update(ctx, def); err != nil {
		return nil, fmt.Errorf("failed to update kpi definition: %w", err)
	}

	dto := mapper.ToKpiDefinitionDTO(def)
	return &dto, nil
}
