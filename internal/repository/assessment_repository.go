package repository

import (
	"context"
	"time"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// VisitPresentCount is the number of brand products observed present during
// one assessed visit.
type VisitPresentCount struct {
	VisitID      uuid.UUID `gorm:"column:visit_id"`
	PresentCount int       `gorm:"column:present_count"`
}

// PresentCountsByVisit returns one row per assessed visit in [from, to) with
// the count of products observed present. Visits with no assessment rows do
// not appear.
func (r *AssessmentRepository) PresentCountsByVisit(ctx context.Context, brandID uuid.UUID, from, to time.Time) ([]VisitPresentCount, error) {
	var rows []VisitPresentCount
	err := r.db.WithContext(ctx).
		Model(&domain.ProductAssessment{}).
		Select("product_assessments.visit_id AS visit_id, SUM(CASE WHEN product_assessments.present THEN 1 ELSE 0 END) AS present_count").
		Joins("JOIN visits ON visits.id = product_assessments.visit_id").
		Where("visits.brand_id = ?", brandID).
		Where("visits.visit_date >= ? AND visits.visit_date < ?", from, to).
		Group("product_assessments.visit_id").
		Scan(&rows).Error
	return rows, err
}

// PresenceTotals holds the presence-row counts feeding the market share
// scalar.
type PresenceTotals struct {
	BrandPresent      int
	CompetitorPresent int
}

// CountPresence counts brand and competitor presence observations for the
// brand's visits in [from, to).
func (r *AssessmentRepository) CountPresence(ctx context.Context, brandID uuid.UUID, from, to time.Time) (*PresenceTotals, error) {
	totals := &PresenceTotals{}

	var brandCount int64
	err := r.db.WithContext(ctx).
		Model(&domain.ProductAssessment{}).
		Joins("JOIN visits ON visits.id = product_assessments.visit_id").
		Where("visits.brand_id = ?", brandID).
		Where("visits.visit_date >= ? AND visits.visit_date < ?", from, to).
		Where("product_assessments.present = ?", true).
		Count(&brandCount).Error
	if err != nil {
		return nil, err
	}
	totals.BrandPresent = int(brandCount)

	var competitorCount int64
	err = r.db.WithContext(ctx).
		Model(&domain.CompetitorAssessment{}).
		Joins("JOIN visits ON visits.id = competitor_assessments.visit_id").
		Where("visits.brand_id = ?", brandID).
		Where("visits.visit_date >= ? AND visits.visit_date < ?", from, to).
		Where("competitor_assessments.present = ?", true).
		Count(&competitorCount).Error
	if err != nil {
		return nil, err
	}
	totals.CompetitorPresent = int(competitorCount)

	return totals, nil
}

// ShelfTotals holds the POP and exhibition counters feeding the
// share-of-shelf scalar.
type ShelfTotals struct {
	PopPresent    int `gorm:"column:pop_present"`
	PopTotal      int `gorm:"column:pop_total"`
	ExhibExecuted int `gorm:"column:exhib_executed"`
	ExhibTotal    int `gorm:"column:exhib_total"`
}

// CountShelf aggregates POP placement and exhibition execution for the
// brand's visits in [from, to).
func (r *AssessmentRepository) CountShelf(ctx context.Context, brandID uuid.UUID, from, to time.Time) (*ShelfTotals, error) {
	totals := &ShelfTotals{}

	var pop ShelfTotals
	err := r.db.WithContext(ctx).
		Model(&domain.PopAssessment{}).
		Select("SUM(CASE WHEN pop_assessments.present THEN 1 ELSE 0 END) AS pop_present, COUNT(*) AS pop_total").
		Joins("JOIN visits ON visits.id = pop_assessments.visit_id").
		Where("visits.brand_id = ?", brandID).
		Where("visits.visit_date >= ? AND visits.visit_date < ?", from, to).
		Scan(&pop).Error
	if err != nil {
		return nil, err
	}
	totals.PopPresent = pop.PopPresent
	totals.PopTotal = pop.PopTotal

	var exhib ShelfTotals
	err = r.db.WithContext(ctx).
		Model(&domain.ExhibitionCheck{}).
		Select("SUM(CASE WHEN exhibition_checks.executed THEN 1 ELSE 0 END) AS exhib_executed, COUNT(*) AS exhib_total").
		Joins("JOIN visits ON visits.id = exhibition_checks.visit_id").
		Where("visits.brand_id = ?", brandID).
		Where("visits.visit_date >= ? AND visits.visit_date < ?", from, to).
		Scan(&exhib).Error
	if err != nil {
		return nil, err
	}
	totals.ExhibExecuted = exhib.ExhibExecuted
	totals.ExhibTotal = exhib.ExhibTotal

	return totals, nil
}
