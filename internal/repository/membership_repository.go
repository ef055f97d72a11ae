package repository

import (
	"context"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// CountActiveMembers counts the brand's active memberships, the reach
// denominator.
func (r *MembershipRepository) CountActiveMembers(ctx context.Context, brandID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.BrandMembership{}).
		Where("brand_id = ? AND status = ?", brandID, domain.MembershipStatusActive).
		Count(&count).Error
	return int(count), err
}
