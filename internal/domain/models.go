package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// UserRoleType represents a platform role
type UserRoleType string

const (
	RoleAdmin        UserRoleType = "admin"
	RoleBrandManager UserRoleType = "brand_manager"
	RoleSupervisor   UserRoleType = "supervisor"
	RolePromotor     UserRoleType = "promotor"
	RoleAsesor       UserRoleType = "asesor_ventas"
	RoleAPIService   UserRoleType = "api_service"
	RoleViewer       UserRoleType = "viewer"
)

// Tenant represents a platform tenant (a company running one or more brands)
type Tenant struct {
	BaseModel
	Name     string `gorm:"type:varchar(200);not null"`
	IsActive bool   `gorm:"not null;default:true;column:is_active"`
}

// Brand represents a brand operated within a tenant. The DashboardMetrics
// column holds the ordered list of KPI slugs selected for the brand's
// dashboard; order is the display order.
type Brand struct {
	BaseModel
	TenantID                  uuid.UUID      `gorm:"type:uuid;not null;index;column:tenant_id"`
	Name                      string         `gorm:"type:varchar(200);not null"`
	LogoURL                   string         `gorm:"type:varchar(500);column:logo_url"`
	DashboardMetrics          pq.StringArray `gorm:"type:text[];column:dashboard_metrics"`
	DashboardMetricsUpdatedAt *time.Time     `gorm:"column:dashboard_metrics_updated_at"`
	IsActive                  bool           `gorm:"not null;default:true;column:is_active"`
}

// MaxDashboardMetrics is the maximum number of KPI slugs a brand may select
const MaxDashboardMetrics = 6

// Zone represents a geographic sales zone within a tenant
type Zone struct {
	BaseModel
	TenantID uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id"`
	Name     string    `gorm:"type:varchar(200);not null"`
}

// Market represents a sales channel (tiendita, autoservicio, mayorista...)
type Market struct {
	BaseModel
	TenantID uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id"`
	Name     string    `gorm:"type:varchar(200);not null"`
}

// Client represents a point of sale served by field roles
type Client struct {
	BaseModel
	TenantID uuid.UUID  `gorm:"type:uuid;not null;index;column:tenant_id"`
	Name     string     `gorm:"type:varchar(200);not null"`
	ZoneID   *uuid.UUID `gorm:"type:uuid;index;column:zone_id"`
	MarketID *uuid.UUID `gorm:"type:uuid;index;column:market_id"`
}

// MembershipStatus represents the lifecycle of a brand membership
type MembershipStatus string

const (
	MembershipStatusActive   MembershipStatus = "active"
	MembershipStatusInactive MembershipStatus = "inactive"
)

// BrandMembership is a client's enrollment under a brand's loyalty program.
// Active memberships form the denominator of the reach KPI.
type BrandMembership struct {
	BaseModel
	BrandID  uuid.UUID        `gorm:"type:uuid;not null;index;column:brand_id"`
	ClientID uuid.UUID        `gorm:"type:uuid;not null;index;column:client_id"`
	Status   MembershipStatus `gorm:"type:varchar(50);not null;default:'active';index"`
	JoinedAt time.Time        `gorm:"not null;column:joined_at"`
}

// Product is a brand SKU. Assessable products count toward the assortment
// denominator.
type Product struct {
	BaseModel
	BrandID    uuid.UUID `gorm:"type:uuid;not null;index;column:brand_id"`
	Name       string    `gorm:"type:varchar(200);not null"`
	SKU        string    `gorm:"type:varchar(100);column:sku"`
	IsActive   bool      `gorm:"not null;default:true;column:is_active"`
	Assessable bool      `gorm:"not null;default:true"`
}

// OrderStatus represents the state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusReturned  OrderStatus = "returned"
)

// Order represents a sales order captured by an asesor de ventas
type Order struct {
	BaseModel
	BrandID     uuid.UUID      `gorm:"type:uuid;not null;index;column:brand_id"`
	ClientID    uuid.UUID      `gorm:"type:uuid;not null;index;column:client_id"`
	OrderDate   time.Time      `gorm:"not null;index;column:order_date"`
	OrderStatus OrderStatus    `gorm:"type:varchar(50);not null;default:'pending';index;column:order_status"`
	TotalAmount float64        `gorm:"not null;default:0;column:total_amount"`
	WeightKg    float64        `gorm:"not null;default:0;column:weight_kg"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// Visit represents a field visit to a client
type Visit struct {
	BaseModel
	BrandID       uuid.UUID `gorm:"type:uuid;not null;index;column:brand_id"`
	ClientID      uuid.UUID `gorm:"type:uuid;not null;index;column:client_id"`
	UserProfileID uuid.UUID `gorm:"type:uuid;not null;index;column:user_profile_id"`
	VisitDate     time.Time `gorm:"not null;index;column:visit_date"`
}

// ProductAssessment records whether a brand product was observed present
// during a visit, with its shelf facings count.
type ProductAssessment struct {
	BaseModel
	VisitID   uuid.UUID `gorm:"type:uuid;not null;index;column:visit_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index;column:product_id"`
	Present   bool      `gorm:"not null;default:false"`
	Facings   int       `gorm:"not null;default:0"`
}

// CompetitorAssessment records competitor presence observed during a visit
type CompetitorAssessment struct {
	BaseModel
	VisitID        uuid.UUID `gorm:"type:uuid;not null;index;column:visit_id"`
	CompetitorName string    `gorm:"type:varchar(200);not null;column:competitor_name"`
	Present        bool      `gorm:"not null;default:false"`
	Facings        int       `gorm:"not null;default:0"`
}

// PopAssessment records whether a POP material was found in place
type PopAssessment struct {
	BaseModel
	VisitID      uuid.UUID `gorm:"type:uuid;not null;index;column:visit_id"`
	MaterialName string    `gorm:"type:varchar(200);not null;column:material_name"`
	Present      bool      `gorm:"not null;default:false"`
}

// ExhibitionCheck records whether an agreed exhibition was executed
type ExhibitionCheck struct {
	BaseModel
	VisitID        uuid.UUID `gorm:"type:uuid;not null;index;column:visit_id"`
	ExhibitionName string    `gorm:"type:varchar(200);not null;column:exhibition_name"`
	Executed       bool      `gorm:"not null;default:false"`
}

// KpiDefinition is the per-tenant catalog entry for a KPI type. The slug is
// the stable catalog key; ComputationType selects the formula.
type KpiDefinition struct {
	BaseModel
	TenantID        uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_kpi_defs_tenant_slug;column:tenant_id"`
	Slug            KpiSlug            `gorm:"type:varchar(50);not null;uniqueIndex:idx_kpi_defs_tenant_slug"`
	Label           string             `gorm:"type:varchar(200);not null"`
	Description     string             `gorm:"type:varchar(500)"`
	Icon            string             `gorm:"type:varchar(100)"`
	Color           string             `gorm:"type:varchar(20)"`
	ComputationType KpiComputationType `gorm:"type:varchar(50);not null;column:computation_type"`
	Unit            string             `gorm:"type:varchar(10);not null;default:'%'"`
	IsActive        bool               `gorm:"not null;default:true;column:is_active"`
	DisplayOrder    int                `gorm:"not null;default:0;column:display_order"`
}

// KpiPeriodType represents the granularity a target applies to
type KpiPeriodType string

const (
	KpiPeriodMonthly KpiPeriodType = "monthly"
)

// KpiTarget holds a numeric goal for a brand, KPI, and period. A nil ZoneID
// means a brand-wide target; only brand-wide targets feed achievement.
type KpiTarget struct {
	BaseModel
	BrandID     uuid.UUID      `gorm:"type:uuid;not null;index;column:brand_id"`
	KpiSlug     KpiSlug        `gorm:"type:varchar(50);not null;index;column:kpi_slug"`
	PeriodType  KpiPeriodType  `gorm:"type:varchar(20);not null;default:'monthly';column:period_type"`
	PeriodStart time.Time      `gorm:"type:date;not null;index;column:period_start"`
	ZoneID      *uuid.UUID     `gorm:"type:uuid;index;column:zone_id"`
	TargetValue float64        `gorm:"not null;column:target_value"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}
