package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
)

// SetupTestDB creates a connection to the test PostgreSQL database.
// It uses environment variables or falls back to docker-compose defaults.
func SetupTestDB(t *testing.T) *gorm.DB {
	host := getEnvOrDefault("DATABASE_HOST", "localhost")
	port := getEnvOrDefault("DATABASE_PORT", "5432")
	user := getEnvOrDefault("DATABASE_USER", "kpi_user")
	password := getEnvOrDefault("DATABASE_PASSWORD", "kpi_password")
	dbname := getEnvOrDefault("DATABASE_NAME", "kpi")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		host, port, user, password, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "Failed to connect to test database. Ensure PostgreSQL is running.")

	err = db.AutoMigrate(
		&domain.Tenant{},
		&domain.Brand{},
		&domain.Zone{},
		&domain.Market{},
		&domain.Client{},
		&domain.BrandMembership{},
		&domain.Product{},
		&domain.Order{},
		&domain.Visit{},
		&domain.ProductAssessment{},
		&domain.CompetitorAssessment{},
		&domain.PopAssessment{},
		&domain.ExhibitionCheck{},
		&domain.KpiDefinition{},
		&domain.KpiTarget{},
	)
	require.NoError(t, err)

	// Target upserts match on this index; migrations create it in real
	// deployments.
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_kpi_targets_scope
		ON kpi_targets (brand_id, kpi_slug, period_type, period_start, zone_id)
		NULLS NOT DISTINCT
	`).Error
	require.NoError(t, err)

	return db
}

// CleanupTestData cleans up test data from all tables.
// This should be called after tests to ensure a clean state.
func CleanupTestData(t *testing.T, db *gorm.DB) {
	tables := []string{
		"kpi_targets",
		"kpi_definitions",
		"exhibition_checks",
		"pop_assessments",
		"competitor_assessments",
		"product_assessments",
		"visits",
		"orders",
		"products",
		"brand_memberships",
		"clients",
		"markets",
		"zones",
		"brands",
		"tenants",
	}

	for _, table := range tables {
		err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id IS NOT NULL", table)).Error
		if err != nil {
			// Table might not exist, that's ok
			t.Logf("Note: Could not clean table %s: %v", table, err)
		}
	}
}

// CreateTestTenant creates a tenant and returns it
func CreateTestTenant(t *testing.T, db *gorm.DB, name string) *domain.Tenant {
	tenant := &domain.Tenant{Name: name, IsActive: true}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

// CreateTestBrand creates a brand under a tenant with the given KPI selection
func CreateTestBrand(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string, metrics []string) *domain.Brand {
	brand := &domain.Brand{
		TenantID:         tenantID,
		Name:             name,
		DashboardMetrics: pq.StringArray(metrics),
		IsActive:         true,
	}
	require.NoError(t, db.Create(brand).Error)
	return brand
}

// CreateTestDefinition creates an active KPI definition for a tenant
func CreateTestDefinition(t *testing.T, db *gorm.DB, tenantID uuid.UUID, slug domain.KpiSlug, computation domain.KpiComputationType) *domain.KpiDefinition {
	def := &domain.KpiDefinition{
		TenantID:        tenantID,
		Slug:            slug,
		Label:           string(slug),
		ComputationType: computation,
		Unit:            domain.UnitPercent,
		IsActive:        true,
	}
	require.NoError(t, db.Create(def).Error)
	return def
}

// CreateTestZone creates a zone under a tenant
func CreateTestZone(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string) *domain.Zone {
	zone := &domain.Zone{TenantID: tenantID, Name: name}
	require.NoError(t, db.Create(zone).Error)
	return zone
}

// CreateTestClient creates a client under a tenant, optionally in a zone
func CreateTestClient(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string, zoneID *uuid.UUID) *domain.Client {
	client := &domain.Client{TenantID: tenantID, Name: name, ZoneID: zoneID}
	require.NoError(t, db.Create(client).Error)
	return client
}

// MonthStart returns the first day of a month in UTC
func MonthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
