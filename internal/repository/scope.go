package repository

import (
	"context"
	"strings"

	"github.com/fermx3/companeros-en-ruta-api/internal/auth"
	"gorm.io/gorm"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string    // API field name
	Order SortOrder // asc or desc
}

// DefaultSortConfig returns the sort applied to catalog listings when the
// client does not ask for one (display order, ascending).
func DefaultSortConfig() SortConfig {
	return SortConfig{
		Field: "displayOrder",
		Order: SortOrderAsc,
	}
}

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// ClampPageSize normalizes a requested page size into [1, MaxPageSize]
func ClampPageSize(pageSize int) int {
	if pageSize <= 0 || pageSize > MaxPageSize {
		return MaxPageSize
	}
	return pageSize
}

// BuildOrderClause builds the ORDER BY clause from a field whitelist and
// sort config. fieldMap maps API field names to database column names;
// unknown fields fall back to defaultColumn.
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if config.Order == SortOrderAsc {
		order = "ASC"
	}

	return column + " " + order
}

// ApplyTenantFilter applies the multi-tenant filter to a GORM query.
// Every query against a tenant-scoped table goes through this. When no
// actor is present (background jobs) the query is returned unchanged and
// the caller must constrain it explicitly.
func ApplyTenantFilter(ctx context.Context, query *gorm.DB) *gorm.DB {
	tenantID := auth.GetEffectiveTenantFilter(ctx)
	if tenantID != nil {
		return query.Where("tenant_id = ?", *tenantID)
	}
	return query
}
