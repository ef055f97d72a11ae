package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrBrandNotFound is returned when a brand is not found
	ErrBrandNotFound = errors.New("brand not found")

	// ErrUnknownKpiSlug is returned when a slug is not in the tenant catalog
	ErrUnknownKpiSlug = errors.New("unknown kpi slug")

	// ErrUnsupportedKpi is returned when a definition carries a computation
	// type the scalar engine has no formula for. Callers treat it as a
	// configuration warning, not a request failure.
	ErrUnsupportedKpi = errors.New("unsupported kpi computation type")

	// ErrInvalidMonth is returned when a month parameter is not YYYY-MM
	ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")

	// ErrTooManyMetrics is returned when a dashboard selection exceeds the
	// maximum number of slugs
	ErrTooManyMetrics = errors.New("too many dashboard metrics selected")
)
