// Package warehouse provides read-only connectivity to the MS SQL Server BI
// warehouse that mirrors the KPI fact views. The mirror is optional; when
// disabled, fact views are read from the primary database.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fermx3/companeros-en-ruta-api/internal/config"
	"github.com/fermx3/companeros-en-ruta-api/internal/domain"
	"github.com/google/uuid"
	_ "github.com/microsoft/go-mssqldb" // MS SQL Server driver
	"go.uber.org/zap"
)

const (
	// Retry configuration for connection attempts
	defaultMaxRetries     = 3
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 10 * time.Second
	defaultBackoffFactor  = 2.0

	defaultHealthCheckTimeout = 5 * time.Second
)

// Client provides read-only access to the fact view mirror. It manages
// connection pooling and exposes one typed reader per mirrored view.
type Client struct {
	db           *sql.DB
	config       *config.WarehouseConfig
	logger       *zap.Logger
	queryTimeout time.Duration
}

// HealthStatus represents the health check result for the mirror connection
type HealthStatus struct {
	Status     string        `json:"status"`
	Latency    time.Duration `json:"latency_ms"`
	Error      string        `json:"error,omitempty"`
	MaxOpen    int           `json:"max_open_connections"`
	Open       int           `json:"open_connections"`
	InUse      int           `json:"in_use"`
	Idle       int           `json:"idle"`
	WaitCount  int64         `json:"wait_count"`
	WaitTimeMs int64         `json:"wait_time_ms"`
}

// NewClient creates a new warehouse client. Returns nil if the mirror is
// disabled or not configured; callers must treat a nil client as absent.
// Connection establishment retries transient failures with backoff.
func NewClient(cfg *config.WarehouseConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("Warehouse mirror disabled")
		return nil, nil
	}

	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("Warehouse mirror enabled but missing credentials, skipping connection",
			zap.Bool("url_present", cfg.URL != ""),
			zap.Bool("user_present", cfg.User != ""),
			zap.Bool("password_present", cfg.Password != ""),
		)
		return nil, nil
	}

	logger.Info("Initializing warehouse mirror connection",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
		zap.Int("query_timeout_seconds", cfg.QueryTimeout),
	)

	connStr, err := buildConnectionString(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	var db *sql.DB
	backoff := defaultInitialBackoff

	for attempt := 1; attempt <= defaultMaxRetries; attempt++ {
		logger.Info("Attempting warehouse connection",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", defaultMaxRetries),
		)

		db, err = sql.Open("sqlserver", connStr)
		if err != nil {
			logger.Warn("Failed to open warehouse connection",
				zap.Error(err),
				zap.Int("attempt", attempt),
			)
			if attempt < defaultMaxRetries {
				time.Sleep(backoff)
				backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
			}
			continue
		}

		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

		ctx, cancel := context.WithTimeout(context.Background(), defaultHealthCheckTimeout)
		err = db.PingContext(ctx)
		cancel()

		if err != nil {
			logger.Warn("Warehouse ping failed",
				zap.Error(err),
				zap.Int("attempt", attempt),
			)
			_ = db.Close()
			if attempt < defaultMaxRetries {
				time.Sleep(backoff)
				backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
			}
			continue
		}

		logger.Info("Warehouse mirror connection established",
			zap.Int("attempts_taken", attempt),
		)

		return &Client{
			db:           db,
			config:       cfg,
			logger:       logger,
			queryTimeout: cfg.QueryTimeoutDuration(),
		}, nil
	}

	return nil, fmt.Errorf("failed to connect to warehouse after %d attempts: %w", defaultMaxRetries, err)
}

// buildConnectionString constructs a SQL Server connection string.
// URL format expected: host:port/database or host:port.
func buildConnectionString(cfg *config.WarehouseConfig) (string, error) {
	urlParts := strings.SplitN(cfg.URL, "/", 2)
	hostPort := urlParts[0]
	database := ""
	if len(urlParts) > 1 {
		database = urlParts[1]
	}

	hostParts := strings.SplitN(hostPort, ":", 2)
	host := hostParts[0]
	port := "1433"
	if len(hostParts) > 1 {
		port = hostParts[1]
	}

	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", host, port),
		RawQuery: query.Encode(),
	}

	return u.String(), nil
}

// Close gracefully closes the warehouse connection
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}

	c.logger.Info("Closing warehouse connection")

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close warehouse connection: %w", err)
	}

	return nil
}

// IsEnabled returns true if the client is initialized and ready for queries
func (c *Client) IsEnabled() bool {
	return c != nil && c.db != nil
}

// HealthCheck pings the mirror and reports connection pool statistics
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	if c == nil || c.db == nil {
		return &HealthStatus{Status: "disabled"}
	}

	start := time.Now()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultHealthCheckTimeout)
		defer cancel()
	}

	err := c.db.PingContext(ctx)
	latency := time.Since(start)

	stats := c.db.Stats()
	status := &HealthStatus{
		Latency:    latency,
		MaxOpen:    stats.MaxOpenConnections,
		Open:       stats.OpenConnections,
		InUse:      stats.InUse,
		Idle:       stats.Idle,
		WaitCount:  stats.WaitCount,
		WaitTimeMs: stats.WaitDuration.Milliseconds(),
	}

	if err != nil {
		c.logger.Warn("Warehouse health check failed",
			zap.Error(err),
			zap.Duration("latency", latency),
		)
		status.Status = "unhealthy"
		status.Error = err.Error()
	} else {
		status.Status = "healthy"
	}

	return status
}

func (c *Client) queryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if c == nil || c.db == nil {
		return nil, fmt.Errorf("warehouse client not initialized")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		c.logger.Error("Warehouse query failed",
			zap.Error(err),
			zap.String("query", truncateQuery(query, 200)),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	return rows, nil
}

// VolumeFacts reads the mirrored kpi_volume_facts view
func (c *Client) VolumeFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.VolumeFact, error) {
	rows, err := c.queryContext(ctx,
		`SELECT zone_id, zone_name, period_week, revenue, weight_tons
		 FROM dbo.kpi_volume_facts
		 WHERE brand_id = @p1 AND period_month = @p2`,
		brandID.String(), month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []domain.VolumeFact
	for rows.Next() {
		var f domain.VolumeFact
		var zoneID string
		if err := rows.Scan(&zoneID, &f.ZoneName, &f.PeriodWeek, &f.Revenue, &f.WeightTons); err != nil {
			return nil, fmt.Errorf("failed to scan volume fact: %w", err)
		}
		if f.ZoneID, err = uuid.Parse(zoneID); err != nil {
			return nil, fmt.Errorf("invalid zone_id in volume fact: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// ReachFacts reads the mirrored kpi_reach_facts view
func (c *Client) ReachFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.ReachFact, error) {
	rows, err := c.queryContext(ctx,
		`SELECT zone_id, zone_name, clients_visited, total_active_members
		 FROM dbo.kpi_reach_facts
		 WHERE brand_id = @p1 AND period_month = @p2`,
		brandID.String(), month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []domain.ReachFact
	for rows.Next() {
		var f domain.ReachFact
		var zoneID string
		if err := rows.Scan(&zoneID, &f.ZoneName, &f.ClientsVisited, &f.TotalActiveMembers); err != nil {
			return nil, fmt.Errorf("failed to scan reach fact: %w", err)
		}
		if f.ZoneID, err = uuid.Parse(zoneID); err != nil {
			return nil, fmt.Errorf("invalid zone_id in reach fact: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// MixFacts reads the mirrored kpi_mix_facts view
func (c *Client) MixFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.MixFact, error) {
	rows, err := c.queryContext(ctx,
		`SELECT market_id, market_name, client_id
		 FROM dbo.kpi_mix_facts
		 WHERE brand_id = @p1 AND period_month = @p2`,
		brandID.String(), month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []domain.MixFact
	for rows.Next() {
		var f domain.MixFact
		var marketID, clientID string
		if err := rows.Scan(&marketID, &f.MarketName, &clientID); err != nil {
			return nil, fmt.Errorf("failed to scan mix fact: %w", err)
		}
		if f.MarketID, err = uuid.Parse(marketID); err != nil {
			return nil, fmt.Errorf("invalid market_id in mix fact: %w", err)
		}
		if f.ClientID, err = uuid.Parse(clientID); err != nil {
			return nil, fmt.Errorf("invalid client_id in mix fact: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// AssortmentFacts reads the mirrored kpi_assortment_facts view
func (c *Client) AssortmentFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.AssortmentFact, error) {
	rows, err := c.queryContext(ctx,
		`SELECT zone_id, zone_name, avg_pct, visit_count
		 FROM dbo.kpi_assortment_facts
		 WHERE brand_id = @p1 AND period_month = @p2`,
		brandID.String(), month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []domain.AssortmentFact
	for rows.Next() {
		var f domain.AssortmentFact
		var zoneID string
		if err := rows.Scan(&zoneID, &f.ZoneName, &f.AvgPct, &f.VisitCount); err != nil {
			return nil, fmt.Errorf("failed to scan assortment fact: %w", err)
		}
		if f.ZoneID, err = uuid.Parse(zoneID); err != nil {
			return nil, fmt.Errorf("invalid zone_id in assortment fact: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// MarketShareFacts reads the mirrored kpi_market_share_facts view
func (c *Client) MarketShareFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.MarketShareFact, error) {
	rows, err := c.queryContext(ctx,
		`SELECT zone_id, zone_name, brand_present, competitor_present, brand_facings, competitor_facings
		 FROM dbo.kpi_market_share_facts
		 WHERE brand_id = @p1 AND period_month = @p2`,
		brandID.String(), month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []domain.MarketShareFact
	for rows.Next() {
		var f domain.MarketShareFact
		var zoneID string
		if err := rows.Scan(&zoneID, &f.ZoneName, &f.BrandPresent, &f.CompetitorPresent, &f.BrandFacings, &f.CompetitorFacings); err != nil {
			return nil, fmt.Errorf("failed to scan market share fact: %w", err)
		}
		if f.ZoneID, err = uuid.Parse(zoneID); err != nil {
			return nil, fmt.Errorf("invalid zone_id in market share fact: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// ShelfFacts reads the mirrored kpi_shelf_facts view
func (c *Client) ShelfFacts(ctx context.Context, brandID uuid.UUID, month string) ([]domain.ShelfFact, error) {
	rows, err := c.queryContext(ctx,
		`SELECT zone_id, zone_name, pop_present, pop_total, exhib_executed, exhib_total
		 FROM dbo.kpi_shelf_facts
		 WHERE brand_id = @p1 AND period_month = @p2`,
		brandID.String(), month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []domain.ShelfFact
	for rows.Next() {
		var f domain.ShelfFact
		var zoneID string
		if err := rows.Scan(&zoneID, &f.ZoneName, &f.PopPresent, &f.PopTotal, &f.ExhibExecuted, &f.ExhibTotal); err != nil {
			return nil, fmt.Errorf("failed to scan shelf fact: %w", err)
		}
		if f.ZoneID, err = uuid.Parse(zoneID); err != nil {
			return nil, fmt.Errorf("invalid zone_id in shelf fact: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// truncateQuery truncates a query string for logging purposes
func truncateQuery(query string, maxLen int) string {
	if len(query) <= maxLen {
		return query
	}
	return query[:maxLen] + "..."
}
