package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"reiatsu/database"

	"github.com/jackc/pgx/v5"
)

// AdminTables are the tables the admin panel may browse
var AdminTables = []string{
	"reiatsu_players",
	"reiatsu_spawns",
	"points_history",
	"rpg_players",
	"gardens",
	"found_words",
	"car_collection",
	"guild_settings",
}

// ErrTableNotAllowed is returned for tables outside AdminTables
var ErrTableNotAllowed = errors.New("table not available")

// TablePage is a page of rows rendered as strings
type TablePage struct {
	Table     string
	Columns   []string
	Rows      [][]string
	Page      int
	PageSize  int
	Total     int
	Truncated bool
}

// HasNext reports whether a following page exists
func (p *TablePage) HasNext() bool {
	return (p.Page+1)*p.PageSize < p.Total
}

// DashboardCounts summarizes the database for the admin dashboard
type DashboardCounts struct {
	Guilds         int
	Players        int
	PointsTotal    int64
	ActiveSpawns   int
	HistoryEntries int
	KeysAvailable  int
}

// AdminRepository serves the admin panel. It is not guild scoped and never writes.
type AdminRepository struct {
	db *database.DB
}

// NewAdminRepository creates an admin repository
func NewAdminRepository(db *database.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Counts returns the dashboard numbers
func (r *AdminRepository) Counts(ctx context.Context) (*DashboardCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(DISTINCT guild_id) FROM reiatsu_players),
			(SELECT COUNT(*) FROM reiatsu_players),
			(SELECT COALESCE(SUM(points), 0)::BIGINT FROM reiatsu_players),
			(SELECT COUNT(*) FROM reiatsu_spawns WHERE is_spawn),
			(SELECT COUNT(*) FROM points_history),
			(SELECT COUNT(*) FROM steam_keys WHERE claimed_by IS NULL)
	`

	var counts DashboardCounts
	err := r.db.QueryRow(ctx, query).Scan(
		&counts.Guilds,
		&counts.Players,
		&counts.PointsTotal,
		&counts.ActiveSpawns,
		&counts.HistoryEntries,
		&counts.KeysAvailable,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count dashboard totals: %w", err)
	}
	return &counts, nil
}

// Browse returns one page of an allow-listed table, page is 0-based
func (r *AdminRepository) Browse(ctx context.Context, table string, page, pageSize int) (*TablePage, error) {
	if !slices.Contains(AdminTables, table) {
		return nil, ErrTableNotAllowed
	}
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	ident := pgx.Identifier{table}.Sanitize()

	result := &TablePage{Table: table, Page: page, PageSize: pageSize}
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM "+ident).Scan(&result.Total); err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", table, err)
	}

	rows, err := r.db.Query(ctx, "SELECT * FROM "+ident+" ORDER BY 1, 2 LIMIT $1 OFFSET $2", pageSize, page*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to browse %s: %w", table, err)
	}
	defer rows.Close()

	if err := collectStrings(rows, result, pageSize); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	return result, nil
}

// ReadOnlyQuery runs arbitrary SQL in a READ ONLY transaction that is always
// rolled back. At most maxRows rows are returned.
func (r *AdminRepository) ReadOnlyQuery(ctx context.Context, sql string, maxRows int, timeout time.Duration) (*TablePage, error) {
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return nil, errors.New("empty query")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := &TablePage{PageSize: maxRows}
	err := r.db.WithReadOnlyTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", timeout.Milliseconds())); err != nil {
			return fmt.Errorf("failed to set statement timeout: %w", err)
		}

		rows, err := tx.Query(ctx, sql)
		if err != nil {
			return err
		}
		defer rows.Close()
		return collectStrings(rows, result, maxRows)
	})
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	result.Total = len(result.Rows)
	return result, nil
}

func collectStrings(rows pgx.Rows, page *TablePage, limit int) error {
	for _, field := range rows.FieldDescriptions() {
		page.Columns = append(page.Columns, field.Name)
	}

	for rows.Next() {
		if len(page.Rows) >= limit {
			page.Truncated = true
			break
		}
		values, err := rows.Values()
		if err != nil {
			return err
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		page.Rows = append(page.Rows, row)
	}
	return rows.Err()
}

func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(value)
	case time.Time:
		return value.UTC().Format(time.RFC3339)
	case string:
		return value
	case map[string]any, []any:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(encoded)
	default:
		return fmt.Sprint(value)
	}
}
