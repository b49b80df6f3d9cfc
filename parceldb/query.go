package parceldb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"talhoes.dashboard.org/internal/models"
)

var ErrInvalidSortColumn = errors.New("invalid sort column")

// sortColumns maps API sort keys to table columns.
var sortColumns = map[string]string{
	"id":                "parcel_id",
	"farm":              "farm",
	"species":           "species",
	"age":               "age",
	"productivity":      "productivity",
	"volume":            "volume",
	"area":              "area",
	"survival_rate":     "survival_rate",
	"operational_yield": "operational_yield",
	"cost":              "cost",
}

// SortColumns lists the accepted TableQuery.SortBy values.
func SortColumns() []string {
	out := make([]string, 0, len(sortColumns))
	for k := range sortColumns {
		out = append(out, k)
	}
	return out
}

// TableQuery selects rows of the raw data table. Farms follows the dashboard
// filter: an empty list matches nothing. Limit <= 0 means no limit.
type TableQuery struct {
	Farms  []string
	AgeMin int
	AgeMax int
	SortBy string
	Desc   bool
	Limit  int
	Offset int
}

type TableResult struct {
	Rows  []models.Parcel `json:"rows"`
	Total int             `json:"total"`
}

func (q TableQuery) where() (string, []interface{}) {
	placeholders := make([]string, len(q.Farms))
	args := make([]interface{}, 0, len(q.Farms)+2)
	for i, f := range q.Farms {
		placeholders[i] = "?"
		args = append(args, f)
	}
	args = append(args, q.AgeMin, q.AgeMax)
	return fmt.Sprintf("farm IN (%s) AND age BETWEEN ? AND ?", strings.Join(placeholders, ", ")), args
}

func (q TableQuery) orderBy() (string, error) {
	if q.SortBy == "" {
		return "seq", nil
	}
	col, ok := sortColumns[q.SortBy]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortColumn, q.SortBy)
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, seq", col, dir), nil
}

// QueryTable returns one page of the filtered table and the total match count.
func (c *Client) QueryTable(ctx context.Context, q TableQuery) (TableResult, error) {
	result := TableResult{Rows: []models.Parcel{}}
	if len(q.Farms) == 0 {
		return result, nil
	}

	order, err := q.orderBy()
	if err != nil {
		return result, err
	}
	where, args := q.where()

	if err := c.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM parcels WHERE "+where, args...).Scan(&result.Total); err != nil {
		return result, fmt.Errorf("error counting parcels: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT parcel_id, farm, species, age, productivity, volume, area,
		survival_rate, operational_yield, cost
		FROM parcels WHERE ` + where + ` ORDER BY ` + order + ` LIMIT ? OFFSET ?`
	rows, err := c.DB.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return result, fmt.Errorf("error querying parcels: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	for rows.Next() {
		var p models.Parcel
		if err := rows.Scan(&p.ID, &p.Farm, &p.Species, &p.Age, &p.Productivity, &p.Volume, &p.Area,
			&p.SurvivalRate, &p.OperationalYield, &p.Cost); err != nil {
			return result, fmt.Errorf("error scanning parcel: %w", err)
		}
		result.Rows = append(result.Rows, p)
	}
	return result, rows.Err()
}

// CountParcels returns the number of stored parcels.
func (c *Client) CountParcels(ctx context.Context) (int, error) {
	var n int
	if err := c.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM parcels").Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting parcels: %w", err)
	}
	return n, nil
}

// CountByFarm returns stored parcel counts keyed by farm.
func (c *Client) CountByFarm(ctx context.Context) (map[string]int, error) {
	rows, err := c.DB.QueryContext(ctx, "SELECT farm, COUNT(*) FROM parcels GROUP BY farm")
	if err != nil {
		return nil, fmt.Errorf("error counting parcels by farm: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	counts := make(map[string]int)
	for rows.Next() {
		var farm string
		var n int
		if err := rows.Scan(&farm, &n); err != nil {
			return nil, err
		}
		counts[farm] = n
	}
	return counts, rows.Err()
}
