package parceldb

import (
	"context"
	"database/sql"
	"fmt"

	"talhoes.dashboard.org/internal/models"
)

// insertParcelBatch adds parcels inside tx, keeping their order in seq.
func insertParcelBatch(ctx context.Context, tx *sql.Tx, parcels []models.Parcel) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO parcels (
			seq, parcel_id, farm, species, age, productivity, volume,
			area, survival_rate, operational_yield, cost
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for i, p := range parcels {
		_, err := stmt.ExecContext(ctx,
			i, p.ID, p.Farm, p.Species, p.Age, p.Productivity, p.Volume,
			p.Area, p.SurvivalRate, p.OperationalYield, p.Cost,
		)
		if err != nil {
			return fmt.Errorf("error inserting parcel %s/%s: %w", p.Farm, p.ID, err)
		}
	}
	return nil
}
