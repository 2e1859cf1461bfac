package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrPlanNotFound is returned when a plan doesn't exist
var ErrPlanNotFound = errors.New("plan not found")

// SavePlan stores a plan and its points in one transaction. The plan's ID
// is set from the inserted row; the points' PlanID and Seq are assigned
// from their slice order.
func (db *DB) SavePlan(p *Plan, points []PlanPoint) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO plans (
			uuid, name, created_at, distance_m, ascent_m,
			flat_power_w, cp, w_prime_j, total_mass_kg, cda, crr,
			air_density, wind_u, wind_v,
			total_time_s, energy_kcal, avg_power_w, final_wbal_j, min_wbal_j,
			clamp_events, solver_fallbacks
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.UUID, p.Name, p.CreatedAt.Format(time.RFC3339), p.DistanceM, p.AscentM,
		p.FlatPowerW, p.CP, p.WPrimeJ, p.TotalMassKg, p.CdA, p.Crr,
		p.AirDensity, p.WindU, p.WindV,
		p.TotalTimeS, p.EnergyKcal, p.AvgPowerW, p.FinalWBalJ, p.MinWBalJ,
		p.ClampEvents, p.SolverFallbacks,
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading plan id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO plan_points (
			plan_id, seq, lat, lon, distance_m, elevation_m, slope, bearing,
			power_w, speed_ms, duration_s, cum_time_s, wbal_j, zone
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range points {
		points[i].PlanID = id
		points[i].Seq = i
		pt := points[i]
		_, err := stmt.Exec(
			pt.PlanID, pt.Seq, pt.Lat, pt.Lon, pt.DistanceM, pt.ElevationM, pt.SlopeTan, pt.BearingDeg,
			pt.PowerW, pt.SpeedMS, pt.DurationS, pt.CumTimeS, pt.WBalJ, pt.Zone,
		)
		if err != nil {
			return fmt.Errorf("inserting plan point %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	p.ID = id
	return nil
}

// GetPlan retrieves a plan by ID
func (db *DB) GetPlan(id int64) (*Plan, error) {
	row := db.QueryRow(`
		SELECT id, uuid, name, created_at, distance_m, ascent_m,
			flat_power_w, cp, w_prime_j, total_mass_kg, cda, crr,
			air_density, wind_u, wind_v,
			total_time_s, energy_kcal, avg_power_w, final_wbal_j, min_wbal_j,
			clamp_events, solver_fallbacks
		FROM plans
		WHERE id = ?
	`, id)

	return scanPlan(row)
}

// GetPlanByUUID retrieves a plan by its UUID
func (db *DB) GetPlanByUUID(uuid string) (*Plan, error) {
	row := db.QueryRow(`
		SELECT id, uuid, name, created_at, distance_m, ascent_m,
			flat_power_w, cp, w_prime_j, total_mass_kg, cda, crr,
			air_density, wind_u, wind_v,
			total_time_s, energy_kcal, avg_power_w, final_wbal_j, min_wbal_j,
			clamp_events, solver_fallbacks
		FROM plans
		WHERE uuid = ?
	`, uuid)

	return scanPlan(row)
}

// ListPlans returns plans ordered by creation date descending
func (db *DB) ListPlans(limit, offset int) ([]Plan, error) {
	rows, err := db.Query(`
		SELECT id, uuid, name, created_at, distance_m, ascent_m,
			flat_power_w, cp, w_prime_j, total_mass_kg, cda, crr,
			air_density, wind_u, wind_v,
			total_time_s, energy_kcal, avg_power_w, final_wbal_j, min_wbal_j,
			clamp_events, solver_fallbacks
		FROM plans
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlans(rows)
}

// GetPlanPoints retrieves all points of a plan in route order
func (db *DB) GetPlanPoints(planID int64) ([]PlanPoint, error) {
	rows, err := db.Query(`
		SELECT plan_id, seq, lat, lon, distance_m, elevation_m, slope, bearing,
			power_w, speed_ms, duration_s, cum_time_s, wbal_j, zone
		FROM plan_points
		WHERE plan_id = ?
		ORDER BY seq
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []PlanPoint
	for rows.Next() {
		var pt PlanPoint
		err := rows.Scan(
			&pt.PlanID, &pt.Seq, &pt.Lat, &pt.Lon, &pt.DistanceM, &pt.ElevationM, &pt.SlopeTan, &pt.BearingDeg,
			&pt.PowerW, &pt.SpeedMS, &pt.DurationS, &pt.CumTimeS, &pt.WBalJ, &pt.Zone,
		)
		if err != nil {
			return nil, err
		}
		points = append(points, pt)
	}

	return points, rows.Err()
}

// DeletePlan removes a plan and, via the foreign key, its points
func (db *DB) DeletePlan(id int64) error {
	result, err := db.Exec("DELETE FROM plans WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// CountPlans returns the total number of stored plans
func (db *DB) CountPlans() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM plans").Scan(&count)
	return count, err
}

// scanPlan scans a single plan from a row
func scanPlan(row *sql.Row) (*Plan, error) {
	var p Plan
	var createdAt string

	err := row.Scan(
		&p.ID, &p.UUID, &p.Name, &createdAt, &p.DistanceM, &p.AscentM,
		&p.FlatPowerW, &p.CP, &p.WPrimeJ, &p.TotalMassKg, &p.CdA, &p.Crr,
		&p.AirDensity, &p.WindU, &p.WindV,
		&p.TotalTimeS, &p.EnergyKcal, &p.AvgPowerW, &p.FinalWBalJ, &p.MinWBalJ,
		&p.ClampEvents, &p.SolverFallbacks,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	p.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}

	return &p, nil
}

// scanPlans scans multiple plans from rows
func scanPlans(rows *sql.Rows) ([]Plan, error) {
	var plans []Plan

	for rows.Next() {
		var p Plan
		var createdAt string

		err := rows.Scan(
			&p.ID, &p.UUID, &p.Name, &createdAt, &p.DistanceM, &p.AscentM,
			&p.FlatPowerW, &p.CP, &p.WPrimeJ, &p.TotalMassKg, &p.CdA, &p.Crr,
			&p.AirDensity, &p.WindU, &p.WindV,
			&p.TotalTimeS, &p.EnergyKcal, &p.AvgPowerW, &p.FinalWBalJ, &p.MinWBalJ,
			&p.ClampEvents, &p.SolverFallbacks,
		)
		if err != nil {
			return nil, err
		}

		p.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
		}

		plans = append(plans, p)
	}

	return plans, rows.Err()
}
