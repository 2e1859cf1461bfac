package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			athlete_id INTEGER NOT NULL,
			athlete_name TEXT NOT NULL DEFAULT '',
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Plans (one row per computed pacing plan)
		`CREATE TABLE IF NOT EXISTS plans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL,
			distance_m REAL NOT NULL,
			ascent_m REAL NOT NULL,
			flat_power_w REAL NOT NULL,
			cp REAL NOT NULL,
			w_prime_j REAL NOT NULL,
			total_mass_kg REAL NOT NULL,
			cda REAL NOT NULL,
			crr REAL NOT NULL,
			air_density REAL NOT NULL,
			wind_u REAL NOT NULL DEFAULT 0,
			wind_v REAL NOT NULL DEFAULT 0,
			total_time_s REAL NOT NULL,
			energy_kcal REAL NOT NULL,
			avg_power_w REAL NOT NULL,
			final_wbal_j REAL NOT NULL,
			min_wbal_j REAL NOT NULL,
			clamp_events INTEGER NOT NULL DEFAULT 0,
			solver_fallbacks INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE INDEX IF NOT EXISTS idx_plans_created_at ON plans(created_at)`,

		// Plan points (per-point targets of a plan)
		`CREATE TABLE IF NOT EXISTS plan_points (
			plan_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			distance_m REAL NOT NULL,
			elevation_m REAL NOT NULL,
			slope REAL NOT NULL,
			bearing REAL NOT NULL,
			power_w REAL NOT NULL,
			speed_ms REAL NOT NULL,
			duration_s REAL NOT NULL,
			cum_time_s REAL NOT NULL,
			wbal_j REAL NOT NULL,
			zone TEXT NOT NULL,
			PRIMARY KEY (plan_id, seq),
			FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_plan_points_plan ON plan_points(plan_id)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
