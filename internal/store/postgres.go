package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const schoolColumns = `school_id, name,
	distance_km, ofsted_rating, has_breakfast_club, has_afterschool_club,
	is_private, annual_fee, ofsted_trajectory, attendance_pct, avg_class_size,
	parking_chaos, has_holiday_club, uniform_cost, diversity_index,
	sibling_priority, school_run_ease, homework_hours, faith,
	postcode, phase`

func (s *PostgresStore) GetSchools(ctx context.Context, ids []int64) ([]*School, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+schoolColumns+`
		FROM school_snapshots WHERE school_id = ANY($1)
		ORDER BY school_id`, ids)
	if err != nil {
		return nil, fmt.Errorf("query schools: %w", err)
	}
	defer rows.Close()
	return scanSchools(rows)
}

func (s *PostgresStore) GetSchool(ctx context.Context, id int64) (*School, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+schoolColumns+`
		FROM school_snapshots WHERE school_id = $1`, id)
	sc, err := scanSchool(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get school %d: %w", id, err)
	}
	return sc, nil
}

// UpsertSchools writes snapshots in one batch, replacing any existing row
// for the same school id.
func (s *PostgresStore) UpsertSchools(ctx context.Context, schools []*School) error {
	if len(schools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, sc := range schools {
		a := &sc.Attributes
		var rating, trajectory *string
		if a.OfstedRating != nil {
			r := string(*a.OfstedRating)
			rating = &r
		}
		if a.OfstedTrajectory != nil {
			t := string(*a.OfstedTrajectory)
			trajectory = &t
		}
		batch.Queue(`
			INSERT INTO school_snapshots (`+schoolColumns+`, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, NOW())
			ON CONFLICT (school_id) DO UPDATE SET
				name = EXCLUDED.name,
				distance_km = EXCLUDED.distance_km,
				ofsted_rating = EXCLUDED.ofsted_rating,
				has_breakfast_club = EXCLUDED.has_breakfast_club,
				has_afterschool_club = EXCLUDED.has_afterschool_club,
				is_private = EXCLUDED.is_private,
				annual_fee = EXCLUDED.annual_fee,
				ofsted_trajectory = EXCLUDED.ofsted_trajectory,
				attendance_pct = EXCLUDED.attendance_pct,
				avg_class_size = EXCLUDED.avg_class_size,
				parking_chaos = EXCLUDED.parking_chaos,
				has_holiday_club = EXCLUDED.has_holiday_club,
				uniform_cost = EXCLUDED.uniform_cost,
				diversity_index = EXCLUDED.diversity_index,
				sibling_priority = EXCLUDED.sibling_priority,
				school_run_ease = EXCLUDED.school_run_ease,
				homework_hours = EXCLUDED.homework_hours,
				faith = EXCLUDED.faith,
				postcode = EXCLUDED.postcode,
				phase = EXCLUDED.phase,
				updated_at = NOW()`,
			sc.ID, sc.Name,
			a.DistanceKm, rating, a.HasBreakfastClub, a.HasAfterschoolClub,
			a.IsPrivate, a.AnnualFee, trajectory, a.AttendancePct, a.AvgClassSize,
			a.ParkingChaos, a.HasHolidayClub, a.UniformCost, a.DiversityIndex,
			a.SiblingPriority, a.SchoolRunEase, a.HomeworkHours, a.Faith,
			nullable(a.Postcode), nullable(a.Phase),
		)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert schools: %w", err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanSchools(rows pgx.Rows) ([]*School, error) {
	var schools []*School
	for rows.Next() {
		sc, err := scanSchool(rows)
		if err != nil {
			return nil, err
		}
		schools = append(schools, sc)
	}
	return schools, rows.Err()
}

func scanSchool(row pgx.Row) (*School, error) {
	sc := &School{}
	a := &sc.Attributes
	var rating, trajectory, faith, postcode, phase sql.NullString
	err := row.Scan(
		&sc.ID, &sc.Name,
		&a.DistanceKm, &rating, &a.HasBreakfastClub, &a.HasAfterschoolClub,
		&a.IsPrivate, &a.AnnualFee, &trajectory, &a.AttendancePct, &a.AvgClassSize,
		&a.ParkingChaos, &a.HasHolidayClub, &a.UniformCost, &a.DiversityIndex,
		&a.SiblingPriority, &a.SchoolRunEase, &a.HomeworkHours, &faith,
		&postcode, &phase,
	)
	if err != nil {
		return nil, err
	}
	if rating.Valid {
		// Labels that do not parse are treated as unrated.
		if r, ok := ParseOfstedRating(rating.String); ok {
			a.OfstedRating = &r
		}
	}
	if trajectory.Valid && trajectory.String != "" {
		t := Trajectory(trajectory.String)
		a.OfstedTrajectory = &t
	}
	if faith.Valid {
		a.Faith = &faith.String
	}
	a.Postcode = postcode.String
	a.Phase = phase.String
	return sc, nil
}
