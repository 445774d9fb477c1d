//go:build integration

package store

import (
	"context"
	"os"
	"testing"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	if err := Migrate(dbURL, -1); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE school_snapshots")
		s.Close()
	})

	return s
}

func seedSchools(t *testing.T, s *PostgresStore) {
	t.Helper()
	_, err := s.pool.Exec(context.Background(), `
		INSERT INTO school_snapshots
			(school_id, name, distance_km, ofsted_rating, has_breakfast_club, is_private, annual_fee, ofsted_trajectory, faith, postcode, phase)
		VALUES
			(1, 'Alder Primary', 0.5, 'Outstanding', TRUE, FALSE, NULL, 'improving', NULL, 'AB1 2CD', 'primary'),
			(2, 'Birch Primary', 5, 'good', NULL, FALSE, NULL, NULL, 'Roman Catholic', NULL, NULL),
			(3, 'Cedar Prep', NULL, 'Serious Weaknesses', NULL, TRUE, 18000, NULL, NULL, NULL, NULL)`)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestGetSchools(t *testing.T) {
	s := setupTestDB(t)
	seedSchools(t, s)

	schools, err := s.GetSchools(context.Background(), []int64{1, 2, 3, 404})
	if err != nil {
		t.Fatalf("GetSchools failed: %v", err)
	}
	if len(schools) != 3 {
		t.Fatalf("expected 3 schools, got %d", len(schools))
	}

	a := schools[0].Attributes
	if a.DistanceKm == nil || *a.DistanceKm != 0.5 {
		t.Errorf("expected distance 0.5, got %v", a.DistanceKm)
	}
	if a.OfstedRating == nil || *a.OfstedRating != RatingOutstanding {
		t.Errorf("expected Outstanding, got %v", a.OfstedRating)
	}
	if a.HasAfterschoolClub != nil {
		t.Error("expected NULL after-school club to stay nil")
	}
	if a.OfstedTrajectory == nil || *a.OfstedTrajectory != TrajectoryImproving {
		t.Errorf("expected improving trajectory, got %v", a.OfstedTrajectory)
	}
	if a.Postcode != "AB1 2CD" {
		t.Errorf("expected postcode, got %q", a.Postcode)
	}

	if r := schools[1].Attributes.OfstedRating; r == nil || *r != RatingGood {
		t.Errorf("expected lower-case label canonicalised to Good, got %v", r)
	}
	if schools[2].Attributes.OfstedRating != nil {
		t.Error("expected unknown label to read as unrated")
	}
}

func TestGetSchool(t *testing.T) {
	s := setupTestDB(t)
	seedSchools(t, s)
	ctx := context.Background()

	sc, err := s.GetSchool(ctx, 3)
	if err != nil {
		t.Fatalf("GetSchool failed: %v", err)
	}
	if sc == nil || sc.Attributes.IsPrivate == nil || !*sc.Attributes.IsPrivate || *sc.Attributes.AnnualFee != 18000 {
		t.Errorf("unexpected school: %+v", sc)
	}

	sc, err = s.GetSchool(ctx, 404)
	if err != nil {
		t.Fatalf("GetSchool failed: %v", err)
	}
	if sc != nil {
		t.Error("expected nil for unknown school")
	}
}

func TestGetSchoolsEmpty(t *testing.T) {
	s := setupTestDB(t)
	schools, err := s.GetSchools(context.Background(), nil)
	if err != nil || schools != nil {
		t.Errorf("expected nil, nil for empty ids, got %v, %v", schools, err)
	}
}

func TestUpsertSchools(t *testing.T) {
	s := setupTestDB(t)
	seedSchools(t, s)
	ctx := context.Background()

	km := 1.5
	rating := RatingInadequate
	err := s.UpsertSchools(ctx, []*School{
		{ID: 1, Name: "Alder Primary School", Attributes: Attributes{DistanceKm: &km, OfstedRating: &rating}},
		{ID: 9, Name: "Juniper Infants", Attributes: Attributes{Phase: "infant"}},
	})
	if err != nil {
		t.Fatalf("UpsertSchools failed: %v", err)
	}

	sc, err := s.GetSchool(ctx, 1)
	if err != nil || sc == nil {
		t.Fatalf("GetSchool failed: %v", err)
	}
	if sc.Name != "Alder Primary School" || *sc.Attributes.DistanceKm != 1.5 {
		t.Errorf("expected row replaced, got %+v", sc)
	}
	if sc.Attributes.OfstedTrajectory != nil || sc.Attributes.Postcode != "" {
		t.Error("expected fields absent from the new snapshot to be cleared")
	}

	sc, err = s.GetSchool(ctx, 9)
	if err != nil || sc == nil {
		t.Fatalf("expected inserted school, got %v, %v", sc, err)
	}
	if sc.Attributes.Phase != "infant" {
		t.Errorf("expected phase infant, got %q", sc.Attributes.Phase)
	}
	if sc.Attributes.IsPrivate != nil {
		t.Errorf("expected unrecorded is_private to read back as NULL, got %v", *sc.Attributes.IsPrivate)
	}
}
