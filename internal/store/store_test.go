package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestParseOfstedRating(t *testing.T) {
	tests := []struct {
		in   string
		want OfstedRating
		ok   bool
	}{
		{"Outstanding", RatingOutstanding, true},
		{" good ", RatingGood, true},
		{"requires_improvement", RatingRequiresImprovement, true},
		{"Requires-Improvement", RatingRequiresImprovement, true},
		{"INADEQUATE", RatingInadequate, true},
		{"Serious Weaknesses", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseOfstedRating(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseOfstedRating(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRatingRankOrder(t *testing.T) {
	order := []OfstedRating{RatingInadequate, RatingRequiresImprovement, RatingGood, RatingOutstanding}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("expected %s to rank above %s", order[i], order[i-1])
		}
	}
	if OfstedRating("Brilliant").Rank() != 0 {
		t.Error("expected unknown rating to rank 0")
	}
}

func TestMigrateURL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/catchment":   "pgx5://u:p@db:5432/catchment",
		"postgresql://u:p@db:5432/catchment": "pgx5://u:p@db:5432/catchment",
		"pgx5://db/catchment":                "pgx5://db/catchment",
	}
	for in, want := range tests {
		if got := migrateURL(in); got != want {
			t.Errorf("migrateURL(%q) = %q, want %q", in, got, want)
		}
	}
}

const fixture = `
schools:
  - id: 1
    name: Alder Primary
    attributes:
      distance_km: 0.5
      ofsted_rating: outstanding
      has_breakfast_club: true
  - id: 2
    name: Birch Primary
    attributes:
      distance_km: 5
      ofsted_rating: Good
      faith: Roman Catholic
  - id: 3
    name: Cedar Prep
    attributes:
      is_private: true
      annual_fee: 18000
`

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schools.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(writeFixture(t, fixture))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	schools, err := s.GetSchools(ctx, []int64{3, 99, 1})
	if err != nil {
		t.Fatalf("GetSchools failed: %v", err)
	}
	if len(schools) != 2 {
		t.Fatalf("expected 2 schools, got %d", len(schools))
	}
	if schools[0].ID != 3 || schools[1].ID != 1 {
		t.Errorf("expected request order [3 1], got [%d %d]", schools[0].ID, schools[1].ID)
	}
	if r := schools[1].Attributes.OfstedRating; r == nil || *r != RatingOutstanding {
		t.Errorf("expected canonical Outstanding rating, got %v", r)
	}
	if schools[0].Attributes.DistanceKm != nil {
		t.Error("expected absent distance to stay nil")
	}
	if p := schools[0].Attributes.IsPrivate; p == nil || !*p || *schools[0].Attributes.AnnualFee != 18000 {
		t.Errorf("unexpected private school attributes: %+v", schools[0].Attributes)
	}

	sc, err := s.GetSchool(ctx, 2)
	if err != nil {
		t.Fatalf("GetSchool failed: %v", err)
	}
	if sc == nil || sc.Name != "Birch Primary" || *sc.Attributes.Faith != "Roman Catholic" {
		t.Errorf("unexpected school: %+v", sc)
	}
	if sc.Attributes.IsPrivate != nil {
		t.Error("expected unrecorded is_private to stay nil")
	}

	sc, err = s.GetSchool(ctx, 404)
	if err != nil || sc != nil {
		t.Errorf("expected nil, nil for unknown school, got %v, %v", sc, err)
	}
}

func TestFileStoreRejectsBadFixtures(t *testing.T) {
	tests := map[string]string{
		"duplicate id":   "schools:\n  - id: 1\n    name: A\n  - id: 1\n    name: B\n",
		"unknown rating": "schools:\n  - id: 1\n    name: A\n    attributes:\n      ofsted_rating: Brilliant\n",
		"bad yaml":       "schools: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewFileStore(writeFixture(t, body)); err == nil {
				t.Error("expected error")
			}
		})
	}
	if _, err := NewFileStore(""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := NewFileStore(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileStoreAll(t *testing.T) {
	s, err := NewFileStore(writeFixture(t, fixture))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	all, err := s.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 schools, got %d", len(all))
	}
	for i, sc := range all {
		if sc.ID != int64(i+1) {
			t.Errorf("position %d: expected id %d, got %d", i, i+1, sc.ID)
		}
	}
}
