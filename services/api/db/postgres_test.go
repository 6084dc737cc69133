package db

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := NewPostgres(ctx, url)
	if err != nil {
		t.Fatalf("NewPostgres: %v", err)
	}
	defer s.Close()
	if _, err := s.pool.Exec(ctx, "TRUNCATE irrigation.readings"); err != nil {
		t.Fatal(err)
	}

	if rec, err := s.Latest(ctx); err != nil || rec != nil {
		t.Fatalf("Latest on empty table = %v, %v", rec, err)
	}

	first, second := sampleRecord(120), sampleRecord(640)
	for _, rec := range []Record{first, second} {
		if err := s.Append(ctx, rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if latest.ID != second.ID || latest.SoilMoisture != 640 {
		t.Fatalf("latest = %+v", latest)
	}
	if latest.Evaluation.PlantState != second.Evaluation.PlantState || latest.Evaluation.Seconds == nil {
		t.Fatalf("evaluation did not round-trip: %+v", latest.Evaluation)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != first.ID {
		t.Fatalf("All = %+v", all)
	}
}
