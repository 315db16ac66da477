package memory

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/TripWise_APP_BackEnd/internal/domain"
)

func TestRecommendationRepoReturnsLatestWithinWindow(t *testing.T) {
	repo := NewRecommendationRepo(48 * time.Hour)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	old := &domain.RecommendationSet{ID: uuid.New(), Fingerprint: "fp", CreatedAt: now.Add(-30 * time.Hour), Candidates: []domain.Candidate{{Name: "Old"}}}
	fresh := &domain.RecommendationSet{ID: uuid.New(), Fingerprint: "fp", CreatedAt: now.Add(-time.Hour), Candidates: []domain.Candidate{{Name: "Fresh"}}}
	for _, set := range []*domain.RecommendationSet{fresh, old} {
		if err := repo.Insert(ctx, set); err != nil {
			t.Fatalf("Insert returned error: %v", err)
		}
	}

	got, err := repo.FindLatestByFingerprint(ctx, "fp", now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("FindLatestByFingerprint returned error: %v", err)
	}
	if got.ID != fresh.ID {
		t.Fatalf("expected fresh set, got %+v", got)
	}

	got.Candidates[0].Name = "mutated"
	again, _ := repo.FindLatestByFingerprint(ctx, "fp", now.Add(-24*time.Hour))
	if again.Candidates[0].Name != "Fresh" {
		t.Fatal("expected stored set to be isolated from callers")
	}

	if _, err := repo.FindLatestByFingerprint(ctx, "fp", now); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows outside the window, got %v", err)
	}
	if _, err := repo.FindLatestByFingerprint(ctx, "other", time.Time{}); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for unknown fingerprint, got %v", err)
	}
}

func TestDestinationRepoUpsertKeepsID(t *testing.T) {
	repo := NewDestinationRepo()
	ctx := context.Background()

	first, err := repo.Upsert(ctx, &domain.DestinationDetail{Name: "Goa", NameKey: "goa", Country: "India"})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if first.ID == uuid.Nil {
		t.Fatal("expected an id to be assigned")
	}

	second, err := repo.Upsert(ctx, &domain.DestinationDetail{Name: "Goa", NameKey: "goa", Country: "India", Summary: "Beaches"})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected id %s to be kept, got %s", first.ID, second.ID)
	}

	byID, err := repo.FindByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if byID.Summary != "Beaches" {
		t.Fatalf("expected latest write, got %+v", byID)
	}
	if _, err := repo.FindByKey(ctx, "goa "); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected exact key match only, got %v", err)
	}
}

func TestDestinationRepoSearch(t *testing.T) {
	repo := NewDestinationRepo()
	ctx := context.Background()
	for _, d := range []domain.DestinationDetail{
		{Name: "Kyoto", NameKey: "kyoto", Country: "Japan"},
		{Name: "Tokyo", NameKey: "tokyo", Country: "Japan"},
		{Name: "Lisbon", NameKey: "lisbon", Country: "Portugal"},
	} {
		d := d
		if _, err := repo.Upsert(ctx, &d); err != nil {
			t.Fatalf("Upsert returned error: %v", err)
		}
	}

	got, _ := repo.Search(ctx, "JAPAN", 10)
	if len(got) != 2 || got[0].Name != "Kyoto" || got[1].Name != "Tokyo" {
		t.Fatalf("unexpected results %+v", got)
	}
	got, _ = repo.Search(ctx, "o", 1)
	if len(got) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(got))
	}
	got, _ = repo.Search(ctx, "   ", 10)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %+v", got)
	}
}
