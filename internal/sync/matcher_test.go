package sync

import (
	"context"
	"testing"

	"reelsync/internal/models"
)

func TestMatcherExternalIDWinsOverTitle(t *testing.T) {
	store := newFakeStore()
	byID, _ := store.CreateRecord(context.Background(), models.Properties{Title: "Old Title", ExternalID: 603}, models.StatusToWatch)
	if _, err := store.CreateRecord(context.Background(), models.Properties{Title: "The Matrix", ExternalID: 0}, models.StatusToWatch); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	match, err := NewMatcher(store).Find(context.Background(), 603, "The Matrix")
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if !match.Unique() {
		t.Fatal("expected unique match")
	}
	if match.Record.ID != byID.ID {
		t.Errorf("expected external-id match %s, got %s", byID.ID, match.Record.ID)
	}
}

func TestMatcherFallsBackToExactTitle(t *testing.T) {
	store := newFakeStore()
	seeded, _ := store.CreateRecord(context.Background(), models.Properties{Title: "Gravity"}, models.StatusToWatch)

	match, err := NewMatcher(store).Find(context.Background(), 49526, "Gravity")
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if !match.Unique() || match.Record.ID != seeded.ID {
		t.Fatalf("expected unique title match, got %+v", match)
	}
}

func TestMatcherNone(t *testing.T) {
	match, err := NewMatcher(newFakeStore()).Find(context.Background(), 1, "Nothing")
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if !match.None() {
		t.Fatalf("expected no match, got %+v", match)
	}
}

func TestMatcherAmbiguousTitle(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < 2; i++ {
		if _, err := store.CreateRecord(context.Background(), models.Properties{Title: "Dune"}, models.StatusToWatch); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	match, err := NewMatcher(store).Find(context.Background(), 0, "Dune")
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if !match.Ambiguous() {
		t.Fatalf("expected ambiguous match, got %+v", match)
	}
	if len(match.Candidates) != 2 {
		t.Errorf("expected 2 candidates, got %d", len(match.Candidates))
	}
}

func TestFindByTitleUsesContainsFallback(t *testing.T) {
	store := newFakeStore()
	seeded, _ := store.CreateRecord(context.Background(), models.Properties{Title: "The Lord of the Rings"}, models.StatusToWatch)

	match, err := NewMatcher(store).FindByTitle(context.Background(), "Lord of the Rings")
	if err != nil {
		t.Fatalf("FindByTitle returned error: %v", err)
	}
	if !match.Unique() || match.Record.ID != seeded.ID {
		t.Fatalf("expected contains fallback to find record, got %+v", match)
	}
}

func TestFindByTitlePrefersExactOverContains(t *testing.T) {
	store := newFakeStore()
	exact, _ := store.CreateRecord(context.Background(), models.Properties{Title: "Dune"}, models.StatusToWatch)
	if _, err := store.CreateRecord(context.Background(), models.Properties{Title: "Dune: Part Two"}, models.StatusToWatch); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	match, err := NewMatcher(store).FindByTitle(context.Background(), "Dune")
	if err != nil {
		t.Fatalf("FindByTitle returned error: %v", err)
	}
	if !match.Unique() || match.Record.ID != exact.ID {
		t.Fatalf("expected exact tier to win, got %+v", match)
	}
}
