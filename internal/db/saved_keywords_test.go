package db

import (
	"context"
	"testing"
)

func TestReplaceAndGetSavedKeywords(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	err := db.ReplaceSavedKeywords(ctx, "user-1", "US", "en", []string{"coffee", "tea"})
	if err != nil {
		t.Fatalf("ReplaceSavedKeywords failed: %v", err)
	}

	saved, err := db.GetSavedKeywords(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSavedKeywords failed: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("got %d saved keywords, want 2", len(saved))
	}

	// Replace drops keywords no longer in the set for that locale.
	if err := db.ReplaceSavedKeywords(ctx, "user-1", "US", "en", []string{"espresso"}); err != nil {
		t.Fatalf("second ReplaceSavedKeywords failed: %v", err)
	}
	saved, err = db.GetSavedKeywords(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSavedKeywords failed: %v", err)
	}
	if len(saved) != 1 || saved[0].Keyword != "espresso" {
		t.Errorf("saved set after replace = %+v", saved)
	}
}

func TestReplaceSavedKeywordsLocaleScoped(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := db.ReplaceSavedKeywords(ctx, "user-1", "US", "en", []string{"coffee"}); err != nil {
		t.Fatalf("ReplaceSavedKeywords US failed: %v", err)
	}
	if err := db.ReplaceSavedKeywords(ctx, "user-1", "DE", "de", []string{"kaffee"}); err != nil {
		t.Fatalf("ReplaceSavedKeywords DE failed: %v", err)
	}

	// Replacing one locale must not touch the other.
	if err := db.ReplaceSavedKeywords(ctx, "user-1", "US", "en", []string{"espresso"}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	saved, err := db.GetSavedKeywords(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSavedKeywords failed: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("got %d saved keywords, want 2 across locales: %+v", len(saved), saved)
	}
}

func TestListRequestersWithSavedKeywords(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := db.ReplaceSavedKeywords(ctx, "user-1", "US", "en", []string{"coffee"}); err != nil {
		t.Fatalf("ReplaceSavedKeywords failed: %v", err)
	}
	if err := db.ReplaceSavedKeywords(ctx, "user-2", "US", "en", []string{"tea"}); err != nil {
		t.Fatalf("ReplaceSavedKeywords failed: %v", err)
	}

	ids, err := db.ListRequestersWithSavedKeywords(ctx)
	if err != nil {
		t.Fatalf("ListRequestersWithSavedKeywords failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("got %d requesters, want 2: %v", len(ids), ids)
	}
}
