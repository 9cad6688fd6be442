package store_test

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/valpere/promptadapt/internal/culture"
	"github.com/valpere/promptadapt/internal/prompt"
	"github.com/valpere/promptadapt/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleVariant() prompt.Variant {
	return prompt.Variant{
		TemplateID: "business_email",
		Language:   "de",
		Formality:  culture.Formal,
		Content:    "Sehr geehrte Damen und Herren,\n\nBitte senden Sie den Bericht.\n\nHochachtungsvoll",
		Notes:      []string{`added greeting: "Sehr geehrte Damen und Herren,"`, "structural-only adaptation"},
		Refined:    false,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestVariantRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	v := sampleVariant()

	if err := s.SaveVariant(ctx, v); err != nil {
		t.Fatalf("failed to save variant: %v", err)
	}

	got, ok, err := s.GetVariant(ctx, v.TemplateID, v.Language, v.Formality)
	if err != nil {
		t.Fatalf("failed to get variant: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Content != v.Content {
		t.Errorf("content mismatch:\ngot:  %q\nwant: %q", got.Content, v.Content)
	}
	if !reflect.DeepEqual(got.Notes, v.Notes) {
		t.Errorf("notes mismatch: got %v, want %v", got.Notes, v.Notes)
	}
	if got.Refined != v.Refined {
		t.Errorf("refined mismatch: got %v, want %v", got.Refined, v.Refined)
	}
}

func TestGetVariant_Miss(t *testing.T) {
	s := newStore(t)

	_, ok, err := s.GetVariant(context.Background(), "nope", "de", culture.Formal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected cache miss")
	}
}

func TestGetVariant_BumpsUsage(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.SaveVariant(ctx, sampleVariant()); err != nil {
		t.Fatalf("failed to save variant: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, _, err := s.GetVariant(ctx, "business_email", "de", culture.Formal); err != nil {
			t.Fatalf("failed to get variant: %v", err)
		}
	}

	entries, err := s.ListVariants(ctx)
	if err != nil {
		t.Fatalf("failed to list variants: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].UsageCount != 3 {
		t.Errorf("expected usage count 3 (1 save + 2 hits), got %d", entries[0].UsageCount)
	}
}

func TestSaveVariant_ReplacesSameKey(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	v := sampleVariant()
	if err := s.SaveVariant(ctx, v); err != nil {
		t.Fatalf("failed to save variant: %v", err)
	}
	v.Content = "Neuer Inhalt."
	v.Refined = true
	if err := s.SaveVariant(ctx, v); err != nil {
		t.Fatalf("failed to overwrite variant: %v", err)
	}

	got, ok, err := s.GetVariant(ctx, v.TemplateID, v.Language, v.Formality)
	if err != nil || !ok {
		t.Fatalf("expected cache hit, ok=%v err=%v", ok, err)
	}
	if got.Content != "Neuer Inhalt." || !got.Refined {
		t.Errorf("expected replaced variant, got %+v", got)
	}

	entries, err := s.ListVariants(ctx)
	if err != nil {
		t.Fatalf("failed to list variants: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("same key must replace, not duplicate: got %d entries", len(entries))
	}
}

func TestGenerationRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	key := sampleVariant().Key()

	if err := s.SaveGeneration(ctx, key, "llama3.2", "Refined text.", 42, 17); err != nil {
		t.Fatalf("failed to save generation: %v", err)
	}

	text, model, ok, err := s.GetGeneration(ctx, key)
	if err != nil {
		t.Fatalf("failed to get generation: %v", err)
	}
	if !ok {
		t.Fatal("expected stored generation")
	}
	if text != "Refined text." || model != "llama3.2" {
		t.Errorf("unexpected generation: text=%q model=%q", text, model)
	}

	_, _, ok, err = s.GetGeneration(ctx, "unknown_key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no generation for unknown key")
	}
}

func TestExperimentLog(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	cfg := map[string]any{"languages": []string{"de", "es"}}
	if err := s.CreateExperiment(ctx, "exp_1", "matrix run", cfg); err != nil {
		t.Fatalf("failed to create experiment: %v", err)
	}
	if err := s.AddExperimentResult(ctx, "exp_1", "business_email_de_formal", 4.5, "Excellent", "{}"); err != nil {
		t.Fatalf("failed to add result: %v", err)
	}
	if err := s.CompleteExperiment(ctx, "exp_1", "completed"); err != nil {
		t.Fatalf("failed to complete experiment: %v", err)
	}

	entries, err := s.ListExperiments(ctx)
	if err != nil {
		t.Fatalf("failed to list experiments: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 experiment, got %d", len(entries))
	}
	e := entries[0]
	if e.ID != "exp_1" || e.Name != "matrix run" {
		t.Errorf("unexpected experiment entry: %+v", e)
	}
	if e.Status != "completed" {
		t.Errorf("expected status completed, got %q", e.Status)
	}
	if !e.CompletedAt.Valid {
		t.Error("expected completed_at set")
	}
}

func TestStats(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	v := sampleVariant()
	if err := s.SaveVariant(ctx, v); err != nil {
		t.Fatalf("failed to save variant: %v", err)
	}
	refined := v
	refined.Language = "es"
	refined.Refined = true
	if err := s.SaveVariant(ctx, refined); err != nil {
		t.Fatalf("failed to save variant: %v", err)
	}
	if err := s.SaveGeneration(ctx, refined.Key(), "llama3.2", "texto", 1, 2); err != nil {
		t.Fatalf("failed to save generation: %v", err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if stats.TotalVariants != 2 {
		t.Errorf("expected 2 variants, got %d", stats.TotalVariants)
	}
	if stats.RefinedVariants != 1 {
		t.Errorf("expected 1 refined variant, got %d", stats.RefinedVariants)
	}
	if stats.TotalUsage != 2 {
		t.Errorf("expected total usage 2, got %d", stats.TotalUsage)
	}
	if stats.TotalGenerations != 1 {
		t.Errorf("expected 1 generation, got %d", stats.TotalGenerations)
	}
}

func TestDeleteAndClear(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.SaveVariant(ctx, sampleVariant()); err != nil {
		t.Fatalf("failed to save variant: %v", err)
	}
	entries, err := s.ListVariants(ctx)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d (err=%v)", len(entries), err)
	}

	if err := s.DeleteVariant(ctx, entries[0].ID); err != nil {
		t.Fatalf("failed to delete variant: %v", err)
	}
	entries, err = s.ListVariants(ctx)
	if err != nil {
		t.Fatalf("failed to list variants: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty cache after delete, got %d entries", len(entries))
	}

	if err := s.SaveVariant(ctx, sampleVariant()); err != nil {
		t.Fatalf("failed to save variant: %v", err)
	}
	n, err := s.ClearVariants(ctx)
	if err != nil {
		t.Fatalf("failed to clear variants: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 cleared variant, got %d", n)
	}
}

func TestNormalization(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	v := sampleVariant()
	// Decomposed u + combining diaeresis must round-trip as composed form.
	v.Content = "Viele Grüße  "
	if err := s.SaveVariant(ctx, v); err != nil {
		t.Fatalf("failed to save variant: %v", err)
	}

	got, ok, err := s.GetVariant(ctx, v.TemplateID, v.Language, v.Formality)
	if err != nil || !ok {
		t.Fatalf("expected cache hit, ok=%v err=%v", ok, err)
	}
	if got.Content != "Viele Grüße" {
		t.Errorf("expected NFC-normalized trimmed content, got %q", got.Content)
	}
}
