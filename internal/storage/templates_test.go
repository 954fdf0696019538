package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/meltforce/gymtrack/internal/models"
)

// TestUpsertTemplateValidation verifies an empty name is rejected with no
// write.
func TestUpsertTemplateValidation(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpsertTemplate(context.Background(), TemplateInput{Name: " "})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

// TestUpsertTemplateRoundTrip verifies items survive the JSON column intact
// and in order.
func TestUpsertTemplateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	items := []models.TemplateItem{
		{ExerciseID: "ex-1", TargetSets: 5, TargetReps: 5},
		{ExerciseID: "ex-2", TargetSets: 3, TargetReps: 8, Notes: "paused"},
	}
	tpl, err := s.UpsertTemplate(ctx, TemplateInput{Name: "5x5 A", Items: items})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetTemplate(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("template not found after create")
	}
	if len(got.Items) != 2 || got.Items[0].ExerciseID != "ex-1" || got.Items[1].Notes != "paused" {
		t.Errorf("items = %+v, want original two in order", got.Items)
	}
}

// TestUpsertTemplateNotFound verifies updating a nonexistent template id
// fails with not-found.
func TestUpsertTemplateNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpsertTemplate(context.Background(), TemplateInput{ID: "missing", Name: "X"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// TestDuplicateTemplate verifies duplication copies fields under a fresh id,
// appends the copy marker, and resets both timestamps to now.
func TestDuplicateTemplate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	fixedClock(s, "2026-01-01T08:00:00.000Z", "2026-02-01T08:00:00.000Z")

	tpl, err := s.UpsertTemplate(ctx, TemplateInput{
		Name:  "Push Day",
		Notes: "heavy",
		Items: []models.TemplateItem{{ExerciseID: "ex-1", TargetSets: 4, TargetReps: 6}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	copy, err := s.DuplicateTemplate(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if copy.ID == tpl.ID {
		t.Error("duplicate must get a fresh id")
	}
	if copy.Name != "Push Day (Copy)" {
		t.Errorf("name = %q, want %q", copy.Name, "Push Day (Copy)")
	}
	if copy.Notes != tpl.Notes || len(copy.Items) != 1 {
		t.Error("duplicate must copy notes and items")
	}
	if copy.CreatedAt != "2026-02-01T08:00:00.000Z" || copy.UpdatedAt != copy.CreatedAt {
		t.Errorf("timestamps = (%q, %q), want both reset to now", copy.CreatedAt, copy.UpdatedAt)
	}

	if _, err := s.DuplicateTemplate(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("duplicating missing template: err = %v, want ErrNotFound", err)
	}
}

// TestDeleteExerciseStripsTemplateItems verifies the fan-out cleanup:
// deleting a referenced exercise removes exactly its entries from each
// template, leaves other entries and createdAt untouched, and bumps
// updatedAt. Templates without a reference stay unmodified.
func TestDeleteExerciseStripsTemplateItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	fixedClock(s,
		"2026-03-01T08:00:00.000Z", // exercise
		"2026-03-01T08:01:00.000Z", // referencing template
		"2026-03-01T08:02:00.000Z", // unrelated template
		"2026-03-02T09:00:00.000Z", // cleanup
	)

	ex, err := s.UpsertExercise(ctx, ExerciseInput{Name: "Overhead Press"})
	if err != nil {
		t.Fatalf("create exercise: %v", err)
	}
	referencing, err := s.UpsertTemplate(ctx, TemplateInput{
		Name: "Push Day",
		Items: []models.TemplateItem{
			{ExerciseID: ex.ID, TargetSets: 3, TargetReps: 8},
			{ExerciseID: "other-ex", TargetSets: 3, TargetReps: 12},
		},
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	unrelated, err := s.UpsertTemplate(ctx, TemplateInput{
		Name:  "Leg Day",
		Items: []models.TemplateItem{{ExerciseID: "other-ex", TargetSets: 5, TargetReps: 5}},
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	if err := s.DeleteExercise(ctx, ex.ID); err != nil {
		t.Fatalf("delete exercise: %v", err)
	}

	got, err := s.GetTemplate(ctx, referencing.ID)
	if err != nil {
		t.Fatalf("get template: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].ExerciseID != "other-ex" {
		t.Errorf("items = %+v, want only the other-ex entry", got.Items)
	}
	if got.CreatedAt != referencing.CreatedAt {
		t.Error("cleanup must not touch createdAt")
	}
	if got.UpdatedAt == referencing.UpdatedAt {
		t.Error("cleanup must bump updatedAt")
	}

	untouched, err := s.GetTemplate(ctx, unrelated.ID)
	if err != nil {
		t.Fatalf("get template: %v", err)
	}
	if untouched.UpdatedAt != unrelated.UpdatedAt {
		t.Error("template without a reference must stay unmodified")
	}
}

// TestDeleteTemplate verifies deletion and that a subsequent get reports
// absent.
func TestDeleteTemplate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tpl, err := s.UpsertTemplate(ctx, TemplateInput{Name: "Temp"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.DeleteTemplate(ctx, tpl.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := s.GetTemplate(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Error("template still present after delete")
	}
}
