package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/meltforce/gymtrack/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "gym.db"), log)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestWriteCSV verifies the header, one row per set, the exercise name
// lookup, and the RPE column falling back to the felt label.
func TestWriteCSV(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ex, err := s.UpsertExercise(ctx, storage.ExerciseInput{Name: "Bench Press"})
	if err != nil {
		t.Fatalf("create exercise: %v", err)
	}
	sess, err := s.CreateSession(ctx, nil, "")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	rpe := 8.0
	withRPE, err := s.AddSet(ctx, storage.SetInput{SessionID: sess.ID, ExerciseID: ex.ID, Weight: 100, Reps: 5, RPE: &rpe})
	if err != nil {
		t.Fatalf("add set: %v", err)
	}
	felt := "hard"
	if _, err := s.AddSet(ctx, storage.SetInput{SessionID: sess.ID, ExerciseID: ex.ID, Weight: 102.5, Reps: 3, Felt: &felt}); err != nil {
		t.Fatalf("add set: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(ctx, s, &buf, Filter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus 2", len(rows))
	}
	if !reflect.DeepEqual(rows[0], CSVHeader) {
		t.Errorf("header = %v, want %v", rows[0], CSVHeader)
	}

	first := rows[1]
	if first[1] != "Bench Press" {
		t.Errorf("exercise column = %q, want %q", first[1], "Bench Press")
	}
	if first[2] != "100" || first[3] != "5" || first[4] != "8" {
		t.Errorf("weight/reps/RPE = %q/%q/%q, want 100/5/8", first[2], first[3], first[4])
	}
	if first[5] != "500" || first[6] != "116.67" {
		t.Errorf("volume/est1RM = %q/%q, want 500/116.67", first[5], first[6])
	}
	if first[7] != sess.ID || first[8] != withRPE.ID {
		t.Errorf("ids = %q/%q, want session and set ids", first[7], first[8])
	}

	if rows[2][4] != "hard" {
		t.Errorf("RPE column = %q, want felt fallback %q", rows[2][4], "hard")
	}
}

// TestWriteCSVFiltersAndUnknown verifies the exercise filter and the
// "Unknown" name for sets whose exercise was deleted.
func TestWriteCSVFiltersAndUnknown(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	kept, err := s.UpsertExercise(ctx, storage.ExerciseInput{Name: "Squat"})
	if err != nil {
		t.Fatalf("create exercise: %v", err)
	}
	gone, err := s.UpsertExercise(ctx, storage.ExerciseInput{Name: "Smith Squat"})
	if err != nil {
		t.Fatalf("create exercise: %v", err)
	}
	sess, err := s.CreateSession(ctx, nil, "")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := s.AddSet(ctx, storage.SetInput{SessionID: sess.ID, ExerciseID: kept.ID, Weight: 120, Reps: 5}); err != nil {
		t.Fatalf("add set: %v", err)
	}
	if _, err := s.AddSet(ctx, storage.SetInput{SessionID: sess.ID, ExerciseID: gone.ID, Weight: 80, Reps: 10}); err != nil {
		t.Fatalf("add set: %v", err)
	}
	if err := s.DeleteExercise(ctx, gone.ID); err != nil {
		t.Fatalf("delete exercise: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(ctx, s, &buf, Filter{ExerciseID: kept.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "Squat" {
		t.Fatalf("filtered export = %v, want only the Squat set", rows[1:])
	}

	buf.Reset()
	if err := WriteCSV(ctx, s, &buf, Filter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err = csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	var sawUnknown bool
	for _, row := range rows[1:] {
		if row[1] == "Unknown" {
			sawUnknown = true
		}
	}
	if !sawUnknown {
		t.Error("set of a deleted exercise must render as Unknown")
	}
}

// TestJSONRoundTrip verifies WriteJSON output parses back via ReadJSON
// and restores into another store.
func TestJSONRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ex, err := s.UpsertExercise(ctx, storage.ExerciseInput{Name: "Deadlift", MuscleGroup: "Back"})
	if err != nil {
		t.Fatalf("create exercise: %v", err)
	}
	snap, err := s.DumpAll(ctx)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, snap); err != nil {
		t.Fatalf("write: %v", err)
	}
	parsed, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(parsed.Meta, snap.Meta) {
		t.Errorf("meta = %+v, want %+v", parsed.Meta, snap.Meta)
	}
	if len(parsed.Exercises) != 1 || parsed.Exercises[0].ID != ex.ID {
		t.Errorf("exercises = %+v, want the dumped record", parsed.Exercises)
	}

	dst := newTestStore(t)
	if err := dst.ImportMerge(ctx, parsed); err != nil {
		t.Fatalf("import: %v", err)
	}
	got, err := dst.GetExercise(ctx, ex.ID)
	if err != nil || got == nil {
		t.Fatalf("restored exercise = (%v, %v), want present", got, err)
	}
	if got.Name != "Deadlift" {
		t.Errorf("restored name = %q, want %q", got.Name, "Deadlift")
	}
}

// TestReadJSONMalformed verifies garbage input is an error.
func TestReadJSONMalformed(t *testing.T) {
	if _, err := ReadJSON(bytes.NewBufferString("{not json")); err == nil {
		t.Fatal("expected error for malformed input")
	}
}
