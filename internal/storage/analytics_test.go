package storage

import (
	"context"
	"testing"

	"github.com/meltforce/gymtrack/internal/models"
)

// seedAnalytics logs sets for one exercise: 100kg and 105kg on day one,
// 110kg on day two. Returns the exercise id and the per-set ids in creation
// order.
func seedAnalytics(t *testing.T, s *Store) (exerciseID string, setIDs []string) {
	t.Helper()
	ctx := context.Background()

	ex, err := s.UpsertExercise(ctx, ExerciseInput{Name: "Bench Press"})
	if err != nil {
		t.Fatalf("create exercise: %v", err)
	}
	sess, err := s.CreateSession(ctx, nil, "")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	for _, sd := range []struct {
		stamp  string
		weight float64
	}{
		{"2026-08-01T10:00:00.000Z", 100},
		{"2026-08-01T10:05:00.000Z", 105},
		{"2026-08-02T10:00:00.000Z", 110},
	} {
		fixedClock(s, sd.stamp)
		set, err := s.AddSet(ctx, SetInput{SessionID: sess.ID, ExerciseID: ex.ID, Weight: sd.weight, Reps: 5})
		if err != nil {
			t.Fatalf("add set at %s: %v", sd.stamp, err)
		}
		setIDs = append(setIDs, set.ID)
	}
	return ex.ID, setIDs
}

// TestBestWeightByDate verifies the per-date max weight series in ascending
// date order.
func TestBestWeightByDate(t *testing.T) {
	s := newTestStore(t)
	exID, setIDs := seedAnalytics(t, s)

	points, err := s.BestWeightByDate(context.Background(), exID, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Date != "2026-08-01" || points[0].Value != 105 {
		t.Errorf("day one = %+v, want {2026-08-01 105}", points[0])
	}
	if points[1].Date != "2026-08-02" || points[1].Value != 110 {
		t.Errorf("day two = %+v, want {2026-08-02 110}", points[1])
	}
	if len(points[0].SetIDs) != 1 || points[0].SetIDs[0] != setIDs[1] {
		t.Errorf("day one set ids = %v, want the 105kg set", points[0].SetIDs)
	}
}

// TestBestWeightTieKeepsFirst verifies a later set that ties the day's max
// does not replace the recorded set id.
func TestBestWeightTieKeepsFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ex, err := s.UpsertExercise(ctx, ExerciseInput{Name: "Squat"})
	if err != nil {
		t.Fatalf("create exercise: %v", err)
	}
	sess, err := s.CreateSession(ctx, nil, "")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	fixedClock(s, "2026-08-05T10:00:00.000Z")
	first, err := s.AddSet(ctx, SetInput{SessionID: sess.ID, ExerciseID: ex.ID, Weight: 120, Reps: 3})
	if err != nil {
		t.Fatalf("add set: %v", err)
	}
	fixedClock(s, "2026-08-05T10:10:00.000Z")
	if _, err := s.AddSet(ctx, SetInput{SessionID: sess.ID, ExerciseID: ex.ID, Weight: 120, Reps: 3}); err != nil {
		t.Fatalf("add set: %v", err)
	}

	points, err := s.BestWeightByDate(ctx, ex.ID, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("got %d points, want 1", len(points))
	}
	if len(points[0].SetIDs) != 1 || points[0].SetIDs[0] != first.ID {
		t.Errorf("set ids = %v, want only the first 120kg set", points[0].SetIDs)
	}
}

// TestVolumeByDate verifies per-date volume sums.
func TestVolumeByDate(t *testing.T) {
	s := newTestStore(t)
	exID, _ := seedAnalytics(t, s)

	points, err := s.VolumeByDate(context.Background(), exID, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []models.SeriesPoint{
		{Date: "2026-08-01", Value: 100*5 + 105*5},
		{Date: "2026-08-02", Value: 110 * 5},
	}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, points[i], want[i])
		}
	}
}

// TestEst1RMByDate verifies per-date max of the stored Epley estimates.
func TestEst1RMByDate(t *testing.T) {
	s := newTestStore(t)
	exID, _ := seedAnalytics(t, s)

	points, err := s.Est1RMByDate(context.Background(), exID, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Value != models.Epley1RM(105, 5) {
		t.Errorf("day one = %v, want %v", points[0].Value, models.Epley1RM(105, 5))
	}
	if points[1].Value != models.Epley1RM(110, 5) {
		t.Errorf("day two = %v, want %v", points[1].Value, models.Epley1RM(110, 5))
	}
}

// TestAnalyticsEmptyRange verifies queries matching nothing return empty
// series, never an error.
func TestAnalyticsEmptyRange(t *testing.T) {
	s := newTestStore(t)
	exID, _ := seedAnalytics(t, s)
	ctx := context.Background()

	// Range after all data, and an unknown exercise.
	for _, tc := range []struct {
		name       string
		exerciseID string
		from, to   string
	}{
		{"future range", exID, "2027-01-01", "2027-12-31"},
		{"unknown exercise", "missing", "", ""},
	} {
		best, err := s.BestWeightByDate(ctx, tc.exerciseID, tc.from, tc.to)
		if err != nil || len(best) != 0 {
			t.Errorf("%s: best weight = (%v, %v), want empty and nil error", tc.name, best, err)
		}
		volume, err := s.VolumeByDate(ctx, tc.exerciseID, tc.from, tc.to)
		if err != nil || len(volume) != 0 {
			t.Errorf("%s: volume = (%v, %v), want empty and nil error", tc.name, volume, err)
		}
		est, err := s.Est1RMByDate(ctx, tc.exerciseID, tc.from, tc.to)
		if err != nil || len(est) != 0 {
			t.Errorf("%s: est1RM = (%v, %v), want empty and nil error", tc.name, est, err)
		}
	}
}

// TestAnalyticsRangeBounds verifies the [from, to] bounds are inclusive and
// compared as strings against the full timestamp.
func TestAnalyticsRangeBounds(t *testing.T) {
	s := newTestStore(t)
	exID, _ := seedAnalytics(t, s)

	points, err := s.VolumeByDate(context.Background(), exID,
		"2026-08-01T10:05:00.000Z", "2026-08-02T10:00:00.000Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []models.SeriesPoint{
		{Date: "2026-08-01", Value: 105 * 5},
		{Date: "2026-08-02", Value: 110 * 5},
	}
	if len(points) != len(want) || points[0] != want[0] || points[1] != want[1] {
		t.Errorf("points = %+v, want %+v", points, want)
	}
}
