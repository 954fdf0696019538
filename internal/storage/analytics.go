package storage

import (
	"context"
	"sort"

	"github.com/meltforce/gymtrack/internal/models"
)

// The analytics derivations share one shape: read an exercise's sets in
// creation order (optionally bounded by inclusive createdAt endpoints),
// group by the calendar-date portion of the timestamp, fold each group to
// one scalar, and return the series ascending by date. An empty match
// yields an empty series, never an error.

// BestWeightByDate returns the max weight seen per date. Replacement is
// strictly greater: a later set that ties the day's max does not take over
// the recorded set id.
func (s *Store) BestWeightByDate(ctx context.Context, exerciseID, from, to string) ([]models.BestWeightPoint, error) {
	sets, err := s.ListSetsByExercise(ctx, exerciseID, from, to)
	if err != nil {
		return nil, err
	}
	best := map[string]models.BestWeightPoint{}
	for _, set := range sets {
		d := models.DateOf(set.CreatedAt)
		if set.Weight > best[d].Value {
			best[d] = models.BestWeightPoint{Date: d, Value: set.Weight, SetIDs: []string{set.ID}}
		}
	}
	out := make([]models.BestWeightPoint, 0, len(best))
	for _, p := range best {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// VolumeByDate returns the summed volume of all sets per date.
func (s *Store) VolumeByDate(ctx context.Context, exerciseID, from, to string) ([]models.SeriesPoint, error) {
	sets, err := s.ListSetsByExercise(ctx, exerciseID, from, to)
	if err != nil {
		return nil, err
	}
	totals := map[string]float64{}
	for _, set := range sets {
		totals[models.DateOf(set.CreatedAt)] += set.Volume
	}
	return sortedSeries(totals), nil
}

// Est1RMByDate returns the max stored Epley estimate per date.
func (s *Store) Est1RMByDate(ctx context.Context, exerciseID, from, to string) ([]models.SeriesPoint, error) {
	sets, err := s.ListSetsByExercise(ctx, exerciseID, from, to)
	if err != nil {
		return nil, err
	}
	maxima := map[string]float64{}
	for _, set := range sets {
		d := models.DateOf(set.CreatedAt)
		if cur, ok := maxima[d]; !ok || set.Est1RM > cur {
			maxima[d] = set.Est1RM
		}
	}
	return sortedSeries(maxima), nil
}

func sortedSeries(byDate map[string]float64) []models.SeriesPoint {
	out := make([]models.SeriesPoint, 0, len(byDate))
	for date, value := range byDate {
		out = append(out, models.SeriesPoint{Date: date, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
