// Package export formats store contents for the backup/export collaborator:
// an indented JSON snapshot for backup/restore, and a flattened CSV of the
// set log for spreadsheet use.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/meltforce/gymtrack/internal/models"
	"github.com/meltforce/gymtrack/internal/storage"
)

// CSVHeader is the column order of the flattened set log.
var CSVHeader = []string{"date", "exercise", "weight", "reps", "RPE", "volume", "est1RM", "sessionId", "setId"}

// Filter narrows which sets are exported. ExerciseID filters by exercise;
// From/To bound the owning session's date (inclusive, ISO-8601 strings).
type Filter struct {
	ExerciseID string
	From       string
	To         string
}

// WriteCSV walks sessions in date order and streams their sets as CSV rows.
// The RPE column falls back to the qualitative felt label when no RPE was
// recorded; sets whose exercise has been deleted render as "Unknown".
func WriteCSV(ctx context.Context, s *storage.Store, w io.Writer, f Filter) error {
	sessions, err := s.ListSessionsByDateRange(ctx, f.From, f.To)
	if err != nil {
		return err
	}
	exercises, err := s.ListExercises(ctx, "", "")
	if err != nil {
		return err
	}
	names := make(map[string]string, len(exercises))
	for _, e := range exercises {
		names[e.ID] = e.Name
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, sess := range sessions {
		sets, err := s.ListSetsBySession(ctx, sess.ID)
		if err != nil {
			return err
		}
		for _, set := range sets {
			if f.ExerciseID != "" && set.ExerciseID != f.ExerciseID {
				continue
			}
			if err := cw.Write(setRow(names, set)); err != nil {
				return fmt.Errorf("writing csv row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func setRow(names map[string]string, set models.Set) []string {
	name, ok := names[set.ExerciseID]
	if !ok {
		name = "Unknown"
	}
	intensity := ""
	if set.RPE != nil {
		intensity = formatFloat(*set.RPE)
	} else if set.Felt != nil {
		intensity = *set.Felt
	}
	return []string{
		set.CreatedAt,
		name,
		formatFloat(set.Weight),
		strconv.Itoa(set.Reps),
		intensity,
		formatFloat(set.Volume),
		formatFloat(set.Est1RM),
		set.SessionID,
		set.ID,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteJSON writes a snapshot as indented JSON, the backup file format.
func WriteJSON(w io.Writer, snap *models.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// ReadJSON parses a backup file into a snapshot for ImportMerge.
func ReadJSON(r io.Reader) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}
