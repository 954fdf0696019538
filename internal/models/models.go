// Package models defines the persisted record types of the GymTrack store
// and the derived-metric formulas shared by the data layer and its consumers.
package models

import (
	"encoding/json"
	"math"
	"time"
)

// TimeLayout is the persisted timestamp format: UTC with fixed millisecond
// precision, so timestamps are string-comparable and the calendar date is
// the first 10 bytes.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Stamp formats a time as a persisted timestamp string.
func Stamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// DateOf returns the calendar-date portion of a timestamp string.
// No timezone conversion is performed; the date is whatever the
// timestamp itself encodes.
func DateOf(stamp string) string {
	if len(stamp) < 10 {
		return stamp
	}
	return stamp[:10]
}

// Exercise is a named movement. Name is unique across the store.
type Exercise struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup"`
	Notes       string `json:"notes"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// TemplateItem prescribes one exercise within a template. The exercise
// reference is weak: it may dangle after the exercise is deleted.
type TemplateItem struct {
	ExerciseID string `json:"exerciseId"`
	TargetSets int    `json:"targetSets"`
	TargetReps int    `json:"targetReps"`
	Notes      string `json:"notes,omitempty"`
}

// Template is a reusable workout program: an ordered list of prescribed
// exercises.
type Template struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Notes     string         `json:"notes"`
	Items     []TemplateItem `json:"items"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

// Session is one workout instance. Date is the immutable start marker;
// TemplateID is nullable and weak.
type Session struct {
	ID         string  `json:"id"`
	Date       string  `json:"date"`
	TemplateID *string `json:"templateId"`
	Notes      string  `json:"notes"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// Set is one logged set. Index is the 1-based ordinal among sets for the
// same (session, exercise) pair at creation time. Volume and Est1RM are
// computed once at creation and stored, never recomputed on read. A set is
// immutable except by deletion.
type Set struct {
	ID         string   `json:"id"`
	SessionID  string   `json:"sessionId"`
	ExerciseID string   `json:"exerciseId"`
	Index      int      `json:"index"`
	Weight     float64  `json:"weight"`
	Reps       int      `json:"reps"`
	RPE        *float64 `json:"rpe"`
	Felt       *string  `json:"felt"`
	Volume     float64  `json:"volume"`
	Est1RM     float64  `json:"est1RM"`
	CreatedAt  string   `json:"createdAt"`
}

// Setting is one user-preference entry. Value is kept as raw JSON so a
// dump/import round trip preserves it byte for byte regardless of type.
type Setting struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// SnapshotMeta tags an exported snapshot with its origin.
type SnapshotMeta struct {
	DB         string `json:"db"`
	Version    uint   `json:"version"`
	ExportedAt string `json:"exportedAt"`
}

// Snapshot is a whole-store dump. On import every collection is optional
// and defaults to empty.
type Snapshot struct {
	Meta      SnapshotMeta `json:"meta"`
	Exercises []Exercise   `json:"exercises"`
	Templates []Template   `json:"templates"`
	Sessions  []Session    `json:"sessions"`
	Sets      []Set        `json:"sets"`
	Settings  []Setting    `json:"settings"`
}

// SeriesPoint is one entry of a per-date analytics series.
type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// BestWeightPoint is a SeriesPoint that also records which set(s) produced
// the day's best weight. Ties keep the first set seen in creation order.
type BestWeightPoint struct {
	Date   string   `json:"date"`
	Value  float64  `json:"value"`
	SetIDs []string `json:"setIds"`
}

// Volume returns weight × reps.
func Volume(weight float64, reps int) float64 {
	return weight * float64(reps)
}

// Epley1RM estimates a one-rep max via the Epley formula
// weight × (1 + reps/30), rounded to two decimal places.
func Epley1RM(weight float64, reps int) float64 {
	return math.Round(weight*(1+float64(reps)/30)*100) / 100
}
