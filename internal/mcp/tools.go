package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/gymtrack/internal/models"
)

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List exercises with id, name, muscle group, and notes. The id is the key for the analytics tools."),
	mcp.WithString("search", mcp.Description("Substring filter on name or muscle group")),
	mcp.WithString("group", mcp.Description("Exact muscle group filter (e.g. 'Chest', 'Back')")),
)

var toolGetBestWeight = mcp.NewTool("get_best_weight",
	mcp.WithDescription("Per-date best (max) weight for an exercise, ascending by date. Each point names the set that produced the day's max."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise id (from list_exercises)")),
	mcp.WithString("from", mcp.Description("Inclusive ISO-8601 lower bound on set creation time")),
	mcp.WithString("to", mcp.Description("Inclusive ISO-8601 upper bound on set creation time")),
)

var toolGetVolume = mcp.NewTool("get_volume",
	mcp.WithDescription("Per-date total training volume (sum of weight × reps) for an exercise, ascending by date."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise id (from list_exercises)")),
	mcp.WithString("from", mcp.Description("Inclusive ISO-8601 lower bound on set creation time")),
	mcp.WithString("to", mcp.Description("Inclusive ISO-8601 upper bound on set creation time")),
)

var toolGetEst1RM = mcp.NewTool("get_est_1rm",
	mcp.WithDescription("Per-date best estimated one-rep max (Epley: weight × (1 + reps/30)) for an exercise, ascending by date."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise id (from list_exercises)")),
	mcp.WithString("from", mcp.Description("Inclusive ISO-8601 lower bound on set creation time")),
	mcp.WithString("to", mcp.Description("Inclusive ISO-8601 upper bound on set creation time")),
)

var toolGetSessions = mcp.NewTool("get_sessions",
	mcp.WithDescription("List workout sessions in a date range, ascending by date."),
	mcp.WithString("from", mcp.Description("Inclusive ISO-8601 lower bound on session date")),
	mcp.WithString("to", mcp.Description("Inclusive ISO-8601 upper bound on session date")),
)

var toolGetSessionSets = mcp.NewTool("get_session_sets",
	mcp.WithDescription("List the sets logged in one session, in set order: weight, reps, RPE/felt, volume, estimated 1RM."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id (from get_sessions)")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.ListExercises(ctx, req.GetString("search", ""), req.GetString("group", ""))
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(exercises)
}

func (h *handlers) getBestWeight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	points, err := h.ds.BestWeightByDate(ctx, exerciseID, req.GetString("from", ""), req.GetString("to", ""))
	if err != nil {
		h.log.Error("mcp get_best_weight", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(points)
}

func (h *handlers) getVolume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	points, err := h.ds.VolumeByDate(ctx, exerciseID, req.GetString("from", ""), req.GetString("to", ""))
	if err != nil {
		h.log.Error("mcp get_volume", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(points)
}

func (h *handlers) getEst1RM(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	points, err := h.ds.Est1RMByDate(ctx, exerciseID, req.GetString("from", ""), req.GetString("to", ""))
	if err != nil {
		h.log.Error("mcp get_est_1rm", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(points)
}

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.ds.ListSessionsByDateRange(ctx, req.GetString("from", ""), req.GetString("to", ""))
	if err != nil {
		h.log.Error("mcp get_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(sessions)
}

func (h *handlers) getSessionSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	sets, err := h.ds.ListSetsBySession(ctx, sessionID)
	if err != nil {
		h.log.Error("mcp get_session_sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(sets)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Resource handlers ---

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	from := models.Stamp(time.Now().AddDate(0, 0, -14))

	sessions, err := h.ds.ListSessionsByDateRange(ctx, from, "")
	if err != nil {
		return nil, err
	}

	type sessionWithSets struct {
		models.Session
		Sets []models.Set `json:"sets"`
	}
	out := make([]sessionWithSets, 0, len(sessions))
	for _, sess := range sessions {
		sets, err := h.ds.ListSetsBySession(ctx, sess.ID)
		if err != nil {
			h.log.Warn("recent_sessions: set query failed", "session", sess.ID, "error", err)
			sets = []models.Set{}
		}
		out = append(out, sessionWithSets{Session: sess, Sets: sets})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
