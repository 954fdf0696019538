// Package mcp exposes the workout store to LLM clients over the Model
// Context Protocol: read-only tools for listing and progress analytics,
// plus a recent-sessions resource.
package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/gymtrack/internal/models"
	"github.com/meltforce/gymtrack/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. *storage.Store
// satisfies it.
type DataSource interface {
	ListExercises(ctx context.Context, search, group string) ([]models.Exercise, error)
	BestWeightByDate(ctx context.Context, exerciseID, from, to string) ([]models.BestWeightPoint, error)
	VolumeByDate(ctx context.Context, exerciseID, from, to string) ([]models.SeriesPoint, error)
	Est1RMByDate(ctx context.Context, exerciseID, from, to string) ([]models.SeriesPoint, error)
	ListSessionsByDateRange(ctx context.Context, from, to string) ([]models.Session, error)
	ListSetsBySession(ctx context.Context, sessionID string) ([]models.Set, error)
}

// Compile-time check: *storage.Store satisfies DataSource.
var _ DataSource = (*storage.Store)(nil)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("GymTrack", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("GymTrack workout log. Query exercises, workout sessions, logged sets, and per-exercise progress series (best weight, volume, estimated 1RM). All data belongs to the single local user."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetBestWeight, Handler: h.getBestWeight},
		server.ServerTool{Tool: toolGetVolume, Handler: h.getVolume},
		server.ServerTool{Tool: toolGetEst1RM, Handler: h.getEst1RM},
		server.ServerTool{Tool: toolGetSessions, Handler: h.getSessions},
		server.ServerTool{Tool: toolGetSessionSets, Handler: h.getSessionSets},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

var resRecentSessions = mcp.NewResource(
	"gymtrack://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Workout sessions from the last 14 days with their logged sets"),
	mcp.WithMIMEType("application/json"),
)
