package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Backend *api.Client
	Client  *mongo.Client // audit database; nil when not configured
	Log     *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(backend *api.Client, client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{
		Backend: backend,
		Client:  client,
		Log:     logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Backend  string `json:"backend"`
	Database string `json:"database"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "backend":"reachable", "database":"connected" }
//
// The backend counts as reachable when it answers at all; any HTTP status
// proves the service is up. On failure: 503 with status "error".
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Backend:  "reachable",
		Database: "disabled",
	}

	if _, err := h.Backend.Do(ctx, api.Anonymous{}, api.Request{Method: http.MethodGet, Path: "courses"}, nil); err != nil {
		var ae *api.Error
		if !errors.As(err, &ae) {
			h.Log.Error("health-check: backend unreachable", zap.Error(err))
			resp.Status = "error"
			resp.Backend = "unreachable"
			resp.Message = "Backend unavailable"
			resp.Error = err.Error()
		}
	}

	if h.Client != nil {
		resp.Database = "connected"
		if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
			h.Log.Error("health-check: mongo ping failed", zap.Error(err))
			resp.Status = "error"
			resp.Database = "disconnected"
			if resp.Message == "" {
				resp.Message = "Database unavailable"
				resp.Error = err.Error()
			}
		}
	}

	if resp.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}
