package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/claude/formcoach/internal/coach"
	"github.com/claude/formcoach/internal/models"
	"github.com/claude/formcoach/internal/plan"
	"github.com/claude/formcoach/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) coachingContext(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	profile, err := h.ds.GetProfile(ctx, uid)
	if errors.Is(err, storage.ErrNotFound) {
		profile = &models.Profile{UserID: uid}
	} else if err != nil {
		return nil, err
	}

	ext, err := h.ds.GetExtendedProfile(ctx, uid)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.log.Warn("coaching_context: extended profile failed", "error", err)
	}

	sessions, err := h.ds.RecentSessions(ctx, uid, 5)
	if err != nil {
		h.log.Warn("coaching_context: session query failed", "error", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     coach.SystemMessage(*profile, ext, sessions),
		},
	}, nil
}

func (h *handlers) currentPlan(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	current, err := h.ds.GetCurrentPlan(ctx, uid)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(current)
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

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	catalog := map[string][]models.Exercise{}
	for _, name := range plan.TierNames() {
		catalog[name] = plan.Tier(name)
	}

	data, err := json.Marshal(catalog)
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
