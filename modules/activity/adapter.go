package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ActivityPort exposes the activity feed to other modules.
type ActivityPort interface {
	RecentActivity(ctx context.Context, ownerID string, limit int) ([]Entry, error)
}

// RecentActivityRequest is the request for the recent-activity service.
type RecentActivityRequest struct {
	OwnerID string `json:"owner_id"`
	Limit   int    `json:"limit"`
}

// RecentActivityResponse is the response from the recent-activity service.
type RecentActivityResponse struct {
	Entries []Entry `json:"entries"`
}

type activityAdapter struct {
	container mono.ServiceContainer
}

// NewActivityAdapter creates a new adapter for the activity service.
func NewActivityAdapter(container mono.ServiceContainer) ActivityPort {
	return &activityAdapter{
		container: container,
	}
}

func (a *activityAdapter) RecentActivity(ctx context.Context, ownerID string, limit int) ([]Entry, error) {
	req := RecentActivityRequest{OwnerID: ownerID, Limit: limit}
	var resp RecentActivityResponse
	err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"recent-activity",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	)
	if err != nil {
		return nil, fmt.Errorf("recent-activity service call failed: %w", err)
	}
	return resp.Entries, nil
}
