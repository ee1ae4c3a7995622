package client

import (
	"context"
	"fmt"

	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
	appErrors "github.com/noah-isme/tapp-client/pkg/errors"
)

// FetchWageChunks loads the wage chunks of one assignment into the
// per-assignment index. The index is keyed by assignment, so the view layer
// can tell "not fetched for this assignment" apart from "fetched and empty".
func (c *Client) FetchWageChunks(ctx context.Context, assignmentID int) ([]models.WageChunk, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]models.WageChunk]{
		Name:        "fetch_wage_chunks",
		Description: "fetching wage chunks",
		Run: func(ctx context.Context) ([]models.WageChunk, error) {
			chunks, err := getJSON[[]models.WageChunk](ctx, c.transport, fmt.Sprintf("%s/assignments/%d/wage_chunks", c.rolePrefix(), assignmentID))
			if err != nil {
				return nil, wrapFetch(err, "wage chunks")
			}
			c.store.WageChunksByAssignment.Set(assignmentID, chunks)
			return chunks, nil
		},
		MapError: notifyError("Error fetching wage chunks"),
	})
}

func (c *Client) setWageChunksCore(ctx context.Context, assignmentID int, payloads []models.WageChunkUpsert) error {
	for _, p := range payloads {
		if err := c.validate.Struct(p); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid wage chunk payload")
		}
	}
	chunks, err := postJSON[[]models.WageChunk](ctx, c.transport, fmt.Sprintf("%s/assignments/%d/wage_chunks", c.rolePrefix(), assignmentID), payloads)
	if err != nil {
		return wrapUpsert(err, "wage chunks")
	}
	c.store.WageChunksByAssignment.Set(assignmentID, chunks)
	return nil
}

// SetWageChunks replaces the wage chunks of one assignment.
func (c *Client) SetWageChunks(ctx context.Context, assignmentID int, payloads []models.WageChunkUpsert) error {
	_, err := dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[struct{}]{
		Name:        "set_wage_chunks",
		Description: "setting wage chunks",
		Run: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.setWageChunksCore(ctx, assignmentID, payloads)
		},
		MapError: notifyError("Error setting wage chunks"),
	})
	return err
}
