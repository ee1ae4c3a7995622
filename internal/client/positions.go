package client

import (
	"context"

	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
	"github.com/noah-isme/tapp-client/internal/view"
	"github.com/noah-isme/tapp-client/pkg/export"
)

func (c *Client) fetchPositionsCore(ctx context.Context) ([]models.Position, error) {
	return fetchSessionScoped(ctx, c, "positions", c.store.Positions.ReplaceAll)
}

// FetchPositions replaces the session's position list.
func (c *Client) FetchPositions(ctx context.Context) ([]models.Position, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]models.Position]{
		Name:        "fetch_positions",
		Description: "fetching positions",
		Run:         c.fetchPositionsCore,
		MapError:    notifyError("Error fetching positions"),
	})
}

// UpsertPosition creates or updates a position in the active session. Nested
// instructor or contract template objects are flattened to id fields before
// transmission.
func (c *Client) UpsertPosition(ctx context.Context, payload models.PositionUpsert) (models.Position, error) {
	payload.Flatten()
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[models.Position]{
		Name:        "upsert_position",
		Description: "upserting position",
		Run: func(ctx context.Context) (models.Position, error) {
			return upsertSessionScoped[models.Position](ctx, c, "positions", payload, c.store.Positions.UpsertOne)
		},
		MapError: notifyError("Error upserting position"),
	})
}

// UpsertPositions bulk-upserts positions and reconciles with a re-fetch.
func (c *Client) UpsertPositions(ctx context.Context, payloads []models.PositionUpsert) error {
	return upsertMany(ctx, func(ctx context.Context, p models.PositionUpsert) error {
		_, err := c.UpsertPosition(ctx, p)
		return err
	}, func(ctx context.Context) error {
		_, err := c.FetchPositions(ctx)
		return err
	}, payloads)
}

// DeletePosition removes a position by id.
func (c *Client) DeletePosition(ctx context.Context, id int) error {
	_, err := dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[struct{}]{
		Name:        "delete_position",
		Description: "deleting position",
		Run: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, deleteByID(ctx, c, "positions", id, c.store.Positions.DeleteOne)
		},
		MapError: notifyError("Error deleting position"),
	})
	return err
}

// ExportPositions re-fetches positions, reads them through the denormalizing
// selector and hands the rows to the injected formatter and renderer. The
// client has no knowledge of the output structure.
func (c *Client) ExportPositions(ctx context.Context, prepare func([]view.Position) export.Dataset, render export.Renderer) ([]byte, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]byte]{
		Name:        "export_positions",
		Description: "exporting positions",
		Run: func(ctx context.Context) ([]byte, error) {
			// Exports never trust cached state.
			if _, err := c.fetchPositionsCore(ctx); err != nil {
				return nil, err
			}
			if _, err := c.fetchInstructorsCore(ctx); err != nil {
				return nil, err
			}
			if _, err := c.fetchContractTemplatesCore(ctx); err != nil {
				return nil, err
			}
			return render.Render(prepare(c.graph.Positions()))
		},
	})
}
