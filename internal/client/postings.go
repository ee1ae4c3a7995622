package client

import (
	"context"

	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
)

func (c *Client) fetchPostingsCore(ctx context.Context) ([]models.Posting, error) {
	return fetchSessionScoped(ctx, c, "postings", c.store.Postings.ReplaceAll)
}

// FetchPostings replaces the session's posting list.
func (c *Client) FetchPostings(ctx context.Context) ([]models.Posting, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]models.Posting]{
		Name:        "fetch_postings",
		Description: "fetching postings",
		Run:         c.fetchPostingsCore,
		MapError:    notifyError("Error fetching postings"),
	})
}

// FetchPostingPositions replaces the session's posting/position links.
func (c *Client) FetchPostingPositions(ctx context.Context) ([]models.PostingPosition, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]models.PostingPosition]{
		Name:        "fetch_posting_positions",
		Description: "fetching posting positions",
		Run: func(ctx context.Context) ([]models.PostingPosition, error) {
			return fetchSessionScoped(ctx, c, "posting_positions", c.store.PostingPositions.ReplaceAll)
		},
		MapError: notifyError("Error fetching posting positions"),
	})
}

// UpsertPosting creates or updates a posting in the active session.
func (c *Client) UpsertPosting(ctx context.Context, payload models.PostingUpsert) (models.Posting, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[models.Posting]{
		Name:        "upsert_posting",
		Description: "upserting posting",
		Run: func(ctx context.Context) (models.Posting, error) {
			return upsertSessionScoped[models.Posting](ctx, c, "postings", payload, c.store.Postings.UpsertOne)
		},
		MapError: notifyError("Error upserting posting"),
	})
}

// DeletePosting removes a posting by id.
func (c *Client) DeletePosting(ctx context.Context, id int) error {
	_, err := dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[struct{}]{
		Name:        "delete_posting",
		Description: "deleting posting",
		Run: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, deleteByID(ctx, c, "postings", id, c.store.Postings.DeleteOne)
		},
		MapError: notifyError("Error deleting posting"),
	})
	return err
}
