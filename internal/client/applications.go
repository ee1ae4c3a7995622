package client

import (
	"context"

	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
)

func (c *Client) fetchApplicationsCore(ctx context.Context) ([]models.Application, error) {
	return fetchSessionScoped(ctx, c, "applications", c.store.Applications.ReplaceAll)
}

// FetchApplications replaces the session's application list.
func (c *Client) FetchApplications(ctx context.Context) ([]models.Application, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]models.Application]{
		Name:        "fetch_applications",
		Description: "fetching applications",
		Run:         c.fetchApplicationsCore,
		MapError:    notifyError("Error fetching applications"),
	})
}

// UpsertApplication creates or updates an application. Nested applicant or
// position objects are flattened to id fields before transmission.
func (c *Client) UpsertApplication(ctx context.Context, payload models.ApplicationUpsert) (models.Application, error) {
	payload.Flatten()
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[models.Application]{
		Name:        "upsert_application",
		Description: "upserting application",
		Run: func(ctx context.Context) (models.Application, error) {
			return upsertSessionScoped[models.Application](ctx, c, "applications", payload, c.store.Applications.UpsertOne)
		},
		MapError: notifyError("Error upserting application"),
	})
}

// DeleteApplication removes an application by id.
func (c *Client) DeleteApplication(ctx context.Context, id int) error {
	_, err := dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[struct{}]{
		Name:        "delete_application",
		Description: "deleting application",
		Run: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, deleteByID(ctx, c, "applications", id, c.store.Applications.DeleteOne)
		},
		MapError: notifyError("Error deleting application"),
	})
	return err
}
