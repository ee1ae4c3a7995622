package client

import (
	"context"

	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
)

func (c *Client) fetchApplicantsCore(ctx context.Context) ([]models.Applicant, error) {
	return fetchSessionScoped(ctx, c, "applicants", c.store.Applicants.ReplaceAll)
}

// FetchApplicants replaces the session's applicant list.
func (c *Client) FetchApplicants(ctx context.Context) ([]models.Applicant, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]models.Applicant]{
		Name:        "fetch_applicants",
		Description: "fetching applicants",
		Run:         c.fetchApplicantsCore,
		MapError:    notifyError("Error fetching applicants"),
	})
}

// UpsertApplicant creates or updates an applicant in the active session.
func (c *Client) UpsertApplicant(ctx context.Context, payload models.ApplicantUpsert) (models.Applicant, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[models.Applicant]{
		Name:        "upsert_applicant",
		Description: "upserting applicant",
		Run: func(ctx context.Context) (models.Applicant, error) {
			return upsertSessionScoped[models.Applicant](ctx, c, "applicants", payload, c.store.Applicants.UpsertOne)
		},
		MapError: notifyError("Error upserting applicant"),
	})
}

// UpsertApplicants bulk-upserts applicants and reconciles with a re-fetch.
func (c *Client) UpsertApplicants(ctx context.Context, payloads []models.ApplicantUpsert) error {
	return upsertMany(ctx, func(ctx context.Context, p models.ApplicantUpsert) error {
		_, err := c.UpsertApplicant(ctx, p)
		return err
	}, func(ctx context.Context) error {
		_, err := c.FetchApplicants(ctx)
		return err
	}, payloads)
}

// DeleteApplicant removes an applicant by id.
func (c *Client) DeleteApplicant(ctx context.Context, id int) error {
	_, err := dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[struct{}]{
		Name:        "delete_applicant",
		Description: "deleting applicant",
		Run: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, deleteByID(ctx, c, "applicants", id, c.store.Applicants.DeleteOne)
		},
		MapError: notifyError("Error deleting applicant"),
	})
	return err
}
