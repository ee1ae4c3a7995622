package client

import (
	"context"
	"fmt"

	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
	"github.com/noah-isme/tapp-client/internal/view"
	"github.com/noah-isme/tapp-client/pkg/export"
)

func (c *Client) fetchDdahsCore(ctx context.Context) ([]models.Ddah, error) {
	return fetchSessionScoped(ctx, c, "ddahs", c.store.Ddahs.ReplaceAll)
}

// FetchDdahs replaces the session's DDAH list.
func (c *Client) FetchDdahs(ctx context.Context) ([]models.Ddah, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]models.Ddah]{
		Name:        "fetch_ddahs",
		Description: "fetching ddahs",
		Run:         c.fetchDdahsCore,
		MapError:    notifyError("Error fetching ddahs"),
	})
}

// UpsertDdah creates or updates a DDAH form. Editing the duty set of a form
// that was already accepted or emailed clears its sign-off server side; the
// record applied here reflects that.
func (c *Client) UpsertDdah(ctx context.Context, payload models.DdahUpsert) (models.Ddah, error) {
	payload.Flatten()
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[models.Ddah]{
		Name:        "upsert_ddah",
		Description: "upserting ddah",
		Run: func(ctx context.Context) (models.Ddah, error) {
			return upsertSessionScoped[models.Ddah](ctx, c, "ddahs", payload, c.store.Ddahs.UpsertOne)
		},
		MapError: notifyError("Error upserting ddah"),
	})
}

// UpsertDdahs bulk-upserts DDAH forms and reconciles with a re-fetch.
func (c *Client) UpsertDdahs(ctx context.Context, payloads []models.DdahUpsert) error {
	return upsertMany(ctx, func(ctx context.Context, p models.DdahUpsert) error {
		_, err := c.UpsertDdah(ctx, p)
		return err
	}, func(ctx context.Context) error {
		_, err := c.FetchDdahs(ctx)
		return err
	}, payloads)
}

// DeleteDdah removes a DDAH form by id.
func (c *Client) DeleteDdah(ctx context.Context, id int) error {
	_, err := dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[struct{}]{
		Name:        "delete_ddah",
		Description: "deleting ddah",
		Run: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, deleteByID(ctx, c, "ddahs", id, c.store.Ddahs.DeleteOne)
		},
		MapError: notifyError("Error deleting ddah"),
	})
	return err
}

// ddahVerb posts one lifecycle verb against a DDAH and applies the updated
// record.
func (c *Client) ddahVerb(ctx context.Context, id int, verb string) (models.Ddah, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[models.Ddah]{
		Name:        "ddah_" + verb,
		Description: fmt.Sprintf("%s ddah", verb),
		Run: func(ctx context.Context) (models.Ddah, error) {
			ddah, err := postJSON[models.Ddah](ctx, c.transport, fmt.Sprintf("%s/ddahs/%d/%s", c.rolePrefix(), id, verb), nil)
			if err != nil {
				return models.Ddah{}, wrapUpsert(err, "ddah")
			}
			c.store.Ddahs.UpsertOne(ddah)
			return ddah, nil
		},
		MapError: notifyError(fmt.Sprintf("Error trying to %s ddah", verb)),
	})
}

// EmailDdah emails the form to the TA for acceptance.
func (c *Client) EmailDdah(ctx context.Context, id int) (models.Ddah, error) {
	return c.ddahVerb(ctx, id, "email")
}

// ApproveDdah records supervisor approval of an accepted form.
func (c *Client) ApproveDdah(ctx context.Context, id int) (models.Ddah, error) {
	return c.ddahVerb(ctx, id, "approve")
}

// ExportDdahs re-fetches the collections backing the DDAH view and hands the
// denormalized rows to the injected formatter and renderer.
func (c *Client) ExportDdahs(ctx context.Context, prepare func([]view.Ddah) export.Dataset, render export.Renderer) ([]byte, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]byte]{
		Name:        "export_ddahs",
		Description: "exporting ddahs",
		Run: func(ctx context.Context) ([]byte, error) {
			if _, err := c.fetchApplicantsCore(ctx); err != nil {
				return nil, err
			}
			if _, err := c.fetchPositionsCore(ctx); err != nil {
				return nil, err
			}
			if _, err := c.fetchAssignmentsCore(ctx); err != nil {
				return nil, err
			}
			if _, err := c.fetchDdahsCore(ctx); err != nil {
				return nil, err
			}
			return render.Render(prepare(c.graph.Ddahs()))
		},
	})
}
