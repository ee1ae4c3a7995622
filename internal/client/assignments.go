package client

import (
	"context"
	"fmt"

	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
	"github.com/noah-isme/tapp-client/internal/view"
	"github.com/noah-isme/tapp-client/pkg/export"
	appErrors "github.com/noah-isme/tapp-client/pkg/errors"
)

func (c *Client) fetchAssignmentsCore(ctx context.Context) ([]models.Assignment, error) {
	return fetchSessionScoped(ctx, c, "assignments", c.store.Assignments.ReplaceAll)
}

// FetchAssignments replaces the session's assignment list.
func (c *Client) FetchAssignments(ctx context.Context) ([]models.Assignment, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]models.Assignment]{
		Name:        "fetch_assignments",
		Description: "fetching assignments",
		Run:         c.fetchAssignmentsCore,
		MapError:    notifyError("Error fetching assignments"),
	})
}

func (c *Client) fetchAssignmentCore(ctx context.Context, id int) (models.Assignment, error) {
	assignment, err := getJSON[models.Assignment](ctx, c.transport, fmt.Sprintf("%s/assignments/%d", c.rolePrefix(), id))
	if err != nil {
		return models.Assignment{}, wrapFetch(err, "assignment")
	}
	c.store.Assignments.UpsertOne(assignment)
	return assignment, nil
}

// FetchAssignment fetches a single assignment and upserts it locally.
func (c *Client) FetchAssignment(ctx context.Context, id int) (models.Assignment, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[models.Assignment]{
		Name:        "fetch_assignment",
		Description: "fetching assignment",
		Run: func(ctx context.Context) (models.Assignment, error) {
			return c.fetchAssignmentCore(ctx, id)
		},
		MapError: notifyError("Error fetching assignment"),
	})
}

func (c *Client) upsertAssignmentCore(ctx context.Context, payload models.AssignmentUpsert) (models.Assignment, error) {
	payload.Flatten()
	if err := c.validate.Struct(payload); err != nil {
		return models.Assignment{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	path, _, err := c.sessionPath("assignments")
	if err != nil {
		return models.Assignment{}, err
	}
	assignment, err := postJSON[models.Assignment](ctx, c.transport, path, payload)
	if err != nil {
		return models.Assignment{}, wrapUpsert(err, "assignment")
	}

	if payload.WageChunks == nil {
		c.store.Assignments.UpsertOne(assignment)
		return assignment, nil
	}

	// Setting wage chunks changes the assignment's derived hours, so the
	// protocol is three sequential round trips: upsert the assignment, set
	// its chunks, then re-fetch the assignment and apply the refreshed
	// record.
	if err := c.setWageChunksCore(ctx, assignment.ID, payload.WageChunks); err != nil {
		return models.Assignment{}, err
	}
	refreshed, err := c.fetchAssignmentCore(ctx, assignment.ID)
	if err != nil {
		return models.Assignment{}, err
	}
	return refreshed, nil
}

// UpsertAssignment creates or updates an assignment. When the payload
// carries wage chunks the upsert runs the three-step protocol and the
// returned record reflects the hours derived from the new chunks.
func (c *Client) UpsertAssignment(ctx context.Context, payload models.AssignmentUpsert) (models.Assignment, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[models.Assignment]{
		Name:        "upsert_assignment",
		Description: "upserting assignment",
		Run: func(ctx context.Context) (models.Assignment, error) {
			return c.upsertAssignmentCore(ctx, payload)
		},
		MapError: notifyError("Error upserting assignment"),
	})
}

// UpsertAssignments bulk-upserts assignments and reconciles with a re-fetch.
func (c *Client) UpsertAssignments(ctx context.Context, payloads []models.AssignmentUpsert) error {
	return upsertMany(ctx, func(ctx context.Context, p models.AssignmentUpsert) error {
		_, err := c.UpsertAssignment(ctx, p)
		return err
	}, func(ctx context.Context) error {
		_, err := c.FetchAssignments(ctx)
		return err
	}, payloads)
}

// DeleteAssignment removes an assignment by id.
func (c *Client) DeleteAssignment(ctx context.Context, id int) error {
	_, err := dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[struct{}]{
		Name:        "delete_assignment",
		Description: "deleting assignment",
		Run: func(ctx context.Context) (struct{}, error) {
			err := deleteByID(ctx, c, "assignments", id, c.store.Assignments.DeleteOne)
			if err == nil {
				c.store.WageChunksByAssignment.Delete(id)
				c.store.OffersByAssignment.Delete(id)
			}
			return struct{}{}, err
		},
		MapError: notifyError("Error deleting assignment"),
	})
	return err
}

// ExportAssignments re-fetches the collections backing the assignment view
// and hands the denormalized rows to the injected formatter and renderer.
func (c *Client) ExportAssignments(ctx context.Context, prepare func([]view.Assignment) export.Dataset, render export.Renderer) ([]byte, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]byte]{
		Name:        "export_assignments",
		Description: "exporting assignments",
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
			return render.Render(prepare(c.graph.Assignments()))
		},
	})
}
