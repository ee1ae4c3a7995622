package client

import (
	"context"
	"fmt"

	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
	appErrors "github.com/noah-isme/tapp-client/pkg/errors"
)

func (c *Client) fetchInstructorsCore(ctx context.Context) ([]models.Instructor, error) {
	instructors, err := getJSON[[]models.Instructor](ctx, c.transport, c.rolePrefix()+"/instructors")
	if err != nil {
		return nil, wrapFetch(err, "instructors")
	}
	c.store.Instructors.ReplaceAll(instructors)
	return instructors, nil
}

// FetchInstructors replaces the instructor list. Instructors are role-scoped
// but not session-scoped.
func (c *Client) FetchInstructors(ctx context.Context) ([]models.Instructor, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]models.Instructor]{
		Name:        "fetch_instructors",
		Description: "fetching instructors",
		Run:         c.fetchInstructorsCore,
		MapError:    notifyError("Error fetching instructors"),
	})
}

// FetchInstructorsPropagate is the variant used by the initialization
// cascade, which handles the failure itself rather than routing it through a
// notification.
func (c *Client) FetchInstructorsPropagate(ctx context.Context) ([]models.Instructor, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]models.Instructor]{
		Name:        "fetch_instructors",
		Description: "fetching instructors",
		Run:         c.fetchInstructorsCore,
	})
}

// UpsertInstructor creates or updates an instructor.
func (c *Client) UpsertInstructor(ctx context.Context, payload models.InstructorUpsert) (models.Instructor, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[models.Instructor]{
		Name:        "upsert_instructor",
		Description: "upserting instructor",
		Run: func(ctx context.Context) (models.Instructor, error) {
			if err := c.validate.Struct(payload); err != nil {
				return models.Instructor{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
			}
			instructor, err := postJSON[models.Instructor](ctx, c.transport, c.rolePrefix()+"/instructors", payload)
			if err != nil {
				return models.Instructor{}, wrapUpsert(err, "instructor")
			}
			c.store.Instructors.UpsertOne(instructor)
			return instructor, nil
		},
		MapError: notifyError("Error upserting instructor"),
	})
}

// DeleteInstructor removes an instructor by id.
func (c *Client) DeleteInstructor(ctx context.Context, id int) error {
	_, err := dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[struct{}]{
		Name:        "delete_instructor",
		Description: "deleting instructor",
		Run: func(ctx context.Context) (struct{}, error) {
			if _, err := c.transport.Delete(ctx, fmt.Sprintf("%s/instructors/%d", c.rolePrefix(), id)); err != nil {
				return struct{}{}, wrapDelete(err, "instructor")
			}
			c.store.Instructors.DeleteOne(id)
			return struct{}{}, nil
		},
		MapError: notifyError("Error deleting instructor"),
	})
	return err
}
