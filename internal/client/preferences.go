package client

import (
	"context"
	"fmt"

	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
)

func (c *Client) fetchPreferencesCore(ctx context.Context) ([]models.InstructorPreference, error) {
	return fetchSessionScoped(ctx, c, "instructor_preferences", c.store.Preferences.ReplaceAll)
}

// FetchInstructorPreferences replaces the session's instructor preferences.
func (c *Client) FetchInstructorPreferences(ctx context.Context) ([]models.InstructorPreference, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]models.InstructorPreference]{
		Name:        "fetch_instructor_preferences",
		Description: "fetching instructor preferences",
		Run:         c.fetchPreferencesCore,
		MapError:    notifyError("Error fetching instructor preferences"),
	})
}

// UpsertInstructorPreference creates or updates a preference. Preferences
// are keyed by the (application, position) pair, so an upsert for an
// existing pair replaces it.
func (c *Client) UpsertInstructorPreference(ctx context.Context, payload models.InstructorPreference) (models.InstructorPreference, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[models.InstructorPreference]{
		Name:        "upsert_instructor_preference",
		Description: "upserting instructor preference",
		Run: func(ctx context.Context) (models.InstructorPreference, error) {
			pref, err := postJSON[models.InstructorPreference](ctx, c.transport, c.rolePrefix()+"/instructor_preferences", payload)
			if err != nil {
				return models.InstructorPreference{}, wrapUpsert(err, "instructor preference")
			}
			c.store.Preferences.UpsertOne(pref)
			return pref, nil
		},
		MapError: notifyError("Error upserting instructor preference"),
	})
}

// DeleteInstructorPreference removes the preference for an (application,
// position) pair.
func (c *Client) DeleteInstructorPreference(ctx context.Context, key models.PreferenceKey) error {
	_, err := dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[struct{}]{
		Name:        "delete_instructor_preference",
		Description: "deleting instructor preference",
		Run: func(ctx context.Context) (struct{}, error) {
			path := fmt.Sprintf("%s/applications/%d/instructor_preferences/%d", c.rolePrefix(), key.ApplicationID, key.PositionID)
			if _, err := c.transport.Delete(ctx, path); err != nil {
				return struct{}{}, wrapDelete(err, "instructor preference")
			}
			c.store.Preferences.DeleteOne(key)
			return struct{}{}, nil
		},
		MapError: notifyError("Error deleting instructor preference"),
	})
	return err
}
