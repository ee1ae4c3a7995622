package client

import (
	"context"
	"fmt"

	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
	appErrors "github.com/noah-isme/tapp-client/pkg/errors"
)

func (c *Client) fetchSessionsCore(ctx context.Context) ([]models.Session, error) {
	sessions, err := getJSON[[]models.Session](ctx, c.transport, c.rolePrefix()+"/sessions")
	if err != nil {
		return nil, wrapFetch(err, "sessions")
	}
	c.store.Sessions.ReplaceAll(sessions)
	return sessions, nil
}

// FetchSessions replaces the session list with the server's.
func (c *Client) FetchSessions(ctx context.Context) ([]models.Session, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]models.Session]{
		Name:        "fetch_sessions",
		Description: "fetching sessions",
		Run:         c.fetchSessionsCore,
		MapError:    notifyError("Error fetching sessions"),
	})
}

// UpsertSession creates or updates a session.
func (c *Client) UpsertSession(ctx context.Context, payload models.SessionUpsert) (models.Session, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[models.Session]{
		Name:        "upsert_session",
		Description: "upserting session",
		Run: func(ctx context.Context) (models.Session, error) {
			if err := c.validate.Struct(payload); err != nil {
				return models.Session{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
			}
			session, err := postJSON[models.Session](ctx, c.transport, c.rolePrefix()+"/sessions", payload)
			if err != nil {
				return models.Session{}, wrapUpsert(err, "session")
			}
			c.store.Sessions.UpsertOne(session)
			return session, nil
		},
		MapError: notifyError("Error upserting session"),
	})
}

// DeleteSession removes a session by id. Deleting the active session unsets
// it; the caller is expected to run the downstream cascade afterwards.
func (c *Client) DeleteSession(ctx context.Context, id int) error {
	_, err := dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[struct{}]{
		Name:        "delete_session",
		Description: "deleting session",
		Run: func(ctx context.Context) (struct{}, error) {
			if _, err := c.transport.Delete(ctx, fmt.Sprintf("%s/sessions/%d", c.rolePrefix(), id)); err != nil {
				return struct{}{}, wrapDelete(err, "session")
			}
			c.store.Sessions.DeleteOne(id)
			if c.store.ActiveSessionID() == id {
				c.store.UnsetActiveSession()
				c.store.ClearSessionData()
			}
			return struct{}{}, nil
		},
		MapError: notifyError("Error deleting session"),
	})
	return err
}
