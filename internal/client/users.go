package client

import (
	"context"

	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
)

func (c *Client) fetchActiveUserCore(ctx context.Context) (models.User, error) {
	user, err := getJSON[models.User](ctx, c.transport, "/active_user")
	if err != nil {
		return models.User{}, wrapFetch(err, "active user")
	}
	c.store.SetActiveUser(user)
	return user, nil
}

// FetchActiveUser looks up the server-authenticated identity and records it.
func (c *Client) FetchActiveUser(ctx context.Context) (models.User, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[models.User]{
		Name:        "fetch_active_user",
		Description: "fetching active user",
		Run:         c.fetchActiveUserCore,
		MapError:    notifyError("Error fetching active user"),
	})
}

// FetchUsers lists all users (admin only).
func (c *Client) FetchUsers(ctx context.Context) ([]models.User, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[[]models.User]{
		Name:        "fetch_users",
		Description: "fetching users",
		Run: func(ctx context.Context) ([]models.User, error) {
			users, err := getJSON[[]models.User](ctx, c.transport, c.rolePrefix()+"/users")
			if err != nil {
				return nil, wrapFetch(err, "users")
			}
			return users, nil
		},
		MapError: notifyError("Error fetching users"),
	})
}

// UpsertUser creates or updates a user's role set (admin only).
func (c *Client) UpsertUser(ctx context.Context, user models.User) (models.User, error) {
	return dispatcher.Do(ctx, c.dispatch, dispatcher.Operation[models.User]{
		Name:        "upsert_user",
		Description: "upserting user",
		Run: func(ctx context.Context) (models.User, error) {
			updated, err := postJSON[models.User](ctx, c.transport, c.rolePrefix()+"/users", user)
			if err != nil {
				return models.User{}, wrapUpsert(err, "user")
			}
			return updated, nil
		},
		MapError: notifyError("Error upserting user"),
	})
}
